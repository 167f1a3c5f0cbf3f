package handlers

import (
	"fmt"
	"time"
)

// sanitizeConfig 返回不含敏感信息的配置摘要
func (h *HandlerService) sanitizeConfig() map[string]interface{} {
	cfg := h.config
	if cfg == nil {
		return map[string]interface{}{}
	}

	summary := map[string]interface{}{}
	if cfg.Site != nil {
		site := map[string]interface{}{
			"login_url": cfg.Site.LoginURL(),
		}
		if cfg.Site.Selectors != nil {
			site["selectors_version"] = cfg.Site.Selectors.Version
		}
		summary["site"] = site
	}
	if cfg.Browser != nil {
		summary["browser"] = map[string]interface{}{
			"headless":           cfg.Browser.Headless,
			"stealth":            cfg.Browser.Stealth,
			"navigation_timeout": cfg.Browser.NavigationTimeout,
		}
	}
	if cfg.RateLimit != nil {
		summary["rate_limit"] = map[string]interface{}{
			"enabled":      cfg.RateLimit.Enabled,
			"window":       cfg.RateLimit.WindowDuration().String(),
			"max_requests": cfg.RateLimit.MaxRequests,
		}
	}
	if cfg.Telegram != nil {
		summary["telegram"] = map[string]interface{}{
			"enabled":   cfg.Telegram.Enabled,
			"bot_token": maskSecret(cfg.Telegram.BotToken),
		}
	}
	if cfg.Watch != nil {
		summary["watch"] = map[string]interface{}{
			"enabled": cfg.Watch.Enabled,
			"jobs":    len(cfg.Watch.Jobs),
		}
	}
	return summary
}

// maskSecret 隐藏密钥的中间部分
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) > 12 {
		return secret[:4] + "***" + secret[len(secret)-4:]
	}
	return "***"
}

// formatDuration 格式化时间段为可读字符串
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d.Nanoseconds())/1e6)
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

// getCurrentTimestamp 获取当前UTC时间戳
func getCurrentTimestamp() time.Time {
	return time.Now().UTC()
}
