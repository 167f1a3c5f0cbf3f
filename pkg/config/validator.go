package config

import (
	"fmt"
	"net/url"

	"github.com/robfig/cron/v3"
)

// ValidateConfig 验证完整的配置
func (c *Config) ValidateConfig() error {
	c.fillDefaults()

	if err := c.validateServerConfig(); err != nil {
		return fmt.Errorf("%w: %v", ErrServerConfig, err)
	}

	if err := c.validateBrowserConfig(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConfig, err)
	}

	if err := c.validateSiteConfig(); err != nil {
		return fmt.Errorf("%w: %v", ErrSiteConfig, err)
	}

	if err := c.Telegram.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrTelegramConfig, err)
	}

	if err := c.validateWatchConfig(); err != nil {
		return fmt.Errorf("%w: %v", ErrWatchConfig, err)
	}

	return nil
}

// validateServerConfig 验证服务和限流配置
func (c *Config) validateServerConfig() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port必须在1-65535范围内", ErrInvalidValue)
	}

	if c.Server.Mode != "" && !isValidValue(c.Server.Mode, []string{"debug", "release", "test"}) {
		return fmt.Errorf("%w: mode必须是debug、release或test", ErrInvalidValue)
	}

	if c.Server.GracefulShutdownTimeout <= 0 {
		c.Server.GracefulShutdownTimeout = 30
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("%w: rate_limit.window必须大于0", ErrInvalidValue)
		}
		if c.RateLimit.MaxRequests <= 0 {
			return fmt.Errorf("%w: rate_limit.max_requests必须大于0", ErrInvalidValue)
		}
	}

	return nil
}

// validateBrowserConfig 验证浏览器配置，超时不得低于站点处理所需的下限
func (c *Config) validateBrowserConfig() error {
	bc := c.Browser

	if bc.NavigationTimeout < 30 {
		return fmt.Errorf("%w: navigation_timeout不能小于30秒", ErrInvalidValue)
	}

	if bc.SelectorTimeout <= 0 {
		bc.SelectorTimeout = 10
	}

	if bc.PaginationProbeTimeout <= 0 {
		bc.PaginationProbeTimeout = 5
	}

	if bc.MinDelayMs < 0 || bc.MaxDelayMs < bc.MinDelayMs {
		return fmt.Errorf("%w: min_delay_ms/max_delay_ms", ErrInvalidValue)
	}

	if bc.MaxPaginationAttempts <= 0 {
		return fmt.Errorf("%w: max_pagination_attempts必须大于0", ErrInvalidValue)
	}

	if bc.MaxMissingProbes <= 0 {
		bc.MaxMissingProbes = 1
	}

	if bc.WindowWidth <= 0 || bc.WindowHeight <= 0 {
		bc.WindowWidth, bc.WindowHeight = 1920, 1080
	}

	if bc.UserAgent == "" {
		bc.UserAgent = DefaultUserAgent
	}

	return nil
}

// validateSiteConfig 验证站点地址和选择器
func (c *Config) validateSiteConfig() error {
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base_url %q", ErrInvalidValue, c.Site.BaseURL)
	}

	s := c.Site.Selectors
	required := map[string][]string{
		"licence_number":        s.LicenceNumber,
		"application_reference": s.ApplicationReference,
		"theory_pass_number":    s.TheoryPassNumber,
		"submit":                s.Submit,
		"slot_container":        s.SlotContainer,
	}
	for name, list := range required {
		if len(list) == 0 {
			return fmt.Errorf("%w: selectors.%s", ErrMissingRequired, name)
		}
	}

	for i, sig := range c.Site.BlockSignatures {
		if sig.Match == "" || sig.Message == "" {
			return fmt.Errorf("%w: block_signatures[%d]", ErrMissingRequired, i)
		}
	}

	return nil
}

// validateWatchConfig 验证定时检查配置
func (c *Config) validateWatchConfig() error {
	if !c.Watch.Enabled {
		return nil
	}

	for i := range c.Watch.Jobs {
		if err := c.Watch.Jobs[i].Validate(); err != nil {
			return fmt.Errorf("job[%d]: %w", i, err)
		}
	}

	return nil
}

// 工具函数：检查值是否在有效列表中
func isValidValue(value string, validValues []string) bool {
	for _, valid := range validValues {
		if value == valid {
			return true
		}
	}
	return false
}

// 工具函数：使用 cron 标准解析器校验表达式（支持 @every 等描述符）
func isValidCronExpression(expr string) bool {
	if expr == "" {
		return false
	}
	_, err := cron.ParseStandard(expr)
	return err == nil
}
