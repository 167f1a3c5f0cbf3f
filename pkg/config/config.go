package config

import (
	"os"
	"strconv"
	"strings"
)

// Config 主配置结构体
type Config struct {
	Server    *ServerConfig    `json:"server" yaml:"server"`
	RateLimit *RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
	Browser   *BrowserConfig   `json:"browser" yaml:"browser"`
	Site      *SiteConfig      `json:"site" yaml:"site"`
	Telegram  *TelegramConfig  `json:"telegram" yaml:"telegram"`
	Watch     *WatchConfig     `json:"watch" yaml:"watch"`
	App       *AppConfig       `json:"app" yaml:"app"`
}

// DefaultConfig 获取默认配置，所有配置项都使用各自的默认值
func DefaultConfig() *Config {
	return &Config{
		Server:    NewServerConfig(),
		RateLimit: NewRateLimitConfig(),
		Browser:   NewBrowserConfig(),
		Site:      NewSiteConfig(),
		Telegram:  NewTelegramConfig(),
		Watch:     NewWatchConfig(),
		App:       NewAppConfig(),
	}
}

// fillDefaults 为文件中缺失的配置段补充默认值
func (c *Config) fillDefaults() {
	if c.Server == nil {
		c.Server = NewServerConfig()
	}
	if c.RateLimit == nil {
		c.RateLimit = NewRateLimitConfig()
	}
	if c.Browser == nil {
		c.Browser = NewBrowserConfig()
	}
	if c.Site == nil {
		c.Site = NewSiteConfig()
	}
	if c.Site.Selectors == nil {
		c.Site.Selectors = DefaultSelectors()
	} else {
		c.Site.Selectors = c.Site.Selectors.MergedOver(DefaultSelectors())
	}
	if len(c.Site.BlockSignatures) == 0 {
		c.Site.BlockSignatures = DefaultBlockSignatures()
	}
	if c.Telegram == nil {
		c.Telegram = NewTelegramConfig()
	}
	if c.Watch == nil {
		c.Watch = NewWatchConfig()
	}
	if c.App == nil {
		c.App = NewAppConfig()
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func parseStringList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
