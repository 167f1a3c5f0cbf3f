package config

import "time"

// DefaultUserAgent mirrors a current desktop Chrome on Windows
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// BrowserConfig 浏览器会话配置
type BrowserConfig struct {
	Headless     bool              `json:"headless" yaml:"headless"`
	ChromePath   string            `json:"chrome_path" yaml:"chrome_path"`
	UserAgent    string            `json:"user_agent" yaml:"user_agent"`
	WindowWidth  int               `json:"window_width" yaml:"window_width"`
	WindowHeight int               `json:"window_height" yaml:"window_height"`
	Stealth      bool              `json:"stealth" yaml:"stealth"`
	ExtraHeaders map[string]string `json:"extra_headers" yaml:"extra_headers"`

	NavigationTimeout      int `json:"navigation_timeout" yaml:"navigation_timeout"`             // seconds
	SelectorTimeout        int `json:"selector_timeout" yaml:"selector_timeout"`                 // seconds
	PaginationProbeTimeout int `json:"pagination_probe_timeout" yaml:"pagination_probe_timeout"` // seconds

	MinDelayMs int `json:"min_delay_ms" yaml:"min_delay_ms"`
	MaxDelayMs int `json:"max_delay_ms" yaml:"max_delay_ms"`
	KeyDelayMs int `json:"key_delay_ms" yaml:"key_delay_ms"`

	MaxPaginationAttempts int `json:"max_pagination_attempts" yaml:"max_pagination_attempts"`
	MaxMissingProbes      int `json:"max_missing_probes" yaml:"max_missing_probes"`
}

// NewBrowserConfig 创建浏览器配置，使用环境变量填充默认值
func NewBrowserConfig() *BrowserConfig {
	return &BrowserConfig{
		Headless:     getEnvBool("BROWSER_HEADLESS", true),
		ChromePath:   getEnv("BROWSER_CHROME_PATH", ""),
		UserAgent:    getEnv("BROWSER_USER_AGENT", DefaultUserAgent),
		WindowWidth:  1920,
		WindowHeight: 1080,
		Stealth:      getEnvBool("BROWSER_STEALTH", true),
		ExtraHeaders: map[string]string{
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
			"Accept-Language":           "en-GB,en;q=0.9",
			"Upgrade-Insecure-Requests": "1",
		},
		NavigationTimeout:      getEnvInt("BROWSER_NAVIGATION_TIMEOUT", 45),
		SelectorTimeout:        getEnvInt("BROWSER_SELECTOR_TIMEOUT", 10),
		PaginationProbeTimeout: 5,
		MinDelayMs:             500,
		MaxDelayMs:             2000,
		KeyDelayMs:             100,
		MaxPaginationAttempts:  10,
		MaxMissingProbes:       3,
	}
}

// NavigationTimeoutDuration returns the navigation budget
func (bc *BrowserConfig) NavigationTimeoutDuration() time.Duration {
	return time.Duration(bc.NavigationTimeout) * time.Second
}

// SelectorTimeoutDuration returns the default per-selector wait budget
func (bc *BrowserConfig) SelectorTimeoutDuration() time.Duration {
	return time.Duration(bc.SelectorTimeout) * time.Second
}

// PaginationProbeDuration returns the wait used when probing for "show more"
func (bc *BrowserConfig) PaginationProbeDuration() time.Duration {
	return time.Duration(bc.PaginationProbeTimeout) * time.Second
}

// DelayRange returns the humanized inter-action delay bounds
func (bc *BrowserConfig) DelayRange() (time.Duration, time.Duration) {
	return time.Duration(bc.MinDelayMs) * time.Millisecond, time.Duration(bc.MaxDelayMs) * time.Millisecond
}

// KeyDelay returns the base delay between typed characters
func (bc *BrowserConfig) KeyDelay() time.Duration {
	return time.Duration(bc.KeyDelayMs) * time.Millisecond
}
