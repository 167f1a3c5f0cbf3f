package config

import "errors"

// Configuration-related error definitions using sentinel errors pattern
var (
	// Generic errors
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrInvalidFormat  = errors.New("invalid configuration file format")

	// Configuration validation errors
	ErrMissingRequired = errors.New("missing required configuration item")
	ErrInvalidValue    = errors.New("invalid configuration value")

	// Section errors
	ErrServerConfig   = errors.New("server configuration error")
	ErrBrowserConfig  = errors.New("browser configuration error")
	ErrSiteConfig     = errors.New("site configuration error")
	ErrTelegramConfig = errors.New("telegram notification configuration error")
	ErrWatchConfig    = errors.New("watch configuration error")
	ErrInvalidCron    = errors.New("invalid Cron expression")
)
