package config

import "time"

// ServerConfig represents server configuration settings
type ServerConfig struct {
	Port                    int      `json:"port" yaml:"port"`
	Address                 string   `json:"address" yaml:"address"`
	Mode                    string   `json:"mode" yaml:"mode"` // gin mode: debug, release, test
	AllowedOrigins          []string `json:"allowed_origins" yaml:"allowed_origins"`
	GracefulShutdownTimeout int      `json:"graceful_shutdown_timeout" yaml:"graceful_shutdown_timeout"` // seconds
	EnableSwagger           bool     `json:"enable_swagger" yaml:"enable_swagger"`
}

// RateLimitConfig limits requests per client IP under /api
type RateLimitConfig struct {
	Enabled     bool `json:"enabled" yaml:"enabled"`
	Window      int  `json:"window" yaml:"window"` // seconds
	MaxRequests int  `json:"max_requests" yaml:"max_requests"`
}

// AppConfig represents application configuration settings
type AppConfig struct {
	LogLevel    string `json:"log_level" yaml:"log_level"`
	LogFile     string `json:"log_file" yaml:"log_file"`
	Environment string `json:"environment" yaml:"environment"` // development, production
}

// NewServerConfig creates a server configuration with default values populated from environment variables
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:                    getEnvInt("PORT", getEnvInt("SERVER_PORT", 3000)),
		Address:                 getEnv("SERVER_ADDRESS", "0.0.0.0"),
		Mode:                    getEnv("GIN_MODE", "release"),
		AllowedOrigins:          parseStringList(getEnv("SERVER_ALLOWED_ORIGINS", "*")),
		GracefulShutdownTimeout: getEnvInt("SERVER_SHUTDOWN_TIMEOUT", 30),
		EnableSwagger:           getEnvBool("SERVER_ENABLE_SWAGGER", true),
	}
}

// NewRateLimitConfig 默认 15 分钟内每个 IP 最多 100 次请求
func NewRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Enabled:     getEnvBool("RATE_LIMIT_ENABLED", true),
		Window:      getEnvInt("RATE_LIMIT_WINDOW", 15*60),
		MaxRequests: getEnvInt("RATE_LIMIT_MAX", 100),
	}
}

// NewAppConfig creates an application configuration with default values populated from environment variables
func NewAppConfig() *AppConfig {
	return &AppConfig{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", ""),
		Environment: getEnv("APP_ENV", "production"),
	}
}

// ShutdownTimeout returns the graceful shutdown budget
func (sc *ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(sc.GracefulShutdownTimeout) * time.Second
}

// WindowDuration returns the rate-limit window
func (rc *RateLimitConfig) WindowDuration() time.Duration {
	return time.Duration(rc.Window) * time.Second
}

// IsDevelopment reports whether the development logger should be used
func (ac *AppConfig) IsDevelopment() bool {
	return ac.Environment == "development"
}
