package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfig 从指定路径加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	// 如果配置文件不存在，返回默认配置
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := applySelectorsFile(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigNotFound, err)
	}

	// 在默认配置上解码，文件中未出现的字段保留默认值
	config := DefaultConfig()
	ext := filepath.Ext(configPath)

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: JSON parsing failed: %v", ErrInvalidFormat, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: YAML parsing failed: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config file format: %s", ErrInvalidFormat, ext)
	}

	config.fillDefaults()
	mergeEnvVars(config)

	if err := applySelectorsFile(config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *Config, configPath string) error {
	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	ext := filepath.Ext(configPath)
	var data []byte
	var err error

	switch ext {
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		return fmt.Errorf("%w: unsupported config file format: %s", ErrInvalidFormat, ext)
	}

	if err != nil {
		return fmt.Errorf("config serialization failed: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getDefaultConfigPath 获取默认配置文件路径
func getDefaultConfigPath() string {
	// 优先级：当前目录 > 用户配置目录 > 系统配置目录
	paths := []string{
		"./config.yaml",
		"./config.json",
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(homeDir, ".dvsacheck", "config.yaml"),
			filepath.Join(homeDir, ".dvsacheck", "config.json"),
		)
	}

	paths = append(paths,
		"/etc/dvsacheck/config.yaml",
		"/etc/dvsacheck/config.json",
	)

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "./config.yaml"
}

// applySelectorsFile 如果配置了独立的选择器文件，用它覆盖内置选择器
func applySelectorsFile(config *Config) error {
	if config.Site == nil || config.Site.SelectorsFile == "" {
		return nil
	}
	selectors, err := LoadSelectorFile(config.Site.SelectorsFile, config.Site.Selectors)
	if err != nil {
		return fmt.Errorf("failed to load selectors file %s: %w", config.Site.SelectorsFile, err)
	}
	config.Site.Selectors = selectors
	return nil
}

// mergeEnvVars 将环境变量合并到配置中
func mergeEnvVars(config *Config) {
	mergeServerEnvVars(config)
	mergeBrowserEnvVars(config)
	mergeSiteEnvVars(config)
	mergeTelegramEnvVars(config)
	mergeAppEnvVars(config)
}

// mergeServerEnvVars 合并Server和限流环境变量
func mergeServerEnvVars(config *Config) {
	if port := getEnvInt("PORT", getEnvInt("SERVER_PORT", 0)); port != 0 {
		config.Server.Port = port
	}
	if address := os.Getenv("SERVER_ADDRESS"); address != "" {
		config.Server.Address = address
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		config.Server.Mode = mode
	}
	if origins := os.Getenv("SERVER_ALLOWED_ORIGINS"); origins != "" {
		config.Server.AllowedOrigins = parseStringList(origins)
	}

	if enabled := os.Getenv("RATE_LIMIT_ENABLED"); enabled != "" {
		config.RateLimit.Enabled = enabled == "true" || enabled == "1"
	}
	if window := getEnvInt("RATE_LIMIT_WINDOW", 0); window != 0 {
		config.RateLimit.Window = window
	}
	if maxRequests := getEnvInt("RATE_LIMIT_MAX", 0); maxRequests != 0 {
		config.RateLimit.MaxRequests = maxRequests
	}
}

// mergeBrowserEnvVars 合并浏览器环境变量
func mergeBrowserEnvVars(config *Config) {
	bc := config.Browser

	if headless := os.Getenv("BROWSER_HEADLESS"); headless != "" {
		bc.Headless = headless == "true" || headless == "1"
	}
	if stealth := os.Getenv("BROWSER_STEALTH"); stealth != "" {
		bc.Stealth = stealth == "true" || stealth == "1"
	}

	envMappings := map[string]interface{}{
		"BROWSER_CHROME_PATH":        &bc.ChromePath,
		"BROWSER_USER_AGENT":         &bc.UserAgent,
		"BROWSER_NAVIGATION_TIMEOUT": &bc.NavigationTimeout,
		"BROWSER_SELECTOR_TIMEOUT":   &bc.SelectorTimeout,
	}
	applyEnvMappings(envMappings)
}

// mergeSiteEnvVars 合并站点环境变量
func mergeSiteEnvVars(config *Config) {
	applyEnvMappings(map[string]interface{}{
		"DVSA_BASE_URL":       &config.Site.BaseURL,
		"DVSA_LOGIN_PATH":     &config.Site.LoginPath,
		"DVSA_SELECTORS_FILE": &config.Site.SelectorsFile,
	})
}

// mergeTelegramEnvVars 合并Telegram环境变量
func mergeTelegramEnvVars(config *Config) {
	tc := config.Telegram

	applyEnvMappings(map[string]interface{}{
		"TELEGRAM_BOT_TOKEN": &tc.BotToken,
		"TELEGRAM_CHAT_ID":   &tc.ChatID,
		"TELEGRAM_TIMEOUT":   &tc.Timeout,
		"TELEGRAM_API_BASE":  &tc.APIBase,
	})

	if enabled := os.Getenv("TELEGRAM_ENABLED"); enabled != "" {
		tc.Enabled = enabled == "true" || enabled == "1"
	}
}

// mergeAppEnvVars 合并App环境变量
func mergeAppEnvVars(config *Config) {
	applyEnvMappings(map[string]interface{}{
		"LOG_LEVEL": &config.App.LogLevel,
		"LOG_FILE":  &config.App.LogFile,
		"APP_ENV":   &config.App.Environment,
	})
}

func applyEnvMappings(envMappings map[string]interface{}) {
	for envKey, fieldPtr := range envMappings {
		value := os.Getenv(envKey)
		if value == "" {
			continue
		}
		switch ptr := fieldPtr.(type) {
		case *int:
			if intVal := getEnvInt(envKey, 0); intVal != 0 {
				*ptr = intVal
			}
		case *string:
			*ptr = value
		}
	}
}
