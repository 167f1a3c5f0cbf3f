package config

// TelegramConfig Telegram 通知配置
type TelegramConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	BotToken string `json:"bot_token" yaml:"bot_token"`
	ChatID   string `json:"chat_id" yaml:"chat_id"`
	Timeout  int    `json:"timeout" yaml:"timeout"` // seconds
	APIBase  string `json:"api_base" yaml:"api_base"`
}

// NewTelegramConfig 创建 Telegram 配置，使用环境变量填充默认值
func NewTelegramConfig() *TelegramConfig {
	return &TelegramConfig{
		Enabled:  getEnvBool("TELEGRAM_ENABLED", false),
		BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		Timeout:  getEnvInt("TELEGRAM_TIMEOUT", 10),
		APIBase:  getEnv("TELEGRAM_API_BASE", "https://api.telegram.org"),
	}
}

// Validate 验证 Telegram 配置
func (tc *TelegramConfig) Validate() error {
	if !tc.Enabled {
		return nil
	}
	if tc.BotToken == "" || tc.ChatID == "" {
		return ErrMissingRequired
	}
	if tc.Timeout <= 0 {
		tc.Timeout = 10
	}
	return nil
}
