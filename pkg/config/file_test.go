package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// 测试默认配置
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)

	require.NotNil(t, cfg.Browser)
	require.NotNil(t, cfg.Site)
	require.NotNil(t, cfg.Site.Selectors)
	assert.Equal(t, "https://driverpracticaltest.dvsa.gov.uk/login", cfg.Site.LoginURL())
	assert.Equal(t, "#driving-licence-number", cfg.Site.Selectors.LicenceNumber[0])
	assert.GreaterOrEqual(t, cfg.Browser.NavigationTimeout, 30)
	assert.NoError(t, cfg.ValidateConfig())
}

func TestSaveAndLoadConfig(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "test_config.yaml")

	originalConfig := DefaultConfig()
	originalConfig.Server.Port = 9001
	originalConfig.App.LogLevel = "debug"
	originalConfig.Site.Selectors.SlotContainer = []string{".new-slot"}

	require.NoError(t, SaveConfig(originalConfig, tempFile))

	loadedConfig, err := LoadConfig(tempFile)
	require.NoError(t, err)

	assert.Equal(t, 9001, loadedConfig.Server.Port)
	assert.Equal(t, "debug", loadedConfig.App.LogLevel)
	assert.Equal(t, []string{".new-slot"}, loadedConfig.Site.Selectors.SlotContainer)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "partial.yaml")
	content := []byte(`
server:
  port: 4000
site:
  base_url: https://example.test
  selectors:
    version: "2025-01"
    slot_container: [".slot-v2"]
`)
	require.NoError(t, os.WriteFile(tempFile, content, 0644))

	cfg, err := LoadConfig(tempFile)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "2025-01", cfg.Site.Selectors.Version)
	assert.Equal(t, []string{".slot-v2"}, cfg.Site.Selectors.SlotContainer)
	// lists missing from the file fall back to the built-in set
	assert.Equal(t, DefaultSelectors().SlotDate, cfg.Site.Selectors.SlotDate)
	assert.NotNil(t, cfg.Browser)
	assert.NotEmpty(t, cfg.Site.BlockSignatures)
	// fields of a partly filled section keep their defaults
	assert.Equal(t, "https://example.test/login", cfg.Site.LoginURL())
}

func TestPartialSectionKeepsFieldDefaults(t *testing.T) {
	defaults := DefaultConfig()

	for _, name := range []string{"partial.yaml", "partial.json"} {
		t.Run(name, func(t *testing.T) {
			tempFile := filepath.Join(t.TempDir(), name)
			content := []byte("site:\n  base_url: https://example.test\nbrowser:\n  headless: false\n")
			if filepath.Ext(name) == ".json" {
				content = []byte(`{"site": {"base_url": "https://example.test"}, "browser": {"headless": false}}`)
			}
			require.NoError(t, os.WriteFile(tempFile, content, 0644))

			cfg, err := LoadConfig(tempFile)
			require.NoError(t, err)

			assert.False(t, cfg.Browser.Headless)
			assert.Equal(t, "https://example.test/login", cfg.Site.LoginURL())
			assert.Equal(t, defaults.Browser.NavigationTimeout, cfg.Browser.NavigationTimeout)
			assert.Equal(t, defaults.Browser.MaxPaginationAttempts, cfg.Browser.MaxPaginationAttempts)
			assert.Equal(t, defaults.Browser.MaxMissingProbes, cfg.Browser.MaxMissingProbes)
			assert.Equal(t, defaults.Browser.KeyDelayMs, cfg.Browser.KeyDelayMs)
			assert.Equal(t, defaults.Browser.Stealth, cfg.Browser.Stealth)
			assert.Equal(t, defaults.Browser.ExtraHeaders, cfg.Browser.ExtraHeaders)
			assert.NoError(t, cfg.ValidateConfig())
		})
	}
}

func TestSelectorsFileOverride(t *testing.T) {
	dir := t.TempDir()
	selectorsFile := filepath.Join(dir, "selectors.yaml")
	require.NoError(t, os.WriteFile(selectorsFile, []byte(`
version: "2025-06"
licence_number: ["#licence-v3"]
`), 0644))

	t.Setenv("DVSA_SELECTORS_FILE", selectorsFile)

	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "2025-06", cfg.Site.Selectors.Version)
	assert.Equal(t, []string{"#licence-v3"}, cfg.Site.Selectors.LicenceNumber)
	assert.Equal(t, DefaultSelectors().Submit, cfg.Site.Selectors.Submit)
}

func TestConfigWithEnvVars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, SaveConfig(DefaultConfig(), path))

	t.Setenv("SERVER_PORT", "9002")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("DVSA_BASE_URL", "https://staging.example.test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9002, cfg.Server.Port)
	assert.Equal(t, 5, cfg.RateLimit.MaxRequests)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "https://staging.example.test/login", cfg.Site.LoginURL())
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "navigation timeout below floor",
			mutate:  func(c *Config) { c.Browser.NavigationTimeout = 10 },
			wantErr: ErrBrowserConfig,
		},
		{
			name:    "inverted delay range",
			mutate:  func(c *Config) { c.Browser.MinDelayMs, c.Browser.MaxDelayMs = 2000, 500 },
			wantErr: ErrBrowserConfig,
		},
		{
			name:    "bad base url",
			mutate:  func(c *Config) { c.Site.BaseURL = "not a url" },
			wantErr: ErrSiteConfig,
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: ErrServerConfig,
		},
		{
			name: "watch job with bad cron",
			mutate: func(c *Config) {
				c.Watch.Enabled = true
				c.Watch.Jobs = []WatchJob{{Name: "a", Cron: "every now and then", LicenceNumber: "X", SecondNumber: "1"}}
			},
			wantErr: ErrWatchConfig,
		},
		{
			name: "watch job with descriptor",
			mutate: func(c *Config) {
				c.Watch.Enabled = true
				c.Watch.Jobs = []WatchJob{{Name: "a", Cron: "@every 30m", LicenceNumber: "X", SecondNumber: "1"}}
			},
		},
		{
			name: "telegram enabled without token",
			mutate: func(c *Config) {
				c.Telegram.Enabled = true
				c.Telegram.BotToken = ""
			},
			wantErr: ErrTelegramConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.ValidateConfig()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
