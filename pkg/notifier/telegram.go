package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"dvsacheck/pkg/config"
	"dvsacheck/pkg/dvsa"
	"dvsacheck/pkg/logger"
)

// maxSlotsInMessage caps the slot lines in one alert; Telegram rejects messages over 4096 chars
const maxSlotsInMessage = 20

// TelegramNotifier handles Telegram notifications
type TelegramNotifier struct {
	config     *config.TelegramConfig
	httpClient *http.Client
}

// TelegramMessage represents a message to be sent via Telegram
type TelegramMessage struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

// TelegramResponse represents Telegram API response
type TelegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	ErrorCode   int    `json:"error_code,omitempty"`
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(cfg *config.TelegramConfig) *TelegramNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10
	}
	return &TelegramNotifier{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

// SendMessage sends a message via Telegram
func (t *TelegramNotifier) SendMessage(ctx context.Context, message string) error {
	if !t.config.Enabled {
		logger.Debug("Telegram notifications disabled")
		return nil
	}

	if err := t.ValidateConfig(); err != nil {
		return err
	}

	return t.sendTelegramMessage(ctx, &TelegramMessage{
		ChatID:                t.config.ChatID,
		Text:                  message,
		DisableWebPagePreview: true,
	})
}

// SendSlotAlert announces slots found by a watch job
func (t *TelegramNotifier) SendSlotAlert(ctx context.Context, job, location string, slots []dvsa.TestSlot) error {
	return t.SendMessage(ctx, FormatSlotAlert(job, location, slots, time.Now()))
}

// FormatSlotAlert renders the alert text
func FormatSlotAlert(job, location string, slots []dvsa.TestSlot, at time.Time) string {
	var b strings.Builder

	if len(slots) == 0 {
		fmt.Fprintf(&b, "🚗 %s: no driving test slots available any more", job)
	} else {
		fmt.Fprintf(&b, "🚗 %s: %d driving test slot(s) available", job, len(slots))
	}
	if location != "" {
		fmt.Fprintf(&b, " near %s", location)
	}
	b.WriteString("\n")

	for i, slot := range slots {
		if i == maxSlotsInMessage {
			fmt.Fprintf(&b, "… and %d more\n", len(slots)-maxSlotsInMessage)
			break
		}
		fmt.Fprintf(&b, "\n📅 %s ⏰ %s 📍 %s", slot.Date, slot.Time, slot.Location)
	}

	fmt.Fprintf(&b, "\n\nChecked at %s", at.Format("2006-01-02 15:04:05"))
	return b.String()
}

// sendTelegramMessage sends message to Telegram API
func (t *TelegramNotifier) sendTelegramMessage(ctx context.Context, message *TelegramMessage) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(t.config.APIBase, "/"), t.config.BotToken)

	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("Sending Telegram message",
		zap.String("chat_id", message.ChatID),
		zap.Int("length", len(message.Text)))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var telegramResp TelegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&telegramResp); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if !telegramResp.OK {
		return fmt.Errorf("telegram API error: %s (code: %d)", telegramResp.Description, telegramResp.ErrorCode)
	}

	logger.Info("Telegram message sent successfully")
	return nil
}

// ValidateConfig validates Telegram configuration
func (t *TelegramNotifier) ValidateConfig() error {
	if !t.config.Enabled {
		return nil
	}
	if t.config.BotToken == "" {
		return fmt.Errorf("telegram bot token is required when enabled")
	}
	if t.config.ChatID == "" {
		return fmt.Errorf("telegram chat ID is required when enabled")
	}
	return nil
}

// TestConnection sends a test message
func (t *TelegramNotifier) TestConnection(ctx context.Context) error {
	if !t.config.Enabled {
		return fmt.Errorf("telegram notifications are disabled")
	}
	return t.SendMessage(ctx, "🚗 dvsacheck: Telegram notifications are working")
}
