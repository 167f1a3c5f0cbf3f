package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dvsacheck/pkg/config"
	"dvsacheck/pkg/dvsa"
)

func TestSendSlotAlert(t *testing.T) {
	var got TelegramMessage
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier(&config.TelegramConfig{
		Enabled:  true,
		BotToken: "123:abc",
		ChatID:   "42",
		Timeout:  5,
		APIBase:  srv.URL,
	})

	err := n.SendSlotAlert(context.Background(), "weekday", "Leeds", []dvsa.TestSlot{
		{Date: "12 March", Time: "08:10", Location: "Leeds"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/bot123:abc/sendMessage", path)
	assert.Equal(t, "42", got.ChatID)
	assert.Contains(t, got.Text, "weekday: 1 driving test slot(s) available near Leeds")
	assert.Contains(t, got.Text, "12 March")
}

func TestSendMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier(&config.TelegramConfig{Enabled: true, BotToken: "x", ChatID: "1", APIBase: srv.URL})

	err := n.SendMessage(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestSendMessageDisabled(t *testing.T) {
	n := NewTelegramNotifier(&config.TelegramConfig{Enabled: false, APIBase: "http://127.0.0.1:1"})
	assert.NoError(t, n.SendMessage(context.Background(), "hi"))
}

func TestValidateConfig(t *testing.T) {
	n := NewTelegramNotifier(&config.TelegramConfig{Enabled: true, ChatID: "1"})
	assert.Error(t, n.ValidateConfig())

	n = NewTelegramNotifier(&config.TelegramConfig{Enabled: true, BotToken: "x"})
	assert.Error(t, n.ValidateConfig())
}

func TestFormatSlotAlertTruncates(t *testing.T) {
	slots := make([]dvsa.TestSlot, maxSlotsInMessage+5)
	for i := range slots {
		slots[i] = dvsa.TestSlot{Date: "1 May", Time: "09:00", Location: "York"}
	}
	at := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)

	text := FormatSlotAlert("job", "", slots, at)

	assert.Equal(t, maxSlotsInMessage, strings.Count(text, "📅"))
	assert.Contains(t, text, "and 5 more")
	assert.Contains(t, text, "2025-03-12 09:30:00")
	assert.NotContains(t, text, " near ")
}

func TestFormatSlotAlertNoSlots(t *testing.T) {
	text := FormatSlotAlert("job", "Leeds", nil, time.Now())
	assert.Contains(t, text, "no driving test slots available any more near Leeds")
}
