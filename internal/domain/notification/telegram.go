// internal/domain/notification/telegram.go
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/varahajewels/ecommerce-backend/internal/config"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramClient posts operational alerts to the store's Telegram group
type TelegramClient struct {
	botToken   string
	chatID     string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewTelegramClient creates a Telegram notifier. A client with an empty
// bot token is valid and silently drops every message.
func NewTelegramClient(cfg config.TelegramConfig, logger *logrus.Logger) *TelegramClient {
	return &TelegramClient{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		baseURL:  telegramAPIBase,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Enabled reports whether the bot is configured
func (t *TelegramClient) Enabled() bool {
	return t.botToken != "" && t.chatID != ""
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage delivers an HTML-formatted message to the configured chat
func (t *TelegramClient) SendMessage(ctx context.Context, text string) error {
	if !t.Enabled() {
		return nil
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode telegram response: %w", err)
	}

	if !result.OK {
		return fmt.Errorf("telegram API rejected message: %s", result.Description)
	}

	return nil
}
