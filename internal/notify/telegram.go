package notify

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sopiautomobile/lead-platform/internal/leads"
	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

// TelegramSink posts a new-lead alert into the operators' Telegram chat.
//
// The bot client is created lazily on first send: tgbotapi verifies the
// token against the API during construction, and the service must start
// even when Telegram is unreachable.
type TelegramSink struct {
	token         string
	chatID        int64
	adminPanelURL string
	logger        *logging.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// NewTelegramSink creates the Telegram sink. Returns nil unless both bot
// token and chat id are configured.
func NewTelegramSink(token string, chatID int64, adminPanelURL string, logger *logging.Logger) *TelegramSink {
	if token == "" || chatID == 0 {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TelegramSink{
		token:         token,
		chatID:        chatID,
		adminPanelURL: adminPanelURL,
		logger:        logger,
	}
}

func (s *TelegramSink) Name() string { return "telegram" }

func (s *TelegramSink) Send(ctx context.Context, lead *leads.Lead) error {
	bot, err := s.client()
	if err != nil {
		return fmt.Errorf("notify: telegram bot init failed: %w", err)
	}

	msg := tgbotapi.NewMessage(s.chatID, telegramMessage(lead, s.adminPanelURL))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("notify: telegram send failed: %w", err)
	}

	s.logger.Debug("telegram notification sent", "lead_id", lead.ID, "chat_id", s.chatID)
	return nil
}

// client returns the bot, creating it on first use. A failed init is
// retried on the next lead rather than cached forever.
func (s *TelegramSink) client() (*tgbotapi.BotAPI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bot != nil {
		return s.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(s.token, tgbotapi.APIEndpoint, &http.Client{
		Timeout: 10 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	s.bot = bot
	return bot, nil
}

var _ Sink = (*TelegramSink)(nil)
