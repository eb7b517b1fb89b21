package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ambassadors/internal/config"
	"ambassadors/internal/models"
)

// Telegram posts warning notices to an operations chat via a Telegram bot.
// Ambassador notices and admin escalations land in the same admin chat;
// per-ambassador email delivery is handled by an external mailer.
type Telegram struct {
	api         *tgbotapi.BotAPI
	adminChatID int64
	logger      *zap.Logger
}

// NewTelegram creates the Telegram notifier. Returns nil when the notifier
// is disabled or no token is configured; a nil *Telegram is safe to use.
func NewTelegram(cfg *config.Config, logger *zap.Logger) (*Telegram, error) {
	if !cfg.Notifier.Enabled || cfg.Notifier.TelegramBotToken == "" {
		logger.Info("Telegram notifier is disabled (notifier.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifier.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &Telegram{
		api:         botAPI,
		adminChatID: cfg.Notifier.AdminChatID,
		logger:      logger,
	}, nil
}

// SendToAmbassador posts a level-keyed warning notice for the ambassador.
func (t *Telegram) SendToAmbassador(user *models.User, template string, data WarningData) error {
	if t == nil {
		return nil // Notifier is disabled
	}
	return t.send(FormatWarning(user, template, data))
}

// NotifyAdmins posts an escalation message to the admin chat.
func (t *Telegram) NotifyAdmins(message string) error {
	if t == nil {
		return nil // Notifier is disabled
	}
	return t.send(message)
}

func (t *Telegram) send(text string) error {
	msg := tgbotapi.NewMessage(t.adminChatID, text)
	if _, err := t.api.Send(msg); err != nil {
		t.logger.Error("Failed to send Telegram message", zap.Error(err))
		return err
	}
	return nil
}
