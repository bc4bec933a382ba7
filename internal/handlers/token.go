package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/telegram"
)

// TokenIssuer mints API tokens.
type TokenIssuer interface {
	Generate(userID int64, username string) (string, error)
}

// TokenHandler handles /token. Tokens are only sent in private chats.
type TokenHandler struct {
	tokens TokenIssuer
	logger *logrus.Logger
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(tokens TokenIssuer, logger *logrus.Logger) *TokenHandler {
	return &TokenHandler{tokens: tokens, logger: logger}
}

func (h *TokenHandler) Handle(_ context.Context, bot telegram.Sender, message *tgbotapi.Message, user *models.User, _ []string) error {
	if !message.Chat.IsPrivate() {
		return send(bot, message.Chat.ID, "🔒 Send /token to me in a private chat.")
	}

	token, err := h.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	h.logger.WithField("user_id", user.ID).Info("Issued API token from chat")

	msg := tgbotapi.NewMessage(message.Chat.ID,
		fmt.Sprintf("🔑 Your API token:\n\n`%s`\n\nUse it as `Authorization: Bearer <token>`.", token))
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err = bot.Send(msg)
	return err
}
