package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/telegram"
)

// StartHandler handles the /start command
type StartHandler struct {
	logger *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(logger *logrus.Logger) *StartHandler {
	return &StartHandler{logger: logger}
}

// Handle greets the user. Registration already happened in the router.
func (h *StartHandler) Handle(_ context.Context, bot telegram.Sender, message *tgbotapi.Message, user *models.User, _ []string) error {
	text := fmt.Sprintf(`👋 *Welcome to ChoreboT, %s!*

I keep track of recurring household jobs and remind you when they are due.
You are registered as user *#%d*. Friends can invite you by that number.

Create and share jobs through the API, then use me to keep up:
• /jobs - Your jobs
• /due - Jobs that are due
• /done <id> - Mark a job done
• /help - All commands`, escape(displayName(user)), user.ID)

	if err := send(bot, message.Chat.ID, text); err != nil {
		return fmt.Errorf("failed to send start message: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": user.ID,
	}).Info("Sent start message")
	return nil
}
