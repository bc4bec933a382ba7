package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/telegram"
)

const helpText = `📚 *ChoreboT Help*

*Jobs:*
• /jobs - Show your jobs
• /due - Show jobs that are due
• /done <id> - Mark a job done today
• /leave <id> - Leave a job (deletes it if you are the last member)

*Sharing:*
• /friends - Show your confirmed friends
• /invites - Show jobs shared with you
• /join <invite id> - Accept a shared job

*API:*
• /token - Get an API token (private chat only)`

// HelpHandler handles the /help command
type HelpHandler struct{}

// NewHelpHandler creates a new help command handler
func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

func (h *HelpHandler) Handle(_ context.Context, bot telegram.Sender, message *tgbotapi.Message, _ *models.User, _ []string) error {
	if err := send(bot, message.Chat.ID, helpText); err != nil {
		return fmt.Errorf("failed to send help message: %w", err)
	}
	return nil
}
