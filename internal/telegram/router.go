package telegram

import (
	"context"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ChoreboT/internal/models"
	apperrors "github.com/Kerhoff/ChoreboT/pkg/errors"
)

const commandTimeout = 30 * time.Second

// Sender delivers messages to Telegram. *tgbotapi.BotAPI implements it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// UserRegistrar maps a Telegram account to a user, creating it on first contact.
type UserRegistrar interface {
	EnsureUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*models.User, error)
}

// CommandHandler handles one bot command on behalf of a registered user.
type CommandHandler interface {
	Handle(ctx context.Context, bot Sender, message *tgbotapi.Message, user *models.User, args []string) error
}

// Router handles message routing and command parsing
type Router struct {
	logger   *logrus.Logger
	users    UserRegistrar
	handlers map[string]CommandHandler
}

// NewRouter creates a new message router
func NewRouter(users UserRegistrar, logger *logrus.Logger) *Router {
	return &Router{
		logger:   logger,
		users:    users,
		handlers: make(map[string]CommandHandler),
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// HandleMessage registers the sender and dispatches commands.
func (r *Router) HandleMessage(ctx context.Context, bot Sender, message *tgbotapi.Message) {
	if message.From == nil || !message.IsCommand() {
		return
	}

	command := message.Command()
	fields := logrus.Fields{
		"command": command,
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}
	r.logger.WithFields(fields).Info("Received command")

	handler, exists := r.handlers[command]
	if !exists {
		r.logger.WithFields(fields).Warn("Unknown command")
		r.reply(bot, message.Chat.ID, "❓ Unknown command. Use /help to see available commands.")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	user, err := r.users.EnsureUser(ctx, message.From.ID, message.From.UserName, message.From.FirstName, message.From.LastName)
	if err != nil {
		r.logger.WithFields(fields).WithError(err).Error("Failed to register user")
		r.reply(bot, message.Chat.ID, "❌ An error occurred while processing your command. Please try again.")
		return
	}

	args := strings.Fields(message.CommandArguments())
	if err := handler.Handle(ctx, bot, message, user, args); err != nil {
		appErr := apperrors.FromError(err)
		if appErr.StatusCode < http.StatusInternalServerError {
			r.reply(bot, message.Chat.ID, "❌ "+appErr.Message)
			return
		}

		r.logger.WithFields(fields).WithError(err).Error("Command handler failed")
		r.reply(bot, message.Chat.ID, "❌ An error occurred while processing your command. Please try again.")
	}
}

func (r *Router) reply(bot Sender, chatID int64, text string) {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send reply")
	}
}
