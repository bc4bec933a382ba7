package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/telegram"
	apperrors "github.com/Kerhoff/ChoreboT/pkg/errors"
)

func send(bot telegram.Sender, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := bot.Send(msg)
	return err
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func displayName(u *models.User) string {
	if u == nil {
		return "someone"
	}
	if name := u.FullName(); name != "" {
		return name
	}
	return u.DisplayName()
}

// parseID reads the single numeric argument of commands such as /done 12.
func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, apperrors.NewInvalidInput("Usage: " + usage)
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewInvalidInput("Usage: " + usage)
	}
	return id, nil
}

func statusEmoji(job *models.Job, today time.Time) string {
	switch lapsed := job.DaysLapsed(today); {
	case lapsed >= job.Frequency:
		return "🔴"
	case lapsed*2 >= job.Frequency:
		return "🟡"
	default:
		return "🟢"
	}
}

// formatJobLine renders one job as "🔴 *#3* Dishes (9/1 days, Kitchen)".
func formatJobLine(job *models.Job, today time.Time) string {
	label := ""
	if job.Type != nil && job.Type.Label != "" {
		label = ", " + job.Type.Label
	}
	return fmt.Sprintf("%s *#%d* %s (%d/%d days%s)",
		statusEmoji(job, today), job.ID, escape(job.Title), job.DaysLapsed(today), job.Frequency, label)
}

// formatJobList renders jobs under a heading, or empty when there are none.
func formatJobList(heading, empty string, jobs []*models.Job, today time.Time) string {
	if len(jobs) == 0 {
		return empty
	}
	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	for _, j := range jobs {
		b.WriteString("\n")
		b.WriteString(formatJobLine(j, today))
	}
	return b.String()
}
