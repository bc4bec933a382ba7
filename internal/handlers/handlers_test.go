package handlers

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/ChoreboT/internal/auth"
	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/repository/memory"
	"github.com/Kerhoff/ChoreboT/internal/service"
	apperrors "github.com/Kerhoff/ChoreboT/pkg/errors"
	"github.com/Kerhoff/ChoreboT/pkg/logger"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) last(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1].Text
}

func newService(t *testing.T) *service.Service {
	t.Helper()
	clock := func() time.Time { return fixedNow }
	store := memory.New(memory.WithClock(clock))
	return service.New(logger.Discard(),
		store.Users(), store.JobTypes(), store.Jobs(), store.UserPairs(), store.JobInvites(),
		service.WithClock(clock),
	)
}

func chatMessage(chatType string) *tgbotapi.Message {
	return &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 555, Type: chatType}}
}

func createJob(t *testing.T, svc *service.Service, userID int64, title string, frequency int) *models.Job {
	t.Helper()
	job, err := svc.CreateJob(context.Background(), userID, service.JobInput{
		Title:         title,
		TypeID:        4,
		Frequency:     frequency,
		LastCompleted: "2024-03-01",
	})
	require.NoError(t, err)
	return job
}

func TestParseID(t *testing.T) {
	id, err := parseID([]string{"12"}, "/done <id>")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	id, err = parseID([]string{"#7"}, "/done <id>")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	for _, args := range [][]string{nil, {"x"}, {"0"}, {"1", "2"}} {
		_, err := parseID(args, "/done <id>")
		require.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Contains(t, err.Error(), "/done <id>")
	}
}

func TestFormatJobList(t *testing.T) {
	job := &models.Job{
		ID:            3,
		Title:         "Wash_car",
		Frequency:     7,
		LastCompleted: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:          &models.JobType{ID: 3, Label: "Yard"},
	}

	line := formatJobLine(job, fixedNow)
	assert.Equal(t, `🔴 *#3* Wash\_car (9/7 days, Yard)`, line)

	job.Frequency = 30
	assert.Contains(t, formatJobLine(job, fixedNow), "🟢")

	assert.Equal(t, "none", formatJobList("heading", "none", nil, fixedNow))
	assert.Contains(t, formatJobList("heading", "none", []*models.Job{job}, fixedNow), "heading\n\n🟢")
}

func TestJobsAndDueHandlers(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	user, err := svc.EnsureUser(ctx, 42, "ann", "Ann", "")
	require.NoError(t, err)
	bot := &fakeSender{}

	require.NoError(t, NewJobsHandler(svc).Handle(ctx, bot, chatMessage("private"), user, nil))
	assert.Contains(t, bot.last(t), "no jobs")

	createJob(t, svc, user.ID, "Dishes", 1)
	createJob(t, svc, user.ID, "Gutters", 90)

	require.NoError(t, NewJobsHandler(svc).Handle(ctx, bot, chatMessage("private"), user, nil))
	assert.Contains(t, bot.last(t), "Dishes")
	assert.Contains(t, bot.last(t), "Gutters")

	require.NoError(t, NewDueHandler(svc).Handle(ctx, bot, chatMessage("private"), user, nil))
	assert.Contains(t, bot.last(t), "Dishes")
	assert.NotContains(t, bot.last(t), "Gutters")
}

func TestDoneAndLeaveHandlers(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	ann, err := svc.EnsureUser(ctx, 42, "ann", "Ann", "")
	require.NoError(t, err)
	bob, err := svc.EnsureUser(ctx, 43, "bob", "Bob", "")
	require.NoError(t, err)
	job := createJob(t, svc, ann.ID, "Dishes", 3)
	bot := &fakeSender{}

	done := NewDoneHandler(svc, logger.Discard())
	err = done.Handle(ctx, bot, chatMessage("private"), bob, []string{"1"})
	require.ErrorIs(t, err, service.ErrNotJobMember)

	require.NoError(t, done.Handle(ctx, bot, chatMessage("private"), ann, []string{"1"}))
	assert.Contains(t, bot.last(t), "Next due in 3 days")

	got, err := svc.GetJob(ctx, job.ID, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", got.LastCompleted.Format(models.DateLayout))

	require.NoError(t, NewLeaveHandler(svc).Handle(ctx, bot, chatMessage("private"), ann, []string{"1"}))
	assert.Contains(t, bot.last(t), "deleted")
}

func TestInvitesAndJoinHandlers(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	ann, err := svc.EnsureUser(ctx, 42, "ann", "Ann", "")
	require.NoError(t, err)
	bob, err := svc.EnsureUser(ctx, 43, "bob", "Bob", "")
	require.NoError(t, err)
	job := createJob(t, svc, ann.ID, "Dishes", 3)

	pair, err := svc.CreatePair(ctx, ann.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.AcceptPair(ctx, pair.ID, bob.ID)
	require.NoError(t, err)
	invite, err := svc.ShareJob(ctx, job.ID, ann.ID, bob.ID)
	require.NoError(t, err)

	bot := &fakeSender{}
	require.NoError(t, NewFriendsHandler(svc).Handle(ctx, bot, chatMessage("private"), bob, nil))
	assert.Contains(t, bot.last(t), "Ann")

	require.NoError(t, NewInvitesHandler(svc).Handle(ctx, bot, chatMessage("private"), bob, nil))
	assert.Contains(t, bot.last(t), "Dishes from Ann")

	require.NoError(t, NewJoinHandler(svc).Handle(ctx, bot, chatMessage("private"), bob, []string{"1"}))
	assert.Equal(t, int64(1), invite.ID)
	assert.Contains(t, bot.last(t), "2 members")
}

func TestTokenHandler(t *testing.T) {
	tokens, err := auth.NewJWTService(auth.JWTConfig{Secret: "secret", Issuer: "chorebot"})
	require.NoError(t, err)
	h := NewTokenHandler(tokens, logger.Discard())
	user := &models.User{ID: 9, Username: "ann"}
	bot := &fakeSender{}

	require.NoError(t, h.Handle(context.Background(), bot, chatMessage("group"), user, nil))
	assert.Contains(t, bot.last(t), "private chat")

	require.NoError(t, h.Handle(context.Background(), bot, chatMessage("private"), user, nil))
	assert.Contains(t, bot.last(t), "Bearer")
}
