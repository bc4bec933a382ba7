package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/service"
	"github.com/Kerhoff/ChoreboT/internal/telegram"
)

// JobsHandler handles /jobs.
type JobsHandler struct {
	svc *service.Service
}

// NewJobsHandler creates a new JobsHandler.
func NewJobsHandler(svc *service.Service) *JobsHandler {
	return &JobsHandler{svc: svc}
}

func (h *JobsHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, user *models.User, _ []string) error {
	jobs, err := h.svc.ListJobs(ctx, user.ID)
	if err != nil {
		return err
	}

	text := formatJobList("📋 *Your jobs* (days since done / every)",
		"📭 You have no jobs yet.", jobs, h.svc.Now())
	return send(bot, message.Chat.ID, text)
}

// DueHandler handles /due.
type DueHandler struct {
	svc *service.Service
}

// NewDueHandler creates a new DueHandler.
func NewDueHandler(svc *service.Service) *DueHandler {
	return &DueHandler{svc: svc}
}

func (h *DueHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, user *models.User, _ []string) error {
	jobs, err := h.svc.DueJobs(ctx, user.ID)
	if err != nil {
		return err
	}

	text := formatJobList("⏰ *Due jobs*", "🎉 Nothing is due. Well done!", jobs, h.svc.Now())
	return send(bot, message.Chat.ID, text)
}

// DoneHandler handles /done <id>.
type DoneHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDoneHandler creates a new DoneHandler.
func NewDoneHandler(svc *service.Service, logger *logrus.Logger) *DoneHandler {
	return &DoneHandler{svc: svc, logger: logger}
}

func (h *DoneHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, user *models.User, args []string) error {
	id, err := parseID(args, "/done <job id>")
	if err != nil {
		return err
	}

	if err := h.svc.CompleteJob(ctx, id, user.ID); err != nil {
		return err
	}
	job, err := h.svc.GetJob(ctx, id, user.ID)
	if err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"job_id":  id,
	}).Debug("Job completed from chat")

	return send(bot, message.Chat.ID,
		fmt.Sprintf("✅ *%s* done! Next due in %d days.", escape(job.Title), job.Frequency))
}

// LeaveHandler handles /leave <id>.
type LeaveHandler struct {
	svc *service.Service
}

// NewLeaveHandler creates a new LeaveHandler.
func NewLeaveHandler(svc *service.Service) *LeaveHandler {
	return &LeaveHandler{svc: svc}
}

func (h *LeaveHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, user *models.User, args []string) error {
	id, err := parseID(args, "/leave <job id>")
	if err != nil {
		return err
	}

	deleted, err := h.svc.LeaveOrDeleteJob(ctx, id, user.ID)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("👋 You left job #%d.", id)
	if deleted {
		text = fmt.Sprintf("🗑 You were the last member, job #%d was deleted.", id)
	}
	return send(bot, message.Chat.ID, text)
}
