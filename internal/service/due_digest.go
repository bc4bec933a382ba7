package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/pkg/metrics"
)

const defaultDigestSpec = "0 9 * * *"

// NotifyFunc delivers a message to a Telegram chat.
type NotifyFunc func(chatID int64, text string) error

// SendDueDigest notifies the members of every job that fell due and has not
// been announced today. A job is marked notified once all of its members with
// a linked Telegram account were messaged, so a failed run is retried on the
// next tick. It returns the number of messages sent.
func (s *Service) SendDueDigest(ctx context.Context, notify NotifyFunc) (int, error) {
	today := s.today()

	jobs, err := s.Jobs.ListDue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list due jobs: %w", err)
	}

	sent := 0
	for _, job := range jobs {
		text := FormatDueNotice(job, today)
		failed := false
		for _, m := range job.Members {
			if !m.HasTelegram() {
				continue
			}
			if err := notify(*m.TelegramID, text); err != nil {
				failed = true
				metrics.DueNotifications.WithLabelValues("failed").Inc()
				s.logger.WithFields(logrus.Fields{
					"job_id":  job.ID,
					"user_id": m.ID,
				}).WithError(err).Warn("Failed to send due notification")
				continue
			}
			sent++
			metrics.DueNotifications.WithLabelValues("sent").Inc()
		}

		if failed {
			continue
		}
		if err := s.Jobs.MarkNotified(ctx, job.ID, today); err != nil {
			s.logger.WithField("job_id", job.ID).WithError(err).Error("Failed to mark job notified")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"due_jobs": len(jobs),
		"messages": sent,
	}).Info("Due digest processed")
	return sent, nil
}

// FormatDueNotice renders the Telegram message announcing a due job.
func FormatDueNotice(job *models.Job, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ *Due:* %s (#%d)\n", markdown(job.Title), job.ID)
	fmt.Fprintf(&b, "Last done %s", job.LastCompleted.Format(models.DateLayout))
	if job.LastCompletedBy != nil && job.LastCompletedBy.DisplayName() != "" {
		fmt.Fprintf(&b, " by %s", markdown(job.LastCompletedBy.DisplayName()))
	}
	fmt.Fprintf(&b, ", %d days ago (every %d).\n", job.DaysLapsed(today), job.Frequency)
	fmt.Fprintf(&b, "Send /done %d when finished.", job.ID)
	return b.String()
}

// markdown escapes user text for Telegram's legacy Markdown parse mode.
func markdown(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// DueDigest runs SendDueDigest on a cron schedule.
type DueDigest struct {
	svc      *Service
	notify   NotifyFunc
	cron     *cron.Cron
	schedule string
	logger   *logrus.Logger
}

// DigestOption customises the DueDigest.
type DigestOption func(*DueDigest)

// WithSchedule overrides the cron specification of the digest.
func WithSchedule(spec string) DigestOption {
	return func(d *DueDigest) {
		if spec != "" {
			d.schedule = spec
		}
	}
}

// NewDueDigest creates a digest scheduler. The schedule defaults to 09:00 daily.
func NewDueDigest(svc *Service, notify NotifyFunc, opts ...DigestOption) *DueDigest {
	d := &DueDigest{
		svc:      svc,
		notify:   notify,
		schedule: defaultDigestSpec,
		logger:   svc.logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	return d
}

// Start registers the digest job and launches the scheduler.
func (d *DueDigest) Start() error {
	if _, err := d.cron.AddFunc(d.schedule, func() {
		if err := d.RunOnce(context.Background()); err != nil {
			d.logger.WithError(err).Warn("Due digest failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid due digest schedule %q: %w", d.schedule, err)
	}

	d.cron.Start()
	d.logger.WithField("schedule", d.schedule).Info("Due digest scheduler started")
	return nil
}

// Stop halts the scheduler. The returned context is done once a running digest finishes.
func (d *DueDigest) Stop() context.Context {
	ctx := d.cron.Stop()
	d.logger.Info("Due digest scheduler stopped")
	return ctx
}

// RunOnce sends a digest immediately.
func (d *DueDigest) RunOnce(ctx context.Context) error {
	_, err := d.svc.SendDueDigest(ctx, d.notify)
	return err
}
