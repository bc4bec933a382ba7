package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chorebot_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// JobCompletions counts jobs marked complete through any surface.
	JobCompletions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chorebot_job_completions_total",
			Help: "Total number of job completions",
		},
	)

	// FriendshipEvents counts friendship transitions (invited|accepted|removed).
	FriendshipEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chorebot_friendship_events_total",
			Help: "Total number of friendship state transitions",
		},
		[]string{"event"},
	)

	// JobInviteEvents counts job sharing transitions (created|accepted|declined).
	JobInviteEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chorebot_job_invite_events_total",
			Help: "Total number of job invite state transitions",
		},
		[]string{"event"},
	)

	// DueNotifications counts due-job messages by result (sent|failed).
	DueNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chorebot_due_notifications_total",
			Help: "Total number of due job notifications",
		},
		[]string{"result"},
	)
)
