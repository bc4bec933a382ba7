package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Kerhoff/ChoreboT/internal/models"
)

// ErrDuplicate is returned when an insert violates a uniqueness rule
// (one pair per unordered user couple, one invite per job and invitee).
var ErrDuplicate = errors.New("duplicate record")

// ErrNotFound is returned by mutations whose target row is gone.
var ErrNotFound = errors.New("record not found")

// Lookups return (nil, nil) when the row does not exist.

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}

// JobTypeRepository defines the interface for job type lookups
type JobTypeRepository interface {
	List(ctx context.Context) ([]*models.JobType, error)
	GetByID(ctx context.Context, id int64) (*models.JobType, error)
}

// JobRepository defines the interface for job data operations. Jobs returned
// by Get/List carry Type, LastCompletedBy and Members.
type JobRepository interface {
	// Create inserts the job and its creator's membership in one transaction.
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	ListByMember(ctx context.Context, userID int64) ([]*models.Job, error)
	// ListDue returns jobs due on day that have not been notified on day.
	ListDue(ctx context.Context, day time.Time) ([]*models.Job, error)
	// Update overwrites title, description, type, frequency and last_completed.
	Update(ctx context.Context, job *models.Job) (*models.Job, error)
	// Complete records userID as the last completer on day. It returns
	// ErrNotFound unless userID is a member at the time of the write.
	Complete(ctx context.Context, jobID, userID int64, day time.Time) error
	// RemoveMember detaches userID and deletes the job when no member is left.
	// Both steps run in one transaction with the job row locked.
	RemoveMember(ctx context.Context, jobID, userID int64) (deleted bool, err error)
	MarkNotified(ctx context.Context, jobID int64, day time.Time) error
}

// UserPairRepository defines the interface for friendship operations
type UserPairRepository interface {
	// Create returns ErrDuplicate when a pair already joins the two users in
	// either direction.
	Create(ctx context.Context, pair *models.UserPair) (*models.UserPair, error)
	GetByID(ctx context.Context, id int64) (*models.UserPair, error)
	FindBetween(ctx context.Context, a, b int64) (*models.UserPair, error)
	ListByUser(ctx context.Context, userID int64, onlyAccepted bool) ([]*models.UserPair, error)
	// Accept marks the pair accepted. accepted_at keeps its first value.
	Accept(ctx context.Context, id int64, at time.Time) (*models.UserPair, error)
	Delete(ctx context.Context, id int64) error
}

// JobInviteRepository defines the interface for job sharing operations
type JobInviteRepository interface {
	// Create returns ErrDuplicate when the invitee already has an invite for the
	// job and ErrNotFound when the job is gone.
	Create(ctx context.Context, invite *models.JobInvite) (*models.JobInvite, error)
	GetByID(ctx context.Context, id int64) (*models.JobInvite, error)
	FindByJobAndInvitee(ctx context.Context, jobID, inviteeID int64) (*models.JobInvite, error)
	ListByInvitee(ctx context.Context, inviteeID int64) ([]*models.JobInvite, error)
	// Accept adds the invitee to the job and deletes the invite in one
	// transaction. It returns false when the job no longer exists.
	Accept(ctx context.Context, invite *models.JobInvite) (bool, error)
	Delete(ctx context.Context, id int64) error
}
