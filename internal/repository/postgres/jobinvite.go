package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/repository"
)

var inviteSelect = `
	SELECT i.id, i.job_id, i.inviter_id, i.invitee_id, i.created_at, j.title,
	       ` + prefixed("a", userColumns) + `,
	       ` + prefixed("b", userColumns) + `
	FROM job_invites i
	JOIN jobs j ON j.id = i.job_id
	JOIN users a ON a.id = i.inviter_id
	JOIN users b ON b.id = i.invitee_id`

type jobInviteRepository struct {
	db *sql.DB
}

// NewJobInviteRepository creates a new job invite repository
func NewJobInviteRepository(db *sql.DB) repository.JobInviteRepository {
	return &jobInviteRepository{db: db}
}

func scanInvite(row scanner) (*models.JobInvite, error) {
	invite := &models.JobInvite{Job: &models.Job{}, Inviter: &models.User{}, Invitee: &models.User{}}
	var telegramA, telegramB sql.NullInt64
	if err := row.Scan(
		&invite.ID, &invite.JobID, &invite.InviterID, &invite.InviteeID, &invite.CreatedAt, &invite.Job.Title,
		&invite.Inviter.ID, &invite.Inviter.Username, &invite.Inviter.FirstName, &invite.Inviter.LastName,
		&telegramA, &invite.Inviter.CreatedAt, &invite.Inviter.UpdatedAt,
		&invite.Invitee.ID, &invite.Invitee.Username, &invite.Invitee.FirstName, &invite.Invitee.LastName,
		&telegramB, &invite.Invitee.CreatedAt, &invite.Invitee.UpdatedAt,
	); err != nil {
		return nil, err
	}
	invite.Job.ID = invite.JobID
	if telegramA.Valid {
		id := telegramA.Int64
		invite.Inviter.TelegramID = &id
	}
	if telegramB.Valid {
		id := telegramB.Int64
		invite.Invitee.TelegramID = &id
	}
	return invite, nil
}

func (r *jobInviteRepository) Create(ctx context.Context, invite *models.JobInvite) (*models.JobInvite, error) {
	invite.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO job_invites (job_id, inviter_id, invitee_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		invite.JobID, invite.InviterID, invite.InviteeID, invite.CreatedAt,
	).Scan(&invite.ID, &invite.CreatedAt)
	if err != nil {
		if err := mapUnique(err); errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		// The job was deleted after the caller loaded it.
		if err := mapMissingParent(err); errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create job invite: %w", err)
	}

	return r.GetByID(ctx, invite.ID)
}

func (r *jobInviteRepository) getOne(ctx context.Context, where string, args ...any) (*models.JobInvite, error) {
	invite, err := scanInvite(r.db.QueryRowContext(ctx, inviteSelect+` WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job invite: %w", err)
	}
	return invite, nil
}

func (r *jobInviteRepository) GetByID(ctx context.Context, id int64) (*models.JobInvite, error) {
	return r.getOne(ctx, `i.id = $1`, id)
}

func (r *jobInviteRepository) FindByJobAndInvitee(ctx context.Context, jobID, inviteeID int64) (*models.JobInvite, error) {
	return r.getOne(ctx, `i.job_id = $1 AND i.invitee_id = $2`, jobID, inviteeID)
}

func (r *jobInviteRepository) ListByInvitee(ctx context.Context, inviteeID int64) ([]*models.JobInvite, error) {
	rows, err := r.db.QueryContext(ctx, inviteSelect+` WHERE i.invitee_id = $1 ORDER BY i.id`, inviteeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query job invites: %w", err)
	}
	defer rows.Close()

	var invites []*models.JobInvite
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job invite: %w", err)
		}
		invites = append(invites, invite)
	}
	return invites, rows.Err()
}

func (r *jobInviteRepository) Accept(ctx context.Context, invite *models.JobInvite) (bool, error) {
	joined := false

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM jobs WHERE id = $1 FOR UPDATE`, invite.JobID).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to lock job: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO job_members (job_id, user_id, joined_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (job_id, user_id) DO NOTHING`,
			invite.JobID, invite.InviteeID, time.Now()); err != nil {
			return fmt.Errorf("failed to add job member: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM job_invites WHERE id = $1`, invite.ID)
		if err != nil {
			return fmt.Errorf("failed to delete job invite: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return repository.ErrNotFound
		}

		joined = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return joined, nil
}

func (r *jobInviteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM job_invites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job invite: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
