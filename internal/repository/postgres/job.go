package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/repository"
)

const jobSelect = `
	SELECT j.id, j.title, j.description, j.type_id, j.frequency, j.created_by_id, j.created_at,
	       j.last_completed, j.last_completed_by_id, j.notified_on, t.label,
	       u.id, u.username, u.first_name, u.last_name, u.telegram_id, u.created_at, u.updated_at
	FROM jobs j
	JOIN job_types t ON t.id = j.type_id
	JOIN users u ON u.id = j.last_completed_by_id`

type jobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *sql.DB) repository.JobRepository {
	return &jobRepository{db: db}
}

func scanJob(row scanner) (*models.Job, error) {
	job := &models.Job{Type: &models.JobType{}, LastCompletedBy: &models.User{}}
	var notifiedOn sql.NullTime
	var telegramID sql.NullInt64
	if err := row.Scan(
		&job.ID, &job.Title, &job.Description, &job.TypeID, &job.Frequency,
		&job.CreatedByID, &job.CreatedAt, &job.LastCompleted, &job.LastCompletedByID,
		&notifiedOn, &job.Type.Label,
		&job.LastCompletedBy.ID, &job.LastCompletedBy.Username, &job.LastCompletedBy.FirstName,
		&job.LastCompletedBy.LastName, &telegramID, &job.LastCompletedBy.CreatedAt,
		&job.LastCompletedBy.UpdatedAt,
	); err != nil {
		return nil, err
	}
	job.Type.ID = job.TypeID
	if notifiedOn.Valid {
		t := notifiedOn.Time
		job.NotifiedOn = &t
	}
	if telegramID.Valid {
		id := telegramID.Int64
		job.LastCompletedBy.TelegramID = &id
	}
	return job, nil
}

// Create inserts the job and the creator's membership together so a job never
// exists without a member.
func (r *jobRepository) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	job.CreatedAt = time.Now()
	job.LastCompleted = models.DateOf(job.LastCompleted)

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO jobs (title, description, type_id, frequency, created_by_id, created_at,
			                  last_completed, last_completed_by_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at`,
			job.Title, job.Description, job.TypeID, job.Frequency, job.CreatedByID,
			job.CreatedAt, job.LastCompleted, job.LastCompletedByID,
		).Scan(&job.ID, &job.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert job: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO job_members (job_id, user_id, joined_at) VALUES ($1, $2, $3)`,
			job.ID, job.CreatedByID, job.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to add job creator as member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	return r.GetByID(ctx, job.ID)
}

func (r *jobRepository) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	job, err := scanJob(r.db.QueryRowContext(ctx, jobSelect+` WHERE j.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if err := r.loadMembers(ctx, []*models.Job{job}); err != nil {
		return nil, err
	}
	return job, nil
}

func (r *jobRepository) ListByMember(ctx context.Context, userID int64) ([]*models.Job, error) {
	query := jobSelect + `
		WHERE j.id IN (SELECT job_id FROM job_members WHERE user_id = $1)
		ORDER BY j.id`
	return r.list(ctx, query, userID)
}

func (r *jobRepository) ListDue(ctx context.Context, day time.Time) ([]*models.Job, error) {
	query := jobSelect + `
		WHERE j.last_completed + j.frequency <= $1::date
		  AND (j.notified_on IS NULL OR j.notified_on < $1::date)
		ORDER BY j.id`
	return r.list(ctx, query, models.DateOf(day))
}

func (r *jobRepository) list(ctx context.Context, query string, args ...any) ([]*models.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadMembers(ctx, jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// loadMembers fills Members for every job with one query.
func (r *jobRepository) loadMembers(ctx context.Context, jobs []*models.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	ids := make([]int64, len(jobs))
	byID := make(map[int64]*models.Job, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
		byID[j.ID] = j
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT jm.job_id, `+prefixed("u", userColumns)+`
		FROM job_members jm
		JOIN users u ON u.id = jm.user_id
		WHERE jm.job_id = ANY($1)
		ORDER BY jm.joined_at ASC, u.id ASC`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query job members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var jobID int64
		user := models.User{}
		var telegramID sql.NullInt64
		if err := rows.Scan(&jobID, &user.ID, &user.Username, &user.FirstName, &user.LastName,
			&telegramID, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan job member: %w", err)
		}
		if telegramID.Valid {
			id := telegramID.Int64
			user.TelegramID = &id
		}
		byID[jobID].Members = append(byID[jobID].Members, user)
	}
	return rows.Err()
}

func (r *jobRepository) Update(ctx context.Context, job *models.Job) (*models.Job, error) {
	job.LastCompleted = models.DateOf(job.LastCompleted)

	result, err := r.db.ExecContext(ctx, `
		UPDATE jobs
		SET title = $2, description = $3, type_id = $4, frequency = $5, last_completed = $6
		WHERE id = $1`,
		job.ID, job.Title, job.Description, job.TypeID, job.Frequency, job.LastCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, repository.ErrNotFound
	}

	return r.GetByID(ctx, job.ID)
}

func (r *jobRepository) Complete(ctx context.Context, jobID, userID int64, day time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE jobs
		SET last_completed = $3, last_completed_by_id = $2
		WHERE id = $1
		  AND EXISTS (SELECT 1 FROM job_members WHERE job_id = $1 AND user_id = $2)`,
		jobID, userID, models.DateOf(day))
	if err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *jobRepository) RemoveMember(ctx context.Context, jobID, userID int64) (bool, error) {
	deleted := false

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		// Lock the job row so concurrent leaves serialize on it.
		var id int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM jobs WHERE id = $1 FOR UPDATE`, jobID).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return repository.ErrNotFound
			}
			return fmt.Errorf("failed to lock job: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM job_members WHERE job_id = $1 AND user_id = $2`, jobID, userID)
		if err != nil {
			return fmt.Errorf("failed to remove job member: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return repository.ErrNotFound
		}

		var remaining int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM job_members WHERE job_id = $1`, jobID).Scan(&remaining); err != nil {
			return fmt.Errorf("failed to count job members: %w", err)
		}
		if remaining > 0 {
			return nil
		}

		// Invites cascade with the job.
		if _, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, jobID); err != nil {
			return fmt.Errorf("failed to delete job: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *jobRepository) MarkNotified(ctx context.Context, jobID int64, day time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE jobs SET notified_on = $2 WHERE id = $1`, jobID, models.DateOf(day))
	if err != nil {
		return fmt.Errorf("failed to mark job notified: %w", err)
	}
	return nil
}
