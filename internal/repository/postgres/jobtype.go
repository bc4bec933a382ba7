package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/repository"
)

type jobTypeRepository struct {
	db *sql.DB
}

// NewJobTypeRepository creates a new job type repository
func NewJobTypeRepository(db *sql.DB) repository.JobTypeRepository {
	return &jobTypeRepository{db: db}
}

func (r *jobTypeRepository) List(ctx context.Context) ([]*models.JobType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, label FROM job_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query job types: %w", err)
	}
	defer rows.Close()

	var types []*models.JobType
	for rows.Next() {
		t := &models.JobType{}
		if err := rows.Scan(&t.ID, &t.Label); err != nil {
			return nil, fmt.Errorf("failed to scan job type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *jobTypeRepository) GetByID(ctx context.Context, id int64) (*models.JobType, error) {
	t := &models.JobType{}
	err := r.db.QueryRowContext(ctx, `SELECT id, label FROM job_types WHERE id = $1`, id).Scan(&t.ID, &t.Label)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job type: %w", err)
	}
	return t, nil
}
