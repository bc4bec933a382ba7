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

var pairSelect = `
	SELECT p.id, p.user_a_id, p.user_b_id, p.accepted, p.accepted_at, p.created_at,
	       ` + prefixed("a", userColumns) + `,
	       ` + prefixed("b", userColumns) + `
	FROM user_pairs p
	JOIN users a ON a.id = p.user_a_id
	JOIN users b ON b.id = p.user_b_id`

type userPairRepository struct {
	db *sql.DB
}

// NewUserPairRepository creates a new friendship repository
func NewUserPairRepository(db *sql.DB) repository.UserPairRepository {
	return &userPairRepository{db: db}
}

func scanPair(row scanner) (*models.UserPair, error) {
	pair := &models.UserPair{UserA: &models.User{}, UserB: &models.User{}}
	var acceptedAt sql.NullTime
	var telegramA, telegramB sql.NullInt64
	if err := row.Scan(
		&pair.ID, &pair.UserAID, &pair.UserBID, &pair.Accepted, &acceptedAt, &pair.CreatedAt,
		&pair.UserA.ID, &pair.UserA.Username, &pair.UserA.FirstName, &pair.UserA.LastName,
		&telegramA, &pair.UserA.CreatedAt, &pair.UserA.UpdatedAt,
		&pair.UserB.ID, &pair.UserB.Username, &pair.UserB.FirstName, &pair.UserB.LastName,
		&telegramB, &pair.UserB.CreatedAt, &pair.UserB.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if acceptedAt.Valid {
		t := acceptedAt.Time
		pair.AcceptedAt = &t
	}
	if telegramA.Valid {
		id := telegramA.Int64
		pair.UserA.TelegramID = &id
	}
	if telegramB.Valid {
		id := telegramB.Int64
		pair.UserB.TelegramID = &id
	}
	return pair, nil
}

func (r *userPairRepository) Create(ctx context.Context, pair *models.UserPair) (*models.UserPair, error) {
	pair.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO user_pairs (user_a_id, user_b_id, accepted, created_at)
		VALUES ($1, $2, FALSE, $3)
		RETURNING id, created_at`,
		pair.UserAID, pair.UserBID, pair.CreatedAt,
	).Scan(&pair.ID, &pair.CreatedAt)
	if err != nil {
		if err := mapUnique(err); errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user pair: %w", err)
	}

	return r.GetByID(ctx, pair.ID)
}

func (r *userPairRepository) getOne(ctx context.Context, where string, args ...any) (*models.UserPair, error) {
	pair, err := scanPair(r.db.QueryRowContext(ctx, pairSelect+` WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user pair: %w", err)
	}
	return pair, nil
}

func (r *userPairRepository) GetByID(ctx context.Context, id int64) (*models.UserPair, error) {
	return r.getOne(ctx, `p.id = $1`, id)
}

func (r *userPairRepository) FindBetween(ctx context.Context, a, b int64) (*models.UserPair, error) {
	return r.getOne(ctx,
		`(p.user_a_id = $1 AND p.user_b_id = $2) OR (p.user_a_id = $2 AND p.user_b_id = $1)`, a, b)
}

func (r *userPairRepository) ListByUser(ctx context.Context, userID int64, onlyAccepted bool) ([]*models.UserPair, error) {
	query := pairSelect + ` WHERE (p.user_a_id = $1 OR p.user_b_id = $1)`
	if onlyAccepted {
		query += ` AND p.accepted`
	}
	query += ` ORDER BY p.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user pairs: %w", err)
	}
	defer rows.Close()

	var pairs []*models.UserPair
	for rows.Next() {
		pair, err := scanPair(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user pair: %w", err)
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}

func (r *userPairRepository) Accept(ctx context.Context, id int64, at time.Time) (*models.UserPair, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE user_pairs
		SET accepted = TRUE, accepted_at = COALESCE(accepted_at, $2)
		WHERE id = $1`, id, at)
	if err != nil {
		return nil, fmt.Errorf("failed to accept user pair: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *userPairRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_pairs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user pair: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
