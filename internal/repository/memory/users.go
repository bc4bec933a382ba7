package memory

import (
	"context"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/repository"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return nil, repository.ErrDuplicate
		}
		if user.TelegramID != nil && u.TelegramID != nil && *u.TelegramID == *user.TelegramID {
			return nil, repository.ErrDuplicate
		}
	}

	now := r.s.now()
	stored := copyUser(user)
	stored.ID = r.s.nextID("users")
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.s.users[stored.ID] = stored

	return copyUser(stored), nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return copyUser(r.s.users[id]), nil
}

func (r *userRepository) GetByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.TelegramID != nil && *u.TelegramID == telegramID {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *userRepository) Update(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for id, u := range r.s.users {
		if id != user.ID && u.Username == user.Username {
			return nil, repository.ErrDuplicate
		}
	}

	stored := copyUser(user)
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = r.s.now()
	r.s.users[user.ID] = stored

	return copyUser(stored), nil
}

type jobTypeRepository struct {
	s *Store
}

func (r *jobTypeRepository) List(_ context.Context) ([]*models.JobType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	types := make([]*models.JobType, len(r.s.jobTypes))
	for i, t := range r.s.jobTypes {
		cpy := *t
		types[i] = &cpy
	}
	return types, nil
}

func (r *jobTypeRepository) GetByID(_ context.Context, id int64) (*models.JobType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.jobTypes {
		if t.ID == id {
			cpy := *t
			return &cpy, nil
		}
	}
	return nil, nil
}
