package memory

import (
	"context"
	"time"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/repository"
)

type userPairRepository struct {
	s *Store
}

func (s *Store) hydratePair(p *models.UserPair) *models.UserPair {
	cpy := *p
	if p.AcceptedAt != nil {
		t := *p.AcceptedAt
		cpy.AcceptedAt = &t
	}
	cpy.UserA = s.userOrStub(p.UserAID)
	cpy.UserB = s.userOrStub(p.UserBID)
	return &cpy
}

func (r *userPairRepository) Create(_ context.Context, pair *models.UserPair) (*models.UserPair, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.pairs {
		if p.Joins(pair.UserAID, pair.UserBID) {
			return nil, repository.ErrDuplicate
		}
	}

	stored := &models.UserPair{
		ID:        r.s.nextID("user_pairs"),
		UserAID:   pair.UserAID,
		UserBID:   pair.UserBID,
		CreatedAt: r.s.now(),
	}
	r.s.pairs[stored.ID] = stored

	return r.s.hydratePair(stored), nil
}

func (r *userPairRepository) GetByID(_ context.Context, id int64) (*models.UserPair, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.pairs[id]
	if !ok {
		return nil, nil
	}
	return r.s.hydratePair(p), nil
}

func (r *userPairRepository) FindBetween(_ context.Context, a, b int64) (*models.UserPair, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range sortedKeys(r.s.pairs) {
		if p := r.s.pairs[id]; p.Joins(a, b) {
			return r.s.hydratePair(p), nil
		}
	}
	return nil, nil
}

func (r *userPairRepository) ListByUser(_ context.Context, userID int64, onlyAccepted bool) ([]*models.UserPair, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var pairs []*models.UserPair
	for _, id := range sortedKeys(r.s.pairs) {
		p := r.s.pairs[id]
		if !p.Involves(userID) || (onlyAccepted && !p.Accepted) {
			continue
		}
		pairs = append(pairs, r.s.hydratePair(p))
	}
	return pairs, nil
}

func (r *userPairRepository) Accept(_ context.Context, id int64, at time.Time) (*models.UserPair, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.pairs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Accepted = true
	if p.AcceptedAt == nil {
		p.AcceptedAt = &at
	}
	return r.s.hydratePair(p), nil
}

func (r *userPairRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pairs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.pairs, id)
	return nil
}
