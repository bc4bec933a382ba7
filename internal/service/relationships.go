package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/repository"
	"github.com/Kerhoff/ChoreboT/pkg/metrics"
)

// A friendship moves Pending -> Accepted and can be deleted by either side
// from both states. It never returns from Accepted to Pending.

// CreatePair sends a friendship invitation from inviterID to inviteeID.
func (s *Service) CreatePair(ctx context.Context, inviterID, inviteeID int64) (*models.UserPair, error) {
	if inviterID == inviteeID {
		return nil, ErrSelfPair
	}

	if _, err := s.GetUser(ctx, inviteeID); err != nil {
		return nil, err
	}

	existing, err := s.Pairs.FindBetween(ctx, inviterID, inviteeID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user pair: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicatePair
	}

	pair, err := s.Pairs.Create(ctx, &models.UserPair{UserAID: inviterID, UserBID: inviteeID})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrDuplicatePair
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user pair: %w", err)
	}

	metrics.FriendshipEvents.WithLabelValues("invited").Inc()
	s.logger.WithFields(logrus.Fields{
		"pair_id": pair.ID,
		"inviter": inviterID,
		"invitee": inviteeID,
	}).Info("Friend invitation sent")
	return pair, nil
}

func (s *Service) getPair(ctx context.Context, pairID int64) (*models.UserPair, error) {
	pair, err := s.Pairs.GetByID(ctx, pairID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user pair %d: %w", pairID, err)
	}
	if pair == nil {
		return nil, ErrPairNotFound
	}
	return pair, nil
}

// AcceptPair accepts a pending invitation. Only the invited side may accept.
// Accepting an already accepted pair succeeds and keeps the first accepted_at.
func (s *Service) AcceptPair(ctx context.Context, pairID, userID int64) (*models.UserPair, error) {
	pair, err := s.getPair(ctx, pairID)
	if err != nil {
		return nil, err
	}
	if !pair.IsInvitee(userID) {
		return nil, ErrNotInvitee
	}
	if !pair.IsPending() {
		return pair, nil
	}

	pair, err = s.Pairs.Accept(ctx, pairID, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPairNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to accept user pair %d: %w", pairID, err)
	}

	metrics.FriendshipEvents.WithLabelValues("accepted").Inc()
	s.logger.WithFields(logrus.Fields{
		"pair_id": pairID,
		"user_id": userID,
	}).Info("Friend invitation accepted")
	return pair, nil
}

// RemovePair rejects a pending invitation or ends a friendship. Either side may do it.
func (s *Service) RemovePair(ctx context.Context, pairID, userID int64) error {
	pair, err := s.getPair(ctx, pairID)
	if err != nil {
		return err
	}
	if !pair.Involves(userID) {
		return ErrNotPairParty
	}

	err = s.Pairs.Delete(ctx, pairID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPairNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete user pair %d: %w", pairID, err)
	}

	metrics.FriendshipEvents.WithLabelValues("removed").Inc()
	s.logger.WithFields(logrus.Fields{
		"pair_id":  pairID,
		"user_id":  userID,
		"accepted": pair.Accepted,
	}).Info("Friendship removed")
	return nil
}

// ListPairs returns every pending or accepted pair the user is part of.
func (s *Service) ListPairs(ctx context.Context, userID int64) ([]*models.UserPair, error) {
	pairs, err := s.Pairs.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list user pairs for user %d: %w", userID, err)
	}
	return pairs, nil
}

// ListConfirmedFriends returns the other side of every accepted pair, in pair order.
func (s *Service) ListConfirmedFriends(ctx context.Context, userID int64) ([]*models.User, error) {
	pairs, err := s.Pairs.ListByUser(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends for user %d: %w", userID, err)
	}

	friends := make([]*models.User, 0, len(pairs))
	for _, p := range pairs {
		friend := p.UserA
		if p.UserAID == userID {
			friend = p.UserB
		}
		if friend == nil {
			friend = &models.User{ID: p.OtherID(userID)}
		}
		friends = append(friends, friend)
	}
	return friends, nil
}

// areFriends reports whether an accepted pair joins a and b.
func (s *Service) areFriends(ctx context.Context, a, b int64) (bool, error) {
	pair, err := s.Pairs.FindBetween(ctx, a, b)
	if err != nil {
		return false, fmt.Errorf("failed to lookup user pair: %w", err)
	}
	return pair != nil && pair.Accepted, nil
}
