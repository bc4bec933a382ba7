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

// ShareJob invites a confirmed friend onto a job the inviter belongs to.
func (s *Service) ShareJob(ctx context.Context, jobID, inviterID, inviteeID int64) (*models.JobInvite, error) {
	job, err := s.memberJob(ctx, jobID, inviterID)
	if err != nil {
		return nil, err
	}

	friends, err := s.areFriends(ctx, inviterID, inviteeID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, ErrNotFriends
	}

	if job.HasMember(inviteeID) {
		return nil, ErrAlreadyMember
	}

	existing, err := s.Invites.FindByJobAndInvitee(ctx, jobID, inviteeID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup job invite: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyInvited
	}

	invite, err := s.Invites.Create(ctx, &models.JobInvite{
		JobID:     jobID,
		InviterID: inviterID,
		InviteeID: inviteeID,
	})
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, ErrAlreadyInvited
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrJobNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to create job invite: %w", err)
	}

	metrics.JobInviteEvents.WithLabelValues("created").Inc()
	s.logger.WithFields(logrus.Fields{
		"invite_id": invite.ID,
		"job_id":    jobID,
		"inviter":   inviterID,
		"invitee":   inviteeID,
	}).Info("Job shared")
	return invite, nil
}

// ListJobInvites returns the pending invites addressed to the user.
func (s *Service) ListJobInvites(ctx context.Context, userID int64) ([]*models.JobInvite, error) {
	invites, err := s.Invites.ListByInvitee(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job invites for user %d: %w", userID, err)
	}
	return invites, nil
}

func (s *Service) getInvite(ctx context.Context, inviteID int64) (*models.JobInvite, error) {
	invite, err := s.Invites.GetByID(ctx, inviteID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup job invite %d: %w", inviteID, err)
	}
	if invite == nil {
		return nil, ErrInviteNotFound
	}
	return invite, nil
}

// AcceptJobInvite makes the invitee a member of the job and consumes the invite.
func (s *Service) AcceptJobInvite(ctx context.Context, inviteID, userID int64) (*models.Job, error) {
	invite, err := s.getInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if invite.InviteeID != userID {
		return nil, ErrNotInvitee
	}

	joined, err := s.Invites.Accept(ctx, invite)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to accept job invite %d: %w", inviteID, err)
	}
	if !joined {
		return nil, ErrJobNotFound
	}

	metrics.JobInviteEvents.WithLabelValues("accepted").Inc()
	s.logger.WithFields(logrus.Fields{
		"invite_id": inviteID,
		"job_id":    invite.JobID,
		"user_id":   userID,
	}).Info("Job invite accepted")

	return s.memberJob(ctx, invite.JobID, userID)
}

// DeclineJobInvite deletes an invite. The invitee declines it, the inviter withdraws it.
func (s *Service) DeclineJobInvite(ctx context.Context, inviteID, userID int64) error {
	invite, err := s.getInvite(ctx, inviteID)
	if err != nil {
		return err
	}
	if invite.InviteeID != userID && invite.InviterID != userID {
		return ErrNotInvitee
	}

	err = s.Invites.Delete(ctx, inviteID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInviteNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete job invite %d: %w", inviteID, err)
	}

	metrics.JobInviteEvents.WithLabelValues("declined").Inc()
	s.logger.WithFields(logrus.Fields{
		"invite_id": inviteID,
		"user_id":   userID,
	}).Info("Job invite declined")
	return nil
}
