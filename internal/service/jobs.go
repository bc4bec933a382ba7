package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/repository"
	apperrors "github.com/Kerhoff/ChoreboT/pkg/errors"
	"github.com/Kerhoff/ChoreboT/pkg/metrics"
	"github.com/Kerhoff/ChoreboT/pkg/validator"
)

// JobInput carries the editable fields of a job. UpdateJob replaces all of
// them; there is no partial update. LastCompleted is required on create too.
type JobInput struct {
	Title         string `json:"title" validate:"required,max=200"`
	Description   string `json:"description" validate:"max=2000"`
	TypeID        int64  `json:"type" validate:"required,gt=0"`
	Frequency     int    `json:"frequency" validate:"gt=0,lte=36500"`
	LastCompleted string `json:"last_completed" validate:"required,datetime=2006-01-02"`
}

// toJob validates the input and resolves the job type.
func (s *Service) toJob(ctx context.Context, in JobInput) (*models.Job, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if err := validator.ValidateStruct(in); err != nil {
		return nil, apperrors.NewInvalidInput(err.Error())
	}

	lastCompleted, err := models.ParseDate(in.LastCompleted)
	if err != nil {
		return nil, apperrors.NewInvalidInput("last_completed must be YYYY-MM-DD")
	}

	jobType, err := s.JobTypes.GetByID(ctx, in.TypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup job type %d: %w", in.TypeID, err)
	}
	if jobType == nil {
		return nil, ErrUnknownJobType
	}

	return &models.Job{
		Title:         in.Title,
		Description:   in.Description,
		TypeID:        jobType.ID,
		Frequency:     in.Frequency,
		LastCompleted: lastCompleted,
	}, nil
}

// memberJob loads a job and checks that userID belongs to it.
func (s *Service) memberJob(ctx context.Context, jobID, userID int64) (*models.Job, error) {
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup job %d: %w", jobID, err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if !job.HasMember(userID) {
		return nil, ErrNotJobMember
	}
	return job, nil
}

// ListJobTypes returns every job type.
func (s *Service) ListJobTypes(ctx context.Context) ([]*models.JobType, error) {
	types, err := s.JobTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list job types: %w", err)
	}
	return types, nil
}

// CreateJob creates a job whose only member and recorded completer is the creator.
func (s *Service) CreateJob(ctx context.Context, creatorID int64, in JobInput) (*models.Job, error) {
	job, err := s.toJob(ctx, in)
	if err != nil {
		return nil, err
	}
	job.CreatedByID = creatorID
	job.LastCompletedByID = creatorID

	job, err = s.Jobs.Create(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"job_id":  job.ID,
		"user_id": creatorID,
	}).Info("Job created")
	return job, nil
}

// GetJob returns a job the user is a member of.
func (s *Service) GetJob(ctx context.Context, jobID, userID int64) (*models.Job, error) {
	return s.memberJob(ctx, jobID, userID)
}

// ListJobs returns every job the user is a member of.
func (s *Service) ListJobs(ctx context.Context, userID int64) ([]*models.Job, error) {
	jobs, err := s.Jobs.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs for user %d: %w", userID, err)
	}
	return jobs, nil
}

// DueJobs returns the user's jobs whose frequency interval has elapsed.
func (s *Service) DueJobs(ctx context.Context, userID int64) ([]*models.Job, error) {
	jobs, err := s.ListJobs(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	due := make([]*models.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.IsDue(today) {
			due = append(due, j)
		}
	}
	return due, nil
}

// UpdateJob replaces the editable fields of a job. Members and the last
// completer are left untouched.
func (s *Service) UpdateJob(ctx context.Context, jobID, userID int64, in JobInput) (*models.Job, error) {
	if _, err := s.memberJob(ctx, jobID, userID); err != nil {
		return nil, err
	}

	job, err := s.toJob(ctx, in)
	if err != nil {
		return nil, err
	}
	job.ID = jobID

	updated, err := s.Jobs.Update(ctx, job)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update job %d: %w", jobID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"job_id":  jobID,
		"user_id": userID,
	}).Info("Job updated")
	return updated, nil
}

// LeaveOrDeleteJob removes the user from the job. The job is deleted, along
// with its pending invites, when the user was its last member. It reports
// whether the job was deleted.
func (s *Service) LeaveOrDeleteJob(ctx context.Context, jobID, userID int64) (bool, error) {
	if _, err := s.memberJob(ctx, jobID, userID); err != nil {
		return false, err
	}

	deleted, err := s.Jobs.RemoveMember(ctx, jobID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		// Lost a race with another leave of the same user or with the deletion.
		return false, ErrJobNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to leave job %d: %w", jobID, err)
	}

	fields := logrus.Fields{"job_id": jobID, "user_id": userID}
	if deleted {
		s.logger.WithFields(fields).Info("Last member left, job deleted")
	} else {
		s.logger.WithFields(fields).Info("Member left job")
	}
	return deleted, nil
}

// CompleteJob records the user as the last completer today. The previous
// completion is overwritten.
func (s *Service) CompleteJob(ctx context.Context, jobID, userID int64) error {
	if _, err := s.memberJob(ctx, jobID, userID); err != nil {
		return err
	}

	err := s.Jobs.Complete(ctx, jobID, userID, s.today())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotJobMember
	}
	if err != nil {
		return fmt.Errorf("failed to complete job %d: %w", jobID, err)
	}

	metrics.JobCompletions.Inc()
	s.logger.WithFields(logrus.Fields{
		"job_id":  jobID,
		"user_id": userID,
	}).Info("Job completed")
	return nil
}
