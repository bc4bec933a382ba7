package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/repository"
)

// Service is the business logic layer shared by the HTTP API and the
// Telegram bot. Every operation takes the acting user's id explicitly.
type Service struct {
	logger   *logrus.Logger
	now      func() time.Time
	Users    repository.UserRepository
	JobTypes repository.JobTypeRepository
	Jobs     repository.JobRepository
	Pairs    repository.UserPairRepository
	Invites  repository.JobInviteRepository
}

// Option customises the Service.
type Option func(*Service)

// WithClock overrides the clock used for completion dates and acceptance stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger,
	users repository.UserRepository,
	jobTypes repository.JobTypeRepository,
	jobs repository.JobRepository,
	pairs repository.UserPairRepository,
	invites repository.JobInviteRepository,
	opts ...Option,
) *Service {
	s := &Service{
		logger: logger, now: time.Now,
		Users: users, JobTypes: jobTypes, Jobs: jobs,
		Pairs: pairs, Invites: invites,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// today is the server-clock calendar date.
func (s *Service) today() time.Time {
	return models.DateOf(s.now())
}

// GetUser returns the user with the given id or ErrUserNotFound.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user %d: %w", id, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// EnsureUser retrieves the user linked to a Telegram account, creating it on
// first contact. Changed profile fields are written back. Accounts without a
// Telegram username get a generated "tg<id>" username.
func (s *Service) EnsureUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*models.User, error) {
	username = strings.TrimSpace(username)
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if username == "" {
		username = "tg" + strconv.FormatInt(telegramID, 10)
	}

	user, err := s.Users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user (telegram_id=%d): %w", telegramID, err)
	}
	if user == nil {
		tgID := telegramID
		user, err = s.Users.Create(ctx, &models.User{
			Username:   username,
			FirstName:  firstName,
			LastName:   lastName,
			TelegramID: &tgID,
		})
		if errors.Is(err, repository.ErrDuplicate) {
			// The username belongs to an account created outside Telegram.
			user, err = s.Users.Create(ctx, &models.User{
				Username:   username + "_tg" + strconv.FormatInt(telegramID, 10),
				FirstName:  firstName,
				LastName:   lastName,
				TelegramID: &tgID,
			})
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create user (telegram_id=%d): %w", telegramID, err)
		}
		s.logger.Infof("Created new user: %s (telegram_id=%d)", user.DisplayName(), telegramID)
		return user, nil
	}

	needsUpdate := false
	if user.FirstName != firstName {
		user.FirstName = firstName
		needsUpdate = true
	}
	if user.LastName != lastName {
		user.LastName = lastName
		needsUpdate = true
	}

	if needsUpdate {
		updated, err := s.Users.Update(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("failed to update user %d: %w", user.ID, err)
		}
		user = updated
		s.logger.Infof("Updated user profile: %s (telegram_id=%d)", user.DisplayName(), telegramID)
	}

	return user, nil
}
