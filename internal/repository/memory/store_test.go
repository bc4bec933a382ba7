package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/repository"
)

func seedUsers(t *testing.T, s *Store, names ...string) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, len(names))
	for _, name := range names {
		u, err := s.Users().Create(context.Background(), &models.User{Username: name, FirstName: name})
		require.NoError(t, err)
		users = append(users, u)
	}
	return users
}

func seedJob(t *testing.T, s *Store, creator int64) *models.Job {
	t.Helper()
	job, err := s.Jobs().Create(context.Background(), &models.Job{
		Title:             "Dishes",
		TypeID:            1,
		Frequency:         7,
		CreatedByID:       creator,
		LastCompletedByID: creator,
		LastCompleted:     time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return job
}

func TestJobTypesSeeded(t *testing.T) {
	s := New()

	types, err := s.JobTypes().List(context.Background())
	require.NoError(t, err)
	require.Len(t, types, len(DefaultJobTypes))
	require.Equal(t, int64(1), types[0].ID)
	require.Equal(t, "Cleaning", types[0].Label)

	missing, err := s.JobTypes().GetByID(context.Background(), 99)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUsersRejectDuplicateUsername(t *testing.T) {
	s := New()
	seedUsers(t, s, "ann")

	_, err := s.Users().Create(context.Background(), &models.User{Username: "ann"})
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestJobCreateHydratesRelations(t *testing.T) {
	s := New()
	users := seedUsers(t, s, "ann")

	job := seedJob(t, s, users[0].ID)

	require.Equal(t, int64(1), job.ID)
	require.Equal(t, "Cleaning", job.Type.Label)
	require.Equal(t, "ann", job.LastCompletedBy.Username)
	require.Len(t, job.Members, 1)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), job.LastCompleted)
}

func TestJobReturnedCopiesAreDetached(t *testing.T) {
	s := New()
	users := seedUsers(t, s, "ann")
	job := seedJob(t, s, users[0].ID)

	job.Title = "Changed"
	job.Members = nil

	fresh, err := s.Jobs().GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	require.Equal(t, "Dishes", fresh.Title)
	require.Len(t, fresh.Members, 1)
}

func TestRemoveMemberDeletesEmptyJobAndInvites(t *testing.T) {
	ctx := context.Background()
	s := New()
	users := seedUsers(t, s, "ann", "bob")
	job := seedJob(t, s, users[0].ID)

	_, err := s.JobInvites().Create(ctx, &models.JobInvite{JobID: job.ID, InviterID: users[0].ID, InviteeID: users[1].ID})
	require.NoError(t, err)

	deleted, err := s.Jobs().RemoveMember(ctx, job.ID, users[0].ID)
	require.NoError(t, err)
	require.True(t, deleted)

	got, err := s.Jobs().GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	invites, err := s.JobInvites().ListByInvitee(ctx, users[1].ID)
	require.NoError(t, err)
	require.Empty(t, invites)

	_, err = s.Jobs().RemoveMember(ctx, job.ID, users[0].ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConcurrentLeavesDeleteExactlyOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	users := seedUsers(t, s, "ann", "bob")
	job := seedJob(t, s, users[0].ID)

	invite, err := s.JobInvites().Create(ctx, &models.JobInvite{JobID: job.ID, InviterID: users[0].ID, InviteeID: users[1].ID})
	require.NoError(t, err)
	joined, err := s.JobInvites().Accept(ctx, invite)
	require.NoError(t, err)
	require.True(t, joined)

	var wg sync.WaitGroup
	results := make(chan bool, 2)
	for _, u := range users {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			deleted, err := s.Jobs().RemoveMember(ctx, job.ID, id)
			assert.NoError(t, err)
			results <- deleted
		}(u.ID)
	}
	wg.Wait()
	close(results)

	deletions := 0
	for d := range results {
		if d {
			deletions++
		}
	}
	require.Equal(t, 1, deletions)

	got, err := s.Jobs().GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCompleteRequiresMembership(t *testing.T) {
	ctx := context.Background()
	s := New()
	users := seedUsers(t, s, "ann", "bob")
	job := seedJob(t, s, users[0].ID)
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	require.ErrorIs(t, s.Jobs().Complete(ctx, job.ID, users[1].ID, day), repository.ErrNotFound)
	require.NoError(t, s.Jobs().Complete(ctx, job.ID, users[0].ID, day))

	got, err := s.Jobs().GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, day, got.LastCompleted)
}

func TestListDueSkipsNotified(t *testing.T) {
	ctx := context.Background()
	s := New()
	users := seedUsers(t, s, "ann")
	job := seedJob(t, s, users[0].ID)

	day := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	due, err := s.Jobs().ListDue(ctx, day)
	require.NoError(t, err)
	require.Len(t, due, 1)

	require.NoError(t, s.Jobs().MarkNotified(ctx, job.ID, day))

	due, err = s.Jobs().ListDue(ctx, day)
	require.NoError(t, err)
	require.Empty(t, due)

	due, err = s.Jobs().ListDue(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, due, 1)
}

func TestPairsAreUnordered(t *testing.T) {
	ctx := context.Background()
	s := New()
	users := seedUsers(t, s, "ann", "bob")

	_, err := s.UserPairs().Create(ctx, &models.UserPair{UserAID: users[0].ID, UserBID: users[1].ID})
	require.NoError(t, err)

	_, err = s.UserPairs().Create(ctx, &models.UserPair{UserAID: users[1].ID, UserBID: users[0].ID})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	found, err := s.UserPairs().FindBetween(ctx, users[1].ID, users[0].ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, "ann", found.UserA.Username)
}

func TestPairAcceptKeepsFirstTimestamp(t *testing.T) {
	ctx := context.Background()
	s := New()
	users := seedUsers(t, s, "ann", "bob")
	pair, err := s.UserPairs().Create(ctx, &models.UserPair{UserAID: users[0].ID, UserBID: users[1].ID})
	require.NoError(t, err)

	first := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	accepted, err := s.UserPairs().Accept(ctx, pair.ID, first)
	require.NoError(t, err)
	require.True(t, accepted.Accepted)

	again, err := s.UserPairs().Accept(ctx, pair.ID, first.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, first, *again.AcceptedAt)

	onlyAccepted, err := s.UserPairs().ListByUser(ctx, users[1].ID, true)
	require.NoError(t, err)
	require.Len(t, onlyAccepted, 1)
}
