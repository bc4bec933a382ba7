package memory

import (
	"context"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/repository"
)

type jobInviteRepository struct {
	s *Store
}

func (s *Store) hydrateInvite(inv *models.JobInvite) *models.JobInvite {
	cpy := *inv
	cpy.Job = &models.Job{ID: inv.JobID}
	if rec, ok := s.jobs[inv.JobID]; ok {
		cpy.Job.Title = rec.job.Title
	}
	cpy.Inviter = s.userOrStub(inv.InviterID)
	cpy.Invitee = s.userOrStub(inv.InviteeID)
	return &cpy
}

func (r *jobInviteRepository) Create(_ context.Context, invite *models.JobInvite) (*models.JobInvite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[invite.JobID]; !ok {
		return nil, repository.ErrNotFound
	}
	for _, inv := range r.s.invites {
		if inv.JobID == invite.JobID && inv.InviteeID == invite.InviteeID {
			return nil, repository.ErrDuplicate
		}
	}

	stored := &models.JobInvite{
		ID:        r.s.nextID("job_invites"),
		JobID:     invite.JobID,
		InviterID: invite.InviterID,
		InviteeID: invite.InviteeID,
		CreatedAt: r.s.now(),
	}
	r.s.invites[stored.ID] = stored

	return r.s.hydrateInvite(stored), nil
}

func (r *jobInviteRepository) GetByID(_ context.Context, id int64) (*models.JobInvite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	inv, ok := r.s.invites[id]
	if !ok {
		return nil, nil
	}
	return r.s.hydrateInvite(inv), nil
}

func (r *jobInviteRepository) FindByJobAndInvitee(_ context.Context, jobID, inviteeID int64) (*models.JobInvite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, inv := range r.s.invites {
		if inv.JobID == jobID && inv.InviteeID == inviteeID {
			return r.s.hydrateInvite(inv), nil
		}
	}
	return nil, nil
}

func (r *jobInviteRepository) ListByInvitee(_ context.Context, inviteeID int64) ([]*models.JobInvite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var invites []*models.JobInvite
	for _, id := range sortedKeys(r.s.invites) {
		if inv := r.s.invites[id]; inv.InviteeID == inviteeID {
			invites = append(invites, r.s.hydrateInvite(inv))
		}
	}
	return invites, nil
}

func (r *jobInviteRepository) Accept(_ context.Context, invite *models.JobInvite) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.invites[invite.ID]; !ok {
		return false, repository.ErrNotFound
	}
	rec, ok := r.s.jobs[invite.JobID]
	if !ok {
		return false, nil
	}

	if !containsID(rec.members, invite.InviteeID) {
		rec.members = append(rec.members, invite.InviteeID)
	}
	delete(r.s.invites, invite.ID)
	return true, nil
}

func (r *jobInviteRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.invites[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.invites, id)
	return nil
}
