package memory

import (
	"context"
	"time"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/repository"
)

type jobRepository struct {
	s *Store
}

// hydrate returns a detached copy of rec with its relations resolved; callers hold s.mu.
func (s *Store) hydrate(rec *jobRecord) *models.Job {
	job := rec.job
	if rec.job.NotifiedOn != nil {
		t := *rec.job.NotifiedOn
		job.NotifiedOn = &t
	}
	for _, t := range s.jobTypes {
		if t.ID == job.TypeID {
			cpy := *t
			job.Type = &cpy
		}
	}
	job.LastCompletedBy = s.userOrStub(job.LastCompletedByID)
	job.Members = make([]models.User, 0, len(rec.members))
	for _, id := range rec.members {
		job.Members = append(job.Members, *s.userOrStub(id))
	}
	return &job
}

func (r *jobRepository) Create(_ context.Context, job *models.Job) (*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := &jobRecord{job: *job, members: []int64{job.CreatedByID}}
	rec.job.ID = r.s.nextID("jobs")
	rec.job.CreatedAt = r.s.now()
	rec.job.LastCompleted = models.DateOf(job.LastCompleted)
	rec.job.NotifiedOn = nil
	rec.job.Type = nil
	rec.job.LastCompletedBy = nil
	rec.job.Members = nil
	r.s.jobs[rec.job.ID] = rec

	return r.s.hydrate(rec), nil
}

func (r *jobRepository) GetByID(_ context.Context, id int64) (*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.jobs[id]
	if !ok {
		return nil, nil
	}
	return r.s.hydrate(rec), nil
}

func (r *jobRepository) ListByMember(_ context.Context, userID int64) ([]*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var jobs []*models.Job
	for _, id := range sortedKeys(r.s.jobs) {
		rec := r.s.jobs[id]
		for _, m := range rec.members {
			if m == userID {
				jobs = append(jobs, r.s.hydrate(rec))
				break
			}
		}
	}
	return jobs, nil
}

func (r *jobRepository) ListDue(_ context.Context, day time.Time) ([]*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var jobs []*models.Job
	for _, id := range sortedKeys(r.s.jobs) {
		rec := r.s.jobs[id]
		if rec.job.IsDue(day) && !rec.job.WasNotifiedOn(day) {
			jobs = append(jobs, r.s.hydrate(rec))
		}
	}
	return jobs, nil
}

func (r *jobRepository) Update(_ context.Context, job *models.Job) (*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.jobs[job.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rec.job.Title = job.Title
	rec.job.Description = job.Description
	rec.job.TypeID = job.TypeID
	rec.job.Frequency = job.Frequency
	rec.job.LastCompleted = models.DateOf(job.LastCompleted)

	return r.s.hydrate(rec), nil
}

func (r *jobRepository) Complete(_ context.Context, jobID, userID int64, day time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.jobs[jobID]
	if !ok || !containsID(rec.members, userID) {
		return repository.ErrNotFound
	}
	rec.job.LastCompleted = models.DateOf(day)
	rec.job.LastCompletedByID = userID
	return nil
}

func (r *jobRepository) RemoveMember(_ context.Context, jobID, userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.jobs[jobID]
	if !ok || !containsID(rec.members, userID) {
		return false, repository.ErrNotFound
	}

	remaining := rec.members[:0:0]
	for _, m := range rec.members {
		if m != userID {
			remaining = append(remaining, m)
		}
	}
	rec.members = remaining
	if len(remaining) > 0 {
		return false, nil
	}

	delete(r.s.jobs, jobID)
	for id, inv := range r.s.invites {
		if inv.JobID == jobID {
			delete(r.s.invites, id)
		}
	}
	return true, nil
}

func (r *jobRepository) MarkNotified(_ context.Context, jobID int64, day time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.jobs[jobID]
	if !ok {
		return nil
	}
	d := models.DateOf(day)
	rec.job.NotifiedOn = &d
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
