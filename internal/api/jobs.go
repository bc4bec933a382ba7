package api

import (
	"net/http"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/service"
	apperrors "github.com/Kerhoff/ChoreboT/pkg/errors"
)

func (s *Server) handleListJobTypes(w http.ResponseWriter, r *http.Request, _ int64) {
	types, err := s.svc.ListJobTypes(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if types == nil {
		types = []*models.JobType{}
	}
	s.respondJSON(w, http.StatusOK, types)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request, userID int64) {
	var in service.JobInput
	if err := decodeJSON(r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}

	job, err := s.svc.CreateJob(r.Context(), userID, in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, newJobView(job, s.svc.Now()))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request, userID int64) {
	jobs, err := s.svc.ListJobs(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newJobViews(jobs, s.svc.Now()))
}

func (s *Server) handleDueJobs(w http.ResponseWriter, r *http.Request, userID int64) {
	jobs, err := s.svc.DueJobs(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newJobViews(jobs, s.svc.Now()))
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	job, err := s.svc.GetJob(r.Context(), id, userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newJobView(job, s.svc.Now()))
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var in service.JobInput
	if err := decodeJSON(r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.svc.UpdateJob(r.Context(), id, userID, in); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleLeaveJob(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.svc.LeaveOrDeleteJob(r.Context(), id, userID); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCompleteJob(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.svc.CompleteJob(r.Context(), id, userID); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

type shareJobRequest struct {
	Invitee int64 `json:"invitee"`
}

func (s *Server) handleShareJob(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req shareJobRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Invitee <= 0 {
		s.respondError(w, r, apperrors.NewInvalidInput("invitee is required"))
		return
	}

	invite, err := s.svc.ShareJob(r.Context(), id, userID, req.Invitee)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, newInviteView(invite))
}

func (s *Server) handleListInvites(w http.ResponseWriter, r *http.Request, userID int64) {
	invites, err := s.svc.ListJobInvites(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	views := make([]*inviteView, 0, len(invites))
	for _, inv := range invites {
		views = append(views, newInviteView(inv))
	}
	s.respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleAcceptInvite(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	job, err := s.svc.AcceptJobInvite(r.Context(), id, userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newJobView(job, s.svc.Now()))
}

func (s *Server) handleDeclineInvite(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.svc.DeclineJobInvite(r.Context(), id, userID); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}
