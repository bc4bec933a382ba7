package api

import (
	"net/http"
)

func (s *Server) handleListPairs(w http.ResponseWriter, r *http.Request, userID int64) {
	pairs, err := s.svc.ListPairs(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	views := make([]*pairView, 0, len(pairs))
	for _, p := range pairs {
		views = append(views, newPairView(p))
	}
	s.respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request, userID int64) {
	friends, err := s.svc.ListConfirmedFriends(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newUserViews(friends))
}

// handleCreatePair invites the user named by {id}.
func (s *Server) handleCreatePair(w http.ResponseWriter, r *http.Request, userID int64) {
	inviteeID, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	pair, err := s.svc.CreatePair(r.Context(), userID, inviteeID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, newPairView(pair))
}

func (s *Server) handleAcceptPair(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.svc.AcceptPair(r.Context(), id, userID); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleRemovePair(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.svc.RemovePair(r.Context(), id, userID); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}
