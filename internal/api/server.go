// Package api exposes the job, friendship and invitation operations over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ChoreboT/internal/auth"
	"github.com/Kerhoff/ChoreboT/internal/service"
	apperrors "github.com/Kerhoff/ChoreboT/pkg/errors"
)

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Server provides the JSON API.
type Server struct {
	svc    *service.Service
	tokens TokenValidator
	logger *logrus.Logger
	mux    *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, tokens TokenValidator, logger *logrus.Logger) *Server {
	s := &Server{svc: svc, tokens: tokens, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.recoverer(s.requestID(s.accessLog(s.mux)))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.Handle("GET /api/job-types", s.authed(s.handleListJobTypes))

	// Jobs
	s.mux.Handle("POST /api/jobs", s.authed(s.handleCreateJob))
	s.mux.Handle("GET /api/jobs", s.authed(s.handleListJobs))
	s.mux.Handle("GET /api/jobs/due", s.authed(s.handleDueJobs))
	s.mux.Handle("GET /api/jobs/{id}", s.authed(s.handleGetJob))
	s.mux.Handle("PUT /api/jobs/{id}", s.authed(s.handleUpdateJob))
	s.mux.Handle("DELETE /api/jobs/{id}", s.authed(s.handleLeaveJob))
	s.mux.Handle("POST /api/jobs/{id}/complete", s.authed(s.handleCompleteJob))
	s.mux.Handle("POST /api/jobs/{id}/share", s.authed(s.handleShareJob))

	// Job invites
	s.mux.Handle("GET /api/invites", s.authed(s.handleListInvites))
	s.mux.Handle("POST /api/invites/{id}/accept", s.authed(s.handleAcceptInvite))
	s.mux.Handle("DELETE /api/invites/{id}", s.authed(s.handleDeclineInvite))

	// Friends
	s.mux.Handle("GET /api/friends", s.authed(s.handleListPairs))
	s.mux.Handle("GET /api/friends/confirmed", s.authed(s.handleListFriends))
	s.mux.Handle("POST /api/friends/{id}/invite", s.authed(s.handleCreatePair))
	s.mux.Handle("POST /api/friends/{id}/accept", s.authed(s.handleAcceptPair))
	s.mux.Handle("DELETE /api/friends/{id}", s.authed(s.handleRemovePair))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// JSON helpers

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	if data == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode JSON response")
	}
}

type errorBody struct {
	Error *apperrors.AppError `json:"error"`
}

// respondError renders err with the status of its AppError. Anything that is
// not an AppError becomes a 500 whose cause is logged, never rendered.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.FromError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": requestIDFrom(r.Context()),
		}).WithError(err).Error("request failed")
	}
	s.respondJSON(w, appErr.StatusCode, errorBody{Error: appErr})
}

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperrors.NewInvalidInput("request body is empty")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewInvalidInput("request body is empty")
		}
		return apperrors.NewInvalidInput(fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

// pathID extracts the {id} path value and converts it to int64.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewInvalidInput("invalid id in path")
	}
	return id, nil
}
