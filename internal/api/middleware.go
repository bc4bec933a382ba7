package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "github.com/Kerhoff/ChoreboT/pkg/errors"
	"github.com/Kerhoff/ChoreboT/pkg/metrics"
)

type ctxKey int

const requestIDKey ctxKey = iota

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// requestID reuses the caller's X-Request-ID or assigns a new one.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// accessLog logs every request and records its latency under the matched route pattern.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		duration := time.Since(start)

		// The mux stores the matched pattern on r; raw paths would explode label cardinality.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		} else if _, path, ok := strings.Cut(route, " "); ok {
			route = path
		}
		metrics.APILatency.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Observe(duration.Seconds())

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": duration.Milliseconds(),
			"request_id":  requestIDFrom(r.Context()),
		}).Info("HTTP request")
	})
}

// recoverer turns a handler panic into a 500.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.logger.WithFields(logrus.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"panic":  v,
				}).Error("panic recovered")
				s.respondJSON(w, http.StatusInternalServerError, errorBody{Error: apperrors.ErrInternalServer})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// userHandler is an endpoint that runs on behalf of an authenticated user.
type userHandler func(w http.ResponseWriter, r *http.Request, userID int64)

// authed resolves the bearer token to a known user before calling h.
func (s *Server) authed(h userHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			s.respondError(w, r, apperrors.ErrUnauthenticated)
			return
		}

		claims, err := s.tokens.Validate(strings.TrimSpace(token))
		if err != nil {
			s.logger.WithError(err).Debug("rejected bearer token")
			s.respondError(w, r, apperrors.ErrUnauthenticated.WithMessage("Invalid or expired token"))
			return
		}

		user, err := s.svc.Users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		if user == nil {
			s.respondError(w, r, apperrors.ErrUnauthenticated.WithMessage("Unknown user"))
			return
		}

		h(w, r, user.ID)
	})
}
