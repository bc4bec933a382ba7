package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/ChoreboT/internal/auth"
	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/repository/memory"
	"github.com/Kerhoff/ChoreboT/internal/service"
	"github.com/Kerhoff/ChoreboT/pkg/logger"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	t       *testing.T
	handler http.Handler
	svc     *service.Service
	tokens  *auth.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := func() time.Time { return fixedNow }
	store := memory.New(memory.WithClock(clock))
	svc := service.New(logger.Discard(),
		store.Users(), store.JobTypes(), store.Jobs(), store.UserPairs(), store.JobInvites(),
		service.WithClock(clock),
	)
	tokens, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "chorebot", Clock: clock})
	require.NoError(t, err)

	return &testEnv{
		t:       t,
		handler: NewServer(svc, tokens, logger.Discard()).Handler(),
		svc:     svc,
		tokens:  tokens,
	}
}

// user creates a user and returns it with a bearer token.
func (e *testEnv) user(name string) (*models.User, string) {
	e.t.Helper()
	u, err := e.svc.Users.Create(context.Background(), &models.User{Username: name, FirstName: name})
	require.NoError(e.t, err)
	token, err := e.tokens.Generate(u.ID, u.Username)
	require.NoError(e.t, err)
	return u, token
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode[map[string]map[string]string](t, rec)
	return body["error"]["code"]
}

var dishesBody = map[string]any{
	"title":          "Dishes",
	"description":    "Empty the dishwasher",
	"type":           4,
	"frequency":      1,
	"last_completed": "2024-03-01",
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestAuthentication(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/jobs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, rec))

	rec = env.do(http.MethodGet, "/api/jobs", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ghost, err := env.tokens.Generate(999, "ghost")
	require.NoError(t, err)
	rec = env.do(http.MethodGet, "/api/jobs", ghost, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListJobTypes(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user("ann")

	rec := env.do(http.MethodGet, "/api/job-types", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	types := decode[[]models.JobType](t, rec)
	require.Len(t, types, len(memory.DefaultJobTypes))
	assert.Equal(t, "Cleaning", types[0].Label)
}

func TestJobLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ann, token := env.user("ann")

	rec := env.do(http.MethodPost, "/api/jobs", token, dishesBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[map[string]any](t, rec)
	assert.Equal(t, "Dishes", created["title"])
	assert.Equal(t, "2024-03-01", created["last_completed"])
	assert.EqualValues(t, 9, created["days_lapsed"])
	assert.Equal(t, "Kitchen", created["type"].(map[string]any)["label"])
	assert.EqualValues(t, ann.ID, created["last_completed_by"].(map[string]any)["id"])
	users := created["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "ann", users[0].(map[string]any)["username"])

	id := int64(created["id"].(float64))
	jobPath := fmt.Sprintf("/api/jobs/%d", id)

	rec = env.do(http.MethodGet, "/api/jobs/due", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = env.do(http.MethodPost, jobPath+"/complete", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, jobPath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "2024-03-10", got["last_completed"])
	assert.EqualValues(t, 0, got["days_lapsed"])

	update := map[string]any{
		"title":          "Dishes and counters",
		"type":           1,
		"frequency":      2,
		"last_completed": "2024-03-09",
	}
	rec = env.do(http.MethodPut, jobPath, token, update)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/jobs", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	jobs := decode[[]map[string]any](t, rec)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Dishes and counters", jobs[0]["title"])

	rec = env.do(http.MethodDelete, jobPath, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, jobPath, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "JOB_NOT_FOUND", errorCode(t, rec))
}

func TestCreateJobInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user("ann")

	rec := env.do(http.MethodPost, "/api/jobs", token, map[string]any{"title": "Dishes"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, rec))

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBufferString("{not json"))
	_, tok := env.user("bob")
	req.Header.Set("Authorization", "Bearer "+tok)
	raw := httptest.NewRecorder()
	env.handler.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)

	rec = env.do(http.MethodGet, "/api/jobs/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNonMemberIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	_, annToken := env.user("ann")
	_, bobToken := env.user("bob")

	rec := env.do(http.MethodPost, "/api/jobs", annToken, dishesBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	jobPath := fmt.Sprintf("/api/jobs/%d", int64(decode[map[string]any](t, rec)["id"].(float64)))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, jobPath},
		{http.MethodPost, jobPath + "/complete"},
		{http.MethodDelete, jobPath},
	} {
		rec = env.do(tc.method, tc.path, bobToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestFriendsAndSharing(t *testing.T) {
	env := newTestEnv(t)
	ann, annToken := env.user("ann")
	bob, bobToken := env.user("bob")

	rec := env.do(http.MethodPost, "/api/jobs", annToken, dishesBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	jobID := int64(decode[map[string]any](t, rec)["id"].(float64))
	sharePath := fmt.Sprintf("/api/jobs/%d/share", jobID)

	rec = env.do(http.MethodPost, sharePath, annToken, map[string]any{"invitee": bob.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "NOT_FRIENDS", errorCode(t, rec))

	rec = env.do(http.MethodPost, fmt.Sprintf("/api/friends/%d/invite", ann.ID), annToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, fmt.Sprintf("/api/friends/%d/invite", bob.ID), annToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	pair := decode[map[string]any](t, rec)
	assert.Equal(t, false, pair["accepted"])
	assert.EqualValues(t, ann.ID, pair["user_1"].(map[string]any)["id"])
	assert.EqualValues(t, bob.ID, pair["user_2"].(map[string]any)["id"])
	pairID := int64(pair["id"].(float64))

	rec = env.do(http.MethodPost, fmt.Sprintf("/api/friends/%d/invite", ann.ID), bobToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodPost, fmt.Sprintf("/api/friends/%d/accept", pairID), annToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPost, fmt.Sprintf("/api/friends/%d/accept", pairID), bobToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/friends/confirmed", annToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	friends := decode[[]map[string]any](t, rec)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0]["username"])

	rec = env.do(http.MethodPost, sharePath, annToken, map[string]any{"invitee": bob.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	invite := decode[map[string]any](t, rec)
	assert.Equal(t, "Dishes", invite["job"].(map[string]any)["title"])

	rec = env.do(http.MethodPost, sharePath, annToken, map[string]any{"invitee": bob.ID})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_INVITED", errorCode(t, rec))

	rec = env.do(http.MethodGet, "/api/invites", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	invites := decode[[]map[string]any](t, rec)
	require.Len(t, invites, 1)
	inviteID := int64(invites[0]["id"].(float64))

	rec = env.do(http.MethodPost, fmt.Sprintf("/api/invites/%d/accept", inviteID), bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	joined := decode[map[string]any](t, rec)
	assert.Len(t, joined["users"].([]any), 2)

	// Both leave; the job is gone for everyone.
	jobPath := fmt.Sprintf("/api/jobs/%d", jobID)
	require.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, jobPath, annToken, nil).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, jobPath, bobToken, nil).Code)
	require.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, jobPath, bobToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, jobPath, bobToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, jobPath, annToken, nil).Code)

	rec = env.do(http.MethodDelete, fmt.Sprintf("/api/friends/%d", pairID), annToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodGet, "/api/friends", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestDeclineInvite(t *testing.T) {
	env := newTestEnv(t)
	ann, annToken := env.user("ann")
	bob, bobToken := env.user("bob")

	pair, err := env.svc.CreatePair(context.Background(), ann.ID, bob.ID)
	require.NoError(t, err)
	_, err = env.svc.AcceptPair(context.Background(), pair.ID, bob.ID)
	require.NoError(t, err)

	rec := env.do(http.MethodPost, "/api/jobs", annToken, dishesBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	jobID := int64(decode[map[string]any](t, rec)["id"].(float64))

	invite, err := env.svc.ShareJob(context.Background(), jobID, ann.ID, bob.ID)
	require.NoError(t, err)

	rec = env.do(http.MethodDelete, fmt.Sprintf("/api/invites/%d", invite.ID), bobToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodPost, fmt.Sprintf("/api/invites/%d/accept", invite.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
