package tasks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anand/task-tracker/backend/internal/auth"
	"github.com/anand/task-tracker/backend/internal/middleware"
	"github.com/anand/task-tracker/backend/internal/models"
	"github.com/anand/task-tracker/backend/internal/store"
)

// newTestRouter assembles the real routes over the in-memory store, the
// same wiring cmd/server uses against PostgreSQL.
func newTestRouter() (http.Handler, *store.MemoryStore, *auth.Tokens) {
	st := store.NewMemoryStore()
	tokens := auth.NewTokens("test-secret", time.Hour)
	authHandler := auth.NewHandler(st, tokens)
	taskHandler := NewHandler(st)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})
	r.Route("/tasks", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Get("/", taskHandler.List)
		r.Post("/", taskHandler.Create)
		r.Put("/{id}", taskHandler.Update)
		r.Delete("/{id}", taskHandler.Delete)
	})
	return r, st, tokens
}

func doRequest(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func listTasks(t *testing.T, h http.Handler, token string) []models.Task {
	t.Helper()
	rec := doRequest(t, h, http.MethodGet, "/tasks", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []models.Task
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tasks))
	return tasks
}

func TestTasks_MissingTokenUnauthorized(t *testing.T) {
	r, _, _ := newTestRouter()

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/tasks"},
		{http.MethodPost, "/tasks"},
		{http.MethodPut, "/tasks/1"},
		{http.MethodDelete, "/tasks/1"},
	} {
		rec := doRequest(t, r, req.method, req.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", req.method, req.path)
	}
}

func TestTasks_BadTokenForbidden(t *testing.T) {
	r, _, _ := newTestRouter()

	expired, err := auth.NewTokens("test-secret", -time.Minute).Issue(1, "alice")
	require.NoError(t, err)
	forged, err := auth.NewTokens("other-secret", time.Hour).Issue(1, "alice")
	require.NoError(t, err)

	for _, token := range []string{"garbage", expired, forged} {
		rec := doRequest(t, r, http.MethodGet, "/tasks", token, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}
}

func TestCreate_RequiresTitle(t *testing.T) {
	r, _, tokens := newTestRouter()
	token, err := tokens.Issue(1, "alice")
	require.NoError(t, err)

	for _, body := range []string{`{}`, `{"title":""}`, `{"title":"   "}`} {
		rec := doRequest(t, r, http.MethodPost, "/tasks", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
	assert.Empty(t, listTasks(t, r, token))
}

func TestCreate_ListedExactlyOnceUntilDeleted(t *testing.T) {
	r, _, tokens := newTestRouter()
	token, err := tokens.Issue(1, "alice")
	require.NoError(t, err)

	rec := doRequest(t, r, http.MethodPost, "/tasks", token,
		`{"title":"Buy milk","due_date":"2026-09-01","tags":"errand,home"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Task
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.False(t, created.Completed)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "errand,home", created.Tags)
	assert.False(t, created.CreatedAt.IsZero())

	seen := 0
	for _, task := range listTasks(t, r, token) {
		if task.ID == created.ID {
			seen++
		}
	}
	assert.Equal(t, 1, seen, "created task should be listed exactly once")

	rec = doRequest(t, r, http.MethodDelete, "/tasks/1", token, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, listTasks(t, r, token))
}

func TestUpdate_CompletedIsIdempotent(t *testing.T) {
	r, _, tokens := newTestRouter()
	token, err := tokens.Issue(1, "alice")
	require.NoError(t, err)

	rec := doRequest(t, r, http.MethodPost, "/tasks", token, `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	update := `{"title":"Buy milk","description":"","due_date":"","completed":true,"tags":""}`
	first := doRequest(t, r, http.MethodPut, "/tasks/1", token, update)
	require.Equal(t, http.StatusOK, first.Code)
	afterFirst := listTasks(t, r, token)

	second := doRequest(t, r, http.MethodPut, "/tasks/1", token, update)
	require.Equal(t, http.StatusOK, second.Code)
	afterSecond := listTasks(t, r, token)

	require.Len(t, afterFirst, 1)
	assert.True(t, afterFirst[0].Completed)
	assert.Equal(t, afterFirst, afterSecond)
}

func TestUpdateDelete_ForeignOwnerLooksMissing(t *testing.T) {
	r, _, tokens := newTestRouter()
	alice, err := tokens.Issue(1, "alice")
	require.NoError(t, err)
	bob, err := tokens.Issue(2, "bob")
	require.NoError(t, err)

	rec := doRequest(t, r, http.MethodPost, "/tasks", alice, `{"title":"secret plan"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	missingUpdate := doRequest(t, r, http.MethodPut, "/tasks/999", bob,
		`{"title":"x","completed":true}`)
	foreignUpdate := doRequest(t, r, http.MethodPut, "/tasks/1", bob,
		`{"title":"x","completed":true}`)
	assert.Equal(t, http.StatusNotFound, missingUpdate.Code)
	assert.Equal(t, http.StatusNotFound, foreignUpdate.Code)
	assert.Equal(t, missingUpdate.Body.String(), foreignUpdate.Body.String(),
		"foreign task must be indistinguishable from a missing one")

	missingDelete := doRequest(t, r, http.MethodDelete, "/tasks/999", bob, "")
	foreignDelete := doRequest(t, r, http.MethodDelete, "/tasks/1", bob, "")
	assert.Equal(t, http.StatusNotFound, missingDelete.Code)
	assert.Equal(t, http.StatusNotFound, foreignDelete.Code)

	// Alice's task is untouched.
	aliceTasks := listTasks(t, r, alice)
	require.Len(t, aliceTasks, 1)
	assert.Equal(t, "secret plan", aliceTasks[0].Title)
	assert.False(t, aliceTasks[0].Completed)

	// And invisible to Bob.
	assert.Empty(t, listTasks(t, r, bob))
}

func TestUpdateDelete_NonNumericIDNotFound(t *testing.T) {
	r, _, tokens := newTestRouter()
	token, err := tokens.Issue(1, "alice")
	require.NoError(t, err)

	rec := doRequest(t, r, http.MethodPut, "/tasks/abc", token, `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, r, http.MethodDelete, "/tasks/abc", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestList_EmptyIsJSONArray(t *testing.T) {
	r, _, tokens := newTestRouter()
	token, err := tokens.Issue(1, "alice")
	require.NoError(t, err)

	rec := doRequest(t, r, http.MethodGet, "/tasks", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}
