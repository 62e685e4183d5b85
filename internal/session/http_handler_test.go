package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booktrack/internal/httpx"
)

type fakeRepo struct {
	sessions []Session
}

func (f *fakeRepo) Create(ctx context.Context, s *Session) error { return nil }

func (f *fakeRepo) GetByTokenHash(ctx context.Context, hash string) (Session, error) {
	return Session{}, ErrNotFound
}

func (f *fakeRepo) ListByUserID(ctx context.Context, userID string) ([]Session, error) {
	var out []Session
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) Delete(ctx context.Context, userID, sessionID string) error {
	for i, s := range f.sessions {
		if s.ID == sessionID && s.UserID == userID {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepo) DeleteByTokenHash(ctx context.Context, hash string) error { return nil }

func (f *fakeRepo) CleanupExpired(ctx context.Context) error { return nil }

type noopBlacklist struct{}

func (noopBlacklist) AddToken(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	return nil
}

func (noopBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	return false, nil
}

func (noopBlacklist) CleanupExpired(ctx context.Context) error { return nil }

func sessionRequest(method, target, sessionID string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	r = r.WithContext(httpx.ContextWithUser(r.Context(), "u1"))
	if sessionID != "" {
		r.SetPathValue("sessionID", sessionID)
	}
	return r
}

func TestHandler_List(t *testing.T) {
	repo := &fakeRepo{sessions: []Session{
		{ID: "s1", UserID: "u1", UserAgent: "cli/1.0", RefreshTokenHash: "deadbeef"},
		{ID: "s2", UserID: "someone-else", UserAgent: "browser"},
	}}
	handler := NewHandler(NewService(repo, noopBlacklist{}))

	w := httptest.NewRecorder()
	handler.List(w, sessionRequest(http.MethodGet, "/me/sessions", ""))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "cli/1.0")
	assert.NotContains(t, body, "browser")
	// the refresh token hash never leaves the server
	assert.NotContains(t, body, "deadbeef")
}

func TestHandler_Delete(t *testing.T) {
	t.Run("revokes own session", func(t *testing.T) {
		repo := &fakeRepo{sessions: []Session{{ID: "s1", UserID: "u1"}}}
		handler := NewHandler(NewService(repo, noopBlacklist{}))

		w := httptest.NewRecorder()
		handler.Delete(w, sessionRequest(http.MethodDelete, "/me/sessions/s1", "s1"))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, repo.sessions)
	})

	t.Run("foreign session not found", func(t *testing.T) {
		repo := &fakeRepo{sessions: []Session{{ID: "s1", UserID: "someone-else"}}}
		handler := NewHandler(NewService(repo, noopBlacklist{}))

		w := httptest.NewRecorder()
		handler.Delete(w, sessionRequest(http.MethodDelete, "/me/sessions/s1", "s1"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Len(t, repo.sessions, 1)
	})
}
