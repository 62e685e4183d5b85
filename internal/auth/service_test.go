package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booktrack/internal/platform/crypto"
	"booktrack/internal/session"
	"booktrack/internal/user"
)

const testSecret = "test-secret"

type memUserRepo struct {
	users map[string]user.User // keyed by email
}

func (m *memUserRepo) Create(ctx context.Context, u *user.User) error {
	u.ID = "u-" + u.Email
	m.users[u.Email] = *u
	return nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	u, ok := m.users[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUserRepo) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	return nil
}

type memSessionRepo struct {
	sessions map[string]session.Session // keyed by token hash
}

func (m *memSessionRepo) Create(ctx context.Context, s *session.Session) error {
	s.ID = "s-" + s.RefreshTokenHash[:8]
	m.sessions[s.RefreshTokenHash] = *s
	return nil
}

func (m *memSessionRepo) GetByTokenHash(ctx context.Context, hash string) (session.Session, error) {
	s, ok := m.sessions[hash]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return s, nil
}

func (m *memSessionRepo) ListByUserID(ctx context.Context, userID string) ([]session.Session, error) {
	return nil, nil
}

func (m *memSessionRepo) Delete(ctx context.Context, userID, sessionID string) error { return nil }

func (m *memSessionRepo) DeleteByTokenHash(ctx context.Context, hash string) error {
	delete(m.sessions, hash)
	return nil
}

func (m *memSessionRepo) CleanupExpired(ctx context.Context) error { return nil }

type memBlacklist struct {
	jtis map[string]time.Time
}

func (m *memBlacklist) AddToken(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	m.jtis[jti] = expiresAt
	return nil
}

func (m *memBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	_, ok := m.jtis[jti]
	return ok, nil
}

func (m *memBlacklist) CleanupExpired(ctx context.Context) error { return nil }

func newTestAuth(t *testing.T) (*Service, *memUserRepo, *memSessionRepo, *memBlacklist) {
	t.Helper()
	users := &memUserRepo{users: map[string]user.User{}}
	sessions := &memSessionRepo{sessions: map[string]session.Session{}}
	blacklist := &memBlacklist{jtis: map[string]time.Time{}}
	svc := NewService(testSecret, user.NewService(users), session.NewService(sessions, blacklist))
	return svc, users, sessions, blacklist
}

func register(t *testing.T, svc *Service) user.User {
	t.Helper()
	u, err := svc.Register(context.Background(), "ada@example.com", "Ada", "s3cret-pass")
	require.NoError(t, err)
	return u
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, users, _, _ := newTestAuth(t)

	u := register(t, svc)

	stored := users.users["ada@example.com"]
	assert.NotEqual(t, "s3cret-pass", stored.Password)
	assert.True(t, crypto.VerifyPassword(stored.Password, "s3cret-pass"))
	assert.NotEmpty(t, u.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestAuth(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), "ada@example.com", "Ada Again", "other-pass")
	assert.ErrorIs(t, err, user.ErrAlreadyExists)
}

func TestLogin_IssuesTokensAndStoresHashedSession(t *testing.T) {
	svc, _, sessions, _ := newTestAuth(t)
	u := register(t, svc)

	tokens, err := svc.Login(context.Background(), "ada@example.com", "s3cret-pass", false, "cli/1.0", "10.0.0.1")
	require.NoError(t, err)

	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, int(accessTokenTTL.Seconds()), tokens.ExpiresIn)

	claims, err := crypto.ParseToken(testSecret, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Sub)

	// the raw refresh token must never be stored
	sess, err := sessions.GetByTokenHash(context.Background(), hashToken(tokens.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.UserID)
	assert.Equal(t, "cli/1.0", sess.UserAgent)
	assert.False(t, sess.RememberMe)
	_, err = sessions.GetByTokenHash(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, _ := newTestAuth(t)
	register(t, svc)

	_, err := svc.Login(context.Background(), "ada@example.com", "wrong", false, "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestAuth(t)

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever", false, "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_RememberMeExtendsSession(t *testing.T) {
	svc, _, sessions, _ := newTestAuth(t)
	register(t, svc)

	tokens, err := svc.Login(context.Background(), "ada@example.com", "s3cret-pass", true, "", "")
	require.NoError(t, err)

	sess, err := sessions.GetByTokenHash(context.Background(), hashToken(tokens.RefreshToken))
	require.NoError(t, err)
	assert.True(t, sess.RememberMe)
	assert.True(t, sess.ExpiresAt.After(time.Now().Add(refreshTokenTTL)))
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _, sessions, _ := newTestAuth(t)
	register(t, svc)

	first, err := svc.Login(context.Background(), "ada@example.com", "s3cret-pass", false, "", "")
	require.NoError(t, err)

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the spent token is gone, the new one works
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = sessions.GetByTokenHash(context.Background(), hashToken(second.RefreshToken))
	assert.NoError(t, err)
}

func TestRefresh_UnknownToken(t *testing.T) {
	svc, _, _, _ := newTestAuth(t)

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout_BlacklistsAccessToken(t *testing.T) {
	svc, _, _, blacklist := newTestAuth(t)
	u := register(t, svc)

	tokens, err := svc.Login(context.Background(), "ada@example.com", "s3cret-pass", false, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), tokens.AccessToken, u.ID))

	claims, err := crypto.ParseToken(testSecret, tokens.AccessToken)
	require.NoError(t, err)
	blocked, err := blacklist.IsBlacklisted(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestLogout_MalformedToken(t *testing.T) {
	svc, _, _, _ := newTestAuth(t)

	err := svc.Logout(context.Background(), "garbage", "u1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
