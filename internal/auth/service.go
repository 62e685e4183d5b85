package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"booktrack/internal/platform/crypto"
	"booktrack/internal/session"
	"booktrack/internal/user"
)

var ErrUnauthorized = errors.New("unauthorized")

const (
	accessTokenTTL      = 15 * time.Minute
	refreshTokenTTL     = 30 * 24 * time.Hour
	refreshTokenTTLLong = 90 * 24 * time.Hour // remember_me
)

// Tokens is a successful login or refresh result.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type Service struct {
	secret         string
	userService    *user.Service
	sessionService *session.Service
}

func NewService(secret string, userService *user.Service, sessionService *session.Service) *Service {
	return &Service{
		secret:         secret,
		userService:    userService,
		sessionService: sessionService,
	}
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *Service) Register(ctx context.Context, email, displayName, password string) (user.User, error) {
	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return user.User{}, err
	}
	return s.userService.Register(ctx, email, displayName, hashed)
}

func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool, userAgent, ipAddress string) (Tokens, error) {
	u, err := s.userService.GetByEmail(ctx, email)
	if err != nil || !crypto.VerifyPassword(u.Password, password) {
		return Tokens{}, ErrUnauthorized
	}

	return s.issue(ctx, u.ID, rememberMe, userAgent, ipAddress)
}

// Refresh rotates the refresh token: the presented one is spent and a new
// session row replaces it.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	tokenHash := hashToken(refreshToken)
	sess, err := s.sessionService.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return Tokens{}, ErrUnauthorized
	}

	u, err := s.userService.GetByID(ctx, sess.UserID)
	if err != nil {
		return Tokens{}, ErrUnauthorized
	}

	if err := s.sessionService.DeleteByTokenHash(ctx, tokenHash); err != nil {
		return Tokens{}, err
	}

	return s.issue(ctx, u.ID, sess.RememberMe, sess.UserAgent, sess.IPAddress)
}

func (s *Service) issue(ctx context.Context, userID string, rememberMe bool, userAgent, ipAddress string) (Tokens, error) {
	accessToken, _, err := crypto.GenerateToken(s.secret, userID, accessTokenTTL)
	if err != nil {
		return Tokens{}, err
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return Tokens{}, err
	}

	ttl := refreshTokenTTL
	if rememberMe {
		ttl = refreshTokenTTLLong
	}

	sess := &session.Session{
		UserID:           userID,
		RefreshTokenHash: hashToken(refreshToken),
		UserAgent:        userAgent,
		IPAddress:        ipAddress,
		RememberMe:       rememberMe,
		ExpiresAt:        time.Now().Add(ttl),
	}
	if err := s.sessionService.Create(ctx, sess); err != nil {
		return Tokens{}, err
	}

	return Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(accessTokenTTL.Seconds()),
	}, nil
}

// Logout blacklists the presented access token until its natural expiry.
func (s *Service) Logout(ctx context.Context, token, userID string) error {
	claims, err := crypto.ParseToken(s.secret, token)
	if err != nil {
		return ErrUnauthorized
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return s.sessionService.AddToBlacklist(ctx, claims.ID, userID, expiresAt)
}
