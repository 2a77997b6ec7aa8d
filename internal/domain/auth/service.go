package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/rs/zerolog"

	"fx-gateway/internal/utils/platformerrors"
)

// ServiceConfig carries the token lifetimes.
type ServiceConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Service implements the token lifecycle: login, refresh rotation, logout.
// Tokens are opaque random strings; all state lives in the token store.
type Service struct {
	cfg   ServiceConfig
	users UserRepository
	store *TokenStore
	now   func() time.Time
	log   zerolog.Logger
}

// NewService wires the auth service. A nil clock defaults to time.Now.
func NewService(cfg ServiceConfig, users UserRepository, store *TokenStore, log zerolog.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		cfg:   cfg,
		users: users,
		store: store,
		now:   now,
		log:   log.With().Str("component", "auth-service").Logger(),
	}
}

// newToken generates an opaque 256-bit token, URL-safe encoded.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Login verifies credentials and issues a fresh token pair. Credential
// failures are reported uniformly so the response does not reveal whether
// the username exists.
func (s *Service) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil || user.Password != password {
		s.log.Warn().Str("username", username).Msg("login rejected")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"invalid username or password", nil)
	}

	pair, err := s.issuePair(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", user.Username).Msg("login succeeded")
	return pair, nil
}

// Refresh rotates a refresh token: the presented token is validated and
// revoked, then a new pair is issued. Access tokens issued alongside the old
// refresh token stay valid until they expire on their own.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	username, err := s.store.ValidateToken(ctx, KindRefresh, refreshToken)
	if err != nil {
		return nil, err
	}

	if err := s.store.RevokeToken(ctx, KindRefresh, refreshToken); err != nil {
		return nil, err
	}

	pair, err := s.issuePair(ctx, username)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", username).Msg("refresh token rotated")
	return pair, nil
}

// ValidateAccess checks an access token and returns its owner.
func (s *Service) ValidateAccess(ctx context.Context, accessToken string) (string, error) {
	return s.store.ValidateToken(ctx, KindAccess, accessToken)
}

// Logout revokes the presented access token, and the refresh token too when
// one is supplied. A refresh token that is already gone does not fail the
// logout.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if err := s.store.RevokeToken(ctx, KindAccess, accessToken); err != nil {
		return err
	}
	if refreshToken != "" {
		if err := s.store.RevokeToken(ctx, KindRefresh, refreshToken); err != nil &&
			!platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return err
		}
	}
	return nil
}

func (s *Service) issuePair(ctx context.Context, username string) (*TokenPair, error) {
	access, err := newToken()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to generate access token", err)
	}
	refresh, err := newToken()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to generate refresh token", err)
	}

	now := s.now()
	accessExpiry := now.Add(s.cfg.AccessTokenTTL)
	refreshExpiry := now.Add(s.cfg.RefreshTokenTTL)

	if err := s.store.StoreToken(ctx, KindAccess, username, access, accessExpiry); err != nil {
		return nil, err
	}
	if err := s.store.StoreToken(ctx, KindRefresh, username, refresh, refreshExpiry); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExpiry,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}
