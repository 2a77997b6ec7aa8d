package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"fx-gateway/internal/infrastructure/kvstore"
	"fx-gateway/internal/infrastructure/metrics"
	"fx-gateway/internal/utils/platformerrors"
)

// TokenStore persists issued tokens in a key-value store. Each token yields
// two entries: the record at {kind}:{username}:{hash} and a reverse index at
// {kind}_map:{hash} holding the owning username, so validation does not need
// to know the owner up front.
type TokenStore struct {
	store kvstore.Store
	now   func() time.Time
	log   zerolog.Logger
}

// NewTokenStore creates a token store. A nil clock defaults to time.Now.
func NewTokenStore(store kvstore.Store, log zerolog.Logger, now func() time.Time) *TokenStore {
	if now == nil {
		now = time.Now
	}
	return &TokenStore{
		store: store,
		now:   now,
		log:   log.With().Str("component", "token-store").Logger(),
	}
}

// HashToken reduces a raw token to its stored one-way digest.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func recordKey(kind TokenKind, username, hash string) string {
	return fmt.Sprintf("%s:%s:%s", kind, username, hash)
}

func indexKey(kind TokenKind, hash string) string {
	return fmt.Sprintf("%s_map:%s", kind, hash)
}

// StoreToken writes the token record and its reverse index concurrently.
// The two writes are best effort: a failure of one does not roll back the
// other, so a half-written token can exist until it expires. Validation
// tolerates that state by requiring both entries.
func (s *TokenStore) StoreToken(ctx context.Context, kind TokenKind, username, token string, expiresAt time.Time) error {
	hash := HashToken(token)

	record := TokenRecord{TokenHash: hash, Username: username, ExpiresAt: expiresAt}
	raw, err := json.Marshal(record)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to serialize token record", err)
	}

	var wg sync.WaitGroup
	var recordErr, indexErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		recordErr = s.store.SetString(ctx, recordKey(kind, username, hash), string(raw), expiresAt)
	}()
	go func() {
		defer wg.Done()
		indexErr = s.store.SetString(ctx, indexKey(kind, hash), username, expiresAt)
	}()
	wg.Wait()

	if recordErr != nil || indexErr != nil {
		metrics.RecordTokenOperation("store", "error")
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			fmt.Sprintf("failed to store %s token", kind), errors.Join(recordErr, indexErr))
	}

	metrics.RecordTokenOperation("store", "success")
	return nil
}

// UserByToken resolves the owning username through the reverse index.
func (s *TokenStore) UserByToken(ctx context.Context, kind TokenKind, token string) (string, error) {
	username, err := s.store.GetString(ctx, indexKey(kind, HashToken(token)))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
				"token is not recognized", nil)
		}
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"token index lookup failed", err)
	}
	return username, nil
}

// ValidateToken checks a presented token end to end: the reverse index must
// resolve an owner, the record must exist under that owner, and the record's
// hash and expiry must both check out. A store-side TTL normally removes
// expired entries, but the record's own expiry is verified regardless.
func (s *TokenStore) ValidateToken(ctx context.Context, kind TokenKind, token string) (string, error) {
	username, err := s.UserByToken(ctx, kind, token)
	if err != nil {
		metrics.RecordTokenOperation("validate", "error")
		return "", err
	}

	hash := HashToken(token)
	raw, err := s.store.GetString(ctx, recordKey(kind, username, hash))
	if err != nil {
		metrics.RecordTokenOperation("validate", "error")
		if errors.Is(err, kvstore.ErrNotFound) {
			return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
				"token record is missing", nil)
		}
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"token record lookup failed", err)
	}

	var record TokenRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		metrics.RecordTokenOperation("validate", "error")
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"token record is corrupt", err)
	}

	if record.TokenHash != hash || !record.ExpiresAt.After(s.now()) {
		metrics.RecordTokenOperation("validate", "error")
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"token is expired or invalid", nil)
	}

	metrics.RecordTokenOperation("validate", "success")
	return username, nil
}

// RevokeToken removes both entries for a presented token. When the reverse
// index no longer resolves an owner there is nothing addressable to revoke,
// which is reported as not found.
func (s *TokenStore) RevokeToken(ctx context.Context, kind TokenKind, token string) error {
	hash := HashToken(token)

	username, err := s.store.GetString(ctx, indexKey(kind, hash))
	if err != nil {
		metrics.RecordTokenOperation("revoke", "error")
		if errors.Is(err, kvstore.ErrNotFound) {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
				"token is not recognized", nil)
		}
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"token index lookup failed", err)
	}

	recordErr := s.store.Remove(ctx, recordKey(kind, username, hash))
	indexErr := s.store.Remove(ctx, indexKey(kind, hash))
	if recordErr != nil || indexErr != nil {
		metrics.RecordTokenOperation("revoke", "error")
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			fmt.Sprintf("failed to revoke %s token", kind), errors.Join(recordErr, indexErr))
	}

	metrics.RecordTokenOperation("revoke", "success")
	return nil
}
