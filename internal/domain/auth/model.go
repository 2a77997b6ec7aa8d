package auth

import "time"

// TokenKind distinguishes the two stored token classes. The kind is part of
// every storage key, so the two namespaces never collide.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// User is a gateway account. Passwords are compared in plain text against
// the seeded list; there is no self-service registration.
type User struct {
	ID       string
	Username string
	Password string
	Role     string
}

// TokenRecord is the stored shape of an issued token. Only the one-way hash
// of the token is persisted, never the token itself.
type TokenRecord struct {
	TokenHash string    `json:"token_hash"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
