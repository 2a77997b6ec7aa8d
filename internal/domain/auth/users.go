package auth

import (
	"context"

	"fx-gateway/internal/utils/platformerrors"
)

// UserRepository resolves gateway accounts. The static implementation below
// is the only one today; a database-backed one slots in behind the same
// interface.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// StaticUserRepository serves a fixed in-memory account list.
type StaticUserRepository struct {
	users []User
}

// seedUsers is the built-in account list used when no explicit list is given.
var seedUsers = []User{
	{ID: "u-0001", Username: "admin", Password: "admin123", Role: "admin"},
	{ID: "u-0002", Username: "trader", Password: "trader123", Role: "user"},
	{ID: "u-0003", Username: "analyst", Password: "analyst123", Role: "user"},
}

// NewStaticUserRepository builds a repository over the given users, or the
// seed list when none are given.
func NewStaticUserRepository(users ...User) *StaticUserRepository {
	if len(users) == 0 {
		users = seedUsers
	}
	return &StaticUserRepository{users: users}
}

// FindByUsername scans the account list. The list is small enough that a
// linear scan is fine.
func (r *StaticUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
		"user not found", nil)
}
