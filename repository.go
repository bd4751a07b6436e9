// repository.go

package gourdianauth

import "context"

// UserRepository is the credential-store collaborator, keyed by username.
//
// The login path may suspend on these calls (network or disk round-trip), so
// every method takes a context. Implementations must be safe for concurrent
// use.
type UserRepository interface {
	// FindUserByUsername returns the stored record for the username, or
	// ErrUserNotFound when no such account exists.
	FindUserByUsername(ctx context.Context, username string) (*UserRecord, error)

	// CreateUser stores a new account, or returns ErrDuplicateUser when the
	// username is already taken.
	CreateUser(ctx context.Context, user *UserRecord) error

	// Close releases any resources held by the repository.
	Close() error
}
