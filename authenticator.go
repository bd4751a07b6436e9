// authenticator.go

package gourdianauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Authenticator is the credential authentication entry point, invoked only on
// the login path. Per-request bearer authentication goes through AuthFilter
// instead.
type Authenticator struct {
	users  UserRepository
	hasher PasswordHasher
	logger *slog.Logger
}

// NewAuthenticator creates a credential authenticator over the given user
// store and password verifier.
func NewAuthenticator(users UserRepository, hasher PasswordHasher, logger *slog.Logger) (*Authenticator, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository cannot be nil")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher cannot be nil")
	}
	return &Authenticator{
		users:  users,
		hasher: hasher,
		logger: resolveLogger(logger),
	}, nil
}

// Authenticate verifies a raw username/password pair against the credential
// store and returns the authenticated principal.
//
// Failure kinds:
//   - ErrUnknownUser: no account for the username
//   - ErrAccountDisabled: account exists but is not activated; rejected
//     before the password comparison so the outcome never reveals whether
//     the password was correct
//   - ErrBadCredential: password mismatch
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*Principal, error) {
	user, err := a.users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("credential store lookup failed: %w", err)
	}

	if !user.Activated {
		return nil, ErrAccountDisabled
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrBadCredential
	}

	a.logger.Debug("credentials verified", "username", user.Username)
	return user.Principal(), nil
}
