// service.go

package gourdianauth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SignupRequest carries the fields of a signup call.
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// validate enforces the account field bounds; violations wrap ErrInvalidSignup.
func (req *SignupRequest) validate() error {
	if n := len(req.Username); n < 3 || n > 50 {
		return fmt.Errorf("%w: username must be between 3 and 50 characters", ErrInvalidSignup)
	}
	if n := len(req.Password); n < 3 || n > 100 {
		return fmt.Errorf("%w: password must be between 3 and 100 characters", ErrInvalidSignup)
	}
	if n := len(req.Nickname); n < 3 || n > 50 {
		return fmt.Errorf("%w: nickname must be between 3 and 50 characters", ErrInvalidSignup)
	}
	return nil
}

// UserService implements account management over the credential store.
type UserService struct {
	users  UserRepository
	hasher PasswordHasher
	logger *slog.Logger
}

// NewUserService creates a user service over the given store and hasher.
func NewUserService(users UserRepository, hasher PasswordHasher, logger *slog.Logger) (*UserService, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository cannot be nil")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher cannot be nil")
	}
	return &UserService{
		users:  users,
		hasher: hasher,
		logger: resolveLogger(logger),
	}, nil
}

// Signup registers a new activated account holding ROLE_USER.
//
// Returns ErrDuplicateUser when the username is already taken. Administrator
// accounts are not created through signup; they are seeded directly into the
// store with ROLE_USER and ROLE_ADMIN.
func (s *UserService) Signup(ctx context.Context, req SignupRequest) (*UserRecord, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &UserRecord{
		UserID:       uuid.New(),
		Username:     req.Username,
		PasswordHash: hash,
		Nickname:     req.Nickname,
		Activated:    true,
		Roles:        []string{RoleUser},
		CreatedAt:    time.Now(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", "username", user.Username)
	return user, nil
}

// GetUserWithRoles returns the stored account and role set for a username.
func (s *UserService) GetUserWithRoles(ctx context.Context, username string) (*UserRecord, error) {
	return s.users.FindUserByUsername(ctx, username)
}

// GetCurrentUser returns the stored account for the request's authenticated
// principal, or ErrUserNotFound when the request is unauthenticated.
func (s *UserService) GetCurrentUser(ctx context.Context) (*UserRecord, error) {
	username, ok := CurrentUsername(ctx)
	if !ok {
		return nil, ErrUserNotFound
	}
	return s.users.FindUserByUsername(ctx, username)
}
