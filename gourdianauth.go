// gourdianauth.go

package gourdianauth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// AuthSuite wires the authentication components into a ready-to-serve unit:
// codec, credential entry point, user service, request filter and HTTP API.
//
// The suite is safe for concurrent use; the only shared state is the
// read-only signing key inside the codec.
type AuthSuite struct {
	Codec         *JWTCodec
	Authenticator *Authenticator
	Service       *UserService
	Filter        *AuthFilter
	Handler       *AuthHandler
	Router        http.Handler
}

// NewAuthSuite composes the authentication system over the given user store.
// The bcrypt hasher uses its default cost; use NewAuthSuiteWithHasher to
// supply a different password verifier.
func NewAuthSuite(config GourdianAuthConfig, users UserRepository, logger *slog.Logger) (*AuthSuite, error) {
	return NewAuthSuiteWithHasher(config, users, NewBcryptHasher(0), logger)
}

// NewAuthSuiteWithHasher composes the authentication system with an explicit
// password hasher.
func NewAuthSuiteWithHasher(config GourdianAuthConfig, users UserRepository, hasher PasswordHasher, logger *slog.Logger) (*AuthSuite, error) {
	codec, err := NewJWTCodec(config)
	if err != nil {
		return nil, err
	}

	authenticator, err := NewAuthenticator(users, hasher, logger)
	if err != nil {
		return nil, err
	}

	service, err := NewUserService(users, hasher, logger)
	if err != nil {
		return nil, err
	}

	filter := NewAuthFilter(codec, logger)

	handler, err := NewAuthHandler(codec, authenticator, service, logger)
	if err != nil {
		return nil, err
	}

	return &AuthSuite{
		Codec:         codec,
		Authenticator: authenticator,
		Service:       service,
		Filter:        filter,
		Handler:       handler,
		Router:        NewRouter(handler, filter),
	}, nil
}

// SeedUser stores an activated account with the given roles directly in the
// repository, bypassing signup. Deployments use this to provision the
// administrator account at startup.
func SeedUser(ctx context.Context, users UserRepository, hasher PasswordHasher, username, password, nickname string, roles ...string) (*UserRecord, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository cannot be nil")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher cannot be nil")
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &UserRecord{
		UserID:       uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Nickname:     nickname,
		Activated:    true,
		Roles:        append([]string(nil), roles...),
		CreatedAt:    time.Now(),
	}

	if err := users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
