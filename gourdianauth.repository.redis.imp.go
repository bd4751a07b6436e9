// File: gourdianauth.repository.redis.imp.go

package gourdianauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const userKeyPrefix = "user:"

// RedisUserRepository is a Redis-backed implementation of UserRepository.
// Records are stored as JSON under "user:<username>" keys.
type RedisUserRepository struct {
	client *redis.Client
}

// redisUserRecord is the stored shape; the password hash must round-trip even
// though UserRecord hides it from API JSON.
type redisUserRecord struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Nickname     string    `json:"nickname"`
	Activated    bool      `json:"activated"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewRedisUserRepository creates a new Redis-based user repository
func NewRedisUserRepository(client *redis.Client) (*RedisUserRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisUserRepository{
		client: client,
	}, nil
}

// FindUserByUsername returns the stored record for the username
func (r *RedisUserRepository) FindUserByUsername(ctx context.Context, username string) (*UserRecord, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	data, err := r.client.Get(ctx, userKeyPrefix+username).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var stored redisUserRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("corrupt user record for %q: %w", username, err)
	}

	return stored.toUserRecord()
}

// CreateUser stores a new account, refusing to overwrite an existing username
func (r *RedisUserRepository) CreateUser(ctx context.Context, user *UserRecord) error {
	if user == nil || user.Username == "" {
		return fmt.Errorf("user with a non-empty username is required")
	}

	data, err := json.Marshal(fromUserRecord(user))
	if err != nil {
		return fmt.Errorf("failed to encode user record: %w", err)
	}

	// SETNX gives the uniqueness guarantee without a separate existence check
	created, err := r.client.SetNX(ctx, userKeyPrefix+user.Username, data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if !created {
		return ErrDuplicateUser
	}

	return nil
}

// Close closes the underlying Redis client
func (r *RedisUserRepository) Close() error {
	return r.client.Close()
}

func fromUserRecord(user *UserRecord) redisUserRecord {
	return redisUserRecord{
		UserID:       user.UserID.String(),
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Nickname:     user.Nickname,
		Activated:    user.Activated,
		Roles:        user.Roles,
		CreatedAt:    user.CreatedAt,
	}
}

func (stored redisUserRecord) toUserRecord() (*UserRecord, error) {
	userID, err := uuid.Parse(stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("corrupt user ID for %q: %w", stored.Username, err)
	}

	roles := stored.Roles
	if roles == nil {
		roles = []string{}
	}

	return &UserRecord{
		UserID:       userID,
		Username:     stored.Username,
		PasswordHash: stored.PasswordHash,
		Nickname:     stored.Nickname,
		Activated:    stored.Activated,
		Roles:        roles,
		CreatedAt:    stored.CreatedAt,
	}, nil
}
