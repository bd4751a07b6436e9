// File: gourdianauth.repository.inmemory.imp.go

package gourdianauth

import (
	"context"
	"fmt"
	"sync"
)

// MemoryUserRepository is an in-memory implementation of UserRepository
// Suitable for development, testing, or single-instance deployments
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]UserRecord
}

// NewMemoryUserRepository creates a new in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]UserRecord),
	}
}

// FindUserByUsername returns the stored record for the username
func (m *MemoryUserRepository) FindUserByUsername(ctx context.Context, username string) (*UserRecord, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[username]
	if !exists {
		return nil, ErrUserNotFound
	}

	// Copy so callers never alias the stored record
	record := user
	record.Roles = make([]string, len(user.Roles))
	copy(record.Roles, user.Roles)

	return &record, nil
}

// CreateUser stores a new account keyed by username
func (m *MemoryUserRepository) CreateUser(ctx context.Context, user *UserRecord) error {
	if user == nil || user.Username == "" {
		return fmt.Errorf("user with a non-empty username is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.Username]; exists {
		return ErrDuplicateUser
	}

	record := *user
	record.Roles = make([]string, len(user.Roles))
	copy(record.Roles, user.Roles)
	m.users[user.Username] = record

	return nil
}

// Close releases no resources for the in-memory repository
func (m *MemoryUserRepository) Close() error {
	return nil
}

// Stats returns statistics about the repository
// Useful for monitoring and debugging
func (m *MemoryUserRepository) Stats() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]int{
		"users": len(m.users),
	}
}
