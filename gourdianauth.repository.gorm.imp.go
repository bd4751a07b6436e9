// File: gourdianauth.repository.gorm.imp.go

package gourdianauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UserRecordType represents a stored account in the database
type UserRecordType struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	UserID       string    `gorm:"uniqueIndex:idx_user_id;type:varchar(36);not null"`
	Username     string    `gorm:"uniqueIndex:idx_username;type:varchar(50);not null"`
	PasswordHash string    `gorm:"type:varchar(100);not null"`
	Nickname     string    `gorm:"type:varchar(50)"`
	Activated    bool      `gorm:"not null"`
	Roles        string    `gorm:"type:varchar(255);not null"` // comma-joined role names
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name for UserRecordType
func (UserRecordType) TableName() string {
	return "users"
}

type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-based user repository
func NewGormUserRepository(db *gorm.DB) (*GormUserRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}

	// Duplicate detection relies on gorm.ErrDuplicatedKey, which GORM only
	// raises when error translation is on. Enable it regardless of how the
	// caller opened the connection.
	db.TranslateError = true

	// Test the connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Auto-migrate tables
	if err := db.AutoMigrate(&UserRecordType{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return &GormUserRepository{
		db: db,
	}, nil
}

// NewPostgresUserRepository opens a Postgres connection for the given DSN
// and wraps it in a GORM-based user repository
func NewPostgresUserRepository(dsn string) (*GormUserRepository, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn cannot be empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return NewGormUserRepository(db)
}

// FindUserByUsername returns the stored record for the username
func (r *GormUserRepository) FindUserByUsername(ctx context.Context, username string) (*UserRecord, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	var model UserRecordType
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", result.Error)
	}

	userID, err := uuid.Parse(model.UserID)
	if err != nil {
		return nil, fmt.Errorf("corrupt user ID for %q: %w", username, err)
	}

	return &UserRecord{
		UserID:       userID,
		Username:     model.Username,
		PasswordHash: model.PasswordHash,
		Nickname:     model.Nickname,
		Activated:    model.Activated,
		Roles:        splitAuthorities(model.Roles),
		CreatedAt:    model.CreatedAt,
	}, nil
}

// CreateUser stores a new account, relying on the unique username index for
// duplicate detection
func (r *GormUserRepository) CreateUser(ctx context.Context, user *UserRecord) error {
	if user == nil || user.Username == "" {
		return fmt.Errorf("user with a non-empty username is required")
	}

	model := UserRecordType{
		UserID:       user.UserID.String(),
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Nickname:     user.Nickname,
		Activated:    user.Activated,
		Roles:        strings.Join(user.Roles, ","),
		CreatedAt:    user.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user: %w", result.Error)
	}

	return nil
}

// Close closes the underlying database connection
func (r *GormUserRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
