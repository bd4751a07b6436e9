// user.go

package gourdianauth

import (
	"time"

	"github.com/google/uuid"
)

// Well-known role names.
const (
	RoleUser  = "ROLE_USER"  // Granted to every signed-up account
	RoleAdmin = "ROLE_ADMIN" // Granted to administrator accounts
)

// UserRecord is a stored account: the credential-store side of the
// authentication boundary. PasswordHash is a one-way hash, never the raw
// password.
type UserRecord struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Nickname     string    `json:"nickname"`
	Activated    bool      `json:"activated"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal returns the authenticated identity for the record.
func (u *UserRecord) Principal() *Principal {
	roles := make([]string, len(u.Roles))
	copy(roles, u.Roles)
	return &Principal{
		Name:  u.Username,
		Roles: roles,
	}
}
