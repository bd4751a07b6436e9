// tests_helpers.go

package gourdianauth

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// testSigningSecret returns a base64 secret that decodes to 64 bytes,
// suitable for HS512.
func testSigningSecret() string {
	return base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"))
}

// testLogger discards all output so test runs stay quiet.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestCodec builds an HS512 codec with the given validity.
func newTestCodec(t *testing.T, validity time.Duration) *JWTCodec {
	t.Helper()

	codec, err := NewJWTCodec(GourdianAuthConfig{
		SigningSecret: testSigningSecret(),
		Algorithm:     "HS512",
		TokenValidity: validity,
	})
	if err != nil {
		t.Fatalf("failed to create codec: %v", err)
	}
	return codec
}

// testHasher uses bcrypt's minimum cost to keep test runs fast.
func testHasher() *BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

// newTestRepository seeds an in-memory store with the accounts the tests
// rely on: alice (ROLE_USER), admin (ROLE_USER+ROLE_ADMIN) and a
// not-activated account, carol.
func newTestRepository(t *testing.T) *MemoryUserRepository {
	t.Helper()

	repo := NewMemoryUserRepository()
	hasher := testHasher()
	ctx := context.Background()

	seeds := []struct {
		username string
		password string
		nickname string
		active   bool
		roles    []string
	}{
		{"alice", "alice-password", "Alice", true, []string{RoleUser}},
		{"admin", "admin-password", "Admin", true, []string{RoleUser, RoleAdmin}},
		{"carol", "carol-password", "Carol", false, []string{RoleUser}},
	}

	for _, seed := range seeds {
		user, err := SeedUser(ctx, repo, hasher, seed.username, seed.password, seed.nickname, seed.roles...)
		if err != nil {
			t.Fatalf("failed to seed user %s: %v", seed.username, err)
		}
		if !seed.active {
			deactivateTestUser(t, repo, user.Username)
		}
	}

	return repo
}

// deactivateTestUser flips the activated flag on a stored account.
func deactivateTestUser(t *testing.T, repo *MemoryUserRepository, username string) {
	t.Helper()

	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[username]
	if !ok {
		t.Fatalf("no seeded user %s", username)
	}
	user.Activated = false
	repo.users[username] = user
}

// newTestSuite wires a full suite over a seeded in-memory store.
func newTestSuite(t *testing.T, validity time.Duration) (*AuthSuite, *MemoryUserRepository) {
	t.Helper()

	repo := newTestRepository(t)
	suite, err := NewAuthSuiteWithHasher(GourdianAuthConfig{
		SigningSecret: testSigningSecret(),
		Algorithm:     "HS512",
		TokenValidity: validity,
	}, repo, testHasher(), testLogger())
	if err != nil {
		t.Fatalf("failed to create suite: %v", err)
	}
	return suite, repo
}

// expiredTestToken signs a token whose expiry is already in the past, using
// the test key; the config itself refuses non-positive validity durations.
func expiredTestToken(t *testing.T, name string, roles ...string) string {
	t.Helper()

	codec := newTestCodec(t, time.Hour)
	now := time.Now()
	claims := toMapClaims(&Principal{Name: name, Roles: roles}, now.Add(-2*time.Hour), now.Add(-time.Hour))

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(codec.signingKey)
	if err != nil {
		t.Fatalf("failed to sign expired token: %v", err)
	}
	return tokenString
}

// tamperSignature flips the first character of the token's signature
// segment, guaranteeing the decoded signature bytes change.
func tamperSignature(token string) string {
	dot := strings.LastIndex(token, ".")
	sigStart := dot + 1

	replacement := byte('A')
	if token[sigStart] == 'A' {
		replacement = 'B'
	}
	return token[:sigStart] + string(replacement) + token[sigStart+1:]
}
