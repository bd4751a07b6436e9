// gourdianauth_handlers_test.go

package gourdianauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingUserRepository simulates an unreachable credential store.
type failingUserRepository struct {
	err error
}

func (r *failingUserRepository) FindUserByUsername(ctx context.Context, username string) (*UserRecord, error) {
	return nil, r.err
}

func (r *failingUserRepository) CreateUser(ctx context.Context, user *UserRecord) error {
	return r.err
}

func (r *failingUserRepository) Close() error { return nil }

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func getWithToken(t *testing.T, router http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginAs(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()

	rec := postJSON(t, router, "/api/authenticate", LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAuthenticateEndpoint(t *testing.T) {
	suite, _ := newTestSuite(t, time.Hour)

	t.Run("Correct Credentials Issue Token", func(t *testing.T) {
		rec := postJSON(t, suite.Router, "/api/authenticate", LoginRequest{Username: "alice", Password: "alice-password"})
		require.Equal(t, http.StatusOK, rec.Code)

		// Token is delivered in both the response header and the body.
		header := rec.Header().Get(AuthorizationHeader)
		require.True(t, strings.HasPrefix(header, BearerPrefix))

		var resp TokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, BearerPrefix+resp.Token, header)

		// Decoding the issued token immediately yields the login identity.
		principal, err := suite.Codec.DecodeToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "alice", principal.Name)
		assert.Equal(t, []string{RoleUser}, principal.Roles)
	})

	t.Run("Wrong Password Issues No Token", func(t *testing.T) {
		rec := postJSON(t, suite.Router, "/api/authenticate", LoginRequest{Username: "alice", Password: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Header().Get(AuthorizationHeader))
	})

	t.Run("Unknown User And Wrong Password Are Indistinguishable", func(t *testing.T) {
		unknown := postJSON(t, suite.Router, "/api/authenticate", LoginRequest{Username: "nobody", Password: "x-password"})
		wrongPassword := postJSON(t, suite.Router, "/api/authenticate", LoginRequest{Username: "alice", Password: "x-password"})

		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrongPassword.Code, unknown.Code)
		assert.Equal(t, wrongPassword.Body.String(), unknown.Body.String())
	})

	t.Run("Disabled Account Gets Same Generic Response", func(t *testing.T) {
		disabled := postJSON(t, suite.Router, "/api/authenticate", LoginRequest{Username: "carol", Password: "carol-password"})
		wrongPassword := postJSON(t, suite.Router, "/api/authenticate", LoginRequest{Username: "alice", Password: "x-password"})

		assert.Equal(t, http.StatusUnauthorized, disabled.Code)
		assert.Equal(t, wrongPassword.Body.String(), disabled.Body.String())
	})

	t.Run("Missing Fields", func(t *testing.T) {
		rec := postJSON(t, suite.Router, "/api/authenticate", LoginRequest{Username: "alice"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSignupEndpoint(t *testing.T) {
	suite, _ := newTestSuite(t, time.Hour)

	t.Run("Signup Then Login", func(t *testing.T) {
		rec := postJSON(t, suite.Router, "/api/signup", SignupRequest{
			Username: "dave",
			Password: "dave-password",
			Nickname: "Dave",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var user UserRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, []string{RoleUser}, user.Roles)

		// The password hash must never appear in the response.
		assert.NotContains(t, rec.Body.String(), "password")

		token := loginAs(t, suite.Router, "dave", "dave-password")
		assert.True(t, suite.Codec.ValidateToken(token))
	})

	t.Run("Duplicate Username", func(t *testing.T) {
		rec := postJSON(t, suite.Router, "/api/signup", SignupRequest{Username: "alice", Password: "whatever1", Nickname: "Imposter"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Invalid Fields", func(t *testing.T) {
		rec := postJSON(t, suite.Router, "/api/signup", SignupRequest{Username: "ab", Password: "whatever1", Nickname: "Name"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Store Failure Is A Generic Server Error", func(t *testing.T) {
		storeErr := errors.New("dial tcp 10.0.0.5:6379: connect: connection refused")
		broken, err := NewAuthSuiteWithHasher(GourdianAuthConfig{
			SigningSecret: testSigningSecret(),
			Algorithm:     "HS512",
			TokenValidity: time.Hour,
		}, &failingUserRepository{err: storeErr}, testHasher(), testLogger())
		require.NoError(t, err)

		rec := postJSON(t, broken.Router, "/api/signup", SignupRequest{Username: "dave", Password: "dave-password", Nickname: "Dave"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		// Infrastructure error text stays in the log, never in the response.
		assert.NotContains(t, rec.Body.String(), "10.0.0.5")
		assert.JSONEq(t, `{"error":"signup failed"}`, rec.Body.String())
	})
}

func TestProtectedEndpoints(t *testing.T) {
	suite, _ := newTestSuite(t, time.Hour)

	t.Run("Hello Is Open", func(t *testing.T) {
		rec := getWithToken(t, suite.Router, "/api/hello", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Current User Requires Authentication", func(t *testing.T) {
		rec := getWithToken(t, suite.Router, "/api/user", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Current User With Valid Token", func(t *testing.T) {
		token := loginAs(t, suite.Router, "alice", "alice-password")

		rec := getWithToken(t, suite.Router, "/api/user", token)
		require.Equal(t, http.StatusOK, rec.Code)

		var user UserRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("Expired Token Is Rejected As Unauthenticated", func(t *testing.T) {
		token := expiredTestToken(t, "alice", RoleUser)

		rec := getWithToken(t, suite.Router, "/api/user", token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "stale identity must not pass the policy gate")
	})

	t.Run("Lookup By Name Requires Admin", func(t *testing.T) {
		userToken := loginAs(t, suite.Router, "alice", "alice-password")
		adminToken := loginAs(t, suite.Router, "admin", "admin-password")

		rec := getWithToken(t, suite.Router, "/api/user/alice", userToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = getWithToken(t, suite.Router, "/api/user/alice", adminToken)
		require.Equal(t, http.StatusOK, rec.Code)

		var user UserRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("Lookup Of Unknown User", func(t *testing.T) {
		adminToken := loginAs(t, suite.Router, "admin", "admin-password")
		rec := getWithToken(t, suite.Router, "/api/user/nobody", adminToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
