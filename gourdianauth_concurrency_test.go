// gourdianauth_concurrency_test.go

package gourdianauth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentTokenOperations(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	const workers = 50

	t.Run("Concurrent Encode And Decode", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				name := fmt.Sprintf("user-%d", n)

				token, err := codec.EncodeToken(&Principal{Name: name, Roles: []string{RoleUser}})
				if err != nil {
					t.Errorf("encode %s: %v", name, err)
					return
				}
				principal, err := codec.DecodeToken(token)
				if err != nil {
					t.Errorf("decode %s: %v", name, err)
					return
				}
				if principal.Name != name {
					t.Errorf("decoded %q, want %q", principal.Name, name)
				}
			}(i)
		}
		wg.Wait()
	})
}

// Two concurrent requests bearing different valid tokens must never observe
// each other's principal.
func TestConcurrentRequestIsolation(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	filter := NewAuthFilter(codec, testLogger())

	// The handler echoes the principal it sees after a deliberate pause, so
	// overlapping requests are actually in flight together.
	handler := filter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(principal.Name))
	}))

	const workers = 32
	tokens := make([]string, workers)
	for i := range tokens {
		token, err := codec.EncodeToken(&Principal{
			Name:  fmt.Sprintf("user-%d", i),
			Roles: []string{RoleUser},
		})
		require.NoError(t, err)
		tokens[i] = token
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
			req.Header.Set(AuthorizationHeader, BearerPrefix+tokens[n])
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("request %d: status %d", n, rec.Code)
				return
			}
			if got, want := rec.Body.String(), fmt.Sprintf("user-%d", n); got != want {
				t.Errorf("request %d observed principal %q, want %q", n, got, want)
			}
		}(i)
	}
	wg.Wait()
}

func TestConcurrentLogins(t *testing.T) {
	suite, _ := newTestSuite(t, time.Hour)
	const workers = 16

	var wg sync.WaitGroup
	results := make([]string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			username := "alice"
			if n%2 == 1 {
				username = "admin"
			}

			body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, username+"-password")
			req := httptest.NewRequest(http.MethodPost, "/api/authenticate", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			suite.Router.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("login %d: status %d body %s", n, rec.Code, rec.Body.String())
				return
			}
			var resp TokenResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Errorf("login %d: %v", n, err)
				return
			}
			results[n] = resp.Token
		}(i)
	}
	wg.Wait()

	for i, token := range results {
		principal, err := suite.Codec.DecodeToken(token)
		require.NoError(t, err)
		if i%2 == 1 {
			assert.Equal(t, "admin", principal.Name)
		} else {
			assert.Equal(t, "alice", principal.Name)
		}
	}
}
