// handlers.go

package gourdianauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// LoginRequest carries the fields of an authenticate call.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries the issued token in the response body; the same
// token is also set on the Authorization response header.
type TokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// AuthHandler serves the authentication HTTP API.
type AuthHandler struct {
	codec         TokenCodec
	authenticator *Authenticator
	service       *UserService
	logger        *slog.Logger
}

// NewAuthHandler creates the HTTP handler set for the authentication API.
func NewAuthHandler(codec TokenCodec, authenticator *Authenticator, service *UserService, logger *slog.Logger) (*AuthHandler, error) {
	if codec == nil {
		return nil, fmt.Errorf("token codec cannot be nil")
	}
	if authenticator == nil {
		return nil, fmt.Errorf("authenticator cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("user service cannot be nil")
	}
	return &AuthHandler{
		codec:         codec,
		authenticator: authenticator,
		service:       service,
		logger:        resolveLogger(logger),
	}, nil
}

// Authenticate handles POST /api/authenticate.
//
// On success the signed token is returned both in the Authorization response
// header and in the response body. Every credential failure maps to the same
// generic 401 body so callers cannot distinguish an unknown username from a
// wrong password; the specific kind is logged internally only.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username and password are required"})
		return
	}

	principal, err := h.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("authentication failed",
			"uri", r.URL.RequestURI(),
			"username", req.Username,
			"error", err.Error(),
		)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication failed"})
		return
	}

	// The verified identity becomes this request's authenticated principal,
	// exactly as a decoded token would, before the token is issued from it.
	ctx := WithPrincipal(r.Context(), principal)
	current, _ := PrincipalFromContext(ctx)

	token, err := h.codec.EncodeToken(current)
	if err != nil {
		h.logger.Error("token issuance failed", "uri", r.URL.RequestURI(), "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "token issuance failed"})
		return
	}

	w.Header().Set(AuthorizationHeader, BearerPrefix+token)
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// Signup handles POST /api/signup. The endpoint is open; every signed-up
// account is activated and holds ROLE_USER.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.service.Signup(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateUser):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "user already exists"})
		case errors.Is(err, ErrInvalidSignup):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		default:
			// Store or hashing failure. The specific error stays in the log;
			// clients never see internal error text.
			h.logger.Error("signup failed", "uri", r.URL.RequestURI(), "error", err.Error())
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "signup failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// CurrentUser handles GET /api/user, returning the authenticated account.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetCurrentUser(r.Context())
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UserByName handles GET /api/user/{username}.
func (h *AuthHandler) UserByName(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUserWithRoles(r.Context(), r.PathValue("username"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Hello handles GET /api/hello, an open probe endpoint.
func (h *AuthHandler) Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "hello"})
}

// RequireRoles is the policy gate for protected routes: 401 when the request
// carries no authenticated principal, 403 when the principal holds none of
// the required roles.
func (h *AuthHandler) RequireRoles(next http.Handler, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			h.logger.Warn("unauthenticated access rejected", "uri", r.URL.RequestURI())
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}
		if !principal.HasAnyRole(roles...) {
			h.logger.Warn("access denied",
				"uri", r.URL.RequestURI(),
				"subject", principal.Name,
			)
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "access denied"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewRouter assembles the API routes behind the authentication filter.
func NewRouter(handler *AuthHandler, filter *AuthFilter) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/hello", handler.Hello)
	mux.HandleFunc("POST /api/authenticate", handler.Authenticate)
	mux.HandleFunc("POST /api/signup", handler.Signup)
	mux.Handle("GET /api/user", handler.RequireRoles(http.HandlerFunc(handler.CurrentUser), RoleUser, RoleAdmin))
	mux.Handle("GET /api/user/{username}", handler.RequireRoles(http.HandlerFunc(handler.UserByName), RoleAdmin))

	return filter.Middleware(mux)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
