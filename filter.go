// filter.go

package gourdianauth

import (
	"log/slog"
	"net/http"
	"strings"
)

const (
	// AuthorizationHeader is the request header carrying the bearer token.
	AuthorizationHeader = "Authorization"

	// BearerPrefix is the literal scheme prefix, including the trailing space.
	BearerPrefix = "Bearer "
)

// AuthFilter is the per-request authentication interceptor.
//
// It extracts the bearer token from the Authorization header, validates it
// through the codec and, on success, installs the decoded principal into the
// request context. On absence or any validation failure the request is
// forwarded unauthenticated; whether that is acceptable is decided by the
// downstream policy layer, which keeps open endpoints reachable without a
// token.
type AuthFilter struct {
	codec  TokenCodec
	logger *slog.Logger
}

// NewAuthFilter creates an authentication filter around the given codec.
// A nil logger falls back to slog.Default.
func NewAuthFilter(codec TokenCodec, logger *slog.Logger) *AuthFilter {
	return &AuthFilter{
		codec:  codec,
		logger: resolveLogger(logger),
	}
}

// Middleware wraps next so every request passes through the filter exactly
// once before reaching any route handler. The only state it mutates is the
// current request's own context, so it is safe under full concurrency.
func (filter *AuthFilter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := resolveBearerToken(r)

		if tokenString == "" {
			filter.logger.Debug("no bearer token presented", "uri", r.URL.RequestURI())
			next.ServeHTTP(w, r)
			return
		}

		principal, err := filter.codec.DecodeToken(tokenString)
		if err != nil {
			// Never log the raw token; the failure kind and URI are enough
			// to distinguish tampering from expiry operationally.
			filter.logger.Warn("invalid bearer token",
				"uri", r.URL.RequestURI(),
				"error", err.Error(),
			)
			next.ServeHTTP(w, r)
			return
		}

		filter.logger.Debug("authenticated request",
			"uri", r.URL.RequestURI(),
			"subject", principal.Name,
		)
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// resolveBearerToken extracts the token from the Authorization header.
// Absence or a non-Bearer scheme means no credential was presented.
func resolveBearerToken(r *http.Request) string {
	header := r.Header.Get(AuthorizationHeader)
	if header == "" || !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return header[len(BearerPrefix):]
}

// resolveLogger returns logger, or slog.Default when nil.
func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
