// claim.go

package gourdianauth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claim names used in the compact token format.
const (
	claimSubject     = "sub"  // Principal name
	claimAuthorities = "auth" // Comma-joined role names
	claimIssuedAt    = "iat"  // Issuance time (unix seconds)
	claimExpiresAt   = "exp"  // Expiry time (unix seconds)
)

// Principal is the immutable authenticated identity carried by a token and
// installed into the request context.
//
// Roles may be empty: a validly signed token with no roles still
// authenticates; whether an empty role set is acceptable is an authorization
// decision, not an authentication one.
type Principal struct {
	Name  string   // Unique subject name, never empty
	Roles []string // Granted role names (e.g. "ROLE_USER", "ROLE_ADMIN")
}

// HasRole reports whether the principal holds the given role.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal holds at least one of the given roles.
func (p *Principal) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

// TokenClaims is the decoded claim set of a signed token.
type TokenClaims struct {
	Subject     string    // Principal name
	Authorities []string  // Role names parsed from the "auth" claim
	IssuedAt    time.Time // Issuance time
	ExpiresAt   time.Time // Expiry time
}

// Principal returns the principal described by the claims.
func (c *TokenClaims) Principal() *Principal {
	return &Principal{
		Name:  c.Subject,
		Roles: c.Authorities,
	}
}

// toMapClaims builds the wire claim set for a principal.
//
// Roles are joined with "," into a single claim value. A role name containing
// a literal comma is not escaped and would split into two roles on decode;
// this mirrors the established wire format and is kept for compatibility.
func toMapClaims(principal *Principal, issuedAt time.Time, expiresAt time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		claimSubject:     principal.Name,
		claimAuthorities: strings.Join(principal.Roles, ","),
		claimIssuedAt:    issuedAt.Unix(),
		claimExpiresAt:   expiresAt.Unix(),
	}
}

// mapToTokenClaims converts verified JWT claims to TokenClaims.
func mapToTokenClaims(claims jwt.MapClaims) (*TokenClaims, error) {
	subject, ok := claims[claimSubject].(string)
	if !ok || subject == "" {
		return nil, ErrTokenMalformed
	}

	authorities, ok := claims[claimAuthorities].(string)
	if !ok {
		return nil, ErrTokenMalformed
	}

	iat, ok := claims[claimIssuedAt].(float64)
	if !ok {
		return nil, ErrTokenMalformed
	}
	exp, ok := claims[claimExpiresAt].(float64)
	if !ok {
		return nil, ErrTokenMalformed
	}

	return &TokenClaims{
		Subject:     subject,
		Authorities: splitAuthorities(authorities),
		IssuedAt:    time.Unix(int64(iat), 0),
		ExpiresAt:   time.Unix(int64(exp), 0),
	}, nil
}

// splitAuthorities splits the comma-joined roles claim. An empty claim value
// yields an empty role set, not a set containing one empty string.
func splitAuthorities(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}
