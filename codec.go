// codec.go

package gourdianauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCodec defines the token lifecycle operations.
//
// Methods:
//   - EncodeToken: Signs a principal into a compact token string
//   - DecodeToken: Verifies a token string and extracts its principal
//   - ValidateToken: Reports whether DecodeToken would succeed
type TokenCodec interface {
	EncodeToken(principal *Principal) (string, error)
	DecodeToken(tokenString string) (*Principal, error)
	ValidateToken(tokenString string) bool
}

// JWTCodec is the concrete implementation of TokenCodec using HMAC-signed JWTs.
//
// The signing key is derived once at construction and never changes for the
// process lifetime, so a JWTCodec is safe for concurrent use by multiple
// goroutines without synchronization. The key is held behind the TokenCodec
// interface so a future key-identifier header lookup can be added without
// changing the Encode/Decode contract.
type JWTCodec struct {
	config        GourdianAuthConfig
	signingMethod jwt.SigningMethod
	signingKey    []byte
}

// NewJWTCodec creates a new codec instance with the provided configuration.
//
// The function validates the configuration, resolves the HMAC signing method
// and decodes the base64 signing secret into the process-wide signing key.
func NewJWTCodec(config GourdianAuthConfig) (*JWTCodec, error) {
	key, err := validateConfig(&config)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	codec := &JWTCodec{
		config:     config,
		signingKey: key,
	}

	switch config.Algorithm {
	case "HS256":
		codec.signingMethod = jwt.SigningMethodHS256
	case "HS384":
		codec.signingMethod = jwt.SigningMethodHS384
	case "HS512":
		codec.signingMethod = jwt.SigningMethodHS512
	}

	return codec, nil
}

// EncodeToken signs the principal into a compact token string.
//
// The claim set carries the principal name as subject, the comma-joined role
// names, the issuance time and an expiry of now plus the configured validity.
// Encoding is a pure function of (principal, now, key, validity) with no side
// effects.
func (codec *JWTCodec) EncodeToken(principal *Principal) (string, error) {
	if principal == nil || principal.Name == "" {
		return "", fmt.Errorf("principal name cannot be empty")
	}

	now := time.Now()
	claims := toMapClaims(principal, now, now.Add(codec.config.TokenValidity))

	token := jwt.NewWithClaims(codec.signingMethod, claims)

	signedToken, err := token.SignedString(codec.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// DecodeToken verifies a token string and returns its principal.
//
// Failures wrap exactly one of the taxonomy sentinels so callers can
// distinguish tampering from ordinary expiry:
//   - ErrTokenMalformed: not a structurally valid token
//   - ErrTokenSignatureInvalid: signature does not match the recomputed MAC
//   - ErrTokenExpired: expiry is not strictly in the future
//   - ErrTokenUnsupported: signed with an algorithm other than the configured one
//
// On success the roles claim is split on "," into the principal's role set;
// an empty claim yields an empty role set.
func (codec *JWTCodec) DecodeToken(tokenString string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != codec.signingMethod.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return codec.signingKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", classifyParseError(err))
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", ErrTokenMalformed)
	}

	claims, err := mapToTokenClaims(mapClaims)
	if err != nil {
		return nil, fmt.Errorf("invalid token claims: %w", err)
	}

	// jwt.Parse only checks "exp" when the claim is present; a token without
	// one is rejected above, so re-check here is a strict-future guard only.
	if !claims.ExpiresAt.After(time.Now()) {
		return nil, fmt.Errorf("invalid token: %w", ErrTokenExpired)
	}

	return claims.Principal(), nil
}

// ValidateToken reports whether DecodeToken would succeed, suppressing the
// specific failure kind.
func (codec *JWTCodec) ValidateToken(tokenString string) bool {
	_, err := codec.DecodeToken(tokenString)
	return err == nil
}

// classifyParseError maps golang-jwt parse errors onto the failure taxonomy.
// The library joins causes, so the most specific kinds are matched first.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// Keyfunc rejections: unexpected or "none" signing algorithm.
		return ErrTokenUnsupported
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	default:
		return ErrTokenMalformed
	}
}
