// config.go

package gourdianauth

import (
	"encoding/base64"
	"fmt"
	"time"
)

// minKeyBytes is the minimum decoded signing key length. HMAC-SHA-2 keys
// shorter than the hash block offer degraded security margins.
const minKeyBytes = 32

// GourdianAuthConfig holds the complete configuration for token issuance and
// verification.
//
// # Required Fields
// - SigningSecret: base64-encoded shared secret (decodes to at least 32 bytes)
// - TokenValidity: positive duration from issuance to expiry
//
// Algorithm defaults to HS512 when left empty. Supported algorithms are the
// HMAC family (HS256, HS384, HS512); the signing scheme is symmetric and the
// derived key is immutable for the process lifetime. Rotating the secret
// requires a restart and invalidates every outstanding token.
//
// # Example
//
//	config := GourdianAuthConfig{
//	    SigningSecret: base64.StdEncoding.EncodeToString(secretBytes),
//	    Algorithm:     "HS512",
//	    TokenValidity: 30 * time.Minute,
//	}
type GourdianAuthConfig struct {
	SigningSecret string        // Base64-encoded shared signing secret
	Algorithm     string        // HMAC algorithm ("HS256", "HS384", "HS512")
	TokenValidity time.Duration // Token lifetime from issuance
}

// DefaultGourdianAuthConfig returns a configuration using HS512 and a one
// hour token validity, matching the recommended production settings.
func DefaultGourdianAuthConfig(signingSecret string) GourdianAuthConfig {
	return GourdianAuthConfig{
		SigningSecret: signingSecret,
		Algorithm:     "HS512",
		TokenValidity: time.Hour,
	}
}

// validateConfig validates the configuration and derives the signing key.
// A non-positive TokenValidity is an implementer error, so it is rejected
// here at construction time rather than surfaced at encode time.
func validateConfig(config *GourdianAuthConfig) ([]byte, error) {
	if config.Algorithm == "" {
		config.Algorithm = "HS512"
	}
	switch config.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported algorithm: %s, supports HS256, HS384 and HS512", config.Algorithm)
	}

	if config.SigningSecret == "" {
		return nil, fmt.Errorf("signing secret is required")
	}
	key, err := base64.StdEncoding.DecodeString(config.SigningSecret)
	if err != nil {
		return nil, fmt.Errorf("signing secret is not valid base64: %w", err)
	}
	if len(key) < minKeyBytes {
		return nil, fmt.Errorf("signing secret must decode to at least %d bytes, got %d", minKeyBytes, len(key))
	}

	if config.TokenValidity <= 0 {
		return nil, fmt.Errorf("token validity must be positive, got %s", config.TokenValidity)
	}

	return key, nil
}
