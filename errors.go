// errors.go

package gourdianauth

import "errors"

// Token decoding failure kinds. DecodeToken wraps one of these sentinels so
// callers can distinguish tampering from ordinary expiry with errors.Is.
var (
	// ErrTokenMalformed indicates the token string is not a well-formed JWT.
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrTokenSignatureInvalid indicates the signature does not match the
	// MAC recomputed under the configured signing key.
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")

	// ErrTokenExpired indicates the expiry timestamp is not in the future.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenUnsupported indicates a structurally parseable token signed
	// with an algorithm other than the configured one.
	ErrTokenUnsupported = errors.New("token format or algorithm is not supported")
)

// Credential authentication failure kinds, raised only on the login path.
var (
	// ErrUnknownUser indicates no account exists for the given username.
	ErrUnknownUser = errors.New("unknown user")

	// ErrBadCredential indicates the presented password does not match.
	ErrBadCredential = errors.New("bad credential")

	// ErrAccountDisabled indicates the account exists but is not activated.
	ErrAccountDisabled = errors.New("account is disabled")
)

// User store failure kinds.
var (
	// ErrUserNotFound is returned by UserRepository lookups for absent usernames.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned when creating a user whose username is taken.
	ErrDuplicateUser = errors.New("user already exists")
)

// ErrInvalidSignup wraps signup field-bound violations so the HTTP layer can
// separate caller mistakes from store failures.
var ErrInvalidSignup = errors.New("invalid signup request")
