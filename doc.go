// Package gourdianauth provides stateless JWT authentication for HTTP services.
//
// Features:
// - Creation and verification of signed bearer tokens carrying a subject and its roles
// - Distinct failure kinds for malformed, tampered, expired and unsupported tokens
// - An HTTP middleware that resolves the bearer token and installs the authenticated principal into the request context
// - A credential entry point verifying username/password logins against a pluggable user store (in-memory, Redis, GORM)
// - Bcrypt password hashing for the stored credentials
package gourdianauth
