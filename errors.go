package pasetoAuth

import "errors"

var (
	// ErrAuthenticationFailed is the uniform failure for every invalid-credential
	// path: malformed tokens, failed decryption, expiry, unknown keys, and locked
	// records. Callers never learn which one it was.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrInvalidLifetime is an exported constant or variable used by the authentication engine.
	ErrInvalidLifetime = errors.New("invalid refresh lifetime")
	// ErrKeySpaceExhausted is an exported constant or variable used by the authentication engine.
	ErrKeySpaceExhausted = errors.New("token key generation attempts exhausted")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrUserNotFound is an exported constant or variable used by the authentication engine.
	ErrUserNotFound = errors.New("user not found")
)
