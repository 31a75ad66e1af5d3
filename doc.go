// Package pasetoAuth provides a token lifecycle engine built on PASETO v4.local:
// encrypted access and refresh tokens, store-backed refresh credentials with
// lock-based revocation, and permission-set authorization for user and app
// principals.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// pasetoAuth is the public surface. It exposes [Engine], [Builder], [Config], and value
// types (TokenPair, Auth, MetricsSnapshot, etc.). Token encoding lives in token/,
// credential persistence in store/, and authorization sets in permission/.
//
// # What this package must NOT do
//
//   - Expose Redis or database clients, store internals, or codec details in its
//     public API.
//   - Verify passwords or other login credentials. Callers authenticate the user
//     first and hand the engine a verified user id.
//   - Distinguish failure causes on the authentication path. Invalid tokens,
//     missing records, and locked records all surface as [ErrAuthenticationFailed].
//
// # Performance contract
//
// AuthenticateRequest is the hot path. Decoding a user token costs one decrypt plus
// one UserProvider lookup; an app token costs one decrypt plus one store read.
// Issuance and provisioning are allowed one store write per key attempt.
package pasetoAuth
