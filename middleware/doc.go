// Package middleware exposes plain net/http adapters over
// pasetoAuth.Engine authentication.
//
// # Guards
//
//   - [Guard] — authenticates the request when an Authorization header is
//     present and stores the result in the request context. Requests without a
//     header proceed unauthenticated.
//   - [RequirePermission] — rejects requests whose principal lacks a named
//     permission.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself; all decisions are delegated to
// Engine.AuthenticateRequest.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to Engine).
//   - Access the credential store (Engine handles I/O).
//   - Make authorization decisions beyond what the resolved Principal answers.
package middleware
