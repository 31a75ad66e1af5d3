// Package store persists refresh-token credential records and enforces key
// uniqueness at insert time.
//
// # Backends
//
// Three implementations share the [Store] interface: [Memory] for tests and
// single-process use, [Redis] backed by go-redis with per-record TTLs, and
// [Postgres] backed by pgx. The engine treats them interchangeably.
//
// # Uniqueness contract
//
// CreateUserToken and CreateAppToken must fail with [ErrDuplicateKey] when a
// record with the same key already exists in the same partition. This is the
// only uniqueness guarantee in the system; key generation merely retries on it.
//
// # What this package must NOT do
//
//   - Decide token validity. It stores and locks records; interpretation
//     belongs to the engine.
//   - Delete records on revocation. Lock flips a flag so the audit trail
//     survives.
package store
