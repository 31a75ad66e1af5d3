// Package permission provides the name-set model and group composition helpers
// used by pasetoAuth authorization checks.
//
// # Naming convention
//
// Permission names follow the "module.action" convention, for example
// "billing.read". [Module] extracts the module prefix; [Set.HasModule] answers
// whether any grant falls under a module.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import pasetoAuth, token, or store.
//   - Evaluate grants lazily; sets are materialized once and then read-only.
package permission
