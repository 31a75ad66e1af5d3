// Package internal contains helper utilities that are intentionally private to
// pasetoAuth, chiefly secure random generation for refresh-token keys.
//
// # What this package must NOT do
//
//   - Export types that appear in the public pasetoAuth API.
//   - Be imported by any package outside the pasetoAuth module.
package internal
