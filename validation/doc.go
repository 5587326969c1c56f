// Package validation implements the pure input predicates used by the
// credential flows: phone completeness, password strength facets, email
// shape, and username presence.
//
// # Architecture boundaries
//
// This package owns local format checks only. Anything the server is
// authoritative for (phone registration status, username uniqueness, code
// correctness) is decided remotely and classified by the authflow package.
//
// # What this package must NOT do
//
//   - Return errors — every function yields a boolean or a record of booleans.
//   - Perform I/O or keep state between calls.
//   - Import any other authflow package.
package validation
