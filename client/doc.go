// Package client implements the REST credential client for the intercom
// backend's /auth endpoints.
//
// # Architecture boundaries
//
// This package owns transport only: request encoding, response decoding,
// and the APIError carrying the backend's message string. Interpreting
// that message — deciding that "Логин уже занят" means a username
// conflict — is the authflow classifier's job, and deciding *when* to call
// is the flow's job.
//
// # What this package must NOT do
//
//   - Validate input beyond what the wire format requires.
//   - Retry, throttle, or cache; the flow's cooldown is the only rate gate.
//   - Import the authflow root package.
package client
