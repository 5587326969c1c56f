// Package session holds the tokens issued by a successful login and answers
// when they need refreshing.
//
// # Architecture boundaries
//
// This package owns token storage and expiry inspection only. It never
// performs the refresh call itself — transport belongs to the client
// package — and it never validates token signatures, which is the server's
// job. Claims are read unverified solely to schedule refreshes.
//
// # What this package must NOT do
//
//   - Verify or issue tokens.
//   - Import the authflow root package (the root imports session).
//   - Keep plaintext credentials; only issued tokens are stored.
package session
