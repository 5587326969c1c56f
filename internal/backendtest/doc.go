// Package backendtest is an in-memory stand-in for the intercom auth
// backend. It serves the /auth route table with the production service's
// Russian response messages so classifier and flow tests exercise the real
// wire contract, and it backs the demo command.
package backendtest
