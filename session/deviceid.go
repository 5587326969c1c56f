package session

import "github.com/google/uuid"

// NewDeviceID returns a fresh install identifier. The host app generates
// one on first launch and persists it; the ID keys the token store and
// never leaves the device except as a storage key.
func NewDeviceID() string {
	return uuid.NewString()
}
