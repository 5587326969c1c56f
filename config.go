package authflow

import (
	"errors"
	"time"
)

// Config defines a public type used by authflow APIs.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
type Config struct {
	// ResendWindowSeconds gates re-requesting a verification code. The
	// product uses a uniform 60 second window.
	ResendWindowSeconds int

	// CodeLength is the SMS code length the backend issues.
	CodeLength int

	// CooldownTick is how often the resend countdown decrements. Anything
	// other than one second is only meaningful in tests.
	CooldownTick time.Duration

	// RegisterRole is sent in the register body. The mobile app always
	// registers residents.
	RegisterRole string

	Events EventConfig
}

/*
====================================
EVENT CONFIG
====================================
*/

// EventConfig defines a public type used by authflow APIs.
//
// EventConfig instances are intended to be configured during initialization
// and then treated as immutable unless documented otherwise.
type EventConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
func DefaultConfig() Config {
	return Config{
		ResendWindowSeconds: 60,
		CodeLength:          4,
		CooldownTick:        time.Second,
		RegisterRole:        "resident",
		Events: EventConfig{
			Enabled:    true,
			BufferSize: 64,
			DropIfFull: true,
		},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ResendWindowSeconds <= 0 {
		c.ResendWindowSeconds = d.ResendWindowSeconds
	}
	if c.CodeLength <= 0 {
		c.CodeLength = d.CodeLength
	}
	if c.CooldownTick <= 0 {
		c.CooldownTick = d.CooldownTick
	}
	if c.RegisterRole == "" {
		c.RegisterRole = d.RegisterRole
	}
	return c
}

func (c Config) validate() error {
	if c.ResendWindowSeconds < 0 {
		return errors.New("authflow: negative resend window")
	}
	if c.CodeLength < 0 {
		return errors.New("authflow: negative code length")
	}
	return nil
}
