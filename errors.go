package authflow

import "errors"

var (
	// ErrFlowBusy is an exported constant or variable used by the verification workflow.
	ErrFlowBusy = errors.New("flow transition already in progress")
	// ErrFlowClosed is an exported constant or variable used by the verification workflow.
	ErrFlowClosed = errors.New("flow discarded")
	// ErrStepMismatch is an exported constant or variable used by the verification workflow.
	ErrStepMismatch = errors.New("operation not legal at current step")
	// ErrPhoneIncomplete is an exported constant or variable used by the verification workflow.
	ErrPhoneIncomplete = errors.New("phone number incomplete")
	// ErrCodeFormat is an exported constant or variable used by the verification workflow.
	ErrCodeFormat = errors.New("verification code malformed")
	// ErrCooldownActive is an exported constant or variable used by the verification workflow.
	ErrCooldownActive = errors.New("resend cooldown active")
	// ErrNameRequired is an exported constant or variable used by the verification workflow.
	ErrNameRequired = errors.New("first and last name required")
	// ErrEmailInvalid is an exported constant or variable used by the verification workflow.
	ErrEmailInvalid = errors.New("email malformed")
	// ErrUsernameRequired is an exported constant or variable used by the verification workflow.
	ErrUsernameRequired = errors.New("username required")
	// ErrPasswordWeak is an exported constant or variable used by the verification workflow.
	ErrPasswordWeak = errors.New("password does not meet strength rules")
	// ErrPasswordMismatch is an exported constant or variable used by the verification workflow.
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	// ErrPasswordRequired is an exported constant or variable used by the verification workflow.
	ErrPasswordRequired = errors.New("password required")
	// ErrFlowNotReady is an exported constant or variable used by the verification workflow.
	ErrFlowNotReady = errors.New("flow not initialized")
)
