package authflow

// FlowKind defines a public type used by authflow APIs.
//
// FlowKind selects which terminal transition is legal and which backend
// endpoints the shared step machine calls.
type FlowKind uint8

const (
	// FlowRegistration is an exported constant or variable used by the verification workflow.
	FlowRegistration FlowKind = iota
	// FlowPasswordReset is an exported constant or variable used by the verification workflow.
	FlowPasswordReset
	// FlowLogin is an exported constant or variable used by the verification workflow.
	FlowLogin
)

// String describes the string operation and its observable behavior.
func (k FlowKind) String() string {
	switch k {
	case FlowRegistration:
		return "registration"
	case FlowPasswordReset:
		return "password_reset"
	case FlowLogin:
		return "login"
	default:
		return "unknown"
	}
}

// Step defines a public type used by authflow APIs.
//
// Step is the flow's current position. Registration walks all four
// non-terminal steps; PasswordReset skips StepProfile; Login collects
// phone and password in its single StepPhone.
type Step uint8

const (
	// StepPhone is an exported constant or variable used by the verification workflow.
	StepPhone Step = iota
	// StepCode is an exported constant or variable used by the verification workflow.
	StepCode
	// StepProfile is an exported constant or variable used by the verification workflow.
	StepProfile
	// StepCredentials is an exported constant or variable used by the verification workflow.
	StepCredentials
	// StepDone is an exported constant or variable used by the verification workflow.
	StepDone
)

// String describes the string operation and its observable behavior.
func (s Step) String() string {
	switch s {
	case StepPhone:
		return "phone"
	case StepCode:
		return "code"
	case StepProfile:
		return "profile"
	case StepCredentials:
		return "credentials"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// ProfileFields defines a public type used by authflow APIs.
//
// ProfileFields is the StepProfile input. Username is collected later, at
// StepCredentials, because the server checks it only at final submission.
type ProfileFields struct {
	FirstName string
	LastName  string
	Email     string
}

// ErrorKind defines a public type used by authflow APIs.
//
// ErrorKind is the classified reason for the most recent failure. The
// backend has no structured error codes, so remote kinds are derived from
// message fragments; see Classify.
type ErrorKind uint8

const (
	// KindInputInvalid is an exported constant or variable used by the verification workflow.
	KindInputInvalid ErrorKind = iota
	// KindPhoneAlreadyRegistered is an exported constant or variable used by the verification workflow.
	KindPhoneAlreadyRegistered
	// KindPhoneNotRegistered is an exported constant or variable used by the verification workflow.
	KindPhoneNotRegistered
	// KindUsernameTaken is an exported constant or variable used by the verification workflow.
	KindUsernameTaken
	// KindCodeIncorrect is an exported constant or variable used by the verification workflow.
	KindCodeIncorrect
	// KindUnclassified is an exported constant or variable used by the verification workflow.
	KindUnclassified
)

// String describes the string operation and its observable behavior.
func (k ErrorKind) String() string {
	switch k {
	case KindInputInvalid:
		return "input_invalid"
	case KindPhoneAlreadyRegistered:
		return "phone_already_registered"
	case KindPhoneNotRegistered:
		return "phone_not_registered"
	case KindUsernameTaken:
		return "username_taken"
	case KindCodeIncorrect:
		return "code_incorrect"
	default:
		return "unclassified"
	}
}

// Field names a FlowError can be scoped to instead of the step's generic
// banner.
const (
	// FieldPhone is an exported constant or variable used by the verification workflow.
	FieldPhone = "phone"
	// FieldCode is an exported constant or variable used by the verification workflow.
	FieldCode = "code"
	// FieldEmail is an exported constant or variable used by the verification workflow.
	FieldEmail = "email"
	// FieldName is an exported constant or variable used by the verification workflow.
	FieldName = "name"
	// FieldUsername is an exported constant or variable used by the verification workflow.
	FieldUsername = "username"
	// FieldPassword is an exported constant or variable used by the verification workflow.
	FieldPassword = "password"
)

// FlowError defines a public type used by authflow APIs.
//
// FlowError is the user-facing classification of a failed transition.
// Field is empty for step-wide errors; when set (username conflicts in
// particular) the UI should attach the message to that input instead of
// the generic banner.
type FlowError struct {
	Kind    ErrorKind
	Field   string
	Message string
	Cause   error
}

// Error describes the error operation and its observable behavior.
func (e *FlowError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

// Unwrap describes the unwrap operation and its observable behavior.
func (e *FlowError) Unwrap() error {
	return e.Cause
}

// State defines a public type used by authflow APIs.
//
// State is a point-in-time snapshot for rendering. It is a value copy;
// mutating it has no effect on the flow.
type State struct {
	Kind            FlowKind
	Step            Step
	Busy            bool
	CooldownSeconds int
	PhoneDigits     string
	Code            string
	Profile         ProfileFields
	Username        string
	LastError       *FlowError
}
