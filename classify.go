package authflow

import (
	"errors"
	"strings"

	"github.com/domofonlab/authflow/client"
)

// operation names the backend call a failure came from. The hint narrows
// classification the same way the production app keyed formatErr on the
// field being submitted.
type operation uint8

const (
	opRequestCode operation = iota
	opVerifyCode
	opRegister
	opResetPassword
	opLogin
)

// Classify maps a failed backend call to an [ErrorKind] by case-insensitive
// substring matching over the response message. The backend ships no
// structured error codes, so this is inherently heuristic; anything
// unmatched is KindUnclassified and shown verbatim.
func Classify(err error) ErrorKind {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return KindUnclassified
	}
	return classifyMessage(apiErr.Message)
}

func classifyMessage(message string) ErrorKind {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "уже зарегистрирован") || strings.Contains(m, "already registered"):
		return KindPhoneAlreadyRegistered
	case strings.Contains(m, "не зарегистрирован") || strings.Contains(m, "not registered"):
		return KindPhoneNotRegistered
	case containsAny(m, "логин", "username") && containsAny(m, "занят", "уже", "taken", "exists", "in use"):
		return KindUsernameTaken
	case containsAny(m, "код", "code") && containsAny(m, "невер", "истёк", "incorrect", "invalid", "expired", "wrong"):
		return KindCodeIncorrect
	default:
		return KindUnclassified
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// classifyOp builds the FlowError for a failed transition, applying the
// per-operation hints the production client used: a phone-ish message from
// a code request means "taken" during registration and "unknown" during
// recovery.
func classifyOp(op operation, kind FlowKind, err error) *FlowError {
	fe := &FlowError{Kind: Classify(err), Message: err.Error(), Cause: err}

	var apiErr *client.APIError
	if fe.Kind == KindUnclassified && errors.As(err, &apiErr) {
		m := strings.ToLower(apiErr.Message)
		phoneish := containsAny(m, "телефон", "номер", "phone")
		switch {
		case op == opRequestCode && phoneish && kind == FlowRegistration:
			fe.Kind = KindPhoneAlreadyRegistered
		case op == opRequestCode && phoneish:
			fe.Kind = KindPhoneNotRegistered
		case op == opResetPassword && phoneish:
			fe.Kind = KindPhoneNotRegistered
		}
	}

	switch fe.Kind {
	case KindPhoneAlreadyRegistered, KindPhoneNotRegistered:
		fe.Field = FieldPhone
	case KindCodeIncorrect:
		fe.Field = FieldCode
	case KindUsernameTaken:
		fe.Field = FieldUsername
	}
	return fe
}
