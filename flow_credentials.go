package authflow

import (
	"context"

	"github.com/domofonlab/authflow/client"
	"github.com/domofonlab/authflow/validation"
)

const passwordRuleMessage = "Пароль должен быть не короче 8 символов и содержать " +
	"заглавную и строчную латинскую букву, цифру и спецсимвол"

// SubmitCredentials describes the submitcredentials operation and its observable behavior.
//
// SubmitCredentials finishes the flow. A registration flow sends the full
// account request (username, password, profile, phone); a password-reset
// flow sends the new password for the verified phone. The password must
// satisfy every strength facet and match its confirmation before anything
// is sent. Success advances to StepDone.
func (f *Flow) SubmitCredentials(ctx context.Context) error {
	f.mu.Lock()
	if err := f.beginLocked(StepCredentials); err != nil {
		f.mu.Unlock()
		return err
	}
	if f.kind == FlowRegistration && !validation.IsUsernameNonEmpty(f.username) {
		f.failInputLocked(FieldUsername, "Заполните все поля")
		f.mu.Unlock()
		return ErrUsernameRequired
	}
	if !validation.IsPasswordStrong(f.password) {
		f.failInputLocked(FieldPassword, passwordRuleMessage)
		f.mu.Unlock()
		return ErrPasswordWeak
	}
	if f.password != f.passwordConfirm {
		f.failInputLocked(FieldPassword, "Пароли не совпадают")
		f.mu.Unlock()
		return ErrPasswordMismatch
	}
	f.busy = true
	kind := f.kind
	digits := f.phoneDigits
	password := f.password
	req := client.RegisterRequest{
		Username:  f.username,
		Password:  f.password,
		Email:     f.profile.Email,
		Phone:     f.phoneDigits,
		Role:      f.config.RegisterRole,
		FirstName: f.profile.FirstName,
		LastName:  f.profile.LastName,
	}
	f.mu.Unlock()

	var callErr error
	var op operation
	var success MetricID
	if kind == FlowRegistration {
		op = opRegister
		success = MetricRegistrationCompleted
		callErr = f.deps.API.Register(ctx, req)
	} else {
		op = opResetPassword
		success = MetricPasswordResetCompleted
		callErr = f.deps.API.ResetPassword(ctx, digits, password)
	}
	return f.settle(callErr, op, func() {
		f.step = StepDone
		f.password = ""
		f.passwordConfirm = ""
	}, settleOutcome{
		success: success,
		failure: metricNone,
		event:   EventFlowCompleted,
	})
}
