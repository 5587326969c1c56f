package authflow

import (
	"context"

	"github.com/domofonlab/authflow/session"
	"github.com/domofonlab/authflow/validation"
)

// Login describes the login operation and its observable behavior.
//
// Login is the single transition of a FlowLogin session: authenticate with
// phone and password, persist the issued token pair under the flow's
// device ID, and advance to StepDone. A failed save keeps the flow at
// StepPhone so the user can retry.
func (f *Flow) Login(ctx context.Context) error {
	f.mu.Lock()
	if f.kind != FlowLogin {
		f.mu.Unlock()
		return ErrStepMismatch
	}
	if err := f.beginLocked(StepPhone); err != nil {
		f.mu.Unlock()
		return err
	}
	if !validation.IsPhoneComplete(f.phoneDigits) {
		f.failInputLocked(FieldPhone, "Введите корректный номер телефона")
		f.mu.Unlock()
		return ErrPhoneIncomplete
	}
	if f.password == "" {
		f.failInputLocked(FieldPassword, "Заполните все поля")
		f.mu.Unlock()
		return ErrPasswordRequired
	}
	f.busy = true
	digits := f.phoneDigits
	password := f.password
	f.mu.Unlock()

	var tokens session.Tokens
	tokens, callErr := f.deps.API.Login(ctx, digits, password)
	if callErr == nil {
		callErr = f.deps.Store.Save(ctx, f.deps.DeviceID, tokens)
	}
	return f.settle(callErr, opLogin, func() {
		f.step = StepDone
		f.password = ""
	}, settleOutcome{
		success: MetricLoginSuccess,
		failure: MetricLoginFailure,
		event:   EventFlowCompleted,
	})
}

// ChangePassword describes the changepassword operation and its observable behavior.
//
// ChangePassword is available once a login flow has reached StepDone. The
// replacement password must satisfy the same strength rules as
// registration.
func (f *Flow) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	f.mu.Lock()
	if f.kind != FlowLogin {
		f.mu.Unlock()
		return ErrStepMismatch
	}
	if err := f.beginLocked(StepDone); err != nil {
		f.mu.Unlock()
		return err
	}
	if oldPassword == "" {
		f.failInputLocked(FieldPassword, "Заполните все поля")
		f.mu.Unlock()
		return ErrPasswordRequired
	}
	if !validation.IsPasswordStrong(newPassword) {
		f.failInputLocked(FieldPassword, passwordRuleMessage)
		f.mu.Unlock()
		return ErrPasswordWeak
	}
	f.busy = true
	digits := f.phoneDigits
	f.mu.Unlock()

	callErr := f.deps.API.ChangePassword(ctx, digits, oldPassword, newPassword)
	return f.settle(callErr, opLogin, func() {}, settleOutcome{
		success: MetricPasswordResetCompleted,
		failure: metricNone,
		event:   EventStepAdvanced,
	})
}

// Logout describes the logout operation and its observable behavior.
//
// Logout clears the persisted token pair for the flow's device ID. It does
// not touch the flow's own state.
func (f *Flow) Logout(ctx context.Context) error {
	if f.deps.Store == nil {
		return ErrFlowNotReady
	}
	return f.deps.Store.Clear(ctx, f.deps.DeviceID)
}
