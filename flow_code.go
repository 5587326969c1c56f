package authflow

import "context"

// SubmitCode describes the submitcode operation and its observable behavior.
//
// SubmitCode verifies the entered code against the backend. Success clears
// the code, stops the cooldown, and advances: a registration flow moves to
// StepProfile, a password-reset flow straight to StepCredentials. A
// rejected code keeps the step, keeps the entered code so the user can see
// what they typed, and leaves the cooldown running.
func (f *Flow) SubmitCode(ctx context.Context) error {
	f.mu.Lock()
	if err := f.beginLocked(StepCode); err != nil {
		f.mu.Unlock()
		return err
	}
	if !isCodeComplete(f.code, f.config.CodeLength) {
		f.failInputLocked(FieldCode, "Введите код из 4 цифр")
		f.mu.Unlock()
		return ErrCodeFormat
	}
	f.busy = true
	digits := f.phoneDigits
	code := f.code
	f.mu.Unlock()

	callErr := f.deps.API.VerifyCode(ctx, digits, code)
	return f.settle(callErr, opVerifyCode, func() {
		f.code = ""
		f.cooldown.Cancel()
		if f.kind == FlowRegistration {
			f.step = StepProfile
		} else {
			f.step = StepCredentials
		}
	}, settleOutcome{
		success: MetricCodeVerified,
		failure: MetricCodeRejected,
		event:   EventStepAdvanced,
	})
}
