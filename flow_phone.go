package authflow

import (
	"context"

	"github.com/domofonlab/authflow/validation"
)

// SubmitPhone describes the submitphone operation and its observable behavior.
//
// SubmitPhone requests a verification code for the entered phone and, on
// success, advances to StepCode with an empty code buffer and a running
// resend cooldown. An incomplete phone is rejected locally and nothing is
// sent.
func (f *Flow) SubmitPhone(ctx context.Context) error {
	f.mu.Lock()
	if err := f.beginLocked(StepPhone); err != nil {
		f.mu.Unlock()
		return err
	}
	if f.kind == FlowLogin {
		f.mu.Unlock()
		return ErrStepMismatch
	}
	if !validation.IsPhoneComplete(f.phoneDigits) {
		f.failInputLocked(FieldPhone, "Введите корректный номер телефона")
		f.mu.Unlock()
		return ErrPhoneIncomplete
	}
	f.busy = true
	digits := f.phoneDigits
	purpose := requestPurpose(f.kind)
	f.mu.Unlock()

	callErr := f.deps.API.RequestCode(ctx, digits, purpose)
	return f.settle(callErr, opRequestCode, func() {
		f.step = StepCode
		f.code = ""
		f.cooldown.Start(f.config.ResendWindowSeconds)
	}, settleOutcome{
		success: MetricCodeRequested,
		failure: metricNone,
		event:   EventStepAdvanced,
	})
}

// ResendCode describes the resendcode operation and its observable behavior.
//
// ResendCode re-requests a code for the phone already submitted. While the
// cooldown is above zero the request is rejected without a network call
// and without disturbing the last error. A successful resend clears the
// entered code and restarts the cooldown at the full window.
func (f *Flow) ResendCode(ctx context.Context) error {
	f.mu.Lock()
	if err := f.beginLocked(StepCode); err != nil {
		f.mu.Unlock()
		return err
	}
	if f.cooldown.Remaining() > 0 {
		f.mu.Unlock()
		return ErrCooldownActive
	}
	f.busy = true
	digits := f.phoneDigits
	purpose := requestPurpose(f.kind)
	f.mu.Unlock()

	callErr := f.deps.API.RequestCode(ctx, digits, purpose)
	return f.settle(callErr, opRequestCode, func() {
		f.code = ""
		f.cooldown.Start(f.config.ResendWindowSeconds)
	}, settleOutcome{
		success: MetricCodeResent,
		failure: metricNone,
		event:   EventCodeResent,
	})
}
