package authflow

import "github.com/domofonlab/authflow/validation"

// SubmitProfile describes the submitprofile operation and its observable behavior.
//
// SubmitProfile is purely local: the profile fields are held in the flow
// and sent to the backend only with the final registration request. Both
// name fields must be non-blank and the email must look like an address.
func (f *Flow) SubmitProfile() error {
	f.mu.Lock()
	if err := f.beginLocked(StepProfile); err != nil {
		f.mu.Unlock()
		return err
	}
	if !validation.IsNameNonEmpty(f.profile.FirstName) || !validation.IsNameNonEmpty(f.profile.LastName) {
		f.failInputLocked(FieldName, "Заполните все поля")
		f.mu.Unlock()
		return ErrNameRequired
	}
	if !validation.IsEmailWellFormed(f.profile.Email) {
		f.failInputLocked(FieldEmail, "Некорректный email")
		f.mu.Unlock()
		return ErrEmailInvalid
	}
	f.lastErr = nil
	f.step = StepCredentials
	step := f.step
	f.mu.Unlock()

	f.deps.Metrics.Inc(MetricProfileAccepted)
	f.emit(Event{Type: EventStepAdvanced, Step: step})
	return nil
}
