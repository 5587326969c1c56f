package authflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/domofonlab/authflow/client"
	"github.com/domofonlab/authflow/session"
	"github.com/domofonlab/authflow/validation"
)

// Deps defines a public type used by authflow APIs.
//
// Deps carries the collaborators a flow needs. API is mandatory; Store is
// mandatory for Login flows and unused by the others. Metrics and Events
// are shared across flows and may be nil.
type Deps struct {
	API      client.API
	Store    session.Store
	DeviceID string
	Metrics  *Metrics
	Events   *EventDispatcher
}

// Flow defines a public type used by authflow APIs.
//
// Flow is one live verification session: the accumulated input, the
// current step, the resend cooldown, and the most recent classified
// failure. It is created empty when a credential screen opens and
// discarded with Close when the screen unmounts or the flow completes.
type Flow struct {
	kind   FlowKind
	config Config
	deps   Deps

	mu              sync.Mutex
	step            Step
	busy            bool
	closed          bool
	phoneRaw        string
	phoneDigits     string
	code            string
	password        string
	passwordConfirm string
	username        string
	profile         ProfileFields
	lastErr         *FlowError
	cooldown        *Cooldown
}

// NewFlow describes the newflow operation and its observable behavior.
//
// NewFlow may return an error when required collaborators are missing or
// the configuration is invalid.
func NewFlow(kind FlowKind, cfg Config, deps Deps) (*Flow, error) {
	if deps.API == nil {
		return nil, errors.New("authflow: credential client required")
	}
	if kind == FlowLogin && deps.Store == nil {
		return nil, errors.New("authflow: login flow requires a token store")
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if deps.Store != nil && deps.DeviceID == "" {
		deps.DeviceID = session.NewDeviceID()
	}
	return &Flow{
		kind:     kind,
		config:   cfg,
		deps:     deps,
		step:     StepPhone,
		cooldown: NewCooldown(cfg.CooldownTick),
	}, nil
}

// NewRegistrationFlow describes the newregistrationflow operation and its observable behavior.
func NewRegistrationFlow(cfg Config, deps Deps) (*Flow, error) {
	return NewFlow(FlowRegistration, cfg, deps)
}

// NewPasswordResetFlow describes the newpasswordresetflow operation and its observable behavior.
func NewPasswordResetFlow(cfg Config, deps Deps) (*Flow, error) {
	return NewFlow(FlowPasswordReset, cfg, deps)
}

// NewLoginFlow describes the newloginflow operation and its observable behavior.
func NewLoginFlow(cfg Config, deps Deps) (*Flow, error) {
	return NewFlow(FlowLogin, cfg, deps)
}

// Kind describes the kind operation and its observable behavior.
func (f *Flow) Kind() FlowKind { return f.kind }

// Step describes the step operation and its observable behavior.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Busy describes the busy operation and its observable behavior.
func (f *Flow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// LastError describes the lasterror operation and its observable behavior.
//
// LastError returns nil after any successful transition or field edit.
func (f *Flow) LastError() *FlowError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// CooldownSeconds describes the cooldownseconds operation and its observable behavior.
//
// The resend action is enabled iff it reports zero while at StepCode.
func (f *Flow) CooldownSeconds() int {
	return f.cooldown.Remaining()
}

// PhoneDigits describes the phonedigits operation and its observable behavior.
func (f *Flow) PhoneDigits() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phoneDigits
}

// Code describes the code operation and its observable behavior.
func (f *Flow) Code() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code
}

// Profile describes the profile operation and its observable behavior.
func (f *Flow) Profile() ProfileFields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile
}

// Username describes the username operation and its observable behavior.
func (f *Flow) Username() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.username
}

// State describes the state operation and its observable behavior.
//
// State snapshots everything a screen renders from in one lock
// acquisition.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		Kind:            f.kind,
		Step:            f.step,
		Busy:            f.busy,
		CooldownSeconds: f.cooldown.Remaining(),
		PhoneDigits:     f.phoneDigits,
		Code:            f.code,
		Profile:         f.profile,
		Username:        f.username,
		LastError:       f.lastErr,
	}
}

// SetPhone describes the setphone operation and its observable behavior.
//
// Raw masked input is accepted; digits are re-extracted on every edit and
// the previous error is cleared.
func (f *Flow) SetPhone(raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.phoneRaw = raw
	f.phoneDigits = validation.NormalizePhoneDigits(raw)
	f.lastErr = nil
}

// SetCode describes the setcode operation and its observable behavior.
func (f *Flow) SetCode(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.code = code
	f.lastErr = nil
}

// SetPassword describes the setpassword operation and its observable behavior.
func (f *Flow) SetPassword(password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.password = password
	f.lastErr = nil
}

// SetPasswordConfirm describes the setpasswordconfirm operation and its observable behavior.
func (f *Flow) SetPasswordConfirm(confirm string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.passwordConfirm = confirm
	f.lastErr = nil
}

// SetUsername describes the setusername operation and its observable behavior.
func (f *Flow) SetUsername(username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.username = username
	f.lastErr = nil
}

// SetProfile describes the setprofile operation and its observable behavior.
func (f *Flow) SetProfile(p ProfileFields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.profile = p
	f.lastErr = nil
}

// PasswordFacets describes the passwordfacets operation and its observable behavior.
//
// PasswordFacets reports the per-rule strength feedback for the current
// password candidate, for the checklist the credential screens render.
func (f *Flow) PasswordFacets() validation.PasswordFacets {
	f.mu.Lock()
	defer f.mu.Unlock()
	return validation.ClassifyPassword(f.password)
}

// Back describes the back operation and its observable behavior.
//
// Back is legal from every step except the flow's first. It cancels the
// timer of the step being left, clears the last error, and re-entering
// StepCode always presents an empty code with a fresh cooldown.
func (f *Flow) Back() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFlowClosed
	}
	if f.busy {
		f.mu.Unlock()
		f.deps.Metrics.Inc(MetricFlowBusyRejected)
		return ErrFlowBusy
	}
	prev, ok := prevStep(f.kind, f.step)
	if !ok {
		f.mu.Unlock()
		return ErrStepMismatch
	}
	f.cooldown.Cancel()
	f.lastErr = nil
	f.step = prev
	if prev == StepCode {
		f.code = ""
		f.cooldown.Start(f.config.ResendWindowSeconds)
	}
	step := f.step
	f.mu.Unlock()

	f.deps.Metrics.Inc(MetricStepBack)
	f.emit(Event{Type: EventStepBack, Step: step})
	return nil
}

// Close describes the close operation and its observable behavior.
//
// Close discards the flow: the cooldown stops and any network call still
// outstanding is prevented from mutating the flow when it settles. Close
// is idempotent.
func (f *Flow) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.cooldown.Cancel()
	step := f.step
	f.mu.Unlock()

	f.emit(Event{Type: EventFlowDiscarded, Step: step})
}

func prevStep(kind FlowKind, s Step) (Step, bool) {
	switch kind {
	case FlowRegistration:
		switch s {
		case StepCode:
			return StepPhone, true
		case StepProfile:
			return StepCode, true
		case StepCredentials:
			return StepProfile, true
		case StepDone:
			return StepCredentials, true
		}
	case FlowPasswordReset:
		switch s {
		case StepCode:
			return StepPhone, true
		case StepCredentials:
			return StepCode, true
		case StepDone:
			return StepCredentials, true
		}
	}
	return 0, false
}

// beginLocked rejects a transition that is illegal in the current state.
// The caller holds f.mu and sets f.busy itself once local guards pass.
func (f *Flow) beginLocked(expect Step) error {
	if f.closed {
		return ErrFlowClosed
	}
	if f.busy {
		f.deps.Metrics.Inc(MetricFlowBusyRejected)
		return ErrFlowBusy
	}
	if f.step != expect {
		return ErrStepMismatch
	}
	return nil
}

// failInputLocked records a local validation failure. InputInvalid errors
// never reach the network.
func (f *Flow) failInputLocked(field, message string) {
	f.lastErr = &FlowError{Kind: KindInputInvalid, Field: field, Message: message}
	f.deps.Metrics.Inc(MetricInputRejected)
}

// metricNone marks "no extra counter" in a settleOutcome.
const metricNone = metricIDCount

type settleOutcome struct {
	success MetricID
	failure MetricID
	event   EventType
}

// settle applies the result of the single network call a transition made.
// A flow closed while the call was outstanding is left untouched.
func (f *Flow) settle(callErr error, op operation, apply func(), o settleOutcome) error {
	f.mu.Lock()
	f.busy = false
	if f.closed {
		f.mu.Unlock()
		return ErrFlowClosed
	}
	if callErr != nil {
		fe := classifyOp(op, f.kind, callErr)
		f.lastErr = fe
		step := f.step
		f.mu.Unlock()

		f.deps.Metrics.Inc(MetricTransitionFailed)
		if o.failure != metricNone {
			f.deps.Metrics.Inc(o.failure)
		}
		f.emit(Event{Type: EventTransitionFailed, Step: step, Err: fe})
		return fe
	}
	f.lastErr = nil
	apply()
	step := f.step
	f.mu.Unlock()

	if o.success != metricNone {
		f.deps.Metrics.Inc(o.success)
	}
	f.emit(Event{Type: o.event, Step: step})
	return nil
}

func (f *Flow) emit(e Event) {
	if f.deps.Events == nil {
		return
	}
	e.Kind = f.kind
	e.At = time.Now()
	f.deps.Events.Emit(context.Background(), e)
}

func requestPurpose(kind FlowKind) client.Purpose {
	if kind == FlowPasswordReset {
		return client.PurposePasswordReset
	}
	return client.PurposeRegistration
}

func isCodeComplete(code string, length int) bool {
	if len(code) != length {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
