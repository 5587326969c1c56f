package authflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/domofonlab/authflow/client"
	"github.com/domofonlab/authflow/session"
)

// mockAPI lets each test script individual backend calls. Unset funcs
// succeed.
type mockAPI struct {
	loginFn          func(ctx context.Context, phone, password string) (session.Tokens, error)
	requestCodeFn    func(ctx context.Context, phone string, purpose client.Purpose) error
	verifyCodeFn     func(ctx context.Context, phone, code string) error
	registerFn       func(ctx context.Context, req client.RegisterRequest) error
	resetPasswordFn  func(ctx context.Context, phone, newPassword string) error
	changePasswordFn func(ctx context.Context, phone, oldPassword, newPassword string) error

	mu    sync.Mutex
	calls []string
}

func (m *mockAPI) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

func (m *mockAPI) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *mockAPI) Login(ctx context.Context, phone, password string) (session.Tokens, error) {
	m.record("login")
	if m.loginFn != nil {
		return m.loginFn(ctx, phone, password)
	}
	return session.Tokens{AccessToken: "at", RefreshToken: "rt"}, nil
}

func (m *mockAPI) RequestCode(ctx context.Context, phone string, purpose client.Purpose) error {
	m.record("request_code")
	if m.requestCodeFn != nil {
		return m.requestCodeFn(ctx, phone, purpose)
	}
	return nil
}

func (m *mockAPI) VerifyCode(ctx context.Context, phone, code string) error {
	m.record("verify_code")
	if m.verifyCodeFn != nil {
		return m.verifyCodeFn(ctx, phone, code)
	}
	return nil
}

func (m *mockAPI) Register(ctx context.Context, req client.RegisterRequest) error {
	m.record("register")
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return nil
}

func (m *mockAPI) ResetPassword(ctx context.Context, phone, newPassword string) error {
	m.record("reset_password")
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(ctx, phone, newPassword)
	}
	return nil
}

func (m *mockAPI) ChangePassword(ctx context.Context, phone, oldPassword, newPassword string) error {
	m.record("change_password")
	if m.changePasswordFn != nil {
		return m.changePasswordFn(ctx, phone, oldPassword, newPassword)
	}
	return nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CooldownTick = 5 * time.Millisecond
	cfg.Events.Enabled = false
	return cfg
}

func newTestFlow(t *testing.T, kind FlowKind, api client.API) *Flow {
	t.Helper()
	deps := Deps{API: api, Metrics: NewMetrics()}
	if kind == FlowLogin {
		deps.Store = session.NewMemoryStore()
		deps.DeviceID = "test-device"
	}
	f, err := NewFlow(kind, testConfig(), deps)
	if err != nil {
		t.Fatalf("NewFlow: %v", err)
	}
	t.Cleanup(f.Close)
	return f
}

func apiErr(code int, message string) error {
	return &client.APIError{StatusCode: code, Message: message}
}

func TestNewFlowRequiresAPI(t *testing.T) {
	if _, err := NewFlow(FlowRegistration, testConfig(), Deps{}); err == nil {
		t.Fatal("expected error without credential client")
	}
	if _, err := NewFlow(FlowLogin, testConfig(), Deps{API: &mockAPI{}}); err == nil {
		t.Fatal("expected error for login flow without token store")
	}
}

func TestSubmitPhoneIncomplete(t *testing.T) {
	api := &mockAPI{}
	f := newTestFlow(t, FlowRegistration, api)

	f.SetPhone("+7 (999) 123")
	if err := f.SubmitPhone(context.Background()); !errors.Is(err, ErrPhoneIncomplete) {
		t.Fatalf("err = %v, want ErrPhoneIncomplete", err)
	}
	if f.Step() != StepPhone {
		t.Fatalf("step = %v, want StepPhone", f.Step())
	}
	if api.callCount("request_code") != 0 {
		t.Fatal("incomplete phone must not reach the network")
	}
	fe := f.LastError()
	if fe == nil || fe.Kind != KindInputInvalid || fe.Field != FieldPhone {
		t.Fatalf("last error = %+v", fe)
	}
}

func TestSubmitPhoneAdvancesAndStartsCooldown(t *testing.T) {
	api := &mockAPI{}
	f := newTestFlow(t, FlowRegistration, api)

	f.SetPhone("+7 (999) 123-45-67")
	if err := f.SubmitPhone(context.Background()); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	st := f.State()
	if st.Step != StepCode {
		t.Fatalf("step = %v, want StepCode", st.Step)
	}
	if st.Code != "" {
		t.Fatalf("code = %q, want empty", st.Code)
	}
	if st.CooldownSeconds == 0 {
		t.Fatal("cooldown must be running after a code request")
	}
	if st.LastError != nil {
		t.Fatalf("last error = %+v, want nil", st.LastError)
	}
}

func TestSubmitPhoneTakenStaysPut(t *testing.T) {
	api := &mockAPI{
		requestCodeFn: func(context.Context, string, client.Purpose) error {
			return apiErr(409, "Телефон уже зарегистрирован")
		},
	}
	f := newTestFlow(t, FlowRegistration, api)

	f.SetPhone("79991234567")
	err := f.SubmitPhone(context.Background())
	if err == nil {
		t.Fatal("expected classified failure")
	}
	var fe *FlowError
	if !errors.As(err, &fe) || fe.Kind != KindPhoneAlreadyRegistered {
		t.Fatalf("err = %v, want KindPhoneAlreadyRegistered", err)
	}
	if f.Step() != StepPhone {
		t.Fatalf("step = %v, want StepPhone after failure", f.Step())
	}
	if f.PhoneDigits() != "79991234567" {
		t.Fatal("entered phone must be retained after failure")
	}
	if f.CooldownSeconds() != 0 {
		t.Fatal("cooldown must not start on failure")
	}
}

func TestSubmitCodeWrongKeepsCodeAndCooldown(t *testing.T) {
	api := &mockAPI{
		verifyCodeFn: func(context.Context, string, string) error {
			return apiErr(400, "Неверный или истёкший код")
		},
	}
	f := newTestFlow(t, FlowRegistration, api)

	f.SetPhone("79991234567")
	if err := f.SubmitPhone(context.Background()); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	before := f.CooldownSeconds()

	f.SetCode("0000")
	err := f.SubmitCode(context.Background())
	var fe *FlowError
	if !errors.As(err, &fe) || fe.Kind != KindCodeIncorrect {
		t.Fatalf("err = %v, want KindCodeIncorrect", err)
	}
	st := f.State()
	if st.Step != StepCode {
		t.Fatalf("step = %v, want StepCode after rejection", st.Step)
	}
	if st.Code != "0000" {
		t.Fatalf("code = %q, want retained %q", st.Code, "0000")
	}
	if st.CooldownSeconds == 0 || st.CooldownSeconds > before {
		t.Fatalf("cooldown = %d, want still running (was %d)", st.CooldownSeconds, before)
	}
}

func TestSubmitCodeMalformedStaysLocal(t *testing.T) {
	api := &mockAPI{}
	f := newTestFlow(t, FlowRegistration, api)

	f.SetPhone("79991234567")
	if err := f.SubmitPhone(context.Background()); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	for _, code := range []string{"", "12", "12345", "12a4"} {
		f.SetCode(code)
		if err := f.SubmitCode(context.Background()); !errors.Is(err, ErrCodeFormat) {
			t.Fatalf("code %q: err = %v, want ErrCodeFormat", code, err)
		}
	}
	if api.callCount("verify_code") != 0 {
		t.Fatal("malformed codes must not reach the network")
	}
}

func TestSubmitCodeSuccessClearsCodeAndCancelsCooldown(t *testing.T) {
	api := &mockAPI{}
	f := newTestFlow(t, FlowRegistration, api)

	f.SetPhone("79991234567")
	if err := f.SubmitPhone(context.Background()); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	f.SetCode("4821")
	if err := f.SubmitCode(context.Background()); err != nil {
		t.Fatalf("SubmitCode: %v", err)
	}
	st := f.State()
	if st.Step != StepProfile {
		t.Fatalf("step = %v, want StepProfile", st.Step)
	}
	if st.Code != "" {
		t.Fatalf("code = %q, want cleared", st.Code)
	}
	if st.CooldownSeconds != 0 {
		t.Fatalf("cooldown = %d, want cancelled", st.CooldownSeconds)
	}
}

func TestPasswordResetSkipsProfile(t *testing.T) {
	api := &mockAPI{}
	f := newTestFlow(t, FlowPasswordReset, api)

	f.SetPhone("79991234567")
	if err := f.SubmitPhone(context.Background()); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	f.SetCode("1234")
	if err := f.SubmitCode(context.Background()); err != nil {
		t.Fatalf("SubmitCode: %v", err)
	}
	if f.Step() != StepCredentials {
		t.Fatalf("step = %v, want StepCredentials", f.Step())
	}
	f.SetPassword("Aa1!aaaa")
	f.SetPasswordConfirm("Aa1!aaaa")
	if err := f.SubmitCredentials(context.Background()); err != nil {
		t.Fatalf("SubmitCredentials: %v", err)
	}
	if f.Step() != StepDone {
		t.Fatalf("step = %v, want StepDone", f.Step())
	}
	if api.callCount("reset_password") != 1 {
		t.Fatal("expected one reset-password call")
	}
	if api.callCount("register") != 0 {
		t.Fatal("password reset must not register")
	}
}

func TestResendGatedByCooldown(t *testing.T) {
	api := &mockAPI{}
	f := newTestFlow(t, FlowRegistration, api)

	f.SetPhone("79991234567")
	if err := f.SubmitPhone(context.Background()); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	if err := f.ResendCode(context.Background()); !errors.Is(err, ErrCooldownActive) {
		t.Fatalf("err = %v, want ErrCooldownActive", err)
	}
	if api.callCount("request_code") != 1 {
		t.Fatal("gated resend must not call the backend")
	}

	f.cooldown.Cancel()
	f.SetCode("99")
	if err := f.ResendCode(context.Background()); err != nil {
		t.Fatalf("ResendCode after cooldown: %v", err)
	}
	st := f.State()
	if st.Code != "" {
		t.Fatal("resend must clear the entered code")
	}
	if st.CooldownSeconds == 0 {
		t.Fatal("cooldown must restart after a resend")
	}
	if api.callCount("request_code") != 2 {
		t.Fatalf("request_code calls = %d, want 2", api.callCount("request_code"))
	}
}

func TestBackIntoCodeClearsCodeAndRestartsCooldown(t *testing.T) {
	api := &mockAPI{}
	f := newTestFlow(t, FlowRegistration, api)

	f.SetPhone("79991234567")
	if err := f.SubmitPhone(context.Background()); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	f.SetCode("4821")
	if err := f.SubmitCode(context.Background()); err != nil {
		t.Fatalf("SubmitCode: %v", err)
	}
	if err := f.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	st := f.State()
	if st.Step != StepCode {
		t.Fatalf("step = %v, want StepCode", st.Step)
	}
	if st.Code != "" {
		t.Fatal("re-entered code step must present an empty code")
	}
	if st.CooldownSeconds == 0 {
		t.Fatal("re-entering the code step must start a fresh cooldown")
	}
}

func TestBackFromFirstStepRejected(t *testing.T) {
	f := newTestFlow(t, FlowRegistration, &mockAPI{})
	if err := f.Back(); !errors.Is(err, ErrStepMismatch) {
		t.Fatalf("err = %v, want ErrStepMismatch", err)
	}
}

func TestProfileValidation(t *testing.T) {
	api := &mockAPI{}
	f := newTestFlow(t, FlowRegistration, api)

	f.SetPhone("79991234567")
	if err := f.SubmitPhone(context.Background()); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	f.SetCode("4821")
	if err := f.SubmitCode(context.Background()); err != nil {
		t.Fatalf("SubmitCode: %v", err)
	}

	f.SetProfile(ProfileFields{FirstName: "  ", LastName: "Petrov", Email: "a@b.ru"})
	if err := f.SubmitProfile(); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("err = %v, want ErrNameRequired", err)
	}
	f.SetProfile(ProfileFields{FirstName: "Ivan", LastName: "Petrov", Email: "not-an-email"})
	if err := f.SubmitProfile(); !errors.Is(err, ErrEmailInvalid) {
		t.Fatalf("err = %v, want ErrEmailInvalid", err)
	}
	f.SetProfile(ProfileFields{FirstName: "Ivan", LastName: "Petrov", Email: "ivan@example.ru"})
	if err := f.SubmitProfile(); err != nil {
		t.Fatalf("SubmitProfile: %v", err)
	}
	if f.Step() != StepCredentials {
		t.Fatalf("step = %v, want StepCredentials", f.Step())
	}
}

func TestCredentialsValidation(t *testing.T) {
	api := &mockAPI{}
	f := newTestFlow(t, FlowRegistration, api)
	registrationToCredentials(t, f)

	f.SetPassword("Aa1!aaaa")
	f.SetPasswordConfirm("Aa1!aaaa")
	if err := f.SubmitCredentials(context.Background()); !errors.Is(err, ErrUsernameRequired) {
		t.Fatalf("err = %v, want ErrUsernameRequired", err)
	}

	f.SetUsername("ivan99")
	f.SetPassword("short")
	f.SetPasswordConfirm("short")
	if err := f.SubmitCredentials(context.Background()); !errors.Is(err, ErrPasswordWeak) {
		t.Fatalf("err = %v, want ErrPasswordWeak", err)
	}

	f.SetPassword("Aa1!aaaa")
	f.SetPasswordConfirm("Aa1!aaab")
	if err := f.SubmitCredentials(context.Background()); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("err = %v, want ErrPasswordMismatch", err)
	}
	if api.callCount("register") != 0 {
		t.Fatal("invalid credentials must not reach the network")
	}
}

func TestRegistrationHappyPath(t *testing.T) {
	var got client.RegisterRequest
	api := &mockAPI{
		registerFn: func(_ context.Context, req client.RegisterRequest) error {
			got = req
			return nil
		},
	}
	f := newTestFlow(t, FlowRegistration, api)
	registrationToCredentials(t, f)

	f.SetUsername("ivan99")
	f.SetPassword("Aa1!aaaa")
	f.SetPasswordConfirm("Aa1!aaaa")
	if err := f.SubmitCredentials(context.Background()); err != nil {
		t.Fatalf("SubmitCredentials: %v", err)
	}
	if f.Step() != StepDone {
		t.Fatalf("step = %v, want StepDone", f.Step())
	}
	if got.Username != "ivan99" || got.Phone != "79991234567" || got.Role != "resident" {
		t.Fatalf("register request = %+v", got)
	}
	if got.FirstName != "Ivan" || got.LastName != "Petrov" || got.Email != "ivan@example.ru" {
		t.Fatalf("register request profile = %+v", got)
	}
}

// registrationToCredentials drives a registration flow through phone, code
// and profile with valid inputs.
func registrationToCredentials(t *testing.T, f *Flow) {
	t.Helper()
	f.SetPhone("+7 (999) 123-45-67")
	if err := f.SubmitPhone(context.Background()); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	f.SetCode("4821")
	if err := f.SubmitCode(context.Background()); err != nil {
		t.Fatalf("SubmitCode: %v", err)
	}
	f.SetProfile(ProfileFields{FirstName: "Ivan", LastName: "Petrov", Email: "ivan@example.ru"})
	if err := f.SubmitProfile(); err != nil {
		t.Fatalf("SubmitProfile: %v", err)
	}
}

func TestUsernameTakenAttachesField(t *testing.T) {
	api := &mockAPI{
		registerFn: func(context.Context, client.RegisterRequest) error {
			return apiErr(409, "Логин уже занят")
		},
	}
	f := newTestFlow(t, FlowRegistration, api)
	registrationToCredentials(t, f)

	f.SetUsername("ivan99")
	f.SetPassword("Aa1!aaaa")
	f.SetPasswordConfirm("Aa1!aaaa")
	err := f.SubmitCredentials(context.Background())
	var fe *FlowError
	if !errors.As(err, &fe) || fe.Kind != KindUsernameTaken {
		t.Fatalf("err = %v, want KindUsernameTaken", err)
	}
	if fe.Field != FieldUsername {
		t.Fatalf("field = %q, want %q", fe.Field, FieldUsername)
	}
	if f.Step() != StepCredentials {
		t.Fatalf("step = %v, want StepCredentials after conflict", f.Step())
	}
}

func TestBusyRejectsConcurrentTransition(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	api := &mockAPI{
		requestCodeFn: func(context.Context, string, client.Purpose) error {
			close(started)
			<-release
			return nil
		},
	}
	f := newTestFlow(t, FlowRegistration, api)
	f.SetPhone("79991234567")

	done := make(chan error, 1)
	go func() { done <- f.SubmitPhone(context.Background()) }()
	<-started

	if err := f.SubmitPhone(context.Background()); !errors.Is(err, ErrFlowBusy) {
		t.Fatalf("err = %v, want ErrFlowBusy", err)
	}
	if err := f.Back(); !errors.Is(err, ErrFlowBusy) {
		t.Fatalf("Back err = %v, want ErrFlowBusy", err)
	}
	if !f.Busy() {
		t.Fatal("flow should report busy during an outstanding call")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first SubmitPhone: %v", err)
	}
	if f.Busy() {
		t.Fatal("busy must clear once the call settles")
	}
}

func TestCloseIgnoresLateResolution(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	api := &mockAPI{
		requestCodeFn: func(context.Context, string, client.Purpose) error {
			close(started)
			<-release
			return nil
		},
	}
	f := newTestFlow(t, FlowRegistration, api)
	f.SetPhone("79991234567")

	done := make(chan error, 1)
	go func() { done <- f.SubmitPhone(context.Background()) }()
	<-started
	f.Close()
	close(release)

	if err := <-done; !errors.Is(err, ErrFlowClosed) {
		t.Fatalf("err = %v, want ErrFlowClosed", err)
	}
	if f.Step() != StepPhone {
		t.Fatal("closed flow must not advance when the call settles")
	}
	if err := f.SubmitPhone(context.Background()); !errors.Is(err, ErrFlowClosed) {
		t.Fatalf("err = %v, want ErrFlowClosed after Close", err)
	}
}

func TestEditClearsLastError(t *testing.T) {
	f := newTestFlow(t, FlowRegistration, &mockAPI{})

	f.SetPhone("123")
	if err := f.SubmitPhone(context.Background()); !errors.Is(err, ErrPhoneIncomplete) {
		t.Fatalf("err = %v, want ErrPhoneIncomplete", err)
	}
	if f.LastError() == nil {
		t.Fatal("expected a last error after rejected submit")
	}
	f.SetPhone("1234")
	if f.LastError() != nil {
		t.Fatal("editing a field must clear the last error")
	}
}

func TestLoginPersistsTokens(t *testing.T) {
	api := &mockAPI{
		loginFn: func(context.Context, string, string) (session.Tokens, error) {
			return session.Tokens{AccessToken: "acc", RefreshToken: "ref"}, nil
		},
	}
	store := session.NewMemoryStore()
	f, err := NewFlow(FlowLogin, testConfig(), Deps{API: api, Store: store, DeviceID: "dev-1", Metrics: NewMetrics()})
	if err != nil {
		t.Fatalf("NewFlow: %v", err)
	}
	t.Cleanup(f.Close)

	f.SetPhone("79991234567")
	f.SetPassword("Aa1!aaaa")
	if err := f.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if f.Step() != StepDone {
		t.Fatalf("step = %v, want StepDone", f.Step())
	}
	tokens, err := store.Load(context.Background(), "dev-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tokens.AccessToken != "acc" || tokens.RefreshToken != "ref" {
		t.Fatalf("stored tokens = %+v", tokens)
	}

	if err := f.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := store.Load(context.Background(), "dev-1"); !errors.Is(err, session.ErrTokensNotFound) {
		t.Fatalf("Load after Logout: %v, want ErrTokensNotFound", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	api := &mockAPI{
		loginFn: func(context.Context, string, string) (session.Tokens, error) {
			return session.Tokens{}, apiErr(401, "Неверный телефон или пароль")
		},
	}
	f := newTestFlow(t, FlowLogin, api)

	f.SetPhone("79991234567")
	f.SetPassword("wrongpass")
	err := f.Login(context.Background())
	if err == nil {
		t.Fatal("expected login failure")
	}
	var fe *FlowError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FlowError", err)
	}
	if f.Step() != StepPhone {
		t.Fatalf("step = %v, want StepPhone after failure", f.Step())
	}
}

func TestLoginRejectedForOtherKinds(t *testing.T) {
	f := newTestFlow(t, FlowRegistration, &mockAPI{})
	if err := f.Login(context.Background()); !errors.Is(err, ErrStepMismatch) {
		t.Fatalf("err = %v, want ErrStepMismatch", err)
	}
}

func TestChangePasswordAfterLogin(t *testing.T) {
	api := &mockAPI{}
	f := newTestFlow(t, FlowLogin, api)

	if err := f.ChangePassword(context.Background(), "old", "Aa1!aaaa"); !errors.Is(err, ErrStepMismatch) {
		t.Fatalf("err = %v, want ErrStepMismatch before login", err)
	}

	f.SetPhone("79991234567")
	f.SetPassword("Aa1!aaaa")
	if err := f.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := f.ChangePassword(context.Background(), "Aa1!aaaa", "weak"); !errors.Is(err, ErrPasswordWeak) {
		t.Fatalf("err = %v, want ErrPasswordWeak", err)
	}
	if err := f.ChangePassword(context.Background(), "Aa1!aaaa", "Bb2@bbbb"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if api.callCount("change_password") != 1 {
		t.Fatalf("change_password calls = %d, want 1", api.callCount("change_password"))
	}
}

func TestMetricsCountTransitions(t *testing.T) {
	metrics := NewMetrics()
	api := &mockAPI{}
	f, err := NewFlow(FlowRegistration, testConfig(), Deps{API: api, Metrics: metrics})
	if err != nil {
		t.Fatalf("NewFlow: %v", err)
	}
	t.Cleanup(f.Close)

	f.SetPhone("123")
	_ = f.SubmitPhone(context.Background())
	f.SetPhone("79991234567")
	if err := f.SubmitPhone(context.Background()); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}

	if got := metrics.Get(MetricInputRejected); got != 1 {
		t.Fatalf("input rejected = %d, want 1", got)
	}
	if got := metrics.Get(MetricCodeRequested); got != 1 {
		t.Fatalf("code requested = %d, want 1", got)
	}
}

func TestEventsObserveFlowProgress(t *testing.T) {
	sink := &captureSink{}
	dispatcher := NewEventDispatcher(EventConfig{Enabled: true, BufferSize: 16}, sink)
	api := &mockAPI{}

	cfg := testConfig()
	f, err := NewFlow(FlowRegistration, cfg, Deps{API: api, Metrics: NewMetrics(), Events: dispatcher})
	if err != nil {
		t.Fatalf("NewFlow: %v", err)
	}

	f.SetPhone("79991234567")
	if err := f.SubmitPhone(context.Background()); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	f.Close()
	dispatcher.Close()

	types := sink.types()
	if len(types) != 2 {
		t.Fatalf("events = %v, want advance + discard", types)
	}
	if types[0] != EventStepAdvanced || types[1] != EventFlowDiscarded {
		t.Fatalf("events = %v", types)
	}
}

type captureSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *captureSink) Emit(_ context.Context, e Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *captureSink) types() []EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EventType, len(s.events))
	for i, e := range s.events {
		out[i] = e.Type
	}
	return out
}
