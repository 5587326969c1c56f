// Package authflow implements the multi-step phone-verification credential
// workflows of the intercom mobile app: registration, password recovery,
// and login, each driven as an explicit state machine over the remote
// /auth API.
//
// A [Flow] is created when the user opens one of the credential screens and
// discarded when the flow completes or the screen unmounts. The UI shell
// calls transition methods (SubmitPhone, SubmitCode, ResendCode,
// SubmitProfile, SubmitCredentials, Login, Back) in response to user
// actions and re-renders from [Flow.State]. A step only advances on a
// successful backend response to the call that step owns; failures stay
// put and are classified into [FlowError] values the UI can attach to
// fields or banners.
//
// # Architecture boundaries
//
// authflow is the public surface. Transport lives in the client package,
// token persistence in the session package, and pure input predicates in
// the validation package. The flow composes them; none of them imports the
// flow back.
//
// # What this package must NOT do
//
//   - Render anything or hold references to UI objects.
//   - Issue more than one network call per forward transition.
//   - Advance a step speculatively before the backend confirms.
//
// # Concurrency contract
//
// Transition methods block and are intended to run off the UI loop, one at
// a time: a second transition started while one is outstanding fails fast
// with [ErrFlowBusy] and performs no I/O. The resend cooldown tick is the
// only autonomously scheduled activity; it never triggers a transition by
// itself. After [Flow.Close], a call that was still outstanding cannot
// mutate the flow when it settles.
package authflow
