package authflow

import "sync/atomic"

// MetricID defines a public type used by authflow APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint8

const (
	// MetricCodeRequested is an exported constant or variable used by the verification workflow.
	MetricCodeRequested MetricID = iota
	// MetricCodeResent is an exported constant or variable used by the verification workflow.
	MetricCodeResent
	// MetricCodeVerified is an exported constant or variable used by the verification workflow.
	MetricCodeVerified
	// MetricCodeRejected is an exported constant or variable used by the verification workflow.
	MetricCodeRejected
	// MetricProfileAccepted is an exported constant or variable used by the verification workflow.
	MetricProfileAccepted
	// MetricRegistrationCompleted is an exported constant or variable used by the verification workflow.
	MetricRegistrationCompleted
	// MetricPasswordResetCompleted is an exported constant or variable used by the verification workflow.
	MetricPasswordResetCompleted
	// MetricLoginSuccess is an exported constant or variable used by the verification workflow.
	MetricLoginSuccess
	// MetricLoginFailure is an exported constant or variable used by the verification workflow.
	MetricLoginFailure
	// MetricInputRejected is an exported constant or variable used by the verification workflow.
	MetricInputRejected
	// MetricTransitionFailed is an exported constant or variable used by the verification workflow.
	MetricTransitionFailed
	// MetricFlowBusyRejected is an exported constant or variable used by the verification workflow.
	MetricFlowBusyRejected
	// MetricStepBack is an exported constant or variable used by the verification workflow.
	MetricStepBack
	metricIDCount
)

// String describes the string operation and its observable behavior.
func (id MetricID) String() string {
	switch id {
	case MetricCodeRequested:
		return "code_requested"
	case MetricCodeResent:
		return "code_resent"
	case MetricCodeVerified:
		return "code_verified"
	case MetricCodeRejected:
		return "code_rejected"
	case MetricProfileAccepted:
		return "profile_accepted"
	case MetricRegistrationCompleted:
		return "registration_completed"
	case MetricPasswordResetCompleted:
		return "password_reset_completed"
	case MetricLoginSuccess:
		return "login_success"
	case MetricLoginFailure:
		return "login_failure"
	case MetricInputRejected:
		return "input_rejected"
	case MetricTransitionFailed:
		return "transition_failed"
	case MetricFlowBusyRejected:
		return "flow_busy_rejected"
	case MetricStepBack:
		return "step_back"
	default:
		return "unknown"
	}
}

// Metrics defines a public type used by authflow APIs.
//
// Metrics is a fixed-size set of atomic counters shared by every flow a
// host app creates. A nil *Metrics is valid and counts nothing.
type Metrics struct {
	counters [metricIDCount]atomic.Uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Inc describes the inc operation and its observable behavior.
//
// Inc does not mutate shared global state beyond the addressed counter and
// can be used concurrently.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Get describes the get operation and its observable behavior.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return m.counters[id].Load()
}

// MetricsSnapshot defines a public type used by authflow APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot copies every counter at a single point in calling time; it is
// safe to call concurrently with Inc.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
