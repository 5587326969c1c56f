package authflow

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// EventType defines a public type used by authflow APIs.
//
// EventType instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EventType uint8

const (
	// EventStepAdvanced is an exported constant or variable used by the verification workflow.
	EventStepAdvanced EventType = iota
	// EventStepBack is an exported constant or variable used by the verification workflow.
	EventStepBack
	// EventTransitionFailed is an exported constant or variable used by the verification workflow.
	EventTransitionFailed
	// EventCodeResent is an exported constant or variable used by the verification workflow.
	EventCodeResent
	// EventFlowCompleted is an exported constant or variable used by the verification workflow.
	EventFlowCompleted
	// EventFlowDiscarded is an exported constant or variable used by the verification workflow.
	EventFlowDiscarded
)

// Event defines a public type used by authflow APIs.
//
// Event is one observed flow transition. Events let a UI shell react to
// flow progress (navigation, toasts, analytics) without polling State.
type Event struct {
	Kind FlowKind
	Type EventType
	Step Step
	Err  *FlowError
	At   time.Time
}

// EventSink defines a public type used by authflow APIs.
//
// Emit must not block for long; slow sinks combined with DropIfFull=false
// apply backpressure to flow transitions.
type EventSink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink defines a public type used by authflow APIs.
type NoOpSink struct{}

// Emit describes the emit operation and its observable behavior.
func (NoOpSink) Emit(context.Context, Event) {}

// EventDispatcher defines a public type used by authflow APIs.
//
// EventDispatcher decouples flow transitions from sink latency: events are
// queued on a bounded channel and delivered by a single goroutine, with a
// dropped counter instead of blocking when configured to shed load. One
// dispatcher is shared by every flow the host app creates.
type EventDispatcher struct {
	cfg       EventConfig
	sink      EventSink
	ch        chan Event
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewEventDispatcher describes the neweventdispatcher operation and its observable behavior.
//
// NewEventDispatcher returns nil when events are disabled; a nil dispatcher
// is valid and discards everything.
func NewEventDispatcher(cfg EventConfig, sink EventSink) *EventDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &EventDispatcher{
		cfg:  cfg,
		sink: sink,
		ch:   make(chan Event, cfg.BufferSize),
		done: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *EventDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.ch:
			d.sink.Emit(context.Background(), event)
		case <-d.done:
			for {
				select {
				case event := <-d.ch:
					d.sink.Emit(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Emit describes the emit operation and its observable behavior.
func (d *EventDispatcher) Emit(ctx context.Context, event Event) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- event:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- event:
	case <-ctx.Done():
	case <-d.done:
	}
}

// Dropped describes the dropped operation and its observable behavior.
func (d *EventDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// Close describes the close operation and its observable behavior.
//
// Close drains queued events into the sink before returning.
func (d *EventDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}
