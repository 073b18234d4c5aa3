package core

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/signalsfoundry/solarwan-simulator/internal/logging"
)

var (
	// ErrEngineStopped is returned when scheduling against, or re-running,
	// an engine that has already completed a run.
	ErrEngineStopped = errors.New("engine already stopped")
	// ErrEngineRunning is returned when Run is called reentrantly.
	ErrEngineRunning = errors.New("engine already running")
)

// EngineState tracks the engine's lifecycle: Idle until the first Run,
// Running inside it, Stopped forever after.
type EngineState int

const (
	EngineIdle EngineState = iota
	EngineRunning
	EngineStopped
)

func (s EngineState) String() string {
	switch s {
	case EngineIdle:
		return "idle"
	case EngineRunning:
		return "running"
	case EngineStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SimClock exposes virtual simulation time. Components that need "now"
// depend on this rather than on the Engine, which keeps them testable.
type SimClock interface {
	Now() time.Duration
}

// event is a (timestamp, action) pair. seq breaks timestamp ties in
// insertion order so runs are reproducible.
type event struct {
	at  time.Duration
	seq uint64
	fn  func()
}

type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }
func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}
func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x any)   { *q = append(*q, x.(*event)) }
func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}

// Engine is a single-threaded discrete-event simulation driver. It owns the
// event queue and a monotonic virtual clock; there is no wall-clock
// dependency, so runs with identical inputs are bit-for-bit reproducible.
//
// The engine is an explicit object rather than process-global state, so
// multiple independent simulations can run in one process.
type Engine struct {
	now   time.Duration
	state EngineState
	seq   uint64
	queue eventQueue
	log   logging.Logger
}

// NewEngine creates an idle engine. A nil logger is replaced with a noop.
func NewEngine(log logging.Logger) *Engine {
	if log == nil {
		log = logging.Noop()
	}
	return &Engine{log: log}
}

// Now returns the current virtual time. Implements SimClock.
func (e *Engine) Now() time.Duration { return e.now }

// State returns the engine's lifecycle state.
func (e *Engine) State() EngineState { return e.state }

// Pending returns the number of queued events.
func (e *Engine) Pending() int { return len(e.queue) }

// ScheduleAt queues fn to run at absolute virtual time at. Timestamps in
// the past are clamped to the current clock. Scheduling is legal while the
// engine is Idle (topology/traffic setup) or Running (actions enqueueing
// follow-up events); a Stopped engine rejects new work.
func (e *Engine) ScheduleAt(at time.Duration, fn func()) error {
	if e.state == EngineStopped {
		return fmt.Errorf("%w: cannot schedule event at %s", ErrEngineStopped, at)
	}
	if at < e.now {
		at = e.now
	}
	e.seq++
	heap.Push(&e.queue, &event{at: at, seq: e.seq, fn: fn})
	return nil
}

// ScheduleAfter queues fn to run d after the current virtual time.
func (e *Engine) ScheduleAfter(d time.Duration, fn func()) error {
	return e.ScheduleAt(e.now+d, fn)
}

// Run executes queued events in timestamp order until the queue drains or
// the next event would pass stopTime. The clock then advances to stopTime,
// the engine transitions to Stopped, and any still-pending events are
// discarded. A Stopped engine cannot be re-run; rebuild the schedule
// instead.
func (e *Engine) Run(ctx context.Context, stopTime time.Duration) error {
	switch e.state {
	case EngineRunning:
		return ErrEngineRunning
	case EngineStopped:
		return ErrEngineStopped
	}

	e.state = EngineRunning
	e.log.Debug(ctx, "engine run started",
		logging.Any("stop_time", stopTime),
		logging.Int("pending", len(e.queue)))

	executed := 0
	for len(e.queue) > 0 {
		next := e.queue[0]
		if next.at > stopTime {
			break
		}
		heap.Pop(&e.queue)
		e.now = next.at
		next.fn()
		executed++
	}

	discarded := len(e.queue)
	e.queue = nil
	if stopTime > e.now {
		e.now = stopTime
	}
	e.state = EngineStopped

	e.log.Debug(ctx, "engine run finished",
		logging.Int("executed", executed),
		logging.Int("discarded", discarded),
		logging.Any("clock", e.now))
	return nil
}
