package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEngineRunsEventsInTimestampOrder(t *testing.T) {
	e := NewEngine(nil)
	var fired []string

	if err := e.ScheduleAt(300*time.Millisecond, func() { fired = append(fired, "c") }); err != nil {
		t.Fatalf("ScheduleAt: %v", err)
	}
	if err := e.ScheduleAt(100*time.Millisecond, func() { fired = append(fired, "a") }); err != nil {
		t.Fatalf("ScheduleAt: %v", err)
	}
	if err := e.ScheduleAt(200*time.Millisecond, func() { fired = append(fired, "b") }); err != nil {
		t.Fatalf("ScheduleAt: %v", err)
	}

	if err := e.Run(context.Background(), time.Second); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := len(fired), 3; got != want {
		t.Fatalf("executed %d events, want %d", got, want)
	}
	for i, want := range []string{"a", "b", "c"} {
		if fired[i] != want {
			t.Fatalf("event %d = %q, want %q", i, fired[i], want)
		}
	}
}

func TestEngineTimestampTiesRunInScheduleOrder(t *testing.T) {
	e := NewEngine(nil)
	var fired []int
	for i := 0; i < 10; i++ {
		i := i
		if err := e.ScheduleAt(time.Second, func() { fired = append(fired, i) }); err != nil {
			t.Fatalf("ScheduleAt: %v", err)
		}
	}
	if err := e.Run(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, got := range fired {
		if got != i {
			t.Fatalf("tie-broken order %v, want schedule order", fired)
		}
	}
}

func TestEngineDiscardsEventsPastStopTime(t *testing.T) {
	e := NewEngine(nil)
	ran := 0
	e.ScheduleAt(time.Second, func() { ran++ })
	e.ScheduleAt(5*time.Second, func() { ran++ })

	if err := e.Run(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ran != 1 {
		t.Fatalf("executed %d events, want 1", ran)
	}
	if got := e.Now(); got != 2*time.Second {
		t.Fatalf("clock = %s, want 2s", got)
	}
	if e.State() != EngineStopped {
		t.Fatalf("state = %s, want stopped", e.State())
	}
}

func TestEngineClockAdvancesMonotonically(t *testing.T) {
	e := NewEngine(nil)
	var stamps []time.Duration
	for _, at := range []time.Duration{time.Second, 500 * time.Millisecond, 1500 * time.Millisecond} {
		at := at
		e.ScheduleAt(at, func() { stamps = append(stamps, e.Now()) })
	}
	if err := e.Run(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := 1; i < len(stamps); i++ {
		if stamps[i] < stamps[i-1] {
			t.Fatalf("clock went backwards: %v", stamps)
		}
	}
}

func TestEngineClampsPastTimestamps(t *testing.T) {
	e := NewEngine(nil)
	var observed time.Duration
	e.ScheduleAt(time.Second, func() {
		e.ScheduleAt(0, func() { observed = e.Now() })
	})
	if err := e.Run(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if observed != time.Second {
		t.Fatalf("clamped event ran at %s, want 1s", observed)
	}
}

func TestEngineEventsCanScheduleFollowups(t *testing.T) {
	e := NewEngine(nil)
	ran := 0
	var step func()
	step = func() {
		ran++
		if ran < 5 {
			e.ScheduleAfter(100*time.Millisecond, step)
		}
	}
	e.ScheduleAt(0, step)
	if err := e.Run(context.Background(), time.Second); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ran != 5 {
		t.Fatalf("chain executed %d steps, want 5", ran)
	}
}

func TestEngineStoppedRejectsWork(t *testing.T) {
	e := NewEngine(nil)
	if err := e.Run(context.Background(), time.Second); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := e.Run(context.Background(), 2*time.Second); !errors.Is(err, ErrEngineStopped) {
		t.Fatalf("second Run error = %v, want ErrEngineStopped", err)
	}
	if err := e.ScheduleAt(time.Second, func() {}); !errors.Is(err, ErrEngineStopped) {
		t.Fatalf("ScheduleAt after stop error = %v, want ErrEngineStopped", err)
	}
}

func TestEngineStateLifecycle(t *testing.T) {
	e := NewEngine(nil)
	if e.State() != EngineIdle {
		t.Fatalf("initial state = %s, want idle", e.State())
	}
	var during EngineState
	e.ScheduleAt(0, func() { during = e.State() })
	if err := e.Run(context.Background(), time.Second); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if during != EngineRunning {
		t.Fatalf("state during event = %s, want running", during)
	}
	if e.State() != EngineStopped {
		t.Fatalf("final state = %s, want stopped", e.State())
	}
}
