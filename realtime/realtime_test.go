package realtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/comalice/keypadx"
	"github.com/comalice/keypadx/testutil"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// newRunnerRig builds a 4x4 rig on the system clock with the shortest
// debounce, so the runner scans on every tick.
func newRunnerRig(t *testing.T, pub Publisher) (*testutil.Rig, *Runner) {
	t.Helper()
	rig := testutil.NewRig(4, 4, testutil.Keymap4x4,
		keypadx.WithClock(keypadx.SystemClock()),
		keypadx.WithDebounceTime(1),
	)
	rt := NewRunner(rig.Keypad, Config{
		TickRate:  time.Millisecond,
		Publisher: pub,
		Logger:    quietLogger,
	})
	return rig, rt
}

func channelPublisher(ch chan<- Event) Publisher {
	return PublisherFunc(func(ctx context.Context, e Event) error {
		ch <- e
		return nil
	})
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("no event within 1s")
	}
	return Event{}
}

// TestRuntimeCreation tests basic runner creation
func TestRuntimeCreation(t *testing.T) {
	rig, rt := newRunnerRig(t, nil)
	if rt == nil {
		t.Fatal("Runner is nil")
	}
	if rt.Keypad() != rig.Keypad {
		t.Fatal("Runner drives a different keypad")
	}
	if rt.tickRate != time.Millisecond {
		t.Errorf("tick rate = %v", rt.tickRate)
	}
}

func TestDefaultConfig(t *testing.T) {
	rig := testutil.NewRig(1, 1, "k")
	rt := NewRunner(rig.Keypad, Config{})
	if rt.tickRate != 5*time.Millisecond {
		t.Errorf("default tick rate = %v, want 5ms", rt.tickRate)
	}
	if rt.logger == nil {
		t.Error("default logger not set")
	}
}

// TestRunnerPublishesTransitions follows one key through its cycle
func TestRunnerPublishesTransitions(t *testing.T) {
	events := make(chan Event, 16)
	rig, rt := newRunnerRig(t, channelPublisher(events))

	if err := rt.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start runner: %v", err)
	}
	defer rt.Stop()

	rig.Matrix.Press(1, 1)
	if e := waitEvent(t, events); e.Key != '5' || e.State != keypadx.Pressed {
		t.Fatalf("first event = %+v, want '5' PRESSED", e)
	}

	rig.Matrix.Release(1, 1)
	if e := waitEvent(t, events); e.Key != '5' || e.State != keypadx.Released {
		t.Fatalf("second event = %+v, want '5' RELEASED", e)
	}
	if e := waitEvent(t, events); e.Key != '5' || e.State != keypadx.Idle {
		t.Fatalf("third event = %+v, want '5' IDLE", e)
	}
}

func TestRunnerScanOrder(t *testing.T) {
	events := make(chan Event, 16)
	rig, rt := newRunnerRig(t, channelPublisher(events))

	// Both closures land in the same scan.
	rig.Matrix.Press(3, 3)
	rig.Matrix.Press(0, 1)

	if err := rt.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	first := waitEvent(t, events)
	second := waitEvent(t, events)
	if first.Key != '2' || second.Key != 'D' {
		t.Errorf("order = %q, %q; want '2', 'D'", first.Key, second.Key)
	}
	if first.Tick != second.Tick {
		t.Errorf("ticks = %d, %d; want the same tick", first.Tick, second.Tick)
	}
}

func TestRunnerDo(t *testing.T) {
	_, rt := newRunnerRig(t, nil)
	if err := rt.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	got := make(chan uint32, 1)
	rt.Do(func(kp *keypadx.Keypad) {
		kp.SetHoldTime(42)
	})
	rt.Do(func(kp *keypadx.Keypad) {
		got <- kp.HoldTime()
	})

	select {
	case hold := <-got:
		if hold != 42 {
			t.Errorf("hold time = %d, want 42", hold)
		}
	case <-time.After(time.Second):
		t.Fatal("Do never ran")
	}
}

func TestRunnerStartStop(t *testing.T) {
	_, rt := newRunnerRig(t, nil)

	if err := rt.Stop(); err == nil {
		t.Error("Stop before Start should fail")
	}
	if err := rt.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := rt.Start(context.Background()); err == nil {
		t.Error("second Start should fail")
	}
	if err := rt.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}

	select {
	case <-rt.Done():
	default:
		t.Error("Done not closed after Stop")
	}
}

func TestRunnerStopsWithContext(t *testing.T) {
	_, rt := newRunnerRig(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	if err := rt.Start(ctx); err != nil {
		t.Fatal(err)
	}

	cancel()
	select {
	case <-rt.Done():
	case <-time.After(time.Second):
		t.Fatal("runner kept going after context cancel")
	}
	if err := rt.Stop(); err != nil {
		t.Errorf("Stop after cancel: %v", err)
	}
}

func TestRunnerSurvivesPanic(t *testing.T) {
	var calls atomic.Int32
	events := make(chan Event, 16)
	pub := PublisherFunc(func(ctx context.Context, e Event) error {
		if calls.Add(1) == 1 {
			panic("publisher blew up")
		}
		events <- e
		return nil
	})
	rig, rt := newRunnerRig(t, pub)

	if err := rt.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	rig.Matrix.Press(0, 0) // PRESSED is lost to the panic
	time.Sleep(20 * time.Millisecond)
	rig.Matrix.Release(0, 0)

	if e := waitEvent(t, events); e.State != keypadx.Released {
		t.Errorf("event after panic = %+v, want RELEASED", e)
	}
}

func TestRunnerPublishError(t *testing.T) {
	var calls atomic.Int32
	pub := PublisherFunc(func(ctx context.Context, e Event) error {
		calls.Add(1)
		return errors.New("sink closed")
	})
	rig, rt := newRunnerRig(t, pub)
	if err := rt.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	rig.Matrix.Press(2, 2)
	deadline := time.Now().Add(time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Fatal("publisher never called")
	}
}

// TestTickLoopTiming tests that the tick loop runs at roughly the configured rate
func TestTickLoopTiming(t *testing.T) {
	rig := testutil.NewRig(1, 1, "k")
	rt := NewRunner(rig.Keypad, Config{TickRate: 10 * time.Millisecond, Logger: quietLogger})

	if err := rt.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start runner: %v", err)
	}
	defer rt.Stop()

	start := rt.GetTickNumber()
	time.Sleep(105 * time.Millisecond) // ~10 ticks
	ticks := rt.GetTickNumber() - start

	// Generous bounds; CI schedulers are noisy.
	if ticks < 5 || ticks > 15 {
		t.Errorf("Expected ~10 ticks, got %d", ticks)
	}
}
