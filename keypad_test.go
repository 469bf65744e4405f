package keypadx_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	. "github.com/comalice/keypadx"
	"github.com/comalice/keypadx/testutil"
)

func TestBeginConfiguresPins(t *testing.T) {
	rig := testutil.NewRig(4, 4, testutil.Keymap4x4)

	for _, p := range rig.Rows {
		if got := rig.Matrix.Mode(p); got != Output {
			t.Errorf("row pin %d mode = %v, want output", p, got)
		}
		if !rig.Matrix.Level(p) {
			t.Errorf("row pin %d should idle high", p)
		}
	}
	for _, p := range rig.Cols {
		if got := rig.Matrix.Mode(p); got != InputPullup {
			t.Errorf("column pin %d mode = %v, want input-pullup", p, got)
		}
	}
}

func TestPollRespectsDebounceInterval(t *testing.T) {
	rig := testutil.NewRig(4, 4, testutil.Keymap4x4, WithDebounceTime(10))
	rig.Matrix.Press(0, 0)

	if !rig.Keypad.Poll() {
		t.Fatal("first poll should scan and report the press")
	}
	reads := rig.Matrix.Reads()

	rig.Clock.Advance(5)
	if rig.Keypad.Poll() {
		t.Error("poll 5ms after a scan should report nothing")
	}
	if got := rig.Matrix.Reads(); got != reads {
		t.Errorf("poll inside debounce interval read pins: %d reads, want %d", got, reads)
	}

	rig.Clock.Advance(4)
	rig.Keypad.Poll()
	if got := rig.Matrix.Reads(); got != reads {
		t.Errorf("poll at 9ms read pins")
	}

	rig.Clock.Advance(1)
	rig.Keypad.Poll()
	if got := rig.Matrix.Reads(); got != reads+16 {
		t.Errorf("poll at 10ms: %d reads, want %d", got, reads+16)
	}
}

func TestDebounceTimeFloor(t *testing.T) {
	rig := testutil.NewRig(1, 1, "x", WithDebounceTime(0))
	if got := rig.Keypad.DebounceTime(); got != 1 {
		t.Errorf("debounce time = %d, want 1", got)
	}

	rig.Keypad.SetDebounceTime(25)
	if got := rig.Keypad.DebounceTime(); got != 25 {
		t.Errorf("debounce time = %d, want 25", got)
	}
}

func TestDefaults(t *testing.T) {
	rig := testutil.NewRig(1, 1, "x")
	if rig.Keypad.DebounceTime() != DefaultDebounceTime {
		t.Errorf("debounce = %d", rig.Keypad.DebounceTime())
	}
	if rig.Keypad.HoldTime() != DefaultHoldTime {
		t.Errorf("hold = %d", rig.Keypad.HoldTime())
	}
	if rig.Keypad.NumKeys() != ListMax {
		t.Errorf("NumKeys = %d, want %d", rig.Keypad.NumKeys(), ListMax)
	}
	if got := rig.Keypad.Size(); got != (KeySize{Rows: 1, Columns: 1}) {
		t.Errorf("size = %+v", got)
	}
}

func TestHoldScenario(t *testing.T) {
	rig := testutil.NewRig(4, 4, testutil.Keymap4x4, WithDebounceTime(10), WithHoldTime(500))
	rig.Matrix.Press(0, 0)

	rig.Step()
	if rig.Keypad.State() != Pressed {
		t.Fatalf("state after press = %v, want PRESSED", rig.Keypad.State())
	}

	// 500ms after the press is not yet a hold.
	rig.StepN(50)
	if rig.Keypad.State() != Pressed {
		t.Fatalf("state at hold time = %v, want PRESSED", rig.Keypad.State())
	}

	rig.Step()
	if rig.Keypad.State() != Hold {
		t.Fatalf("state past hold time = %v, want HOLD", rig.Keypad.State())
	}

	rig.Matrix.Release(0, 0)
	rig.Step()
	if rig.Keypad.State() != Released {
		t.Fatalf("state after release = %v, want RELEASED", rig.Keypad.State())
	}

	rig.Step()
	if rig.Keypad.State() != Idle {
		t.Fatalf("state after released = %v, want IDLE", rig.Keypad.State())
	}

	want := []testutil.Event{
		{Key: '1', State: Pressed},
		{Key: '1', State: Hold},
		{Key: '1', State: Released},
		{Key: '1', State: Idle},
	}
	got := rig.Recorder.Events()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	// One more scan frees the slot.
	rig.Step()
	if keys := rig.Keypad.Active(nil); len(keys) != 0 {
		t.Errorf("active keys after cleanup = %v", keys)
	}
}

func TestHoldAcrossClockWrap(t *testing.T) {
	rig := testutil.NewRig(1, 1, "k", WithDebounceTime(10), WithHoldTime(500))
	rig.Clock.Set(0xFFFFFF00)
	rig.Keypad.Poll()

	rig.Matrix.Press(0, 0)
	rig.Step()
	if rig.Keypad.State() != Pressed {
		t.Fatalf("state = %v, want PRESSED", rig.Keypad.State())
	}

	rig.StepN(50)
	if rig.Keypad.State() != Pressed {
		t.Fatalf("state = %v before hold time, want PRESSED", rig.Keypad.State())
	}
	rig.Step()
	if rig.Keypad.State() != Hold {
		t.Fatalf("state = %v after wrap, want HOLD", rig.Keypad.State())
	}
}

func TestPollGateAcrossClockWrap(t *testing.T) {
	rig := testutil.NewRig(1, 1, "k", WithDebounceTime(10))
	rig.Clock.Set(0xFFFFFFFA)
	rig.Keypad.Poll()
	reads := rig.Matrix.Reads()

	rig.Clock.Set(0x00000002) // 8ms later
	rig.Keypad.Poll()
	if rig.Matrix.Reads() != reads {
		t.Error("poll 8ms later across wrap should not scan")
	}

	rig.Clock.Set(0x00000004) // 10ms later
	rig.Keypad.Poll()
	if rig.Matrix.Reads() != reads+1 {
		t.Error("poll 10ms later across wrap should scan")
	}
}

func TestGetKey(t *testing.T) {
	rig := testutil.NewRig(4, 4, testutil.Keymap4x4)
	rig.Matrix.Press(1, 2)

	rig.Clock.Advance(10)
	if got := rig.Keypad.GetKey(); got != '6' {
		t.Fatalf("GetKey = %q, want '6'", got)
	}

	rig.Clock.Advance(10)
	if got := rig.Keypad.GetKey(); got != NoKey {
		t.Errorf("GetKey while still held = %q, want NoKey", got)
	}
}

func TestWaitForKeyContext(t *testing.T) {
	var now uint32 = 1000
	clock := ClockFunc(func() uint32 {
		now += 3
		return now
	})
	rig := testutil.NewRig(4, 4, testutil.Keymap4x4, WithClock(clock))
	rig.Matrix.Press(3, 1)

	got, err := rig.Keypad.WaitForKeyContext(context.Background())
	if err != nil {
		t.Fatalf("WaitForKeyContext: %v", err)
	}
	if got != '0' {
		t.Errorf("key = %q, want '0'", got)
	}
}

func TestWaitForKeyContextCanceled(t *testing.T) {
	rig := testutil.NewRig(4, 4, testutil.Keymap4x4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := rig.Keypad.WaitForKeyContext(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if got != NoKey {
		t.Errorf("key = %q, want NoKey", got)
	}
}

func TestWaitForKey(t *testing.T) {
	var now uint32
	rig := testutil.NewRig(4, 4, testutil.Keymap4x4, WithClock(ClockFunc(func() uint32 {
		now += 10
		return now
	})))
	rig.Matrix.Press(3, 3)

	if got := rig.Keypad.WaitForKey(); got != 'D' {
		t.Errorf("WaitForKey = %q, want 'D'", got)
	}
}

func TestIsPressed(t *testing.T) {
	rig := testutil.NewRig(4, 4, testutil.Keymap4x4)
	rig.Matrix.Press(0, 3)

	rig.Step()
	if !rig.Keypad.IsPressed('A') {
		t.Error("IsPressed('A') should be true right after the press")
	}
	if rig.Keypad.IsPressed('B') {
		t.Error("IsPressed('B') should be false")
	}

	rig.Step()
	if rig.Keypad.IsPressed('A') {
		t.Error("IsPressed('A') should be false once the change is reported")
	}
}

func TestKeyStateChanged(t *testing.T) {
	rig := testutil.NewRig(2, 2, "abcd")
	rig.Matrix.Press(1, 1)

	rig.Step()
	if !rig.Keypad.KeyStateChanged() {
		t.Error("first slot should report a change after the press")
	}
	rig.Step()
	if rig.Keypad.KeyStateChanged() {
		t.Error("first slot should not report a change while held")
	}
}

func TestActiveAndKeys(t *testing.T) {
	rig := testutil.NewRig(4, 4, testutil.Keymap4x4)
	rig.Matrix.Press(0, 1)
	rig.Matrix.Press(2, 2)
	rig.Step()

	active := rig.Keypad.Active(nil)
	if len(active) != 2 {
		t.Fatalf("active = %v, want 2 keys", active)
	}
	if active[0].Char != '2' || active[0].Code != 1 {
		t.Errorf("active[0] = %+v, want '2' code 1", active[0])
	}
	if active[1].Char != '9' || active[1].Code != 10 {
		t.Errorf("active[1] = %+v, want '9' code 10", active[1])
	}

	keys := rig.Keypad.Keys()
	for i := 2; i < ListMax; i++ {
		if !keys[i].Empty() || keys[i].Code != NoCode {
			t.Errorf("slot %d = %+v, want empty", i, keys[i])
		}
	}
}

func TestLoggerReportsSlowUpdate(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var now uint32 = 1000
	rig := testutil.NewRig(1, 1, "x",
		WithLogger(logger),
		WithClock(ClockFunc(func() uint32 {
			now++
			return now
		})),
	)
	rig.Keypad.Poll()

	if !strings.Contains(buf.String(), "update took") {
		t.Errorf("log output = %q, want an update timing record", buf.String())
	}
}
