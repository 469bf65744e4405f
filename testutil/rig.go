// Package testutil wires a Keypad to a simulated matrix and clock so the same
// scenarios can drive the scanner directly or through the tick runtime.
package testutil

import (
	"sync"

	"github.com/comalice/keypadx"
	"github.com/comalice/keypadx/pinio/sim"
)

// Keymap4x4 is the common 4x4 membrane keypad layout.
const Keymap4x4 = "123A456B789C*0#D"

// Event is one recorded listener call.
type Event struct {
	Key   rune
	State keypadx.KeyState
}

// Recorder collects stated listener calls.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Listen is a keypadx.StatedEventListener.
func (r *Recorder) Listen(key rune, state keypadx.KeyState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Key: key, State: state})
}

// Events returns a copy of everything recorded.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset forgets recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Rig bundles a begun Keypad with its simulated hardware.
type Rig struct {
	Keypad   *keypadx.Keypad
	Matrix   *sim.Matrix
	Clock    *sim.Clock
	Recorder *Recorder
	Rows     []keypadx.Pin
	Cols     []keypadx.Pin
}

// NewRig builds a rows x cols keypad on simulated pins. Row pins are numbered
// from 0 and column pins from 100. The clock starts at 1000 so the first
// Step always scans.
func NewRig(rows, cols int, keymap string, opts ...keypadx.Option) *Rig {
	rowPins := make([]keypadx.Pin, rows)
	for i := range rowPins {
		rowPins[i] = keypadx.Pin(i)
	}
	colPins := make([]keypadx.Pin, cols)
	for i := range colPins {
		colPins[i] = keypadx.Pin(100 + i)
	}

	rig := &Rig{
		Matrix:   sim.NewMatrix(rowPins, colPins),
		Clock:    sim.NewClock(1000),
		Recorder: &Recorder{},
		Rows:     rowPins,
		Cols:     colPins,
	}

	all := append([]keypadx.Option{
		keypadx.WithClock(rig.Clock),
		keypadx.WithStatedEventListener(rig.Recorder.Listen),
	}, opts...)
	rig.Keypad = keypadx.New(rowPins, colPins, rows, cols, rig.Matrix, all...)
	rig.Keypad.Begin(keymap)
	return rig
}

// Step advances the clock by one debounce interval and polls.
func (r *Rig) Step() bool {
	r.Clock.Advance(r.Keypad.DebounceTime())
	return r.Keypad.Poll()
}

// StepN calls Step n times and reports whether any of them changed a key.
func (r *Rig) StepN(n int) bool {
	changed := false
	for i := 0; i < n; i++ {
		if r.Step() {
			changed = true
		}
	}
	return changed
}
