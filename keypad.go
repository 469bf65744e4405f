package keypadx

import (
	"context"
	"log/slog"
)

// Defaults.
const (
	DefaultDebounceTime uint32 = 10
	DefaultHoldTime     uint32 = 500
)

// Keypad scans one row/column matrix and tracks up to ListMax keys.
//
// A Keypad is not safe for concurrent use. Everything it owns, from the
// bitmap to the listeners, belongs to the goroutine calling Poll.
type Keypad struct {
	io      PinIO
	clock   Clock
	rowPins []Pin
	colPins []Pin
	size    KeySize
	keymap  []rune

	bitmap Bitmap
	keys   [ListMax]Key

	debounceTime uint32
	holdTime     uint32
	lastScan     uint32

	listener       EventListener
	statedListener StatedEventListener
	logger         *slog.Logger
}

// New creates a Keypad for a rows x cols matrix. rowPins must hold rows pins
// and colPins cols pins; mismatched geometry is not checked. Call Begin
// before polling.
func New(rowPins, colPins []Pin, rows, cols int, io PinIO, opts ...Option) *Keypad {
	k := &Keypad{
		io:           io,
		clock:        SystemClock(),
		rowPins:      rowPins,
		colPins:      colPins,
		size:         KeySize{Rows: rows, Columns: cols},
		debounceTime: DefaultDebounceTime,
		holdTime:     DefaultHoldTime,
	}
	for i := range k.keys {
		k.keys[i].clear()
	}

	for _, opt := range opts {
		opt(k)
	}

	return k
}

// Begin installs the row-major keymap and configures the pins. The keymap
// must have at least rows*cols characters.
func (k *Keypad) Begin(keymap string) {
	k.keymap = []rune(keymap)
	k.initRowPins()
	k.initColumnPins()
}

func (k *Keypad) initRowPins() {
	for r := 0; r < k.size.Rows; r++ {
		k.io.SetMode(k.rowPins[r], Output)
		k.io.Write(k.rowPins[r], High)
	}
}

func (k *Keypad) initColumnPins() {
	for c := 0; c < k.size.Columns; c++ {
		k.io.SetMode(k.colPins[c], InputPullup)
	}
}

// Poll scans the matrix and updates the key list, at most once per debounce
// interval. Calls inside the interval do nothing and return false. It
// returns true when any key changed state.
func (k *Keypad) Poll() bool {
	if k.clock.Millis()-k.lastScan < k.debounceTime {
		return false
	}

	k.scan()

	start := k.clock.Millis()
	changed := k.update(start)
	k.lastScan = k.clock.Millis()

	if took := k.lastScan - start; took > 0 && k.logger != nil {
		k.logger.Debug("update took", "elapsed_ms", took)
	}

	return changed
}

// GetKey polls and returns the first slot's character if it was just
// pressed, otherwise NoKey.
func (k *Keypad) GetKey() rune {
	if k.Poll() && k.keys[0].StateChanged && k.keys[0].State == Pressed {
		return k.keys[0].Char
	}
	return NoKey
}

// WaitForKey spins on GetKey until a key is pressed. It never returns
// otherwise; use WaitForKeyContext to bound it.
func (k *Keypad) WaitForKey() rune {
	key := NoKey
	for key == NoKey {
		key = k.GetKey()
	}
	return key
}

// WaitForKeyContext is WaitForKey with cancellation.
func (k *Keypad) WaitForKeyContext(ctx context.Context) (rune, error) {
	for {
		if err := ctx.Err(); err != nil {
			return NoKey, err
		}
		if key := k.GetKey(); key != NoKey {
			return key, nil
		}
	}
}

// Keys returns a copy of every slot, empty ones included.
func (k *Keypad) Keys() [ListMax]Key {
	return k.keys
}

// Active appends the occupied slots to dst.
func (k *Keypad) Active(dst []Key) []Key {
	for _, key := range k.keys {
		if !key.Empty() {
			dst = append(dst, key)
		}
	}
	return dst
}

// IsPressed reports whether char went to PRESSED on the last update.
func (k *Keypad) IsPressed(char rune) bool {
	for i := range k.keys {
		if k.keys[i].Char == char && k.keys[i].State == Pressed && k.keys[i].StateChanged {
			return true
		}
	}
	return false
}

// KeyStateChanged reports whether the first slot changed on the last update.
func (k *Keypad) KeyStateChanged() bool {
	return k.keys[0].StateChanged
}

// State returns the first slot's state.
func (k *Keypad) State() KeyState {
	return k.keys[0].State
}

// NumKeys returns the capacity of the key list.
func (k *Keypad) NumKeys() int {
	return len(k.keys)
}

func (k *Keypad) Size() KeySize {
	return k.size
}

// Bitmap returns the last raw scan.
func (k *Keypad) Bitmap() Bitmap {
	return k.bitmap
}

// SetDebounceTime sets the minimum milliseconds between scans, at least one.
func (k *Keypad) SetDebounceTime(ms uint32) {
	if ms < 1 {
		ms = 1
	}
	k.debounceTime = ms
}

func (k *Keypad) SetHoldTime(ms uint32) {
	k.holdTime = ms
}

func (k *Keypad) DebounceTime() uint32 {
	return k.debounceTime
}

func (k *Keypad) HoldTime() uint32 {
	return k.holdTime
}
