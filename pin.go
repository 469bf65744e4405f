package keypadx

import "time"

// Pin identifies a host pin. Its meaning belongs to the PinIO that drives it.
type Pin int

type PinMode uint8

const (
	Input PinMode = iota
	InputPullup
	Output
)

// Pin levels.
const (
	Low  = false
	High = true
)

func (m PinMode) String() string {
	switch m {
	case Input:
		return "input"
	case InputPullup:
		return "input-pullup"
	case Output:
		return "output"
	}
	return "unknown"
}

// PinIO is the digital I/O the scanner runs on. Implementations decide what a
// Pin is: a GPIO line, a shift register bit, an expander port.
//
// Methods do not return errors. An unknown pin is a caller bug.
type PinIO interface {
	SetMode(pin Pin, mode PinMode)
	Write(pin Pin, level bool)
	Read(pin Pin) bool
}

// Clock is a monotonic millisecond counter. It may wrap; callers compare
// readings by subtraction only.
type Clock interface {
	Millis() uint32
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() uint32

func (f ClockFunc) Millis() uint32 { return f() }

type systemClock struct {
	start time.Time
}

// SystemClock returns a Clock counting milliseconds since the call.
func SystemClock() Clock {
	return systemClock{start: time.Now()}
}

func (c systemClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}
