// Package keypadx is a debounced matrix keypad scanner.
//
// A Keypad drives each row of a row/column switch matrix low in turn, samples
// the pulled-up columns, and folds the result into a short list of tracked
// keys. Every tracked key runs its own small state machine:
//
//	IDLE --closed--> PRESSED --held--> HOLD
//	                    |                |
//	                   open             open
//	                    v                v
//	                  RELEASED <---------+
//	                    |
//	                  (next scan)
//	                    v
//	                  IDLE
//
// Each change of state is reported to the registered listeners, and Poll
// returns true for a scan that changed anything.
//
// # Example Usage
//
//	rows := []keypadx.Pin{9, 8, 7, 6}
//	cols := []keypadx.Pin{5, 4, 3, 2}
//
//	kp := keypadx.New(rows, cols, 4, 4, io,
//		keypadx.WithHoldTime(700),
//		keypadx.WithStatedEventListener(func(key rune, state keypadx.KeyState) {
//			println(string(key), state.String())
//		}),
//	)
//	kp.Begin("123A456B789C*0#D")
//
//	for {
//		kp.Poll()
//	}
//
// # Timing
//
// Poll is cheap to call in a tight loop. It only touches the pins when the
// debounce interval has passed since the last scan, so the debounce time is
// also the scan period. Clock readings are uint32 milliseconds and are only
// compared by subtraction, so the counter may wrap.
//
// # Capacity
//
// At most ListMax keys are tracked. Presses beyond that are ignored until a
// slot frees up, which happens one scan after its key reports IDLE. When
// several new presses race for the last slot, the lowest key code wins.
//
// # Pins
//
// PinIO is the only hardware dependency. The pinio packages provide Linux
// GPIO (periph, rpio), a 74HC165 shift register column reader (shiftin) and a
// simulated matrix for tests (sim).
package keypadx
