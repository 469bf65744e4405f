package keypadx

// KeyState is the debounced state of a tracked key.
type KeyState uint8

const (
	Idle KeyState = iota
	Pressed
	Hold
	Released
)

func (s KeyState) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Pressed:
		return "PRESSED"
	case Hold:
		return "HOLD"
	case Released:
		return "RELEASED"
	}
	return "UNKNOWN"
}

// Condition is the guard on a debounce transition.
type Condition uint8

const (
	WhenClosed Condition = iota
	WhenOpen
	WhenHeld // closed for longer than the hold time
	Always
)

func (c Condition) String() string {
	switch c {
	case WhenClosed:
		return "closed"
	case WhenOpen:
		return "open"
	case WhenHeld:
		return "held"
	case Always:
		return "always"
	}
	return "unknown"
}

// Transition is one row of the debounce table.
type Transition struct {
	From   KeyState
	When   Condition
	To     KeyState
	Anchor bool // restart the hold timer on entry
}

// Rows are evaluated in order; the first matching row for the current state
// wins. A state with no match stays put and reports no change.
var transitions = [...]Transition{
	{From: Idle, When: WhenClosed, To: Pressed, Anchor: true},
	{From: Pressed, When: WhenHeld, To: Hold},
	{From: Pressed, When: WhenOpen, To: Released},
	{From: Hold, When: WhenOpen, To: Released},
	{From: Released, When: Always, To: Idle},
}

// Transitions returns a copy of the debounce table.
func Transitions() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions[:])
	return out
}

func (k *Keypad) evaluateGuard(when Condition, key *Key, closed bool, now uint32) bool {
	switch when {
	case WhenClosed:
		return closed
	case WhenOpen:
		return !closed
	case WhenHeld:
		return now-key.holdSince > k.holdTime
	case Always:
		return true
	}
	return false
}

// pickTransition grabs the first transition out of the key's state whose
// guard passes.
func (k *Keypad) pickTransition(key *Key, closed bool, now uint32) *Transition {
	for i := range transitions {
		t := &transitions[i]
		if t.From != key.State {
			continue
		}
		if k.evaluateGuard(t.When, key, closed, now) {
			return t
		}
	}
	return nil
}

// nextKeyState advances one slot by one scan. It doubles as the debouncer:
// a press is only reported once it has been seen on an accepted scan, and a
// release always passes through RELEASED for exactly one scan.
func (k *Keypad) nextKeyState(idx int, closed bool, now uint32) {
	key := &k.keys[idx]
	key.StateChanged = false

	t := k.pickTransition(key, closed, now)
	if t == nil {
		return
	}
	if t.Anchor {
		key.holdSince = now
	}
	k.transitionTo(idx, t.To)
}

func (k *Keypad) transitionTo(idx int, next KeyState) {
	key := &k.keys[idx]
	key.State = next
	key.StateChanged = true

	k.dispatch(key.Char, next)
}
