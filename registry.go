package keypadx

// ListMax is the number of keys tracked at once.
const ListMax = 10

// Empty slot sentinels.
const (
	NoKey  rune = 0
	NoCode      = -1
)

// noSlot marks that every slot is taken.
const noSlot = -1

// Key is one slot of the active key list. A slot whose Char is NoKey is free.
type Key struct {
	Char         rune
	Code         int // row*columns + column, or NoCode
	State        KeyState
	StateChanged bool

	holdSince uint32
}

// Empty reports whether the slot is free.
func (k Key) Empty() bool {
	return k.Char == NoKey
}

func (k *Key) clear() {
	k.Char = NoKey
	k.Code = NoCode
	k.StateChanged = false
}

// update reconciles the last bitmap into the key list without moving keys
// between slots. It reports whether any key changed state.
func (k *Keypad) update(now uint32) bool {
	empty := noSlot

	// Drop keys that finished their cycle.
	for i := range k.keys {
		if k.keys[i].State == Idle {
			k.keys[i].clear()
		}
		if empty == noSlot && k.keys[i].Empty() {
			empty = i
		}
	}

	// Row-major, so the lowest code wins the last free slot.
	for r := 0; r < k.size.Rows; r++ {
		for c := 0; c < k.size.Columns; c++ {
			closed := k.bitmap.Closed(r, c)
			code := r*k.size.Columns + c
			idx := k.FindCode(code)

			switch {
			case idx >= 0:
				k.nextKeyState(idx, closed, now)
			case closed && empty != noSlot:
				key := &k.keys[empty]
				key.Char = k.keymap[code]
				key.Code = code
				key.State = Idle
				k.nextKeyState(empty, closed, now)

				empty = k.firstEmpty()
			}
		}
	}

	for i := range k.keys {
		if k.keys[i].StateChanged {
			return true
		}
	}
	return false
}

func (k *Keypad) firstEmpty() int {
	for i := range k.keys {
		if k.keys[i].Empty() {
			return i
		}
	}
	return noSlot
}

// FindCode returns the slot tracking code, or -1.
func (k *Keypad) FindCode(code int) int {
	for i := range k.keys {
		if k.keys[i].Code == code {
			return i
		}
	}
	return -1
}

// FindChar returns the first slot tracking the character, or -1.
func (k *Keypad) FindChar(char rune) int {
	for i := range k.keys {
		if k.keys[i].Char == char {
			return i
		}
	}
	return -1
}
