package keypadx

// EventListener is told which key changed state.
type EventListener func(key rune)

// StatedEventListener is told which key changed state and the state it moved to.
type StatedEventListener func(key rune, state KeyState)

// AddEventListener installs the character listener, replacing any previous
// one. A nil listener unregisters.
func (k *Keypad) AddEventListener(listener EventListener) {
	k.listener = listener
}

// AddStatedEventListener installs the stated listener, replacing any previous
// one. A nil listener unregisters.
func (k *Keypad) AddStatedEventListener(listener StatedEventListener) {
	k.statedListener = listener
}

// dispatch runs on every real transition, character listener first.
func (k *Keypad) dispatch(key rune, state KeyState) {
	if k.listener != nil {
		k.listener(key)
	}
	if k.statedListener != nil {
		k.statedListener(key, state)
	}
}
