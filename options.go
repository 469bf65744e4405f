package keypadx

import "log/slog"

// Option applies configuration to a Keypad via the functional options pattern.
type Option func(*Keypad)

// WithDebounceTime sets the minimum milliseconds between scans. Values below
// one are raised to one.
func WithDebounceTime(ms uint32) Option {
	return func(k *Keypad) {
		k.SetDebounceTime(ms)
	}
}

// WithHoldTime sets how long a key must stay closed before PRESSED becomes HOLD.
func WithHoldTime(ms uint32) Option {
	return func(k *Keypad) {
		k.SetHoldTime(ms)
	}
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(k *Keypad) {
		k.clock = c
	}
}

// WithLogger enables debug logging of slow reconciliation passes.
func WithLogger(l *slog.Logger) Option {
	return func(k *Keypad) {
		k.logger = l
	}
}

func WithEventListener(l EventListener) Option {
	return func(k *Keypad) {
		k.listener = l
	}
}

func WithStatedEventListener(l StatedEventListener) Option {
	return func(k *Keypad) {
		k.statedListener = l
	}
}
