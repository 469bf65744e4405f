package realtime

import "github.com/comalice/keypadx"

// Event is one key state change seen by a Runner.
type Event struct {
	Key   rune
	State keypadx.KeyState
	Tick  uint64 // tick the change was scanned on
}

// EventWithMeta adds sequencing metadata for deterministic ordering
type EventWithMeta struct {
	Event
	SequenceNum uint64
}

// Event ordering guarantees:
// 1. Events within a tick are published in scan order, which is row-major
// 2. Sequence numbers increase across ticks and never repeat for a Runner
// 3. Every event of tick N is published before any event of tick N+1
