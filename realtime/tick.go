package realtime

import "github.com/comalice/keypadx"

// processTick processes one complete tick
func (rt *Runner) processTick() {
	// Phase 1: Apply queued keypad operations
	rt.runOps()

	// Phase 2: Scan; listeners fill the batch
	rt.keypad.Poll()

	// Phase 3: Hand the batch to the publisher in scan order
	rt.publishEvents(rt.collectEvents())
}

// runOps drains the Do queue.
func (rt *Runner) runOps() {
	rt.mu.Lock()
	ops := rt.ops
	rt.ops = nil
	rt.mu.Unlock()

	for _, op := range ops {
		op(rt.keypad)
	}
}

// collectEvents retrieves and clears the event batch
func (rt *Runner) collectEvents() []EventWithMeta {
	if len(rt.eventBatch) == 0 {
		return nil
	}
	events := make([]EventWithMeta, len(rt.eventBatch))
	copy(events, rt.eventBatch)
	rt.eventBatch = rt.eventBatch[:0]
	return events
}

func (rt *Runner) publishEvents(events []EventWithMeta) {
	if rt.publisher == nil {
		return
	}
	for _, e := range events {
		if err := rt.publisher.Publish(rt.tickCtx, e.Event); err != nil {
			rt.logger.Warn("publish key event failed",
				"key", string(e.Key), "state", e.State.String(), "seq", e.SequenceNum, "err", err)
		}
	}
}

// Keypad returns the keypad the Runner drives. It must not be used while the
// Runner is live; use Do instead.
func (rt *Runner) Keypad() *keypadx.Keypad {
	return rt.keypad
}
