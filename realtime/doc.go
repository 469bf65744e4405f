// Package realtime runs a Keypad on a fixed tick from a dedicated goroutine.
//
// A bare Keypad expects its owner to call Poll in a loop. The Runner does
// that on a time.Ticker and forwards every key transition to a Publisher, so
// the rest of a program can consume key events from a channel or callback
// without owning the scan loop.
//
// # Example Usage
//
//	kp := keypadx.New(rows, cols, 4, 4, io)
//	kp.Begin("123A456B789C*0#D")
//
//	rt := realtime.NewRunner(kp, realtime.Config{
//		TickRate: 2 * time.Millisecond,
//		Publisher: realtime.PublisherFunc(func(ctx context.Context, e realtime.Event) error {
//			fmt.Println(string(e.Key), e.State)
//			return nil
//		}),
//	})
//	rt.Start(ctx)
//	defer rt.Stop()
//
// # Ownership
//
// After Start the Keypad belongs to the tick goroutine. Reconfiguring it,
// for example after a layout reload, goes through Do, which queues a
// function to run before the next Poll:
//
//	rt.Do(func(kp *keypadx.Keypad) { kp.SetHoldTime(800) })
//
// # Tick rate vs debounce
//
// The tick rate only bounds how late a scan can start. The Keypad still
// enforces its own debounce interval, so a tick faster than the debounce
// time costs a clock read and nothing else.
//
// # Tick Phases
//
//  1. Run queued Do functions
//  2. Poll the keypad, collecting transitions into the tick's batch
//  3. Publish the batch in scan order
//
// A panic in any phase is logged and the loop carries on with the next tick.
package realtime
