package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/comalice/keypadx"
)

// Publisher receives every key event produced by a tick.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, evt Event) error

func (f PublisherFunc) Publish(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Runner polls one Keypad from its own goroutine at a fixed tick rate.
//
// Once started, the Runner owns the Keypad: it holds the stated listener
// slot, and any other access must go through Do.
type Runner struct {
	keypad    *keypadx.Keypad
	publisher Publisher
	logger    *slog.Logger

	tickRate time.Duration
	ticker   *time.Ticker
	tickNum  uint64

	// Only touched on the tick goroutine.
	eventBatch  []EventWithMeta
	sequenceNum uint64

	// Guards tickNum and ops.
	mu  sync.Mutex
	ops []func(*keypadx.Keypad)

	tickCtx    context.Context
	tickCancel context.CancelFunc
	stopped    chan struct{}
}

// Config configures a Runner.
type Config struct {
	TickRate  time.Duration // how often Poll is called (default: 5ms)
	Publisher Publisher     // nil drops events
	Logger    *slog.Logger  // nil uses slog.Default()
}

// NewRunner creates a Runner for a keypad that has already begun.
func NewRunner(kp *keypadx.Keypad, cfg Config) *Runner {
	if cfg.TickRate == 0 {
		cfg.TickRate = 5 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	rt := &Runner{
		keypad:     kp,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger,
		tickRate:   cfg.TickRate,
		eventBatch: make([]EventWithMeta, 0, keypadx.ListMax),
		stopped:    make(chan struct{}),
	}
	kp.AddStatedEventListener(rt.collect)
	return rt
}

// Start begins polling.
func (rt *Runner) Start(ctx context.Context) error {
	if rt.ticker != nil {
		return errors.New("runner already started")
	}

	rt.tickCtx, rt.tickCancel = context.WithCancel(ctx)
	rt.ticker = time.NewTicker(rt.tickRate)

	go rt.tickLoop()

	return nil
}

// Stop halts polling and waits for the current tick to finish.
func (rt *Runner) Stop() error {
	if rt.ticker == nil {
		return errors.New("runner not started")
	}
	rt.tickCancel()
	rt.ticker.Stop()

	<-rt.stopped
	return nil
}

// Done is closed once the tick loop has exited, either through Stop or the
// start context ending.
func (rt *Runner) Done() <-chan struct{} {
	return rt.stopped
}

// Do runs fn on the tick goroutine before the next poll. Use it for anything
// that touches the Keypad while the Runner is live.
func (rt *Runner) Do(fn func(*keypadx.Keypad)) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.ops = append(rt.ops, fn)
}

// GetTickNumber returns how many ticks have run.
func (rt *Runner) GetTickNumber() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.tickNum
}

// tickLoop is the main tick execution loop
func (rt *Runner) tickLoop() {
	defer close(rt.stopped)

	for {
		select {
		case <-rt.tickCtx.Done():
			return
		case <-rt.ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						rt.logger.Error("keypad tick panicked", "tick", rt.GetTickNumber(), "panic", r)
					}
				}()
				rt.processTick()
			}()

			rt.mu.Lock()
			rt.tickNum++
			rt.mu.Unlock()
		}
	}
}

// collect is the keypad's stated listener. It runs inside Poll, on the tick
// goroutine.
func (rt *Runner) collect(key rune, state keypadx.KeyState) {
	rt.eventBatch = append(rt.eventBatch, EventWithMeta{
		Event: Event{
			Key:   key,
			State: state,
			Tick:  rt.GetTickNumber(),
		},
		SequenceNum: rt.sequenceNum,
	})
	rt.sequenceNum++
}
