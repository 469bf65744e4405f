// Package production provides the integrations the command line tool runs
// with: event publishing and visualization.
package production

import (
	"context"
	"time"

	"github.com/comalice/keypadx/realtime"
)

// PublishedEvent bundles a key event with the keypad it came from.
type PublishedEvent struct {
	Event     realtime.Event
	KeypadID  string
	Timestamp time.Time
}

// ChannelPublisher forwards events to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	keypadID string
	ch       chan<- PublishedEvent
	now      func() time.Time
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(keypadID string, ch chan<- PublishedEvent) *ChannelPublisher {
	return &ChannelPublisher{keypadID: keypadID, ch: ch, now: time.Now}
}

func (p *ChannelPublisher) Publish(ctx context.Context, event realtime.Event) error {
	select {
	case p.ch <- PublishedEvent{Event: event, KeypadID: p.keypadID, Timestamp: p.now()}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // Non-blocking drop
	}
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}
