// Package realtime fans out "new message" notifications to live chat subscribers.
package realtime

import (
	"context"
	"errors"
	"sync"
)

// ErrBrokerClosed is returned by Subscribe after the broker was closed.
var ErrBrokerClosed = errors.New("broker closed")

// Event announces that a message row was inserted into a match. Subscribers
// re-fetch the full row by MessageID.
type Event struct {
	MatchID   int64  `json:"match_id"`
	MessageID int64  `json:"message_id"`
	SenderID  string `json:"sender_id"`
}

// Broker publishes message events and delivers them to per-match subscribers.
type Broker interface {
	Publish(ctx context.Context, event Event) error

	// Subscribe registers interest in a match. The subscription is live when
	// Subscribe returns; events published afterwards are delivered.
	Subscribe(ctx context.Context, matchID int64) (*Subscription, error)

	Close() error
}

// Subscription is a live feed for one match. Its channel is closed by Close
// or when the broker shuts down.
type Subscription struct {
	events chan Event

	mu      sync.Mutex
	closed  bool
	release func()
}

func newSubscription(buffer int, release func()) *Subscription {
	return &Subscription{events: make(chan Event, buffer), release: release}
}

// Events returns the event channel.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// deliver hands an event to the subscriber without blocking. It reports false
// when the buffer is full or the subscription is closed.
func (s *Subscription) deliver(event Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.events <- event:
		return true
	default:
		return false
	}
}

// Close releases the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.events)
	release := s.release
	s.mu.Unlock()

	if release != nil {
		release()
	}
}
