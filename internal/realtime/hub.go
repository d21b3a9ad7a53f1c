package realtime

import (
	"context"
	"log/slog"
	"sync"
)

const subscriberBuffer = 64

// Hub is an in-process Broker. It serves single-instance deployments and tests.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int64]map[*Subscription]struct{}
	closed bool
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[int64]map[*Subscription]struct{}),
		logger: logger,
	}
}

// Publish delivers the event to every subscriber of its match. Subscribers
// whose buffer is full miss the event.
func (h *Hub) Publish(_ context.Context, event Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[event.MatchID] {
		if !sub.deliver(event) {
			h.logger.Warn("Dropped realtime event for slow subscriber",
				"match_id", event.MatchID,
				"message_id", event.MessageID,
			)
		}
	}
	return nil
}

// Subscribe registers a subscriber for the match.
func (h *Hub) Subscribe(_ context.Context, matchID int64) (*Subscription, error) {
	var sub *Subscription
	sub = newSubscription(subscriberBuffer, func() { h.remove(matchID, sub) })

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrBrokerClosed
	}
	if h.subs[matchID] == nil {
		h.subs[matchID] = make(map[*Subscription]struct{})
	}
	h.subs[matchID][sub] = struct{}{}
	return sub, nil
}

func (h *Hub) remove(matchID int64, sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[matchID], sub)
	if len(h.subs[matchID]) == 0 {
		delete(h.subs, matchID)
	}
}

// SubscriberCount returns the number of live subscriptions for a match.
func (h *Hub) SubscriberCount(matchID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[matchID])
}

// Close ends every subscription and rejects new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	var all []*Subscription
	for _, subs := range h.subs {
		for sub := range subs {
			all = append(all, sub)
		}
	}
	h.mu.Unlock()

	// Close outside the lock: each Close calls back into remove.
	for _, sub := range all {
		sub.Close()
	}
	return nil
}
