package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
)

const channelPrefix = "groupswipe:messages:"

func channelName(matchID int64) string {
	return channelPrefix + strconv.FormatInt(matchID, 10)
}

// RedisBroker relays events through Redis pub/sub so that every server
// instance sees inserts made by the others.
type RedisBroker struct {
	client rueidis.Client
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

// NewRedisBroker wraps an existing rueidis client. The caller owns the client.
func NewRedisBroker(client rueidis.Client, logger *slog.Logger) *RedisBroker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBroker{
		client: client,
		logger: logger.With("component", "realtime.redis"),
		subs:   make(map[*Subscription]struct{}),
	}
}

// Publish sends the event on the match's channel.
func (b *RedisBroker) Publish(ctx context.Context, event Event) error {
	payload, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	cmd := b.client.B().Publish().Channel(channelName(event.MatchID)).Message(string(payload)).Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe opens a dedicated connection subscribed to the match's channel.
func (b *RedisBroker) Subscribe(ctx context.Context, matchID int64) (*Subscription, error) {
	channel := channelName(matchID)
	conn, cancel := b.client.Dedicate()

	var sub *Subscription
	sub = newSubscription(subscriberBuffer, func() {
		b.mu.Lock()
		delete(b.subs, sub)
		b.mu.Unlock()

		unsubscribe := conn.B().Unsubscribe().Channel(channel).Build()
		if err := conn.Do(context.Background(), unsubscribe).Error(); err != nil {
			b.logger.Debug("Unsubscribe failed", "channel", channel, "error", err)
		}
		cancel()
	})

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		cancel()
		return nil, ErrBrokerClosed
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	wait := conn.SetPubSubHooks(rueidis.PubSubHooks{
		OnMessage: func(m rueidis.PubSubMessage) {
			var event Event
			if err := sonic.UnmarshalString(m.Message, &event); err != nil {
				b.logger.Warn("Discarding malformed realtime event", "channel", m.Channel, "error", err)
				return
			}
			if !sub.deliver(event) {
				b.logger.Warn("Dropped realtime event for slow subscriber",
					"match_id", event.MatchID,
					"message_id", event.MessageID,
				)
			}
		},
	})

	if err := conn.Do(ctx, conn.B().Subscribe().Channel(channel).Build()).Error(); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	go func() {
		if err, ok := <-wait; ok && err != nil {
			b.logger.Warn("Realtime subscription ended", "channel", channel, "error", err)
		}
		sub.Close()
	}()

	return sub, nil
}

// Close ends every subscription and rejects new ones. The client belongs to
// the caller and stays open.
func (b *RedisBroker) Close() error {
	b.mu.Lock()
	b.closed = true
	all := make([]*Subscription, 0, len(b.subs))
	for sub := range b.subs {
		all = append(all, sub)
	}
	b.mu.Unlock()

	for _, sub := range all {
		sub.Close()
	}
	return nil
}
