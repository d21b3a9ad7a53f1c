// Package push delivers new-message notifications to the members of both
// groups of a match through the Expo push gateway.
package push

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sourcegraph/conc/pool"

	"github.com/mmynk/groupswipe/internal/metrics"
	"github.com/mmynk/groupswipe/internal/models"
	"github.com/mmynk/groupswipe/internal/storage"
)

const (
	DefaultEndpoint = "https://api.expo.dev/v2/push/send"

	// maxBatchSize is the gateway's limit of messages per request.
	maxBatchSize = 100

	fallbackSenderName = "Someone"
)

// Store is the read access the dispatcher needs.
type Store interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetMatch(ctx context.Context, matchID int64) (*models.Match, error)
	ListMemberIDs(ctx context.Context, groupIDs []string, excludeUserID string) ([]string, error)
	ListPushTokens(ctx context.Context, userIDs []string) ([]models.PushToken, error)
}

// Message is one gateway notification.
type Message struct {
	To    string         `json:"to"`
	Sound string         `json:"sound"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data"`
}

type ticket struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type sendResponse struct {
	Data []ticket `json:"data"`
}

// Config tunes delivery.
type Config struct {
	Endpoint string

	// Concurrency bounds the batches in flight for one chat message.
	Concurrency int

	// Timeout bounds the whole dispatch of one chat message.
	Timeout time.Duration
}

// Dispatcher resolves recipients for stored messages and posts notifications.
// Failed deliveries are logged and counted, never retried.
type Dispatcher struct {
	store  Store
	client *http.Client
	cfg    Config
	logger *slog.Logger

	mu       sync.RWMutex
	closed   bool
	inflight *pool.Pool
}

// NewDispatcher creates a dispatcher. A nil client selects http.DefaultClient.
func NewDispatcher(store Store, client *http.Client, cfg Config, logger *slog.Logger) *Dispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		store:    store,
		client:   client,
		cfg:      cfg,
		logger:   logger.With("component", "push"),
		inflight: pool.New(),
	}
}

// Notify dispatches the message in the background. Messages arriving after
// Close are dropped.
func (d *Dispatcher) Notify(msg models.Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.PushNotifications.WithLabelValues("skipped").Inc()
		d.logger.Warn("Dropping notification after shutdown", "message_id", msg.ID)
		return
	}

	d.inflight.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
		defer cancel()
		if err := d.Dispatch(ctx, msg); err != nil {
			d.logger.Error("Push dispatch failed", "message_id", msg.ID, "match_id", msg.MatchID, "error", err)
		}
	})
}

// Close stops accepting messages and waits for in-flight dispatches.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.inflight.Wait()
}

// Build resolves the recipients of a message and renders one notification
// per push token. It returns no messages when nobody else has a token.
func (d *Dispatcher) Build(ctx context.Context, msg models.Message) ([]Message, error) {
	senderName := fallbackSenderName
	sender, err := d.store.GetUserByID(ctx, msg.SenderID)
	switch {
	case err == nil && sender.Username != "":
		senderName = sender.Username
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to resolve sender: %w", err)
	}

	match, err := d.store.GetMatch(ctx, msg.MatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve match: %w", err)
	}

	recipients, err := d.store.ListMemberIDs(ctx, []string{match.Group1, match.Group2}, msg.SenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipients: %w", err)
	}
	if len(recipients) == 0 {
		return nil, nil
	}

	tokens, err := d.store.ListPushTokens(ctx, recipients)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve push tokens: %w", err)
	}

	messages := make([]Message, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, Message{
			To:    token.Token,
			Sound: "default",
			Title: "New message from " + senderName,
			Body:  msg.Content,
			Data:  map[string]any{"matchId": msg.MatchID},
		})
	}
	return messages, nil
}

// Dispatch builds the notifications for msg and posts them in batches.
func (d *Dispatcher) Dispatch(ctx context.Context, msg models.Message) error {
	messages, err := d.Build(ctx, msg)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		d.logger.Debug("No push recipients", "message_id", msg.ID)
		return nil
	}

	p := pool.New().WithContext(ctx).WithMaxGoroutines(d.cfg.Concurrency)
	for _, batch := range batches(messages, maxBatchSize) {
		p.Go(func(ctx context.Context) error {
			if err := d.send(ctx, batch); err != nil {
				metrics.PushNotifications.WithLabelValues("failed").Add(float64(len(batch)))
				return err
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	d.logger.Info("Push notifications sent", "message_id", msg.ID, "count", len(messages))
	return nil
}

func (d *Dispatcher) send(ctx context.Context, batch []Message) error {
	body, err := sonic.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode push batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post push batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("push gateway returned %s", resp.Status)
	}

	var decoded sendResponse
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		// Delivery was accepted; only the tickets are unreadable.
		d.logger.Warn("Unreadable push gateway response", "error", err)
		metrics.PushNotifications.WithLabelValues("sent").Add(float64(len(batch)))
		return nil
	}

	var failed int
	for _, t := range decoded.Data {
		if t.Status == "error" {
			failed++
			d.logger.Warn("Push ticket rejected", "error", t.Message)
		}
	}
	metrics.PushNotifications.WithLabelValues("failed").Add(float64(failed))
	metrics.PushNotifications.WithLabelValues("sent").Add(float64(len(batch) - failed))
	return nil
}

func batches(messages []Message, size int) [][]Message {
	var out [][]Message
	for start := 0; start < len(messages); start += size {
		end := min(start+size, len(messages))
		out = append(out, messages[start:end])
	}
	return out
}
