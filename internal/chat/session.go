// Package chat keeps the live, paginated message history of one match.
//
// A Session holds messages newest first. Older pages are appended at the
// tail, live messages are prepended at the head, and outgoing messages show
// up immediately as pending entries that are swapped for the stored row once
// it is confirmed.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/groupswipe/pkg/api"
)

// PageSize is the number of messages fetched per page.
const PageSize = 20

// PendingSender is the sender label of an unconfirmed outgoing message.
const PendingSender = "You"

var (
	ErrClosed       = errors.New("chat session closed")
	ErrEmptyMessage = errors.New("message is empty")
)

// Subscription delivers one event per message inserted into a match.
type Subscription interface {
	Events() <-chan api.MessageEvent
	Close() error
}

type Backend interface {
	ListMessages(ctx context.Context, matchID int64, offset, limit int) ([]api.Message, error)
	GetMessage(ctx context.Context, messageID int64) (api.Message, error)
	SendMessage(ctx context.Context, matchID int64, content, clientID string) (api.Message, error)
	SubscribeMessages(ctx context.Context, matchID int64) (Subscription, error)
}

type State int

const (
	StateLoading State = iota
	StateReady
	StateLoadingMore
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateLoadingMore:
		return "loading-more"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Entry is a message as shown in the session. Pending entries have no ID yet
// and are identified by ClientID.
type Entry struct {
	api.Message
	Pending bool
}

// Session is the chat of one match as seen by one user. It owns the match's
// live subscription until Close.
type Session struct {
	matchID int64
	userID  string
	backend Backend
	sub     Subscription
	logger  *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	// notifying is set while the listener runs the change callback.
	notifying atomic.Bool

	mu        sync.Mutex
	messages  []Entry
	nextPage  int
	allLoaded bool
	state     State
	onChange  func()
}

// Open subscribes to the match and loads the first page. The subscription is
// taken before the first page so no message falls between the two. If the
// first page fails the subscription is released and the error returned.
func Open(ctx context.Context, backend Backend, matchID int64, userID string, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("match_id", matchID)

	liveCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sub, err := backend.SubscribeMessages(liveCtx, matchID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to messages: %w", err)
	}

	s := &Session{
		matchID: matchID,
		userID:  userID,
		backend: backend,
		sub:     sub,
		logger:  logger,
		cancel:  cancel,
		done:    make(chan struct{}),
		state:   StateLoading,
	}

	if _, err := s.LoadMore(ctx); err != nil {
		cancel()
		if cerr := sub.Close(); cerr != nil {
			logger.Warn("Failed to close subscription", "error", cerr)
		}
		return nil, err
	}

	go s.listen(liveCtx)
	return s, nil
}

func (s *Session) MatchID() int64 {
	return s.matchID
}

// OnChange registers fn to be called after every change to the message list.
// fn runs without the session lock held and may call Messages or Close.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Messages returns a snapshot of the history, newest first.
func (s *Session) Messages() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AllLoaded reports whether the oldest message has been fetched.
func (s *Session) AllLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allLoaded
}

// LoadMore fetches the next older page and returns how many messages were
// added. It is a no-op once the history is exhausted or while another page
// is loading.
func (s *Session) LoadMore(ctx context.Context) (int, error) {
	s.mu.Lock()
	switch {
	case s.state == StateClosed:
		s.mu.Unlock()
		return 0, ErrClosed
	case s.allLoaded, s.state == StateLoadingMore:
		s.mu.Unlock()
		return 0, nil
	}
	page := s.nextPage
	if page > 0 {
		s.state = StateLoadingMore
	}
	s.mu.Unlock()

	rows, err := s.backend.ListMessages(ctx, s.matchID, page*PageSize, PageSize)

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return 0, ErrClosed
	}
	if page > 0 {
		s.state = StateReady
	}
	if err != nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("failed to fetch messages: %w", err)
	}
	if page == 0 {
		s.state = StateReady
	}

	s.nextPage++
	if len(rows) < PageSize {
		s.allLoaded = true
	}
	added := 0
	for _, row := range rows {
		// Live inserts shift offsets, so a page can repeat rows.
		if s.indexOfID(row.ID) >= 0 {
			continue
		}
		s.messages = append(s.messages, Entry{Message: row})
		added++
	}
	s.mu.Unlock()

	s.changed()
	return added, nil
}

// Send shows content immediately as a pending entry and stores it. On
// failure the pending entry is removed. On success it is replaced by the
// stored row, whether the confirmation or the live echo arrives first.
func (s *Session) Send(ctx context.Context, content string) (api.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return api.Message{}, ErrEmptyMessage
	}

	pending := Entry{
		Message: api.Message{
			MatchID:  s.matchID,
			SenderID: s.userID,
			Content:  content,
			ClientID: uuid.NewString(),
			SentAt:   time.Now().UnixMilli(),
			Sender:   api.Profile{ID: s.userID, Username: PendingSender},
		},
		Pending: true,
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return api.Message{}, ErrClosed
	}
	s.messages = append([]Entry{pending}, s.messages...)
	s.mu.Unlock()
	s.changed()

	msg, err := s.backend.SendMessage(ctx, s.matchID, content, pending.ClientID)

	s.mu.Lock()
	if err != nil {
		if i := s.indexOfPending(pending.ClientID); i >= 0 {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
		}
		s.mu.Unlock()
		s.changed()
		return api.Message{}, fmt.Errorf("failed to send message: %w", err)
	}
	if s.state != StateClosed {
		s.insert(msg)
	}
	s.mu.Unlock()

	s.changed()
	return msg, nil
}

// Close releases the subscription. Results that arrive afterwards are
// dropped. Close is safe to call more than once. Called from a change
// callback of a live message, it returns without waiting for the listener,
// which exits as soon as the callback returns.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	s.state = StateClosed
	s.mu.Unlock()

	s.cancel()
	err := s.sub.Close()
	if !s.notifying.Load() {
		<-s.done
	}
	return err
}

func (s *Session) listen(ctx context.Context) {
	defer close(s.done)
	events := s.sub.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				s.logger.Debug("Message subscription ended")
				return
			}
			s.receive(ctx, ev)
		}
	}
}

// receive fetches the full row behind a live event and merges it.
func (s *Session) receive(ctx context.Context, ev api.MessageEvent) {
	msg, err := s.backend.GetMessage(ctx, ev.MessageID)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Failed to fetch new message details", "message_id", ev.MessageID, "error", err)
		}
		return
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.insert(msg)
	s.mu.Unlock()

	s.notifying.Store(true)
	defer s.notifying.Store(false)
	s.changed()
}

// insert merges a stored row. Callers hold s.mu.
func (s *Session) insert(msg api.Message) {
	if s.indexOfID(msg.ID) >= 0 {
		return
	}
	if msg.SenderID == s.userID && msg.ClientID != "" {
		if i := s.indexOfPending(msg.ClientID); i >= 0 {
			s.messages[i] = Entry{Message: msg}
			return
		}
	}
	s.messages = append([]Entry{{Message: msg}}, s.messages...)
}

func (s *Session) indexOfID(id int64) int {
	for i, e := range s.messages {
		if !e.Pending && e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) indexOfPending(clientID string) int {
	for i, e := range s.messages {
		if e.Pending && e.ClientID == clientID {
			return i
		}
	}
	return -1
}

func (s *Session) changed() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
