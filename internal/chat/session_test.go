package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupswipe/pkg/api"
)

const (
	me    = "user-me"
	other = "user-other"
)

var errBackend = errors.New("backend unavailable")

type fakeSubscription struct {
	events chan api.MessageEvent
	once   sync.Once
	closed chan struct{}
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{
		events: make(chan api.MessageEvent, 16),
		closed: make(chan struct{}),
	}
}

func (s *fakeSubscription) Events() <-chan api.MessageEvent { return s.events }

func (s *fakeSubscription) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func (s *fakeSubscription) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// fakeBackend stores messages of a single match and publishes an event for
// every insert, like the server does.
type fakeBackend struct {
	mu     sync.Mutex
	rows   []api.Message
	nextID int64
	sub    *fakeSubscription

	listCalls int
	listErr   error
	sendErr   error
	// sendGate, when set, holds SendMessage after the insert is published.
	sendGate chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{sub: newFakeSubscription()}
}

func (f *fakeBackend) seed(n int) {
	for i := 0; i < n; i++ {
		f.store(other, fmt.Sprintf("msg %d", i), "")
	}
}

func (f *fakeBackend) store(sender, content, clientID string) api.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	msg := api.Message{
		ID:       f.nextID,
		MatchID:  1,
		SenderID: sender,
		Content:  content,
		ClientID: clientID,
		SentAt:   1000 + f.nextID,
		Sender:   api.Profile{ID: sender, Username: sender},
	}
	f.rows = append(f.rows, msg)
	return msg
}

// publish stores a message and announces it on the live feed.
func (f *fakeBackend) publish(sender, content, clientID string) api.Message {
	msg := f.store(sender, content, clientID)
	f.sub.events <- api.MessageEvent{MatchID: 1, MessageID: msg.ID, SenderID: sender}
	return msg
}

func (f *fakeBackend) ListMessages(ctx context.Context, matchID int64, offset, limit int) ([]api.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	sorted := make([]api.Message, len(f.rows))
	copy(sorted, f.rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SentAt > sorted[j].SentAt })
	if offset >= len(sorted) {
		return []api.Message{}, nil
	}
	return sorted[offset:min(offset+limit, len(sorted))], nil
}

func (f *fakeBackend) GetMessage(ctx context.Context, messageID int64) (api.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.ID == messageID {
			return m, nil
		}
	}
	return api.Message{}, errors.New("not found")
}

func (f *fakeBackend) SendMessage(ctx context.Context, matchID int64, content, clientID string) (api.Message, error) {
	f.mu.Lock()
	sendErr, gate := f.sendErr, f.sendGate
	f.mu.Unlock()
	if sendErr != nil {
		return api.Message{}, sendErr
	}
	msg := f.publish(me, content, clientID)
	if gate != nil {
		<-gate
	}
	return msg, nil
}

func (f *fakeBackend) SubscribeMessages(ctx context.Context, matchID int64) (Subscription, error) {
	return f.sub, nil
}

func (f *fakeBackend) rowCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func openSession(t *testing.T, backend *fakeBackend) *Session {
	t.Helper()
	s, err := Open(context.Background(), backend, 1, me, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func contents(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Content
	}
	return out
}

func countContent(entries []Entry, content string) int {
	n := 0
	for _, e := range entries {
		if e.Content == content {
			n++
		}
	}
	return n
}

func TestPagination(t *testing.T) {
	backend := newFakeBackend()
	backend.seed(25)
	s := openSession(t, backend)

	assert.Equal(t, StateReady, s.State())
	msgs := s.Messages()
	require.Len(t, msgs, 20)
	assert.Equal(t, "msg 24", msgs[0].Content)
	assert.False(t, s.AllLoaded())

	added, err := s.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, added)
	assert.True(t, s.AllLoaded())
	assert.Equal(t, "msg 0", s.Messages()[24].Content)

	calls := backend.listCalls
	added, err = s.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Equal(t, calls, backend.listCalls)
}

func TestShortFirstPageExhausts(t *testing.T) {
	backend := newFakeBackend()
	backend.seed(3)
	s := openSession(t, backend)

	assert.True(t, s.AllLoaded())
	assert.Len(t, s.Messages(), 3)
}

func TestLoadMoreFailureKeepsPage(t *testing.T) {
	backend := newFakeBackend()
	backend.seed(30)
	s := openSession(t, backend)

	backend.mu.Lock()
	backend.listErr = errBackend
	backend.mu.Unlock()
	_, err := s.LoadMore(context.Background())
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, StateReady, s.State())

	backend.mu.Lock()
	backend.listErr = nil
	backend.mu.Unlock()
	added, err := s.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, added)
}

func TestLoadMoreSkipsShiftedRows(t *testing.T) {
	backend := newFakeBackend()
	backend.seed(40)
	s := openSession(t, backend)

	backend.publish(other, "live", "")
	require.Eventually(t, func() bool { return countContent(s.Messages(), "live") == 1 }, 2*time.Second, 10*time.Millisecond)

	// Page 1 now starts one row earlier than before the live insert.
	added, err := s.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 19, added)
	assert.Len(t, s.Messages(), 40)
	assert.Equal(t, 1, countContent(s.Messages(), "msg 20"))
}

func TestOpenFailureReleasesSubscription(t *testing.T) {
	backend := newFakeBackend()
	backend.listErr = errBackend

	s, err := Open(context.Background(), backend, 1, me, nil)
	assert.ErrorIs(t, err, errBackend)
	assert.Nil(t, s)
	assert.True(t, backend.sub.isClosed())
}

func TestLiveMessageFromOtherIsPrepended(t *testing.T) {
	backend := newFakeBackend()
	backend.seed(2)
	s := openSession(t, backend)

	changed := make(chan struct{}, 8)
	s.OnChange(func() { changed <- struct{}{} })

	backend.publish(other, "hello", "")

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification")
	}
	assert.Equal(t, []string{"hello", "msg 1", "msg 0"}, contents(s.Messages()))
}

func TestSendConfirmedByLiveEcho(t *testing.T) {
	backend := newFakeBackend()
	backend.sendGate = make(chan struct{})
	s := openSession(t, backend)

	sent := make(chan api.Message, 1)
	go func() {
		msg, err := s.Send(context.Background(), "  hi ")
		assert.NoError(t, err)
		sent <- msg
	}()

	// The echo arrives while the send call is still in flight.
	require.Eventually(t, func() bool {
		msgs := s.Messages()
		return len(msgs) == 1 && !msgs[0].Pending
	}, 2*time.Second, 10*time.Millisecond)

	close(backend.sendGate)
	msg := <-sent

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, msg.ID, msgs[0].ID)
	assert.False(t, msgs[0].Pending)
}

func TestSendShowsPendingEntry(t *testing.T) {
	backend := newFakeBackend()
	backend.seed(1)
	backend.sendGate = make(chan struct{})
	s := openSession(t, backend)
	// Stop the live feed so only the send confirmation resolves the entry.
	s.cancel()
	<-s.done

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.Send(context.Background(), "hi")
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool {
		msgs := s.Messages()
		return len(msgs) == 2 && msgs[0].Pending
	}, 2*time.Second, 10*time.Millisecond)

	pending := s.Messages()[0]
	assert.Equal(t, PendingSender, pending.Sender.Username)
	assert.NotEmpty(t, pending.ClientID)
	assert.Zero(t, pending.ID)

	close(backend.sendGate)
	<-done

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.False(t, msgs[0].Pending)
	assert.Equal(t, pending.ClientID, msgs[0].ClientID)
}

func TestConcurrentSendsReconcileByClientID(t *testing.T) {
	backend := newFakeBackend()
	s := openSession(t, backend)

	var wg sync.WaitGroup
	for _, text := range []string{"one", "two", "three"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Send(context.Background(), text)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool { return backend.rowCount() == 3 && len(s.Messages()) == 3 }, 2*time.Second, 10*time.Millisecond)
	// Let pending echoes drain.
	time.Sleep(50 * time.Millisecond)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	for _, text := range []string{"one", "two", "three"} {
		assert.Equal(t, 1, countContent(msgs, text))
	}
	for _, m := range msgs {
		assert.False(t, m.Pending)
		assert.NotZero(t, m.ID)
	}
}

func TestSendFailureRemovesPending(t *testing.T) {
	backend := newFakeBackend()
	backend.seed(1)
	backend.sendErr = errBackend
	s := openSession(t, backend)

	_, err := s.Send(context.Background(), "hi")
	assert.ErrorIs(t, err, errBackend)

	assert.Equal(t, []string{"msg 0"}, contents(s.Messages()))
	assert.Equal(t, 1, backend.rowCount())
}

func TestSendEmpty(t *testing.T) {
	s := openSession(t, newFakeBackend())

	_, err := s.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, s.Messages())
}

func TestClose(t *testing.T) {
	backend := newFakeBackend()
	s := openSession(t, backend)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, backend.sub.isClosed())
	assert.Equal(t, StateClosed, s.State())

	_, err := s.Send(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.LoadMore(context.Background())
	assert.ErrorIs(t, err, ErrClosed)

	// Events after close are ignored.
	backend.publish(other, "late", "")
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, s.Messages())
}

func TestCloseFromChangeCallback(t *testing.T) {
	backend := newFakeBackend()
	s := openSession(t, backend)

	closed := make(chan error, 4)
	s.OnChange(func() { closed <- s.Close() })

	backend.publish(other, "bye", "")

	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close from the change callback did not return")
	}
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not exit")
	}
	assert.True(t, backend.sub.isClosed())
	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, []string{"bye"}, contents(s.Messages()))
}
