package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/mmynk/groupswipe/internal/auth"
	"github.com/mmynk/groupswipe/internal/models"
	"github.com/mmynk/groupswipe/internal/realtime"
	"github.com/mmynk/groupswipe/internal/storage/sqlite"
	"github.com/mmynk/groupswipe/pkg/api"
)

// recordingNotifier captures the messages handed to the push pipeline.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []models.Message
}

func (n *recordingNotifier) Notify(msg models.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

type testEnv struct {
	store    *sqlite.SQLiteStore
	hub      *realtime.Hub
	notifier *recordingNotifier
	server   *httptest.Server
	auth     *api.AuthServiceClient
}

// testUser is a registered account with clients that send its token.
type testUser struct {
	id      string
	token   string
	auth    *api.AuthServiceClient
	groups  *api.GroupServiceClient
	swipes  *api.SwipeServiceClient
	matches *api.MatchServiceClient
	chat    *api.ChatServiceClient
}

// bearerInterceptor attaches a token to unary calls and streams.
type bearerInterceptor struct{ token string }

func (b bearerInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		req.Header().Set("Authorization", "Bearer "+b.token)
		return next(ctx, req)
	}
}

func (b bearerInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(ctx context.Context, spec connect.Spec) connect.StreamingClientConn {
		conn := next(ctx, spec)
		conn.RequestHeader().Set("Authorization", "Bearer "+b.token)
		return conn
	}
}

func (b bearerInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}

// setupTestServer starts every service over a temp-file SQLite store.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	hub := realtime.NewHub(nil)
	notifier := &recordingNotifier{}

	mux := http.NewServeMux()
	Register(mux, Services{
		Auth:  NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, nil),
		Group: NewGroupService(store, time.Hour),
		Swipe: NewSwipeService(store),
		Match: NewMatchService(store),
		Chat:  NewChatService(store, hub, notifier),
	}, jwtManager)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		hub.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	})

	return &testEnv{
		store:    store,
		hub:      hub,
		notifier: notifier,
		server:   server,
		auth:     api.NewAuthServiceClient(server.Client(), server.URL),
	}
}

func (e *testEnv) register(t *testing.T, username string) *testUser {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Register %s failed: %v", username, err)
	}

	opt := connect.WithInterceptors(bearerInterceptor{token: resp.Msg.Token})
	httpClient := e.server.Client()
	return &testUser{
		id:      resp.Msg.User.ID,
		token:   resp.Msg.Token,
		auth:    api.NewAuthServiceClient(httpClient, e.server.URL, opt),
		groups:  api.NewGroupServiceClient(httpClient, e.server.URL, opt),
		swipes:  api.NewSwipeServiceClient(httpClient, e.server.URL, opt),
		matches: api.NewMatchServiceClient(httpClient, e.server.URL, opt),
		chat:    api.NewChatServiceClient(httpClient, e.server.URL, opt),
	}
}

// activeGroup creates a group owned by u and activates it.
func (u *testUser) activeGroup(t *testing.T, name string) string {
	t.Helper()
	ctx := context.Background()
	resp, err := u.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: name, Bio: name + " bio"}))
	if err != nil {
		t.Fatalf("CreateGroup %s failed: %v", name, err)
	}
	groupID := resp.Msg.Group.ID
	if _, err := u.groups.ActivateGroup(ctx, connect.NewRequest(&api.ActivateGroupRequest{GroupID: groupID})); err != nil {
		t.Fatalf("ActivateGroup %s failed: %v", name, err)
	}
	return groupID
}

func (u *testUser) like(t *testing.T, swiper, swiped string) {
	t.Helper()
	_, err := u.swipes.CreateSwipe(context.Background(), connect.NewRequest(&api.CreateSwipeRequest{
		SwiperGroupID: swiper,
		SwipedGroupID: swiped,
		Liked:         true,
	}))
	if err != nil {
		t.Fatalf("CreateSwipe %s->%s failed: %v", swiper, swiped, err)
	}
}

// matchedPair returns two users whose groups have matched.
func matchedPair(t *testing.T, env *testEnv) (alice, bob *testUser, groupA, groupB string, matchID int64) {
	t.Helper()
	alice = env.register(t, "alice")
	bob = env.register(t, "bob")
	groupA = alice.activeGroup(t, "Alpha")
	groupB = bob.activeGroup(t, "Bravo")
	alice.like(t, groupA, groupB)
	bob.like(t, groupB, groupA)

	resp, err := bob.matches.CreateMatch(context.Background(), connect.NewRequest(&api.CreateMatchRequest{
		Group1: groupB,
		Group2: groupA,
	}))
	if err != nil {
		t.Fatalf("CreateMatch failed: %v", err)
	}
	return alice, bob, groupA, groupB, resp.Msg.MatchID
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}
