// Package client adapts the GroupSwipe Connect API to the interfaces of the
// client engine (deck, matchlist, chat and session).
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"connectrpc.com/connect"

	"github.com/mmynk/groupswipe/internal/chat"
	"github.com/mmynk/groupswipe/internal/deck"
	"github.com/mmynk/groupswipe/pkg/api"
)

// Client talks to one GroupSwipe server. Calls carry the token set with
// SetToken.
type Client struct {
	auth    *api.AuthServiceClient
	groups  *api.GroupServiceClient
	swipes  *api.SwipeServiceClient
	matches *api.MatchServiceClient
	chat    *api.ChatServiceClient

	mu    sync.RWMutex
	token string
}

func New(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	c := &Client{}
	opts = append(opts, connect.WithInterceptors(tokenInterceptor{c}))
	c.auth = api.NewAuthServiceClient(httpClient, baseURL, opts...)
	c.groups = api.NewGroupServiceClient(httpClient, baseURL, opts...)
	c.swipes = api.NewSwipeServiceClient(httpClient, baseURL, opts...)
	c.matches = api.NewMatchServiceClient(httpClient, baseURL, opts...)
	c.chat = api.NewChatServiceClient(httpClient, baseURL, opts...)
	return c
}

// SetToken sets the bearer token of later calls. An empty token makes calls
// anonymous.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// tokenInterceptor adds the Authorization header to unary calls and streams.
type tokenInterceptor struct{ c *Client }

func (i tokenInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if token := i.c.Token(); token != "" {
			req.Header().Set("Authorization", "Bearer "+token)
		}
		return next(ctx, req)
	}
}

func (i tokenInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(ctx context.Context, spec connect.Spec) connect.StreamingClientConn {
		conn := next(ctx, spec)
		if token := i.c.Token(); token != "" {
			conn.RequestHeader().Set("Authorization", "Bearer "+token)
		}
		return conn
	}
}

func (i tokenInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}

// Auth

func (c *Client) Register(ctx context.Context, email, username, password string) (api.User, string, error) {
	resp, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
	}))
	if err != nil {
		return api.User{}, "", err
	}
	return resp.Msg.User, resp.Msg.Token, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (api.User, string, error) {
	resp, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: email, Password: password}))
	if err != nil {
		return api.User{}, "", err
	}
	return resp.Msg.User, resp.Msg.Token, nil
}

func (c *Client) CurrentUser(ctx context.Context) (api.User, error) {
	resp, err := c.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	if err != nil {
		return api.User{}, err
	}
	return resp.Msg.User, nil
}

func (c *Client) RegisterPushToken(ctx context.Context, token string) error {
	_, err := c.auth.RegisterPushToken(ctx, connect.NewRequest(&api.RegisterPushTokenRequest{Token: token}))
	return err
}

// Groups

func (c *Client) ListMyGroups(ctx context.Context) ([]api.Group, error) {
	resp, err := c.groups.ListMyGroups(ctx, connect.NewRequest(&api.ListMyGroupsRequest{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Groups, nil
}

func (c *Client) CreateGroup(ctx context.Context, name, bio string) (api.Group, error) {
	resp, err := c.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: name, Bio: bio}))
	if err != nil {
		return api.Group{}, err
	}
	return resp.Msg.Group, nil
}

// GetGroup returns a group with its members and matches.
func (c *Client) GetGroup(ctx context.Context, groupID string) (api.Group, error) {
	resp, err := c.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: groupID}))
	if err != nil {
		return api.Group{}, err
	}
	return resp.Msg.Group, nil
}

func (c *Client) ActivateGroup(ctx context.Context, groupID string) (api.Group, error) {
	resp, err := c.groups.ActivateGroup(ctx, connect.NewRequest(&api.ActivateGroupRequest{GroupID: groupID}))
	if err != nil {
		return api.Group{}, err
	}
	return resp.Msg.Group, nil
}

func (c *Client) JoinGroup(ctx context.Context, code string) (api.Group, error) {
	resp, err := c.groups.JoinGroup(ctx, connect.NewRequest(&api.JoinGroupRequest{Code: code}))
	if err != nil {
		return api.Group{}, err
	}
	return resp.Msg.Group, nil
}

func (c *Client) CreateInvite(ctx context.Context, groupID string) (string, error) {
	resp, err := c.groups.CreateInvite(ctx, connect.NewRequest(&api.CreateInviteRequest{GroupID: groupID}))
	if err != nil {
		return "", err
	}
	return resp.Msg.Code, nil
}

// Swiping

func (c *Client) GroupsForSwiping(ctx context.Context, swipingGroupID string) ([]api.Candidate, error) {
	resp, err := c.swipes.GetGroupsForSwiping(ctx, connect.NewRequest(&api.GetGroupsForSwipingRequest{
		SwipingGroupID: swipingGroupID,
	}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Candidates, nil
}

func (c *Client) CreateSwipe(ctx context.Context, swiperGroupID, swipedGroupID string, liked bool) error {
	_, err := c.swipes.CreateSwipe(ctx, connect.NewRequest(&api.CreateSwipeRequest{
		SwiperGroupID: swiperGroupID,
		SwipedGroupID: swipedGroupID,
		Liked:         liked,
	}))
	return err
}

func (c *Client) QuerySwipe(ctx context.Context, swiperGroupID, swipedGroupID string, liked bool) (bool, error) {
	resp, err := c.swipes.QuerySwipe(ctx, connect.NewRequest(&api.QuerySwipeRequest{
		SwiperGroupID: swiperGroupID,
		SwipedGroupID: swipedGroupID,
		Liked:         liked,
	}))
	if err != nil {
		return false, err
	}
	return resp.Msg.Exists, nil
}

// Matches

// CreateMatch returns an error wrapping deck.ErrMatchExists when the pair
// already matched.
func (c *Client) CreateMatch(ctx context.Context, group1, group2 string) (int64, error) {
	resp, err := c.matches.CreateMatch(ctx, connect.NewRequest(&api.CreateMatchRequest{Group1: group1, Group2: group2}))
	if connect.CodeOf(err) == connect.CodeAlreadyExists {
		return 0, fmt.Errorf("%w: %w", deck.ErrMatchExists, err)
	}
	if err != nil {
		return 0, err
	}
	return resp.Msg.MatchID, nil
}

// FindMatch returns an error wrapping deck.ErrNoMatch when the pair has not
// matched.
func (c *Client) FindMatch(ctx context.Context, groupA, groupB string) (int64, error) {
	resp, err := c.matches.FindMatch(ctx, connect.NewRequest(&api.FindMatchRequest{GroupA: groupA, GroupB: groupB}))
	if connect.CodeOf(err) == connect.CodeNotFound {
		return 0, fmt.Errorf("%w: %w", deck.ErrNoMatch, err)
	}
	if err != nil {
		return 0, err
	}
	return resp.Msg.MatchID, nil
}

func (c *Client) MatchListDetails(ctx context.Context) ([]api.MatchSummary, error) {
	resp, err := c.matches.GetMatchListDetails(ctx, connect.NewRequest(&api.GetMatchListDetailsRequest{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Matches, nil
}

func (c *Client) MatchDetails(ctx context.Context, matchID int64) (*api.GetMatchDetailsResponse, error) {
	resp, err := c.matches.GetMatchDetails(ctx, connect.NewRequest(&api.GetMatchDetailsRequest{MatchID: matchID}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// Chat

func (c *Client) ListMessages(ctx context.Context, matchID int64, offset, limit int) ([]api.Message, error) {
	resp, err := c.chat.ListMessages(ctx, connect.NewRequest(&api.ListMessagesRequest{
		MatchID: matchID,
		Offset:  offset,
		Limit:   limit,
	}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Messages, nil
}

func (c *Client) GetMessage(ctx context.Context, messageID int64) (api.Message, error) {
	resp, err := c.chat.GetMessage(ctx, connect.NewRequest(&api.GetMessageRequest{MessageID: messageID}))
	if err != nil {
		return api.Message{}, err
	}
	return resp.Msg.Message, nil
}

func (c *Client) SendMessage(ctx context.Context, matchID int64, content, clientID string) (api.Message, error) {
	resp, err := c.chat.SendMessage(ctx, connect.NewRequest(&api.SendMessageRequest{
		MatchID:  matchID,
		Content:  content,
		ClientID: clientID,
	}))
	if err != nil {
		return api.Message{}, err
	}
	return resp.Msg.Message, nil
}

// SubscribeMessages opens the live feed of a match and returns once the
// server acknowledged the subscription.
func (c *Client) SubscribeMessages(ctx context.Context, matchID int64) (chat.Subscription, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := c.chat.SubscribeMessages(streamCtx, connect.NewRequest(&api.SubscribeMessagesRequest{MatchID: matchID}))
	if err != nil {
		cancel()
		return nil, err
	}

	if !stream.Receive() {
		err := stream.Err()
		if err == nil {
			err = errors.New("stream closed before subscription was acknowledged")
		}
		stream.Close()
		cancel()
		return nil, err
	}

	sub := &subscription{
		events: make(chan api.MessageEvent),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go sub.run(streamCtx, stream)
	return sub, nil
}

type subscription struct {
	events chan api.MessageEvent
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *subscription) run(ctx context.Context, stream *connect.ServerStreamForClient[api.MessageEvent]) {
	defer close(s.done)
	defer close(s.events)
	defer stream.Close()

	for stream.Receive() {
		ev := stream.Msg()
		if ev.Subscribed {
			continue
		}
		select {
		case s.events <- *ev:
		case <-ctx.Done():
			return
		}
	}
}

func (s *subscription) Events() <-chan api.MessageEvent {
	return s.events
}

func (s *subscription) Close() error {
	s.cancel()
	<-s.done
	return nil
}
