package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"connectrpc.com/connect"
	"github.com/mmynk/groupswipe/internal/metrics"
	"github.com/mmynk/groupswipe/internal/models"
	"github.com/mmynk/groupswipe/internal/realtime"
	"github.com/mmynk/groupswipe/internal/storage"
	"github.com/mmynk/groupswipe/pkg/api"
)

const (
	defaultPageSize   = 20
	maxPageSize       = 100
	maxMessageLength  = 2000
	maxClientIDLength = 64
)

// MessageNotifier is handed every stored message for out-of-band delivery
// such as push notifications. Notify must not block.
type MessageNotifier interface {
	Notify(msg models.Message)
}

// ChatService implements the Connect ChatService.
type ChatService struct {
	store    storage.Store
	broker   realtime.Broker
	notifier MessageNotifier
}

// NewChatService creates a ChatService. notifier may be nil.
func NewChatService(store storage.Store, broker realtime.Broker, notifier MessageNotifier) *ChatService {
	return &ChatService{store: store, broker: broker, notifier: notifier}
}

// ListMessages returns one page of a match's history, newest first.
func (s *ChatService) ListMessages(ctx context.Context, req *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	slog.Info("ListMessages request received", "match_id", msg.MatchID, "offset", msg.Offset, "limit", msg.Limit)

	if msg.Offset < 0 {
		return nil, invalidArgument("offset must not be negative")
	}
	limit := msg.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if _, err := requireParticipant(ctx, s.store, msg.MatchID, userID); err != nil {
		return nil, toConnectError(err)
	}
	messages, err := s.store.ListMessages(ctx, msg.MatchID, msg.Offset, limit)
	if err != nil {
		slog.Error("ListMessages failed", "match_id", msg.MatchID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.ListMessagesResponse{Messages: make([]api.Message, 0, len(messages))}
	for i := range messages {
		resp.Messages = append(resp.Messages, toAPIMessage(&messages[i]))
	}
	return connect.NewResponse(resp), nil
}

// GetMessage returns a single message with its sender profile.
func (s *ChatService) GetMessage(ctx context.Context, req *connect.Request[api.GetMessageRequest]) (*connect.Response[api.GetMessageResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetMessage request received", "message_id", req.Msg.MessageID)

	message, err := s.store.GetMessage(ctx, req.Msg.MessageID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := requireParticipant(ctx, s.store, message.MatchID, userID); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetMessageResponse{Message: toAPIMessage(message)}), nil
}

// SendMessage stores a message from the caller, announces it to live
// subscribers and hands it to the notifier. The client_id correlation id is
// stored and echoed so the sender can reconcile its optimistic entry.
func (s *ChatService) SendMessage(ctx context.Context, req *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	slog.Info("SendMessage request received", "match_id", msg.MatchID, "user_id", userID)

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return nil, invalidArgument("message content is required")
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, invalidArgument("message exceeds %d characters", maxMessageLength)
	}
	if len(msg.ClientID) > maxClientIDLength {
		return nil, invalidArgument("client id exceeds %d bytes", maxClientIDLength)
	}

	if _, err := requireParticipant(ctx, s.store, msg.MatchID, userID); err != nil {
		return nil, toConnectError(err)
	}

	message := &models.Message{
		MatchID:  msg.MatchID,
		SenderID: userID,
		Content:  content,
		ClientID: msg.ClientID,
	}
	if err := s.store.CreateMessage(ctx, message); err != nil {
		slog.Error("SendMessage failed", "match_id", msg.MatchID, "error", err)
		return nil, toConnectError(err)
	}
	metrics.MessagesSent.Inc()

	// The row is committed; a failed publish only delays live delivery until
	// the next page load.
	event := realtime.Event{MatchID: message.MatchID, MessageID: message.ID, SenderID: message.SenderID}
	if err := s.broker.Publish(context.WithoutCancel(ctx), event); err != nil {
		slog.Warn("Failed to publish message event", "message_id", message.ID, "error", err)
	}
	if s.notifier != nil {
		s.notifier.Notify(*message)
	}

	slog.Info("Message sent", "match_id", message.MatchID, "message_id", message.ID)
	return connect.NewResponse(&api.SendMessageResponse{Message: toAPIMessage(message)}), nil
}

// SubscribeMessages streams one event per message inserted into the match.
// The first frame acknowledges that the subscription is live, so messages
// sent after the client receives it are never missed.
func (s *ChatService) SubscribeMessages(ctx context.Context, req *connect.Request[api.SubscribeMessagesRequest], stream *connect.ServerStream[api.MessageEvent]) error {
	userID, err := requireUser(ctx)
	if err != nil {
		return err
	}
	matchID := req.Msg.MatchID
	slog.Info("SubscribeMessages request received", "match_id", matchID, "user_id", userID)

	if _, err := requireParticipant(ctx, s.store, matchID, userID); err != nil {
		return toConnectError(err)
	}

	sub, err := s.broker.Subscribe(ctx, matchID)
	if err != nil {
		if errors.Is(err, realtime.ErrBrokerClosed) {
			return connect.NewError(connect.CodeUnavailable, err)
		}
		return toConnectError(err)
	}
	defer sub.Close()

	metrics.LiveSubscribers.Inc()
	defer metrics.LiveSubscribers.Dec()

	if err := stream.Send(&api.MessageEvent{Subscribed: true, MatchID: matchID}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Subscriber disconnected", "match_id", matchID, "user_id", userID)
			return nil
		case event, ok := <-sub.Events():
			if !ok {
				return connect.NewError(connect.CodeUnavailable, errors.New("message feed closed"))
			}
			err := stream.Send(&api.MessageEvent{
				MatchID:   event.MatchID,
				MessageID: event.MessageID,
				SenderID:  event.SenderID,
			})
			if err != nil {
				return err
			}
		}
	}
}
