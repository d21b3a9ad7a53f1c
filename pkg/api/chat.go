package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const ChatServiceName = "groupswipe.v1.ChatService"

const (
	ChatServiceListMessagesProcedure      = "/groupswipe.v1.ChatService/ListMessages"
	ChatServiceGetMessageProcedure        = "/groupswipe.v1.ChatService/GetMessage"
	ChatServiceSendMessageProcedure       = "/groupswipe.v1.ChatService/SendMessage"
	ChatServiceSubscribeMessagesProcedure = "/groupswipe.v1.ChatService/SubscribeMessages"
)

// ChatServiceHandler is implemented by the server side of ChatService.
type ChatServiceHandler interface {
	ListMessages(context.Context, *connect.Request[ListMessagesRequest]) (*connect.Response[ListMessagesResponse], error)
	GetMessage(context.Context, *connect.Request[GetMessageRequest]) (*connect.Response[GetMessageResponse], error)
	SendMessage(context.Context, *connect.Request[SendMessageRequest]) (*connect.Response[SendMessageResponse], error)
	SubscribeMessages(context.Context, *connect.Request[SubscribeMessagesRequest], *connect.ServerStream[MessageEvent]) error
}

// NewChatServiceHandler builds an HTTP handler from the service implementation.
func NewChatServiceHandler(svc ChatServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		ChatServiceListMessagesProcedure:      connect.NewUnaryHandler(ChatServiceListMessagesProcedure, svc.ListMessages, opts...),
		ChatServiceGetMessageProcedure:        connect.NewUnaryHandler(ChatServiceGetMessageProcedure, svc.GetMessage, opts...),
		ChatServiceSendMessageProcedure:       connect.NewUnaryHandler(ChatServiceSendMessageProcedure, svc.SendMessage, opts...),
		ChatServiceSubscribeMessagesProcedure: connect.NewServerStreamHandler(ChatServiceSubscribeMessagesProcedure, svc.SubscribeMessages, opts...),
	}
	return "/" + ChatServiceName + "/", router(routes)
}

// ChatServiceClient is a client for ChatService.
type ChatServiceClient struct {
	listMessages      *connect.Client[ListMessagesRequest, ListMessagesResponse]
	getMessage        *connect.Client[GetMessageRequest, GetMessageResponse]
	sendMessage       *connect.Client[SendMessageRequest, SendMessageResponse]
	subscribeMessages *connect.Client[SubscribeMessagesRequest, MessageEvent]
}

func NewChatServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ChatServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ChatServiceClient{
		listMessages:      connect.NewClient[ListMessagesRequest, ListMessagesResponse](httpClient, baseURL+ChatServiceListMessagesProcedure, opts...),
		getMessage:        connect.NewClient[GetMessageRequest, GetMessageResponse](httpClient, baseURL+ChatServiceGetMessageProcedure, opts...),
		sendMessage:       connect.NewClient[SendMessageRequest, SendMessageResponse](httpClient, baseURL+ChatServiceSendMessageProcedure, opts...),
		subscribeMessages: connect.NewClient[SubscribeMessagesRequest, MessageEvent](httpClient, baseURL+ChatServiceSubscribeMessagesProcedure, opts...),
	}
}

func (c *ChatServiceClient) ListMessages(ctx context.Context, req *connect.Request[ListMessagesRequest]) (*connect.Response[ListMessagesResponse], error) {
	return c.listMessages.CallUnary(ctx, req)
}

func (c *ChatServiceClient) GetMessage(ctx context.Context, req *connect.Request[GetMessageRequest]) (*connect.Response[GetMessageResponse], error) {
	return c.getMessage.CallUnary(ctx, req)
}

func (c *ChatServiceClient) SendMessage(ctx context.Context, req *connect.Request[SendMessageRequest]) (*connect.Response[SendMessageResponse], error) {
	return c.sendMessage.CallUnary(ctx, req)
}

// SubscribeMessages opens the live feed of a match. The caller must Close the
// returned stream.
func (c *ChatServiceClient) SubscribeMessages(ctx context.Context, req *connect.Request[SubscribeMessagesRequest]) (*connect.ServerStreamForClient[MessageEvent], error) {
	return c.subscribeMessages.CallServerStream(ctx, req)
}
