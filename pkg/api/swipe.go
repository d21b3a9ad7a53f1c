package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const SwipeServiceName = "groupswipe.v1.SwipeService"

const (
	SwipeServiceGetGroupsForSwipingProcedure = "/groupswipe.v1.SwipeService/GetGroupsForSwiping"
	SwipeServiceCreateSwipeProcedure         = "/groupswipe.v1.SwipeService/CreateSwipe"
	SwipeServiceQuerySwipeProcedure          = "/groupswipe.v1.SwipeService/QuerySwipe"
)

// SwipeServiceHandler is implemented by the server side of SwipeService.
type SwipeServiceHandler interface {
	GetGroupsForSwiping(context.Context, *connect.Request[GetGroupsForSwipingRequest]) (*connect.Response[GetGroupsForSwipingResponse], error)
	CreateSwipe(context.Context, *connect.Request[CreateSwipeRequest]) (*connect.Response[CreateSwipeResponse], error)
	QuerySwipe(context.Context, *connect.Request[QuerySwipeRequest]) (*connect.Response[QuerySwipeResponse], error)
}

// NewSwipeServiceHandler builds an HTTP handler from the service implementation.
func NewSwipeServiceHandler(svc SwipeServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		SwipeServiceGetGroupsForSwipingProcedure: connect.NewUnaryHandler(SwipeServiceGetGroupsForSwipingProcedure, svc.GetGroupsForSwiping, opts...),
		SwipeServiceCreateSwipeProcedure:         connect.NewUnaryHandler(SwipeServiceCreateSwipeProcedure, svc.CreateSwipe, opts...),
		SwipeServiceQuerySwipeProcedure:          connect.NewUnaryHandler(SwipeServiceQuerySwipeProcedure, svc.QuerySwipe, opts...),
	}
	return "/" + SwipeServiceName + "/", router(routes)
}

// SwipeServiceClient is a client for SwipeService.
type SwipeServiceClient struct {
	getGroupsForSwiping *connect.Client[GetGroupsForSwipingRequest, GetGroupsForSwipingResponse]
	createSwipe         *connect.Client[CreateSwipeRequest, CreateSwipeResponse]
	querySwipe          *connect.Client[QuerySwipeRequest, QuerySwipeResponse]
}

func NewSwipeServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SwipeServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &SwipeServiceClient{
		getGroupsForSwiping: connect.NewClient[GetGroupsForSwipingRequest, GetGroupsForSwipingResponse](httpClient, baseURL+SwipeServiceGetGroupsForSwipingProcedure, opts...),
		createSwipe:         connect.NewClient[CreateSwipeRequest, CreateSwipeResponse](httpClient, baseURL+SwipeServiceCreateSwipeProcedure, opts...),
		querySwipe:          connect.NewClient[QuerySwipeRequest, QuerySwipeResponse](httpClient, baseURL+SwipeServiceQuerySwipeProcedure, opts...),
	}
}

func (c *SwipeServiceClient) GetGroupsForSwiping(ctx context.Context, req *connect.Request[GetGroupsForSwipingRequest]) (*connect.Response[GetGroupsForSwipingResponse], error) {
	return c.getGroupsForSwiping.CallUnary(ctx, req)
}

func (c *SwipeServiceClient) CreateSwipe(ctx context.Context, req *connect.Request[CreateSwipeRequest]) (*connect.Response[CreateSwipeResponse], error) {
	return c.createSwipe.CallUnary(ctx, req)
}

func (c *SwipeServiceClient) QuerySwipe(ctx context.Context, req *connect.Request[QuerySwipeRequest]) (*connect.Response[QuerySwipeResponse], error) {
	return c.querySwipe.CallUnary(ctx, req)
}
