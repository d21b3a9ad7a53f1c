package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const MatchServiceName = "groupswipe.v1.MatchService"

const (
	MatchServiceCreateMatchProcedure         = "/groupswipe.v1.MatchService/CreateMatch"
	MatchServiceFindMatchProcedure           = "/groupswipe.v1.MatchService/FindMatch"
	MatchServiceGetMatchListDetailsProcedure = "/groupswipe.v1.MatchService/GetMatchListDetails"
	MatchServiceGetMatchDetailsProcedure     = "/groupswipe.v1.MatchService/GetMatchDetails"
)

// MatchServiceHandler is implemented by the server side of MatchService.
type MatchServiceHandler interface {
	CreateMatch(context.Context, *connect.Request[CreateMatchRequest]) (*connect.Response[CreateMatchResponse], error)
	FindMatch(context.Context, *connect.Request[FindMatchRequest]) (*connect.Response[FindMatchResponse], error)
	GetMatchListDetails(context.Context, *connect.Request[GetMatchListDetailsRequest]) (*connect.Response[GetMatchListDetailsResponse], error)
	GetMatchDetails(context.Context, *connect.Request[GetMatchDetailsRequest]) (*connect.Response[GetMatchDetailsResponse], error)
}

// NewMatchServiceHandler builds an HTTP handler from the service implementation.
func NewMatchServiceHandler(svc MatchServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		MatchServiceCreateMatchProcedure:         connect.NewUnaryHandler(MatchServiceCreateMatchProcedure, svc.CreateMatch, opts...),
		MatchServiceFindMatchProcedure:           connect.NewUnaryHandler(MatchServiceFindMatchProcedure, svc.FindMatch, opts...),
		MatchServiceGetMatchListDetailsProcedure: connect.NewUnaryHandler(MatchServiceGetMatchListDetailsProcedure, svc.GetMatchListDetails, opts...),
		MatchServiceGetMatchDetailsProcedure:     connect.NewUnaryHandler(MatchServiceGetMatchDetailsProcedure, svc.GetMatchDetails, opts...),
	}
	return "/" + MatchServiceName + "/", router(routes)
}

// MatchServiceClient is a client for MatchService.
type MatchServiceClient struct {
	createMatch         *connect.Client[CreateMatchRequest, CreateMatchResponse]
	findMatch           *connect.Client[FindMatchRequest, FindMatchResponse]
	getMatchListDetails *connect.Client[GetMatchListDetailsRequest, GetMatchListDetailsResponse]
	getMatchDetails     *connect.Client[GetMatchDetailsRequest, GetMatchDetailsResponse]
}

func NewMatchServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *MatchServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &MatchServiceClient{
		createMatch:         connect.NewClient[CreateMatchRequest, CreateMatchResponse](httpClient, baseURL+MatchServiceCreateMatchProcedure, opts...),
		findMatch:           connect.NewClient[FindMatchRequest, FindMatchResponse](httpClient, baseURL+MatchServiceFindMatchProcedure, opts...),
		getMatchListDetails: connect.NewClient[GetMatchListDetailsRequest, GetMatchListDetailsResponse](httpClient, baseURL+MatchServiceGetMatchListDetailsProcedure, opts...),
		getMatchDetails:     connect.NewClient[GetMatchDetailsRequest, GetMatchDetailsResponse](httpClient, baseURL+MatchServiceGetMatchDetailsProcedure, opts...),
	}
}

func (c *MatchServiceClient) CreateMatch(ctx context.Context, req *connect.Request[CreateMatchRequest]) (*connect.Response[CreateMatchResponse], error) {
	return c.createMatch.CallUnary(ctx, req)
}

func (c *MatchServiceClient) FindMatch(ctx context.Context, req *connect.Request[FindMatchRequest]) (*connect.Response[FindMatchResponse], error) {
	return c.findMatch.CallUnary(ctx, req)
}

func (c *MatchServiceClient) GetMatchListDetails(ctx context.Context, req *connect.Request[GetMatchListDetailsRequest]) (*connect.Response[GetMatchListDetailsResponse], error) {
	return c.getMatchListDetails.CallUnary(ctx, req)
}

func (c *MatchServiceClient) GetMatchDetails(ctx context.Context, req *connect.Request[GetMatchDetailsRequest]) (*connect.Response[GetMatchDetailsResponse], error) {
	return c.getMatchDetails.CallUnary(ctx, req)
}
