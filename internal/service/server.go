package service

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/mmynk/groupswipe/internal/auth"
	"github.com/mmynk/groupswipe/internal/middleware"
	"github.com/mmynk/groupswipe/pkg/api"
)

// Services bundles every Connect service served by the API.
type Services struct {
	Auth  *AuthService
	Group *GroupService
	Swipe *SwipeService
	Match *MatchService
	Chat  *ChatService
}

// Register mounts the services on mux. AuthService accepts anonymous calls
// (Register, Login); every other service requires a valid JWT.
func Register(mux *http.ServeMux, svcs Services, jwtManager *auth.JWTManager) {
	public := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)
	private := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)

	mux.Handle(api.NewAuthServiceHandler(svcs.Auth, public))
	mux.Handle(api.NewGroupServiceHandler(svcs.Group, private))
	mux.Handle(api.NewSwipeServiceHandler(svcs.Swipe, private))
	mux.Handle(api.NewMatchServiceHandler(svcs.Match, private))
	mux.Handle(api.NewChatServiceHandler(svcs.Chat, private))
}
