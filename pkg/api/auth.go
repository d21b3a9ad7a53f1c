package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const AuthServiceName = "groupswipe.v1.AuthService"

const (
	AuthServiceRegisterProcedure          = "/groupswipe.v1.AuthService/Register"
	AuthServiceLoginProcedure             = "/groupswipe.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure    = "/groupswipe.v1.AuthService/GetCurrentUser"
	AuthServiceUpdateProfileProcedure     = "/groupswipe.v1.AuthService/UpdateProfile"
	AuthServiceRegisterPushTokenProcedure = "/groupswipe.v1.AuthService/RegisterPushToken"
)

// AuthServiceHandler is implemented by the server side of AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
	UpdateProfile(context.Context, *connect.Request[UpdateProfileRequest]) (*connect.Response[UpdateProfileResponse], error)
	RegisterPushToken(context.Context, *connect.Request[RegisterPushTokenRequest]) (*connect.Response[RegisterPushTokenResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		AuthServiceRegisterProcedure:          connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:             connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceGetCurrentUserProcedure:    connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
		AuthServiceUpdateProfileProcedure:     connect.NewUnaryHandler(AuthServiceUpdateProfileProcedure, svc.UpdateProfile, opts...),
		AuthServiceRegisterPushTokenProcedure: connect.NewUnaryHandler(AuthServiceRegisterPushTokenProcedure, svc.RegisterPushToken, opts...),
	}
	return "/" + AuthServiceName + "/", router(routes)
}

// AuthServiceClient is a client for AuthService.
type AuthServiceClient struct {
	register          *connect.Client[RegisterRequest, RegisterResponse]
	login             *connect.Client[LoginRequest, LoginResponse]
	getCurrentUser    *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
	updateProfile     *connect.Client[UpdateProfileRequest, UpdateProfileResponse]
	registerPushToken *connect.Client[RegisterPushTokenRequest, RegisterPushTokenResponse]
}

// NewAuthServiceClient constructs a client for the AuthService served at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &AuthServiceClient{
		register:          connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:             connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser:    connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
		updateProfile:     connect.NewClient[UpdateProfileRequest, UpdateProfileResponse](httpClient, baseURL+AuthServiceUpdateProfileProcedure, opts...),
		registerPushToken: connect.NewClient[RegisterPushTokenRequest, RegisterPushTokenResponse](httpClient, baseURL+AuthServiceRegisterPushTokenProcedure, opts...),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *AuthServiceClient) UpdateProfile(ctx context.Context, req *connect.Request[UpdateProfileRequest]) (*connect.Response[UpdateProfileResponse], error) {
	return c.updateProfile.CallUnary(ctx, req)
}

func (c *AuthServiceClient) RegisterPushToken(ctx context.Context, req *connect.Request[RegisterPushTokenRequest]) (*connect.Response[RegisterPushTokenResponse], error) {
	return c.registerPushToken.CallUnary(ctx, req)
}
