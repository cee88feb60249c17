package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/birthdays/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService.
const AuthServiceName = "birthdays.v1.AuthService"

const (
	AuthServiceSignupProcedure = "/" + AuthServiceName + "/Signup"
	AuthServiceLoginProcedure  = "/" + AuthServiceName + "/Login"
)

// AuthServiceClient is a client for the AuthService.
type AuthServiceClient interface {
	Signup(context.Context, *connect.Request[api.SignupRequest]) (*connect.Response[api.SignupResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
}

// NewAuthServiceClient returns a client for the AuthService served at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		signup: connect.NewClient[api.SignupRequest, api.SignupResponse](httpClient, baseURL+AuthServiceSignupProcedure, opts...),
		login:  connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
	}
}

type authServiceClient struct {
	signup *connect.Client[api.SignupRequest, api.SignupResponse]
	login  *connect.Client[api.LoginRequest, api.LoginResponse]
}

func (c *authServiceClient) Signup(ctx context.Context, req *connect.Request[api.SignupRequest]) (*connect.Response[api.SignupResponse], error) {
	return c.signup.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

// AuthServiceHandler is the server side of the AuthService, which issues
// session tokens. Its procedures need no token.
type AuthServiceHandler interface {
	Signup(context.Context, *connect.Request[api.SignupRequest]) (*connect.Response[api.SignupResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + AuthServiceName + "/", route(map[string]http.Handler{
		AuthServiceSignupProcedure: connect.NewUnaryHandler(AuthServiceSignupProcedure, svc.Signup, opts...),
		AuthServiceLoginProcedure:  connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
	})
}
