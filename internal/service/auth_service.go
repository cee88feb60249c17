package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/birthdays/internal/auth"
	"github.com/mmynk/birthdays/pkg/api"
	"github.com/mmynk/birthdays/pkg/api/apiconnect"
)

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Signup creates a new user account and logs it in.
func (s *AuthService) Signup(ctx context.Context, req *connect.Request[api.SignupRequest]) (*connect.Response[api.SignupResponse], error) {
	s.logger.Info("Signup request", "mobile", req.Msg.Mobile)

	user, err := s.authenticator.Register(ctx, req.Msg.Name, req.Msg.Mobile, req.Msg.DOB)
	if err != nil {
		s.logger.Warn("Signup failed", "mobile", req.Msg.Mobile, "error", err)
		return nil, toConnectError("signup", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User signed up", "user_id", user.ID)
	return connect.NewResponse(&api.SignupResponse{User: toAPIUser(user), Token: token}), nil
}

// Login matches mobile and date of birth and returns a session token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "mobile", req.Msg.Mobile)

	if req.Msg.Mobile == "" || req.Msg.DOB == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Mobile, req.Msg.DOB)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.logger.Warn("Login failed", "mobile", req.Msg.Mobile)
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}
	if err != nil {
		s.logger.Error("Login failed", "mobile", req.Msg.Mobile, "error", err)
		return nil, toConnectError("login", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return connect.NewResponse(&api.LoginResponse{User: toAPIUser(user), Token: token}), nil
}
