package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/duesbook/internal/auth"
	"github.com/mmynk/duesbook/internal/ledger"
	"github.com/mmynk/duesbook/internal/middleware"
	"github.com/mmynk/duesbook/internal/storage"
)

// AuthService implements account registration and login. Each registered
// account owns its own ledger tenant.
type AuthService struct {
	authenticator auth.Authenticator
	users         storage.UserQueries
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, users storage.UserQueries, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: authenticator,
		users:         users,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// NewAuthServiceHandler returns the path prefix and handler serving the
// AuthService. Register and Login are public; GetCurrentUser requires a token.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	protected := append(opts[:len(opts):len(opts)], connect.WithInterceptors(middleware.RequireAuth(svc.jwtManager)))

	mux := http.NewServeMux()
	mux.Handle(AuthServiceRegisterProcedure, unary(AuthServiceRegisterProcedure, svc.logger, svc.Register, opts))
	mux.Handle(AuthServiceLoginProcedure, unary(AuthServiceLoginProcedure, svc.logger, svc.Login, opts))
	mux.Handle(AuthServiceGetCurrentUserProcedure, unary(AuthServiceGetCurrentUserProcedure, svc.logger, svc.GetCurrentUser, protected))
	return "/" + AuthServiceName + "/", mux
}

// Register creates a new user account and returns a session token.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "tenant_id", user.TenantID)
	return connect.NewResponse(&AuthResponse{User: toUser(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return connect.NewResponse(&AuthResponse{User: toUser(user), Token: token}), nil
}

// GetCurrentUser returns the account the bearer token belongs to.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[UserResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ledger.ErrNotFound
	}
	return connect.NewResponse(&UserResponse{User: toUser(user)}), nil
}
