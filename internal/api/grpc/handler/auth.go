package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/aitoolmap-server/internal/api/grpc/proto"
	"github.com/dtroode/aitoolmap-server/internal/logger"
	"github.com/dtroode/aitoolmap-server/internal/model"
)

// AuthService defines account creation, credential checks and token issuing.
type AuthService interface {
	Register(ctx context.Context, email, password string) (model.Identity, error)
	Authenticate(ctx context.Context, email, password string) (model.Identity, error)
	IssueToken(identity model.Identity) (string, error)
}

// Auth handles gRPC endpoints for authentication.
type Auth struct {
	proto.UnimplementedAuthServer
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

// SignUp creates an account and returns an access token for it.
func (h *Auth) SignUp(ctx context.Context, req *proto.SignUpRequest) (*proto.AuthResponse, error) {
	h.logger.Debug("Auth handler: processing sign up request", "email", req.Email)

	identity, err := h.authService.Register(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: sign up failed",
			"email", req.Email,
			"error", err.Error())
		return nil, handleSignUpError(err)
	}

	return h.respond(identity)
}

// SignIn checks credentials and returns an access token.
func (h *Auth) SignIn(ctx context.Context, req *proto.SignInRequest) (*proto.AuthResponse, error) {
	h.logger.Debug("Auth handler: processing sign in request", "email", req.Email)

	identity, err := h.authService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: sign in failed",
			"email", req.Email,
			"error", err.Error())
		return nil, handleSignInError(err)
	}

	return h.respond(identity)
}

func (h *Auth) respond(identity model.Identity) (*proto.AuthResponse, error) {
	token, err := h.authService.IssueToken(identity)
	if err != nil {
		h.logger.Error("Auth handler: failed to issue token",
			"user_id", identity.UserID,
			"error", err.Error())
		return nil, status.Error(codes.Internal, "internal server error")
	}

	h.logger.Info("Auth handler: token issued", "user_id", identity.UserID)
	return &proto.AuthResponse{
		AccessToken: token,
		UserID:      identity.UserID.String(),
		Email:       identity.Email,
	}, nil
}
