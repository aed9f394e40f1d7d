package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/aitoolmap-server/internal/logger"
	"github.com/dtroode/aitoolmap-server/internal/model"
)

var (
	errMissingToken = errors.New("missing authorization token")
	errInvalidToken = errors.New("invalid authorization token")
)

// TokenParser resolves the identity carried by a bearer token.
type TokenParser interface {
	ParseAccessToken(token string) (model.Identity, error)
}

// Authenticate validates bearer tokens and injects the identity into context.
type Authenticate struct {
	tokens         TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization header, validates the token and returns
// a context carrying the caller identity.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var tokenString string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
			tokenString = strings.TrimPrefix(authHeaders[0], "Bearer ")
		}
	}

	identity, err := m.authenticate(tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: rejected call", "error", err.Error())
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return m.contextManager.SetIdentityToContext(ctx, identity), nil
}

func (m *Authenticate) authenticate(tokenString string) (model.Identity, error) {
	if tokenString == "" {
		return model.Identity{}, errMissingToken
	}

	identity, err := m.tokens.ParseAccessToken(tokenString)
	if err != nil || identity.UserID == uuid.Nil {
		return model.Identity{}, errInvalidToken
	}

	return identity, nil
}
