package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"

	"github.com/dtroode/aitoolmap-server/internal/api/grpc/handler"
	"github.com/dtroode/aitoolmap-server/internal/api/grpc/middleware"
	"github.com/dtroode/aitoolmap-server/internal/api/grpc/proto"
	"github.com/dtroode/aitoolmap-server/internal/logger"
	"github.com/dtroode/aitoolmap-server/internal/model"
)

// Router wires the toolmap.v1 services and their interceptors.
type Router struct {
	authService    handler.AuthService
	library        handler.Library
	exporter       handler.Exporter
	tokens         middleware.TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates a new gRPC Router instance.
func New(
	authService handler.AuthService,
	library handler.Library,
	exporter handler.Exporter,
	tokens middleware.TokenParser,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		library:        library,
		exporter:       exporter,
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
	}
}

func authSkip(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), "/"+proto.Auth_ServiceDesc.ServiceName+"/")
}

// Register builds a gRPC server with request logging and bearer
// authentication for every service except Auth.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)

	opts = append([]grpc.ServerOption{
		grpc.ForceServerCodec(proto.Codec{}),
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authSkip),
			),
		),
	}, opts...)

	s := grpc.NewServer(opts...)
	proto.RegisterAuthServer(s, handler.NewAuth(r.authService, r.logger))
	proto.RegisterToolMapServer(s, handler.NewToolMap(r.library, r.exporter, r.contextManager, r.logger))

	return s
}
