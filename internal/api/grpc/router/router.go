package router

import (
	authProto "github.com/dtroode/gophkeeper-auth/server/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/gophkeeper-sessions/internal/api/grpc/handler"
	"github.com/dtroode/gophkeeper-sessions/internal/api/grpc/middleware"
	"github.com/dtroode/gophkeeper-sessions/internal/logger"
)

// Router represents a gRPC router for the session service.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	authService handler.AuthService
	sessions    handler.SessionService
	health      *health.Server
	logger      *logger.Logger
}

// New creates new gRPC Router instance.
//
// Parameters:
//   - authService: The SCRAM registration and login service
//   - sessions: The refresh token lifecycle engine
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	authService handler.AuthService,
	sessions handler.SessionService,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService: authService,
		sessions:    sessions,
		health:      health.NewServer(),
		logger:      logger,
	}
}

// Register registers all gRPC services and middleware.
// Panics are recovered before they reach the logging interceptor so every
// request is logged with its final status.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			middleware.NewRecovery(r.logger),
		),
	)
	r.registerAuthRoutes(s)

	healthpb.RegisterHealthServer(s, r.health)
	r.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(s)

	return s
}

// Shutdown marks every service as not serving.
func (r *Router) Shutdown() {
	r.health.Shutdown()
}

func (r *Router) registerAuthRoutes(server *grpc.Server) {
	authHandler := handler.NewAuth(r.authService, r.sessions, r.logger)
	authProto.RegisterAuthServer(server, authHandler)
}
