// internal/transport/grpcapi/server.go
package grpcapi

import (
	"net"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/gurkanbulca/taskboard/internal/middleware"
	"github.com/gurkanbulca/taskboard/internal/view"
)

// PublicMethods are served without a bearer token
var PublicMethods = []string{
	AuthService_SignUp_FullMethodName,
	AuthService_SignIn_FullMethodName,
	AuthService_Refresh_FullMethodName,
}

// ServerConfig holds the gRPC server switches
type ServerConfig struct {
	Reflection bool
}

// Server is a gRPC server with both services and the health service registered
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     logrus.FieldLogger
}

// NewServer builds the gRPC server with its interceptor chain
func NewServer(tasks view.TaskSource, authBackend AuthBackend, cfg ServerConfig, logger logrus.FieldLogger) *Server {
	logger = logger.WithField("component", "grpc")

	metadataExtractor := middleware.NewMetadataExtractorInterceptor()
	authInterceptor := middleware.NewAuthInterceptor(authBackend, PublicMethods, logger)

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			metadataExtractor.Unary(),
			middleware.RecoveryInterceptor(logger),
			authInterceptor.Unary(),
			middleware.LoggingInterceptor(logger),
		),
		grpc.ChainStreamInterceptor(
			metadataExtractor.Stream(),
			authInterceptor.Stream(),
		),
	)

	RegisterAuthServiceServer(grpcServer, NewAuthServer(authBackend))
	RegisterTaskServiceServer(grpcServer, NewTaskServer(tasks))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(AuthServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(TaskServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	if cfg.Reflection {
		reflection.Register(grpcServer)
		logger.Warn("gRPC reflection enabled (disable in production)")
	}

	return &Server{grpcServer: grpcServer, health: healthServer, logger: logger}
}

// Serve blocks accepting connections on lis
func (s *Server) Serve(lis net.Listener) error {
	s.logger.WithField("addr", lis.Addr().String()).Info("gRPC server listening")
	return s.grpcServer.Serve(lis)
}

// GracefulStop reports NOT_SERVING and waits for in-flight calls
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// Stop closes all connections immediately
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.Stop()
}
