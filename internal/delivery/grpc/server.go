package grpc

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"shop-service/internal/infrastructure/logger"
)

// Server exposes grpc.health.v1 for orchestrator health checks and, once
// registered, the OrderService. The overall status ("") and the named
// service follow SetServing / Shutdown.
type Server struct {
	server  *grpc.Server
	health  *health.Server
	service string
	logger  *logger.Logger
}

func NewServer(service string, logger *logger.Logger) *Server {
	s := &Server{
		health:  health.NewServer(),
		service: service,
		logger:  logger,
	}

	s.server = grpc.NewServer(
		grpc.UnaryInterceptor(s.loggingInterceptor()),
	)
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// RegisterOrderService must be called before Serve.
func (s *Server) RegisterOrderService(srv OrderServiceServer) {
	s.server.RegisterService(&orderServiceDesc, srv)
}

func (s *Server) Listen(port string) (net.Listener, error) {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %s: %w", port, err)
	}
	return lis, nil
}

func (s *Server) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

func (s *Server) SetServing() {
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
}

// Shutdown flips health to NOT_SERVING and then drains in-flight calls.
func (s *Server) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.logger.Info("Stopping gRPC server gracefully")
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Graceful gRPC shutdown timeout, forcing stop")
		s.server.Stop()
	}
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.service, status)
}

func (s *Server) loggingInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		s.logger.Debug("gRPC method called", "method", info.FullMethod)
		resp, err := handler(ctx, req)
		if err != nil {
			s.logger.Error("gRPC method failed", "method", info.FullMethod, "error", err)
		} else {
			s.logger.Debug("gRPC method completed", "method", info.FullMethod)
		}
		return resp, err
	}
}
