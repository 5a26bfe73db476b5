package grpcx

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName: имя в health-check, пустое имя означает весь сервер.
const ServiceName = "chat.room.v1.Room"

// ReadinessProbe: готов ли сервер принимать подключения.
type ReadinessProbe func(ctx context.Context) error

// Server: ops-порт gRPC (health + reflection).
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	probe  ReadinessProbe
	log    *slog.Logger
}

func NewServer(probe ReadinessProbe, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	gs := grpc.NewServer(
		grpc.ChainUnaryInterceptor(UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(StreamServerInterceptor()),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	return &Server{grpc: gs, health: hs, probe: probe, log: log}
}

// Refresh выставляет статус по probe.
func (s *Server) Refresh(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.probe != nil {
		if err := s.probe(ctx); err != nil {
			s.log.Warn("grpc readiness probe failed", slog.Any("err", err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *Server) Serve(lis net.Listener) error {
	s.Refresh(context.Background())
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Stop: сначала NOT_SERVING, затем GracefulStop.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
