package grpc

import (
	"context"

	"google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/KOSASIH/nexus-revoluter/internal/application"
)

// HealthServer exposes the ledger over the standard health protocol so
// orchestrators can probe readiness without knowing the domain.
type HealthServer struct {
	grpc_health_v1.UnimplementedHealthServer
	service *application.Service
}

func NewHealthServer(service *application.Service) *HealthServer {
	return &HealthServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc *HealthServer) {
	grpc_health_v1.RegisterHealthServer(server, svc)
}

func (s *HealthServer) Check(ctx context.Context, _ *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	if _, err := s.service.Paused(ctx); err != nil {
		return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING}, nil
}

func (s *HealthServer) Watch(_ *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	return stream.Send(&grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING})
}
