package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// KYCOracleClient fronts the external identity oracle. The oracle's
// verdict API is not live yet; until it ships, any account passes as
// long as the oracle endpoint reports serving. A dead oracle fails
// closed.
type KYCOracleClient struct {
	conn   *grpc.ClientConn
	health grpc_health_v1.HealthClient
}

func NewKYCOracleClient(target string) (*KYCOracleClient, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &KYCOracleClient{conn: conn, health: grpc_health_v1.NewHealthClient(conn)}, nil
}

func (c *KYCOracleClient) Verify(ctx context.Context, account string) (bool, error) {
	_ = account
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	resp, err := c.health.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		return false, err
	}
	return resp.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING, nil
}

func (c *KYCOracleClient) Close() error {
	return c.conn.Close()
}

// PermissiveKYC approves every account. Default when no oracle is
// configured.
type PermissiveKYC struct{}

func (PermissiveKYC) Verify(_ context.Context, _ string) (bool, error) {
	return true, nil
}
