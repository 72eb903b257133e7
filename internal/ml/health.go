package ml

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
)

// HealthProbe checks the ML service through the standard gRPC health protocol
type HealthProbe struct {
	conn    *grpc.ClientConn
	client  healthpb.HealthClient
	service string
	timeout time.Duration
}

// NewHealthProbe creates a probe against address. The connection is established lazily.
func NewHealthProbe(address, service string, timeout time.Duration) (*HealthProbe, error) {
	conn, err := grpc.NewClient(address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                30 * time.Second,
			Timeout:             10 * time.Second,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMLServiceUnavailable, err)
	}

	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthProbe{
		conn:    conn,
		client:  healthpb.NewHealthClient(conn),
		service: service,
		timeout: timeout,
	}, nil
}

// Check returns nil when the service reports SERVING
func (p *HealthProbe) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{Service: p.service})
	if err != nil {
		MLRequestErrorsTotal.WithLabelValues("health", "rpc_failed").Inc()
		return fmt.Errorf("%w: %v", ErrMLServiceUnavailable, err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: status %s", ErrMLServiceUnavailable, resp.GetStatus())
	}
	return nil
}

// Close closes the gRPC connection
func (p *HealthProbe) Close() error {
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
