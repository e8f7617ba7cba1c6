package server

import (
	"Authormity/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/grpc"
)

// NewGRPCServer creates the gRPC server. Kratos registers the standard
// grpc.health.v1 service on it; no business services are exposed.
func NewGRPCServer(c *conf.Server, logger log.Logger) *grpc.Server {
	var opts = []grpc.ServerOption{
		grpc.Middleware(
			recovery.Recovery(),
		),
	}
	if c.GRPC != nil {
		if c.GRPC.Network != "" {
			opts = append(opts, grpc.Network(c.GRPC.Network))
		}
		if c.GRPC.Addr != "" {
			opts = append(opts, grpc.Address(c.GRPC.Addr))
		}
		if c.GRPC.Timeout > 0 {
			opts = append(opts, grpc.Timeout(c.GRPC.Timeout))
		}
	}
	srv := grpc.NewServer(opts...)
	log.NewHelper(logger).Infow("msg", "grpc server configured", "services", "grpc.health.v1.Health")
	return srv
}
