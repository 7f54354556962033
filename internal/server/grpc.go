package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/health-summary/internal/common"
)

// RequestIDMetadataKey carries a caller-chosen request ID; it is echoed in
// the response header.
const RequestIDMetadataKey = "x-request-id"

// NewGRPCServer registers the summary service and the standard health
// service. Every call gets a request ID and a timeout.
func NewGRPCServer(svc SummaryServiceServer, requestTimeout time.Duration, logger *slog.Logger) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(requestInterceptor(requestTimeout, logger)))
	RegisterSummaryServiceServer(grpcServer, svc)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	// empty string means overall server health
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return grpcServer, healthServer
}

func requestInterceptor(timeout time.Duration, logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		var incoming string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(RequestIDMetadataKey); len(v) > 0 {
				incoming = v[0]
			}
		}
		ctx, reqID := common.EnsureRequestID(ctx, incoming)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDMetadataKey, reqID))
		ctx, cancel := common.WithTimeout(ctx, timeout)
		defer cancel()

		resp, err := handler(ctx, req)
		logger.Info("grpc.request",
			"method", info.FullMethod,
			"request_id", reqID,
			"code", status.Code(err).String(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}
}

// ServeGRPC listens on addr and serves until ctx ends, then stops
// gracefully.
func ServeGRPC(ctx context.Context, addr string, grpcServer *grpc.Server, healthServer *health.Server, logger *slog.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		return err
	}
	logger.Info("grpc listening", "addr", lis.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down grpc server")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		return nil
	case err := <-errCh:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}
