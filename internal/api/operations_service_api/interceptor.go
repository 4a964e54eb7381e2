package operations_service_api

import (
	"context"
	"time"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/logging"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	authorizationKey = "authorization"
	requestIDKey     = "x-request-id"
)

func firstValue(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

// IdentityInterceptor resolves the "authorization" metadata the same way the
// HTTP transport resolves the header. It never rejects a call.
func IdentityInterceptor(resolver *auth.Resolver) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		return handler(resolver.Attach(ctx, firstValue(md, authorizationKey)), req)
	}
}

func LoggingInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		id := firstValue(md, requestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		ctx = logging.WithRequestID(ctx, id)

		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info(ctx, "grpc request",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"latency", time.Since(start),
		)
		return resp, err
	}
}

// NewGRPCServer builds a server with the operations service registered.
func NewGRPCServer(exec Executor, resolver *auth.Resolver, logger logging.Logger) *grpc.Server {
	if logger == nil {
		logger = logging.Nop()
	}
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(logger),
		IdentityInterceptor(resolver),
	))
	Register(srv, NewServer(exec))
	return srv
}
