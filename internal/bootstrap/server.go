package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/logging"
	"google.golang.org/grpc"
)

const shutdownTimeout = 5 * time.Second

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	logger     logging.Logger
}

// NewServers pairs the HTTP handler with an optional gRPC server.
func NewServers(handler http.Handler, grpcSrv *grpc.Server, logger logging.Logger) *Servers {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run listens on the configured addresses and blocks until ctx is canceled or
// a server fails. gRPC is skipped when its address is empty.
func Run(ctx context.Context, cfg *config.Config, s *Servers) error {
	httpLis, err := net.Listen("tcp", cfg.HTTP.Address)
	if err != nil {
		return fmt.Errorf("listen HTTP %s: %w", cfg.HTTP.Address, err)
	}

	var grpcLis net.Listener
	if s.grpcServer != nil && cfg.GRPC.Address != "" {
		grpcLis, err = net.Listen("tcp", cfg.GRPC.Address)
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
		}
	}

	return s.Serve(ctx, httpLis, grpcLis)
}

// Serve runs on already bound listeners. grpcLis may be nil.
func (s *Servers) Serve(ctx context.Context, httpLis, grpcLis net.Listener) error {
	errCh := make(chan error, 2)

	if grpcLis != nil {
		s.logger.Info(ctx, "grpc server started", "address", grpcLis.Addr().String())
		go func() { errCh <- s.grpcServer.Serve(grpcLis) }()
	}

	s.logger.Info(ctx, "http server started", "address", httpLis.Addr().String())
	go func() {
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(context.Background(), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if grpcLis != nil {
			s.grpcServer.GracefulStop()
		}
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
