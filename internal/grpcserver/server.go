package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	availabilityv1 "github.com/alysesue/bookings-api-sub000/internal/api/availability/v1"
	"github.com/alysesue/bookings-api-sub000/internal/config"
)

type Server struct {
	grpc *grpc.Server
	addr string
	log  *zap.Logger
}

// New собирает gRPC-сервер: трассировка otelgrpc, request id, recovery и логирование запросов.
func New(cfg config.GRPCConfig, log *zap.Logger, svc Services) *Server {
	log = log.With(zap.String("component", "grpc"))

	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			requestIDInterceptor(),
			loggingInterceptor(log),
			recoveryInterceptor(log),
		),
	)
	availabilityv1.RegisterAvailabilityServiceServer(s, &handler{svc: svc})
	if cfg.Reflection {
		reflection.Register(s)
	}

	return &Server{grpc: s, addr: cfg.Addr, log: log}
}

// Serve слушает адрес из конфигурации и блокируется до остановки.
func (s *Server) Serve() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.ServeListener(lis)
}

func (s *Server) ServeListener(lis net.Listener) error {
	s.log.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Shutdown ждёт завершения активных вызовов; по истечении ctx обрывает их.
func (s *Server) Shutdown(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("graceful stop timed out, forcing")
		s.grpc.Stop()
	}
}
