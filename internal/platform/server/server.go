package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/adapters/grpc/handler"
	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/adapters/grpc/kpiv1"
	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/core/kpi"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	logger     *zap.Logger
}

// New は KPIService とヘルスチェックを登録した gRPC サーバーを構築します。
func New(listenAddr string, kpiSvc kpi.UseCase, logger *zap.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("grpc")

	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryLogging(logger))}, opts...)
	srv := grpc.NewServer(opts...)

	kpiv1.RegisterKPIServiceServer(srv, handler.NewKPIGrpcHandler(kpiSvc))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(kpiv1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     healthSrv,
		logger:     logger,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}

	return s.Serve(ctx, lis)
}

// Serve は指定されたリスナーで待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はヘルスチェックを NOT_SERVING にしてからサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// UnaryLogging は各 RPC の結果を構造化ログに出力するインターセプタです。
func UnaryLogging(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}

		switch code {
		case codes.OK:
			logger.Debug("rpc completed", fields...)
		case codes.Internal, codes.Unknown:
			logger.Error("rpc failed", fields...)
		default:
			logger.Info("rpc rejected", fields...)
		}
		return resp, err
	}
}
