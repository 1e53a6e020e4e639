package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/adapters/grpc/kpiv1"
	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/core/kpi"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const testUserID = "3f8c2a9e-1b4d-4c6e-9a7f-2d5b8e1c0a11"

type stubKPIUseCase struct{}

func (stubKPIUseCase) GetOrCompute(_ context.Context, userID string) (*kpi.UserKPI, error) {
	return &kpi.UserKPI{ID: "kpi-1", UserID: userID, RollingAvgWorkingHours14: "08:00"}, nil
}

func (stubKPIUseCase) GetReport(context.Context, string) (*kpi.Report, error) {
	return nil, kpi.ErrNoBadgeEvents
}

func startBufServer(t *testing.T, logger *zap.Logger) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := New("bufnet", stubKPIUseCase{}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, lis)
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Serve returned error: %v", err)
		}
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServer_HealthAndKPI(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	conn := startBufServer(t, zap.New(core))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	healthResp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: kpiv1.ServiceName})
	if err != nil {
		t.Fatalf("health check returned error: %v", err)
	}
	if healthResp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %s", healthResp.GetStatus())
	}

	client := kpiv1.NewKPIServiceClient(conn)
	resp, err := client.GetUserKPI(ctx, testUserID)
	if err != nil {
		t.Fatalf("GetUserKPI returned error: %v", err)
	}
	if resp.GetFields()["rolling_avg_working_hours_14"].GetStringValue() != "08:00" {
		t.Fatalf("unexpected payload: %v", resp)
	}

	_, err = client.GetUserKPIReport(ctx, testUserID)
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}

	if logs.FilterField(zap.String("method", kpiv1.GetUserKPIFullMethodName)).Len() != 1 {
		t.Fatalf("expected GetUserKPI to be logged once, got %v", logs.All())
	}
	if logs.FilterMessage("rpc rejected").Len() != 1 {
		t.Fatalf("expected rejected report to be logged, got %v", logs.All())
	}
}
