package grpc

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/mock"
)

func checkStatus(t *testing.T, h *Handler, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := h.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestNewHandler_StartsNotServing(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewHandler(mock.NewMockHealthChecker(ctrl), logger.Nop())

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, h, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, h, ServiceName))
}

func TestProbe_FollowsStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mock.NewMockHealthChecker(ctrl)
	h := NewHandler(checker, logger.Nop())
	ctx := context.Background()

	gomock.InOrder(
		checker.EXPECT().Ping(gomock.Any()).Return(nil),
		checker.EXPECT().Ping(gomock.Any()).Return(errors.New("database is closed")),
		checker.EXPECT().Ping(gomock.Any()).Return(nil),
	)

	h.probe(ctx)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, h, ServiceName))

	h.probe(ctx)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, h, ServiceName))

	h.probe(ctx)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, h, ""))
}

func TestProbe_PingHasDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mock.NewMockHealthChecker(ctrl)
	h := NewHandler(checker, logger.Nop())

	checker.EXPECT().Ping(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	})

	h.probe(context.Background())
}

func TestWatch_StopsWithContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mock.NewMockHealthChecker(ctrl)
	h := NewHandler(checker, logger.Nop())
	h.interval = 5 * time.Millisecond

	checker.EXPECT().Ping(gomock.Any()).Return(nil).MinTimes(2)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		h.Watch(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancellation")
	}

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, h, ServiceName))
}

func TestHealthService_OverGRPC(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mock.NewMockHealthChecker(ctrl)
	checker.EXPECT().Ping(gomock.Any()).Return(nil)

	var logBuf bytes.Buffer
	h := NewHandler(checker, logger.New(&logBuf, "server"))
	h.probe(context.Background())

	listener := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(h.UnaryLoggingInterceptor))
	h.Register(srv)
	go func() { _ = srv.Serve(listener) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx := metadata.AppendToOutgoingContext(context.Background(), traceIDKey, "grpc-trace-1")
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	assert.Contains(t, logBuf.String(), `"trace_id":"grpc-trace-1"`)
	assert.Contains(t, logBuf.String(), `"method":"/grpc.health.v1.Health/Check"`)
}
