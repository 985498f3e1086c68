package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/store"
)

// ServiceName is the health-check service name reported next to the
// overall ("") status.
const ServiceName = "crowdblog.auth"

const (
	defaultProbeInterval = 10 * time.Second
	probeTimeout         = 2 * time.Second
)

// Handler is the root gRPC transport handler.
//
// It serves the standard grpc.health.v1.Health service. The reported status
// follows the reachability of the credential store: a background probe
// pings the store and flips the status between SERVING and NOT_SERVING.
type Handler struct {
	// checker is pinged on every probe.
	checker store.HealthChecker

	// health holds the statuses served to clients.
	health *health.Server

	// interval is the delay between two probes.
	interval time.Duration

	logger *logger.Logger
}

// NewHandler constructs a [Handler] probing checker. Until the first probe
// completes every service reports NOT_SERVING.
func NewHandler(checker store.HealthChecker, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")

	h := &Handler{
		checker:  checker,
		health:   health.NewServer(),
		interval: defaultProbeInterval,
		logger:   logger,
	}
	h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)

	return h
}

// Register attaches the health service to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Watch probes the store until ctx is cancelled, then marks every service
// NOT_SERVING for good.
func (h *Handler) Watch(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return
		case <-ticker.C:
			h.probe(ctx)
		}
	}
}

func (h *Handler) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := h.checker.Ping(ctx); err != nil {
		h.logger.Err(err).Str("func", "*Handler.probe").Msg("credential store is unreachable")
		h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}

	h.setStatus(healthpb.HealthCheckResponse_SERVING)
}

func (h *Handler) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}
