package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const traceIDKey = "x-trace-id"

// UnaryLoggingInterceptor puts a trace-scoped logger into the call context
// and writes one access log line per call, like the HTTP withTraceID and
// withLogging middleware do.
func (h *Handler) UnaryLoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	traceID := uuid.NewString()
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(traceIDKey); len(values) > 0 && values[0] != "" {
			traceID = values[0]
		}
	}

	log := h.logger.WithTraceID(traceID)
	ctx = log.WithContext(ctx)

	start := time.Now()
	resp, err := handler(ctx, req)

	log.Info().
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Send()

	return resp, err
}
