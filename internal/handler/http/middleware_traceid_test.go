package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
)

// newTestHandler creates a Handler with a nop logger.
func newTestHandler() *Handler {
	return &Handler{logger: logger.Nop()}
}

func executeWithTraceID(h *Handler, traceID string) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if traceID != "" {
		req.Header.Set(traceIDHeader, traceID)
	}

	rr := httptest.NewRecorder()
	h.withTraceID(next).ServeHTTP(rr, req)
	return rr
}

func TestWithTraceID_TableTest(t *testing.T) {
	tests := []struct {
		name            string
		requestTraceID  string
		wantSameTraceID bool
		wantValidUUID   bool
	}{
		{name: "trace ID from request header is reused", requestTraceID: "my-custom-trace-id", wantSameTraceID: true},
		{name: "no trace ID in request, UUID generated", wantValidUUID: true},
		{name: "UUID as incoming trace ID", requestTraceID: "550e8400-e29b-41d4-a716-446655440000", wantSameTraceID: true},
		{name: "oversized trace ID replaced", requestTraceID: strings.Repeat("x", maxTraceIDLength+1), wantValidUUID: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := executeWithTraceID(newTestHandler(), tt.requestTraceID)

			responseTraceID := rr.Header().Get(traceIDHeader)
			require.NotEmpty(t, responseTraceID, "X-Trace-ID header must be set in response")

			if tt.wantSameTraceID {
				assert.Equal(t, tt.requestTraceID, responseTraceID)
			}
			if tt.wantValidUUID {
				_, err := uuid.Parse(responseTraceID)
				assert.NoError(t, err, "generated trace ID should be a valid UUID, got: %s", responseTraceID)
			}
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestWithTraceID_ContextLoggerCarriesTraceID(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: logger.New(&buf, "server")}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromRequest(r).Info().Msg("inside handler")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(traceIDHeader, "trace-context-test")
	h.withTraceID(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"trace_id":"trace-context-test"`)
	assert.Contains(t, buf.String(), `"role":"server"`)
}

func TestWithTraceID_ConcurrentRequests(t *testing.T) {
	h := newTestHandler()

	const n = 50
	ids := make(chan string, n)
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			ids <- executeWithTraceID(h, "").Header().Get(traceIDHeader)
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{})
	for id := range ids {
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		seen[id] = struct{}{}
	}

	assert.Len(t, seen, n, "all generated trace IDs should be unique")
}

func TestWithTraceID_OriginalRequestNotMutated(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	originalCtx := req.Context()

	h.withTraceID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, originalCtx, req.Context())
}
