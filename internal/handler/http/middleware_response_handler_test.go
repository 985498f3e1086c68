package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponseWriter(rr *httptest.ResponseRecorder) *responseWriter {
	return &responseWriter{ResponseWriter: rr}
}

func TestResponseWriter_WriteHeader_TableTest(t *testing.T) {
	tests := []struct {
		name           string
		statusCodes    []int // multiple WriteHeader calls
		expectedStatus int
	}{
		{name: "200 OK", statusCodes: []int{http.StatusOK}, expectedStatus: http.StatusOK},
		{name: "201 Created", statusCodes: []int{http.StatusCreated}, expectedStatus: http.StatusCreated},
		{name: "401 Unauthorized", statusCodes: []int{http.StatusUnauthorized}, expectedStatus: http.StatusUnauthorized},
		{name: "second call ignored", statusCodes: []int{http.StatusCreated, http.StatusInternalServerError}, expectedStatus: http.StatusCreated},
		{name: "third call ignored", statusCodes: []int{http.StatusTooManyRequests, http.StatusOK, http.StatusBadGateway}, expectedStatus: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			w := newResponseWriter(rr)

			for _, code := range tt.statusCodes {
				w.WriteHeader(code)
			}

			assert.Equal(t, tt.expectedStatus, w.status)
			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.True(t, w.wroteHeader)
		})
	}
}

func TestResponseWriter_Write_TableTest(t *testing.T) {
	tests := []struct {
		name           string
		explicitStatus int
		writes         []string
		wantStatus     int
		wantSize       int
		wantBody       string
	}{
		{name: "implicit 200", writes: []string{"hello"}, wantStatus: http.StatusOK, wantSize: 5, wantBody: "hello"},
		{name: "accumulates size", writes: []string{"ab", "cde"}, wantStatus: http.StatusOK, wantSize: 5, wantBody: "abcde"},
		{name: "explicit status kept", explicitStatus: http.StatusUnauthorized, writes: []string{`{"error":"unauthorized"}`}, wantStatus: http.StatusUnauthorized, wantSize: 24, wantBody: `{"error":"unauthorized"}`},
		{name: "empty body", writes: []string{""}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			w := newResponseWriter(rr)

			if tt.explicitStatus != 0 {
				w.WriteHeader(tt.explicitStatus)
			}
			for _, s := range tt.writes {
				n, err := w.Write([]byte(s))
				require.NoError(t, err)
				assert.Equal(t, len(s), n)
			}

			assert.Equal(t, tt.wantStatus, w.status)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantSize, w.size)
			assert.Equal(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestResponseWriter_InitialState(t *testing.T) {
	w := newResponseWriter(httptest.NewRecorder())

	assert.Equal(t, 0, w.status)
	assert.Equal(t, 0, w.size)
	assert.False(t, w.wroteHeader)
}

func TestResponseWriter_ProxiesHeadersToUnderlying(t *testing.T) {
	rr := httptest.NewRecorder()
	w := newResponseWriter(rr)

	w.Header().Set("X-Custom", "value")
	w.WriteHeader(http.StatusTeapot)

	assert.Equal(t, "value", rr.Header().Get("X-Custom"))
	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestResponseWriter_Unwrap(t *testing.T) {
	rr := httptest.NewRecorder()
	w := newResponseWriter(rr)

	assert.Same(t, rr, w.Unwrap())
}
