package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hdhector/taskflow/internal/api/shared"
)

func TestTraceMiddlewareGeneratesID(t *testing.T) {
	var ctxTraceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxTraceID = shared.GetTraceID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	TraceMiddleware(next).ServeHTTP(rec, req)

	assert.NotEmpty(t, ctxTraceID)
	assert.Equal(t, ctxTraceID, rec.Header().Get("X-Trace-ID"))
}

func TestTraceMiddlewareHonorsIncomingHeader(t *testing.T) {
	var ctxTraceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxTraceID = shared.GetTraceID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Trace-ID", "proxy-assigned-id")
	rec := httptest.NewRecorder()

	TraceMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, "proxy-assigned-id", ctxTraceID)
	assert.Equal(t, "proxy-assigned-id", rec.Header().Get("X-Trace-ID"))
}
