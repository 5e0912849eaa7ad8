package middleware

import (
	"net/http"

	"github.com/hdhector/taskflow/internal/api/shared"
)

// TraceMiddleware assigns a trace identifier to each request so log lines
// and error payloads can be correlated. An incoming X-Trace-ID header is
// honored when present so upstream proxies can thread their own IDs through.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")

		ctx := shared.SetTraceID(r.Context(), traceID)

		w.Header().Set("X-Trace-ID", shared.GetTraceID(ctx))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
