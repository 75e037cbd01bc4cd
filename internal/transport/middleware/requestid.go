package middleware

import (
	"net/http"

	"github.com/frahmantamala/employee-dashboard/pkg/logger"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

// TraceID propagates X-Trace-ID and attaches it, together with chi's request
// id, to the context logger. Mount it after chi's RequestID.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "trace_id", traceID, "request_id", middleware.GetReqID(r.Context()))
		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
