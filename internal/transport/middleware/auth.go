package middleware

import (
	"net/http"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/pkg/logger"
)

// SessionContext tags the request logger with the caller's uid once a session
// has been resolved. Requests without a session pass through untouched.
func SessionContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := internal.SessionFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "uid", session.UID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
