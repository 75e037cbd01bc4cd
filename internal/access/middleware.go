package access

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/transport"
)

type Authorization struct {
	*transport.BaseHandler
	resolver *Resolver
}

func NewAuthorization(resolver *Resolver, logger *slog.Logger) *Authorization {
	return &Authorization{
		BaseHandler: transport.NewBaseHandler(logger),
		resolver:    resolver,
	}
}

// Check resolves the caller and lets the request through only on Allow. The
// resolved principal is handed to next through the request context.
func (a *Authorization) Check(next http.HandlerFunc, capability Capability) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := internal.SessionFromContext(r.Context())
		if !ok {
			a.Logger.WarnContext(r.Context(), "authorization check failed: no session in context")
			a.WriteAppError(w, internal.ErrSessionRequired)
			return
		}

		principal, err := a.resolver.Resolve(r.Context(), session)
		if err != nil {
			// the client went away while the role was being resolved
			a.Logger.DebugContext(r.Context(), "authorization abandoned", "uid", session.UID, "error", err)
			return
		}

		switch Authorize(principal, capability) {
		case DecisionAllow:
			ctx := internal.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		case DecisionPending:
			a.WriteAppError(w, internal.ErrSessionRequired)
		default:
			a.Logger.WarnContext(r.Context(), "access denied: insufficient role",
				"uid", principal.UID,
				"role", principal.Role,
				"required_capability", capability)
			a.WriteAppError(w, internal.ErrAccessDenied)
		}
	}
}

func (a *Authorization) Middleware(capability Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return a.Check(next.ServeHTTP, capability)
	}
}

func (a *Authorization) RequireAny() func(http.Handler) http.Handler {
	return a.Middleware(CapabilityAny)
}

func (a *Authorization) RequireAdmin() func(http.Handler) http.Handler {
	return a.Middleware(CapabilityAdminOnly)
}
