package access

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/transport"
	"github.com/frahmantamala/employee-dashboard/pkg/logger"
	"github.com/go-chi/chi"
)

type ViewAccessResponse struct {
	View       string     `json:"view"`
	Capability Capability `json:"capability"`
	Decision   Decision   `json:"decision"`
}

type Handler struct {
	*transport.BaseHandler
	resolver *Resolver
	views    *ViewRegistry
}

func NewHandler(resolver *Resolver, views *ViewRegistry) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		resolver:    resolver,
		views:       views,
	}
}

// ViewAccess handles GET /views/{view}/access. Without a session the answer
// is Pending so the client keeps waiting for sign-in instead of redirecting.
func (h *Handler) ViewAccess(w http.ResponseWriter, r *http.Request) {
	view := chi.URLParam(r, "view")
	capability, known := h.views.CapabilityFor(view)
	if !known {
		h.Logger.Warn("ViewAccess: unknown view", "view", view)
	}

	resp := ViewAccessResponse{View: view, Capability: capability, Decision: DecisionPending}

	session, ok := internal.SessionFromContext(r.Context())
	if ok {
		principal, err := h.resolver.Resolve(r.Context(), session)
		if err != nil {
			return
		}
		resp.Decision = Authorize(principal, capability)
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
