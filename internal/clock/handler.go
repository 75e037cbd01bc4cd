package clock

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
	"github.com/frahmantamala/employee-dashboard/internal/transport"
	"github.com/frahmantamala/employee-dashboard/pkg/logger"
)

type ServiceAPI interface {
	ClockIn(ctx context.Context, session identity.Session) (*Entry, error)
	ClockOut(ctx context.Context, session identity.Session) (*Entry, error)
	MySummary(ctx context.Context, session identity.Session) (*Summary, error)
	Report(ctx context.Context, filter ReportFilter) ([]*ReportRow, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// ClockIn handles POST /clock/in
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	session, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrSessionRequired)
		return
	}

	entry, err := h.Service.ClockIn(r.Context(), session)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, entry)
}

// ClockOut handles POST /clock/out
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	session, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrSessionRequired)
		return
	}

	entry, err := h.Service.ClockOut(r.Context(), session)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entry)
}

// GetMySummary handles GET /clock/me
func (h *Handler) GetMySummary(w http.ResponseWriter, r *http.Request) {
	session, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrSessionRequired)
		return
	}

	summary, err := h.Service.MySummary(r.Context(), session)
	if err != nil {
		h.Logger.Error("GetMySummary: service failed", "uid", session.UID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

// ListEntries handles GET /clock/entries?name=&email=&date=
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ReportFilter{
		Name:  q.Get("name"),
		Email: q.Get("email"),
		Date:  q.Get("date"),
	}

	rows, err := h.Service.Report(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ReportResponse{Entries: rows})
}
