package leave

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
	"github.com/frahmantamala/employee-dashboard/internal/transport"
	"github.com/frahmantamala/employee-dashboard/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, session identity.Session, dto CreateRequestDTO) (*Request, error)
	Mine(ctx context.Context, session identity.Session) (*ListResponse, error)
	List(ctx context.Context, filter ListFilter) (*ListResponse, error)
	Approve(ctx context.Context, actor identity.Session, id int64) (*Request, error)
	Decline(ctx context.Context, actor identity.Session, id int64) (*Request, error)
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

// CreateRequest handles POST /leaves
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	session, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrSessionRequired)
		return
	}

	var dto CreateRequestDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.Create(r.Context(), session, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, req)
}

// GetMyRequests handles GET /leaves/me
func (h *Handler) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	session, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrSessionRequired)
		return
	}

	resp, err := h.Service.Mine(r.Context(), session)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// ListRequests handles GET /leaves?date=&name=
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.Service.List(r.Context(), ListFilter{Date: q.Get("date"), Name: q.Get("name")})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// ApproveRequest handles PATCH /leaves/{id}/approve
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Approve)
}

// DeclineRequest handles PATCH /leaves/{id}/decline
func (h *Handler) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Decline)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn func(context.Context, identity.Session, int64) (*Request, error)) {
	session, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrSessionRequired)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteAppError(w, internal.NewValidationFieldError("id", "id must be a positive integer", internal.ErrCodeValidationFailed))
		return
	}

	req, err := fn(r.Context(), session, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}
