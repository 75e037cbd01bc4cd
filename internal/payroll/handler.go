package payroll

import (
	"context"
	"fmt"
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
	Create(ctx context.Context, actor identity.Session, dto CreatePayrollDTO) (*Payroll, error)
	List(ctx context.Context, filter ListFilter) (*ListResponse, error)
	Mine(ctx context.Context, session identity.Session, month string) (*ListResponse, error)
	CalculatePaycheck(dto CalculatePaycheckDTO) (Paycheck, error)
	Payslip(ctx context.Context, viewer *identity.Principal, id int64) ([]byte, error)
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

// CreatePayroll handles POST /payrolls
func (h *Handler) CreatePayroll(w http.ResponseWriter, r *http.Request) {
	session, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrSessionRequired)
		return
	}

	var dto CreatePayrollDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Create(r.Context(), session, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, p)
}

// ListPayrolls handles GET /payrolls?month=&user=
func (h *Handler) ListPayrolls(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.Service.List(r.Context(), ListFilter{Month: q.Get("month"), User: q.Get("user")})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// GetMyPayrolls handles GET /payrolls/me?month=
func (h *Handler) GetMyPayrolls(w http.ResponseWriter, r *http.Request) {
	session, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrSessionRequired)
		return
	}

	resp, err := h.Service.Mine(r.Context(), session, r.URL.Query().Get("month"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// CalculatePaycheck handles POST /paycheck/calculate
func (h *Handler) CalculatePaycheck(w http.ResponseWriter, r *http.Request) {
	var dto CalculatePaycheckDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	paycheck, err := h.Service.CalculatePaycheck(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, paycheck)
}

// DownloadPayslip handles GET /payrolls/{id}/payslip
func (h *Handler) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	viewer, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrSessionRequired)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteAppError(w, internal.NewValidationFieldError("id", "id must be a positive integer", internal.ErrCodeValidationFailed))
		return
	}

	pdf, err := h.Service.Payslip(r.Context(), viewer, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payslip-%d.pdf"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.Logger.Error("DownloadPayslip: write failed", "payroll_id", id, "error", err)
	}
}
