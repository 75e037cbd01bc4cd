package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/core/common/validation"
	payrollDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/payroll"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
)

var ErrNotFound = errors.New("payroll not found")

// RepositoryAPI lists payrolls. A nil month lists every month; otherwise only
// pay dates inside that calendar month are returned.
type RepositoryAPI interface {
	Create(ctx context.Context, p *payrollDatamodel.Payroll) error
	ListAll(ctx context.Context, month *time.Time) ([]*payrollDatamodel.Payroll, error)
	ListByOwner(ctx context.Context, email string, month *time.Time) ([]*payrollDatamodel.Payroll, error)
	GetByID(ctx context.Context, id int64) (*payrollDatamodel.Payroll, error)
}

type DirectoryAPI interface {
	GetByEmail(ctx context.Context, email string) (*identity.Principal, error)
}

type Service struct {
	repo      RepositoryAPI
	directory DirectoryAPI
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, directory DirectoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		logger:    logger,
		now:       time.Now,
	}
}

// Create records a payroll for an existing employee. The username is taken
// from the directory at creation time.
func (s *Service) Create(ctx context.Context, actor identity.Session, dto CreatePayrollDTO) (*Payroll, error) {
	payDate, appErr := dto.Validate()
	if appErr != nil {
		return nil, appErr
	}

	employee, err := s.directory.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		return nil, err
	}

	p := &Payroll{
		Email:     employee.Email,
		Username:  employee.DisplayName(),
		Salary:    dto.Salary,
		PayDate:   payDate,
		CreatedBy: actor.Email,
		CreatedAt: s.now(),
	}
	m := ToDataModel(p)
	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.ErrorContext(ctx, "failed to create payroll", "email", p.Email, "error", err)
		return nil, fmt.Errorf("failed to create payroll: %w", err)
	}
	p.ID = m.ID

	s.logger.InfoContext(ctx, "payroll created", "payroll_id", p.ID, "email", p.Email, "actor", actor.UID)
	return p, nil
}

// List returns payrolls for the admin view. User matches the username or the
// email exactly, ignoring case.
func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	month, appErr := parseMonth(filter.Month)
	if appErr != nil {
		return nil, appErr
	}

	models, err := s.repo.ListAll(ctx, month)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list payrolls", "error", err)
		return nil, err
	}

	user := strings.TrimSpace(filter.User)
	out := make([]*Payroll, 0, len(models))
	for _, m := range models {
		if user != "" && !strings.EqualFold(m.Username, user) && !strings.EqualFold(m.Email, user) {
			continue
		}
		out = append(out, FromDataModel(m))
	}
	return newListResponse(out), nil
}

func (s *Service) Mine(ctx context.Context, session identity.Session, month string) (*ListResponse, error) {
	m, appErr := parseMonth(month)
	if appErr != nil {
		return nil, appErr
	}

	models, err := s.repo.ListByOwner(ctx, session.Email, m)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list own payrolls", "uid", session.UID, "error", err)
		return nil, err
	}

	out := make([]*Payroll, 0, len(models))
	for _, model := range models {
		out = append(out, FromDataModel(model))
	}
	return newListResponse(out), nil
}

func (s *Service) CalculatePaycheck(dto CalculatePaycheckDTO) (Paycheck, error) {
	if appErr := dto.Validate(); appErr != nil {
		return Paycheck{}, appErr
	}
	return CalculatePaycheck(dto.GrossPay, dto.Bonuses, dto.Deductions, dto.TaxRate), nil
}

// Payslip renders the payslip PDF. Only the payroll's owner and admins may
// read it; anyone else is told it does not exist.
func (s *Service) Payslip(ctx context.Context, viewer *identity.Principal, id int64) ([]byte, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrPayrollNotFound
		}
		return nil, fmt.Errorf("failed to load payroll: %w", err)
	}

	if viewer == nil || (!viewer.Role.IsAdmin() && !strings.EqualFold(viewer.Email, m.Email)) {
		return nil, internal.ErrPayrollNotFound
	}

	var buf bytes.Buffer
	if err := WritePayslip(&buf, FromDataModel(m), s.now()); err != nil {
		s.logger.ErrorContext(ctx, "failed to render payslip", "payroll_id", id, "error", err)
		return nil, internal.NewInternalError("failed to render payslip", err)
	}
	return buf.Bytes(), nil
}

func parseMonth(value string) (*time.Time, *internal.AppError) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	month, appErr := validation.ParseMonth("month", value, time.UTC)
	if appErr != nil {
		return nil, appErr
	}
	return &month, nil
}
