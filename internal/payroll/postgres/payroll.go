package postgres

import (
	"context"
	"errors"
	"time"

	payrollDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/payroll"
	"github.com/frahmantamala/employee-dashboard/internal/payroll"
	"gorm.io/gorm"
)

type PayrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) payroll.RepositoryAPI {
	return &PayrollRepository{db: db}
}

func (r *PayrollRepository) Create(ctx context.Context, p *payrollDatamodel.Payroll) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PayrollRepository) ListAll(ctx context.Context, month *time.Time) ([]*payrollDatamodel.Payroll, error) {
	var payrolls []*payrollDatamodel.Payroll
	err := inMonth(r.db.WithContext(ctx), month).
		Order("pay_date DESC, id DESC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *PayrollRepository) ListByOwner(ctx context.Context, email string, month *time.Time) ([]*payrollDatamodel.Payroll, error) {
	var payrolls []*payrollDatamodel.Payroll
	err := inMonth(r.db.WithContext(ctx), month).
		Where("email = ?", email).
		Order("pay_date DESC, id DESC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *PayrollRepository) GetByID(ctx context.Context, id int64) (*payrollDatamodel.Payroll, error) {
	var p payrollDatamodel.Payroll
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payroll.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func inMonth(db *gorm.DB, month *time.Time) *gorm.DB {
	if month == nil {
		return db
	}
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return db.Where("pay_date >= ? AND pay_date < ?", start, start.AddDate(0, 1, 0))
}
