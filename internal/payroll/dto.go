package payroll

import (
	"strings"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/core/common/validation"
)

type CreatePayrollDTO struct {
	Email  string  `json:"email"`
	Salary float64 `json:"salary"`
	Date   string  `json:"date"`
}

// Validate checks the DTO and returns the pay date at UTC midnight.
func (d CreatePayrollDTO) Validate() (time.Time, *internal.AppError) {
	v := validation.NewValidator()
	v.Field("email", strings.TrimSpace(d.Email)).Required().Email()
	v.Field("salary", d.Salary).Required().MinFloat(0, internal.ErrCodeInvalidAmount)
	if appErr := v.Validate(); appErr != nil {
		return time.Time{}, appErr
	}
	return validation.ParseDate("date", strings.TrimSpace(d.Date), time.UTC)
}

type CalculatePaycheckDTO struct {
	GrossPay   float64 `json:"gross_pay"`
	Bonuses    float64 `json:"bonuses"`
	Deductions float64 `json:"deductions"`
	TaxRate    float64 `json:"tax_rate"`
}

func (d CalculatePaycheckDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("gross_pay", d.GrossPay).MinFloat(0, internal.ErrCodeInvalidAmount)
	v.Field("bonuses", d.Bonuses).MinFloat(0, internal.ErrCodeInvalidAmount)
	v.Field("deductions", d.Deductions).MinFloat(0, internal.ErrCodeInvalidAmount)
	v.Field("tax_rate", d.TaxRate).MinFloat(0, internal.ErrCodeInvalidTaxRate).MaxFloat(100, internal.ErrCodeInvalidTaxRate)
	return v.Validate()
}
