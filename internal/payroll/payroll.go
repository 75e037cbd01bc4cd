package payroll

import (
	"encoding/json"
	"time"

	payrollDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/payroll"
)

type Payroll struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Salary    float64   `json:"salary"`
	PayDate   time.Time `json:"date"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Payroll) MarshalJSON() ([]byte, error) {
	type alias Payroll
	return json.Marshal(struct {
		*alias
		PayDate string `json:"date"`
	}{
		alias:   (*alias)(p),
		PayDate: p.PayDate.Format(time.DateOnly),
	})
}

type ListFilter struct {
	Month string
	User  string
}

type ListResponse struct {
	Payrolls []*Payroll `json:"payrolls"`
	Total    float64    `json:"total"`
}

// Paycheck is the result of the paycheck calculator. Amounts are not rounded.
type Paycheck struct {
	Taxable float64 `json:"taxable"`
	Tax     float64 `json:"tax"`
	Net     float64 `json:"net"`
}

// CalculatePaycheck applies a percentage tax to gross pay plus bonuses less
// deductions.
func CalculatePaycheck(gross, bonuses, deductions, taxRate float64) Paycheck {
	taxable := gross + bonuses - deductions
	tax := taxable * (taxRate / 100)
	return Paycheck{
		Taxable: taxable,
		Tax:     tax,
		Net:     taxable - tax,
	}
}

func newListResponse(payrolls []*Payroll) *ListResponse {
	resp := &ListResponse{Payrolls: payrolls}
	if resp.Payrolls == nil {
		resp.Payrolls = []*Payroll{}
	}
	for _, p := range resp.Payrolls {
		resp.Total += p.Salary
	}
	return resp
}

func ToDataModel(p *Payroll) *payrollDatamodel.Payroll {
	return &payrollDatamodel.Payroll{
		ID:        p.ID,
		Email:     p.Email,
		Username:  p.Username,
		Salary:    p.Salary,
		PayDate:   p.PayDate,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	}
}

func FromDataModel(m *payrollDatamodel.Payroll) *Payroll {
	return &Payroll{
		ID:        m.ID,
		Email:     m.Email,
		Username:  m.Username,
		Salary:    m.Salary,
		PayDate:   m.PayDate,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}
