package leave

import (
	"strings"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/core/common/validation"
)

type CreateRequestDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

// Validate parses the period. Dates are calendar dates and are kept at UTC
// midnight so they compare the same regardless of the server timezone.
func (d CreateRequestDTO) Validate() (start, end time.Time, appErr *internal.AppError) {
	start, appErr = validation.ParseDate("start_date", strings.TrimSpace(d.StartDate), time.UTC)
	if appErr != nil {
		return time.Time{}, time.Time{}, appErr
	}
	end, appErr = validation.ParseDate("end_date", strings.TrimSpace(d.EndDate), time.UTC)
	if appErr != nil {
		return time.Time{}, time.Time{}, appErr
	}

	v := validation.NewValidator()
	v.Field("end_date", end).NotBefore("start_date", start)
	v.Field("reason", d.Reason).MaxLength(500)
	if appErr := v.Validate(); appErr != nil {
		return time.Time{}, time.Time{}, appErr
	}
	return start, end, nil
}
