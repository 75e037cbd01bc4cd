package user

import (
	"strings"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/core/common/validation"
)

// UpdateProfileDTO carries a partial profile update. Nil fields are left untouched.
type UpdateProfileDTO struct {
	FullName      *string `json:"full_name,omitempty"`
	EmergencyInfo *string `json:"emergency_info,omitempty"`
	OtherInfo     *string `json:"other_info,omitempty"`
}

func (d UpdateProfileDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.FullName != nil {
		trimmed := strings.TrimSpace(*d.FullName)
		v.Field("full_name", trimmed).Required().MaxLength(120)
	}
	v.Field("emergency_info", d.EmergencyInfo).MaxLength(500)
	v.Field("other_info", d.OtherInfo).MaxLength(1000)
	return v.Validate()
}

func (d UpdateProfileDTO) IsEmpty() bool {
	return d.FullName == nil && d.EmergencyInfo == nil && d.OtherInfo == nil
}

// Fields returns the column updates for the repository.
func (d UpdateProfileDTO) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if d.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*d.FullName)
	}
	if d.EmergencyInfo != nil {
		fields["emergency_info"] = *d.EmergencyInfo
	}
	if d.OtherInfo != nil {
		fields["other_info"] = *d.OtherInfo
	}
	return fields
}
