package user

import (
	"time"

	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
	principalDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/principal"
)

type ListResponse struct {
	Users []*identity.Principal `json:"users"`
}

func ToDataModel(p *identity.Principal) *principalDatamodel.Principal {
	return &principalDatamodel.Principal{
		UID:           p.UID,
		Email:         p.Email,
		FullName:      p.FullName,
		Role:          string(p.Role),
		EmergencyInfo: p.EmergencyInfo,
		OtherInfo:     p.OtherInfo,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func FromDataModel(m *principalDatamodel.Principal) *identity.Principal {
	return &identity.Principal{
		UID:           m.UID,
		Email:         m.Email,
		FullName:      m.FullName,
		Role:          identity.ParseRole(m.Role),
		EmergencyInfo: m.EmergencyInfo,
		OtherInfo:     m.OtherInfo,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// NewPrincipal fills the defaults for a freshly registered user.
func NewPrincipal(uid, email, fullName string, now time.Time) *identity.Principal {
	return &identity.Principal{
		UID:       uid,
		Email:     email,
		FullName:  fullName,
		Role:      identity.RoleEmployee,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
