package identity

import (
	"strings"
	"time"
)

// Role is the privilege tier stored on a principal. Stored values are
// normalised to lower case, so "Employee" and "employee" are the same role.
type Role string

const (
	RoleUndefined Role = ""
	RoleEmployee  Role = "employee"
	RoleAdmin     Role = "admin"
)

// UnknownName is shown wherever a record references an email with no principal.
const UnknownName = "Unknown User"

func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Principal is an authenticated user as seen by the directory.
type Principal struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Role          Role      `json:"role"`
	EmergencyInfo string    `json:"emergency_info,omitempty"`
	OtherInfo     string    `json:"other_info,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Principal) DisplayName() string {
	if p == nil || p.FullName == "" {
		return UnknownName
	}
	return p.FullName
}

// Session is the identity carried by a validated access token.
type Session struct {
	UID   string
	Email string
}
