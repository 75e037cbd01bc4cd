package leave

import (
	"encoding/json"
	"time"

	leaveDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/leave"
	"github.com/frahmantamala/employee-dashboard/internal/timeaccounting"
)

type Request struct {
	ID        int64                      `json:"id"`
	OwnerUID  string                     `json:"owner_uid"`
	Email     string                     `json:"email"`
	FullName  string                     `json:"full_name"`
	StartDate time.Time                  `json:"start_date"`
	EndDate   time.Time                  `json:"end_date"`
	Reason    string                     `json:"reason"`
	Status    timeaccounting.LeaveStatus `json:"status"`
	DecidedBy string                     `json:"decided_by,omitempty"`
	DecidedAt *time.Time                 `json:"decided_at,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
}

func (r *Request) LeaveStatus() timeaccounting.LeaveStatus { return r.Status }
func (r *Request) LeavePeriod() (time.Time, time.Time)      { return r.StartDate, r.EndDate }
func (r *Request) RequesterName() string                    { return r.FullName }

// MarshalJSON renders the leave period as plain calendar dates.
func (r *Request) MarshalJSON() ([]byte, error) {
	type alias Request
	return json.Marshal(struct {
		*alias
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}{
		alias:     (*alias)(r),
		StartDate: r.StartDate.Format(time.DateOnly),
		EndDate:   r.EndDate.Format(time.DateOnly),
	})
}

type ListFilter struct {
	Date string
	Name string
}

type ListResponse struct {
	Requests []*Request                `json:"requests"`
	Tally    timeaccounting.LeaveTally `json:"tally"`
}

func newListResponse(requests []*Request) *ListResponse {
	if requests == nil {
		requests = []*Request{}
	}
	return &ListResponse{
		Requests: requests,
		Tally:    timeaccounting.TallyLeaveStatuses(requests),
	}
}

func ToDataModel(r *Request) *leaveDatamodel.Request {
	m := &leaveDatamodel.Request{
		ID:        r.ID,
		OwnerUID:  r.OwnerUID,
		Email:     r.Email,
		FullName:  r.FullName,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Reason:    r.Reason,
		Status:    string(r.Status),
		DecidedAt: r.DecidedAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.CreatedAt,
	}
	if r.DecidedBy != "" {
		decidedBy := r.DecidedBy
		m.DecidedBy = &decidedBy
	}
	return m
}

// FromDataModel keeps an unrecognised stored status as-is so the tally can
// skip it instead of miscounting it.
func FromDataModel(m *leaveDatamodel.Request) *Request {
	status, ok := timeaccounting.ParseLeaveStatus(m.Status)
	if !ok {
		status = timeaccounting.LeaveStatus(m.Status)
	}
	r := &Request{
		ID:        m.ID,
		OwnerUID:  m.OwnerUID,
		Email:     m.Email,
		FullName:  m.FullName,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Reason:    m.Reason,
		Status:    status,
		DecidedAt: m.DecidedAt,
		CreatedAt: m.CreatedAt,
	}
	if m.DecidedBy != nil {
		r.DecidedBy = *m.DecidedBy
	}
	return r
}
