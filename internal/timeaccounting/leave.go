package timeaccounting

import (
	"strings"
	"time"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveDeclined LeaveStatus = "Declined"
)

// ParseLeaveStatus matches a stored status case-insensitively.
func ParseLeaveStatus(s string) (LeaveStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return LeavePending, true
	case "approved":
		return LeaveApproved, true
	case "declined":
		return LeaveDeclined, true
	}
	return "", false
}

func (s LeaveStatus) Valid() bool {
	_, ok := ParseLeaveStatus(string(s))
	return ok
}

// CanTransitionTo allows only Pending -> Approved and Pending -> Declined.
func (s LeaveStatus) CanTransitionTo(next LeaveStatus) bool {
	if s != LeavePending {
		return false
	}
	return next == LeaveApproved || next == LeaveDeclined
}

// LeaveRecord is anything that can be summarised as a leave request.
type LeaveRecord interface {
	LeaveStatus() LeaveStatus
	LeavePeriod() (start, end time.Time)
	RequesterName() string
}

// LeaveRequest is the minimal LeaveRecord.
type LeaveRequest struct {
	FullName  string
	StartDate time.Time
	EndDate   time.Time
	Status    LeaveStatus
}

func (r LeaveRequest) LeaveStatus() LeaveStatus           { return r.Status }
func (r LeaveRequest) LeavePeriod() (time.Time, time.Time) { return r.StartDate, r.EndDate }
func (r LeaveRequest) RequesterName() string              { return r.FullName }

type LeaveTally struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Declined int `json:"declined"`
}

// TallyLeaveStatuses counts requests by status. Records carrying an
// unrecognised status are left out entirely so that
// Pending + Approved + Declined always equals Total.
func TallyLeaveStatuses[R LeaveRecord](requests []R) LeaveTally {
	var t LeaveTally
	for _, r := range requests {
		status, ok := ParseLeaveStatus(string(r.LeaveStatus()))
		if !ok {
			continue
		}
		t.Total++
		switch status {
		case LeavePending:
			t.Pending++
		case LeaveApproved:
			t.Approved++
		case LeaveDeclined:
			t.Declined++
		}
	}
	return t
}

// RequestsCoveringDate keeps the requests whose [start, end] range contains
// date's calendar day. Both ends are inclusive. A request whose start is after
// its end covers nothing.
func RequestsCoveringDate[R LeaveRecord](requests []R, date time.Time) []R {
	day := dateKey(date)
	out := make([]R, 0, len(requests))
	for _, r := range requests {
		start, end := r.LeavePeriod()
		if dateKey(start) <= day && day <= dateKey(end) {
			out = append(out, r)
		}
	}
	return out
}

// FilterLeaveByName keeps requests whose requester name contains query,
// ignoring case. An empty query keeps everything.
func FilterLeaveByName[R LeaveRecord](requests []R, query string) []R {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return requests
	}
	out := make([]R, 0, len(requests))
	for _, r := range requests {
		if strings.Contains(strings.ToLower(r.RequesterName()), query) {
			out = append(out, r)
		}
	}
	return out
}

// dateKey orders calendar dates as yyyymmdd, reading the date in the value's own location.
func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
