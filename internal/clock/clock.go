package clock

import (
	"time"

	clockDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/clock"
	"github.com/frahmantamala/employee-dashboard/internal/timeaccounting"
)

type Entry struct {
	ID         int64      `json:"id"`
	OwnerUID   string     `json:"owner_uid"`
	OwnerEmail string     `json:"owner_email"`
	ClockIn    time.Time  `json:"clock_in"`
	ClockOut   *time.Time `json:"clock_out"`
	Minutes    float64    `json:"minutes"`
}

// Duration is a minute total split for display.
type Duration struct {
	Hours   int     `json:"hours"`
	Minutes float64 `json:"minutes"`
}

func NewDuration(total float64) Duration {
	h, m := timeaccounting.SplitMinutes(total)
	return Duration{Hours: h, Minutes: m}
}

// Summary is the clock page of one employee.
type Summary struct {
	IsClockedIn bool       `json:"is_clocked_in"`
	OpenEntry   *Entry     `json:"open_entry,omitempty"`
	Today       []*Entry   `json:"today"`
	Entries     []*Entry   `json:"entries"`
	Weekday     [7]float64 `json:"weekday_minutes"`
	Daily       Duration   `json:"daily"`
	Weekly      Duration   `json:"weekly"`
	timeaccounting.Totals
}

// ReportRow is a clock entry joined with its owner's name.
type ReportRow struct {
	ID         int64      `json:"id" db:"id"`
	OwnerEmail string     `json:"email" db:"owner_email"`
	FullName   string     `json:"full_name" db:"full_name"`
	ClockIn    time.Time  `json:"clock_in" db:"clock_in"`
	ClockOut   *time.Time `json:"clock_out" db:"clock_out"`
	Minutes    float64    `json:"minutes" db:"-"`
}

type ReportFilter struct {
	Name  string
	Email string
	Date  string
}

type ReportResponse struct {
	Entries []*ReportRow `json:"entries"`
}

func (e *Entry) ClockInTime() time.Time     { return e.ClockIn }
func (r *ReportRow) ClockInTime() time.Time { return r.ClockIn }

func (e *Entry) accounting() timeaccounting.ClockEntry {
	return timeaccounting.ClockEntry{ClockIn: e.ClockIn, ClockOut: e.ClockOut}
}

func (r *ReportRow) accounting() timeaccounting.ClockEntry {
	return timeaccounting.ClockEntry{ClockIn: r.ClockIn, ClockOut: r.ClockOut}
}

func ToDataModel(e *Entry) *clockDatamodel.Entry {
	return &clockDatamodel.Entry{
		ID:         e.ID,
		OwnerUID:   e.OwnerUID,
		OwnerEmail: e.OwnerEmail,
		ClockIn:    e.ClockIn,
		ClockOut:   e.ClockOut,
	}
}

func FromDataModel(m *clockDatamodel.Entry) *Entry {
	e := &Entry{
		ID:         m.ID,
		OwnerUID:   m.OwnerUID,
		OwnerEmail: m.OwnerEmail,
		ClockIn:    m.ClockIn,
		ClockOut:   m.ClockOut,
	}
	e.Minutes = e.accounting().Minutes()
	return e
}
