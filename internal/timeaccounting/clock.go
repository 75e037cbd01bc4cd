// Package timeaccounting holds the pure calculations behind the dashboard:
// worked-time totals over clock entries and leave request summaries.
// Nothing in here touches storage, so every function is safe to call
// concurrently and returns the same output for the same input.
package timeaccounting

import "time"

// ClockEntry is one attendance record. ClockOut is nil while the entry is open.
type ClockEntry struct {
	ClockIn  time.Time
	ClockOut *time.Time
}

// ClockInTime lets a ClockEntry be filtered with EntriesOnDate.
func (e ClockEntry) ClockInTime() time.Time {
	return e.ClockIn
}

func (e ClockEntry) IsOpen() bool {
	return e.ClockOut == nil
}

// Minutes returns the worked minutes of the entry. Open entries and entries
// whose clock-out precedes their clock-in count as zero.
func (e ClockEntry) Minutes() float64 {
	if e.ClockOut == nil {
		return 0
	}
	d := e.ClockOut.Sub(e.ClockIn)
	if d <= 0 {
		return 0
	}
	return d.Minutes()
}

// Totals is the worked time of the reference day and of its week, in minutes.
type Totals struct {
	DailyMinutes  float64 `json:"daily_minutes"`
	WeeklyMinutes float64 `json:"weekly_minutes"`
}

// ComputeTotals sums entry durations into the daily and weekly buckets of ref.
// Calendar boundaries are taken in ref's location; the week starts on the most
// recent Sunday at 00:00 and includes that instant.
func ComputeTotals(entries []ClockEntry, ref time.Time) Totals {
	loc := ref.Location()
	weekStart := WeekStart(ref)

	var totals Totals
	for _, e := range entries {
		minutes := e.Minutes()
		if minutes == 0 {
			continue
		}
		if SameCalendarDay(e.ClockIn, ref, loc) {
			totals.DailyMinutes += minutes
		}
		if !e.ClockIn.Before(weekStart) {
			totals.WeeklyMinutes += minutes
		}
	}
	return totals
}

// WeekStart returns Sunday 00:00 of the week containing ref, in ref's location.
func WeekStart(ref time.Time) time.Time {
	y, m, d := ref.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	return midnight.AddDate(0, 0, -int(ref.Weekday()))
}

// SameCalendarDay reports whether a and b fall on the same date in loc.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// WeekdayBreakdown spreads the minutes of ref's week over its days, Sunday first.
func WeekdayBreakdown(entries []ClockEntry, ref time.Time) [7]float64 {
	var days [7]float64
	loc := ref.Location()
	start := WeekStart(ref)
	end := start.AddDate(0, 0, 7)

	for _, e := range entries {
		if e.ClockIn.Before(start) || !e.ClockIn.Before(end) {
			continue
		}
		days[e.ClockIn.In(loc).Weekday()] += e.Minutes()
	}
	return days
}

// SplitMinutes converts a minute total into whole hours and the remaining minutes.
func SplitMinutes(total float64) (hours int, minutes float64) {
	if total <= 0 {
		return 0, 0
	}
	hours = int(total / 60)
	return hours, total - float64(hours)*60
}

// Timed is anything stamped with a clock-in instant.
type Timed interface {
	ClockInTime() time.Time
}

// EntriesOnDate keeps the entries whose clock-in falls on date's calendar day in loc.
func EntriesOnDate[E Timed](entries []E, date time.Time, loc *time.Location) []E {
	out := make([]E, 0, len(entries))
	for _, e := range entries {
		if SameCalendarDay(e.ClockInTime(), date, loc) {
			out = append(out, e)
		}
	}
	return out
}
