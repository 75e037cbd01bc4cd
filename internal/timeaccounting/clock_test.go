package timeaccounting_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal/timeaccounting"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTimeAccounting(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Time Accounting Suite")
}

func at(loc *time.Location, day, hour, minute int) time.Time {
	// March 2024: the 10th is a Sunday.
	return time.Date(2024, time.March, day, hour, minute, 0, 0, loc)
}

func closed(in, out time.Time) timeaccounting.ClockEntry {
	return timeaccounting.ClockEntry{ClockIn: in, ClockOut: &out}
}

func open(in time.Time) timeaccounting.ClockEntry {
	return timeaccounting.ClockEntry{ClockIn: in}
}

var _ = Describe("ComputeTotals", func() {
	utc := time.UTC

	It("should return zero totals for no entries", func() {
		totals := timeaccounting.ComputeTotals(nil, at(utc, 12, 12, 0))

		Expect(totals.DailyMinutes).To(BeZero())
		Expect(totals.WeeklyMinutes).To(BeZero())
	})

	Context("with a week of mixed entries", func() {
		var entries []timeaccounting.ClockEntry

		BeforeEach(func() {
			entries = []timeaccounting.ClockEntry{
				closed(at(utc, 11, 9, 0), at(utc, 11, 17, 0)), // Monday, 480
				open(at(utc, 12, 9, 0)),                       // Tuesday, still open
				closed(at(utc, 10, 8, 0), at(utc, 10, 10, 0)), // Sunday, 120
			}
		})

		It("should not count the open entry towards today", func() {
			// Given the reference instant is Tuesday noon
			ref := at(utc, 12, 12, 0)

			// When
			totals := timeaccounting.ComputeTotals(entries, ref)

			// Then
			Expect(totals.DailyMinutes).To(BeZero())
			Expect(totals.WeeklyMinutes).To(Equal(600.0))
		})

		It("should count Tuesday once its entry is closed", func() {
			entries[1] = closed(at(utc, 12, 9, 0), at(utc, 12, 12, 0))

			totals := timeaccounting.ComputeTotals(entries, at(utc, 12, 12, 0))

			Expect(totals.DailyMinutes).To(Equal(180.0))
			Expect(totals.WeeklyMinutes).To(Equal(780.0))
		})

		It("should return the same result on repeated calls", func() {
			ref := at(utc, 12, 12, 0)
			Expect(timeaccounting.ComputeTotals(entries, ref)).To(Equal(timeaccounting.ComputeTotals(entries, ref)))
		})
	})

	It("should include an entry that starts exactly at the week boundary", func() {
		entries := []timeaccounting.ClockEntry{
			closed(at(utc, 10, 0, 0), at(utc, 10, 1, 0)),
		}

		totals := timeaccounting.ComputeTotals(entries, at(utc, 13, 8, 0))

		Expect(totals.WeeklyMinutes).To(Equal(60.0))
	})

	It("should exclude entries from the previous week", func() {
		entries := []timeaccounting.ClockEntry{
			closed(at(utc, 9, 23, 0), at(utc, 9, 23, 59)), // Saturday before
		}

		totals := timeaccounting.ComputeTotals(entries, at(utc, 10, 12, 0))

		Expect(totals.WeeklyMinutes).To(BeZero())
		Expect(totals.DailyMinutes).To(BeZero())
	})

	It("should clamp an inverted entry to zero", func() {
		entries := []timeaccounting.ClockEntry{
			closed(at(utc, 12, 10, 0), at(utc, 12, 9, 0)),
			closed(at(utc, 12, 13, 0), at(utc, 12, 14, 0)),
		}

		totals := timeaccounting.ComputeTotals(entries, at(utc, 12, 18, 0))

		Expect(totals.DailyMinutes).To(Equal(60.0))
		Expect(totals.WeeklyMinutes).To(Equal(60.0))
	})

	It("should keep fractional minutes", func() {
		in := at(utc, 12, 9, 0)
		entries := []timeaccounting.ClockEntry{closed(in, in.Add(90*time.Second))}

		totals := timeaccounting.ComputeTotals(entries, at(utc, 12, 18, 0))

		Expect(totals.DailyMinutes).To(Equal(1.5))
	})

	It("should use the reference instant's location for calendar days", func() {
		// Given a zone seven hours ahead of UTC
		jakarta := time.FixedZone("WIB", 7*60*60)
		// Monday 20:00 UTC is Tuesday 03:00 in WIB
		entries := []timeaccounting.ClockEntry{
			closed(at(utc, 11, 20, 0), at(utc, 11, 21, 0)),
		}

		inWIB := timeaccounting.ComputeTotals(entries, at(jakarta, 12, 12, 0))
		inUTC := timeaccounting.ComputeTotals(entries, at(utc, 12, 12, 0))

		Expect(inWIB.DailyMinutes).To(Equal(60.0))
		Expect(inUTC.DailyMinutes).To(BeZero())
	})

	It("should never produce negative totals", func() {
		entries := []timeaccounting.ClockEntry{
			closed(at(utc, 11, 9, 0), at(utc, 10, 9, 0)),
			open(at(utc, 11, 9, 0)),
		}

		totals := timeaccounting.ComputeTotals(entries, at(utc, 11, 12, 0))

		Expect(totals.DailyMinutes).To(BeNumerically(">=", 0))
		Expect(totals.WeeklyMinutes).To(BeNumerically(">=", totals.DailyMinutes))
	})
})

var _ = Describe("WeekStart", func() {
	It("should return the same Sunday at midnight when ref is a Sunday", func() {
		ref := at(time.UTC, 10, 15, 30)
		Expect(timeaccounting.WeekStart(ref)).To(Equal(at(time.UTC, 10, 0, 0)))
	})

	It("should go back to the previous Sunday from a Saturday", func() {
		ref := at(time.UTC, 16, 23, 59)
		Expect(timeaccounting.WeekStart(ref)).To(Equal(at(time.UTC, 10, 0, 0)))
	})
})

var _ = Describe("WeekdayBreakdown", func() {
	It("should place minutes on the weekday of the clock-in", func() {
		utc := time.UTC
		entries := []timeaccounting.ClockEntry{
			closed(at(utc, 11, 9, 0), at(utc, 11, 17, 0)),
			closed(at(utc, 13, 9, 0), at(utc, 13, 10, 30)),
			closed(at(utc, 17, 9, 0), at(utc, 17, 10, 0)), // next week
		}

		days := timeaccounting.WeekdayBreakdown(entries, at(utc, 13, 12, 0))

		Expect(days[time.Monday]).To(Equal(480.0))
		Expect(days[time.Wednesday]).To(Equal(90.0))
		Expect(days[time.Sunday]).To(BeZero())
	})
})

var _ = Describe("SplitMinutes", func() {
	It("should split into hours and remaining minutes", func() {
		hours, minutes := timeaccounting.SplitMinutes(605)
		Expect(hours).To(Equal(10))
		Expect(minutes).To(Equal(5.0))
	})

	It("should treat non-positive totals as zero", func() {
		hours, minutes := timeaccounting.SplitMinutes(-3)
		Expect(hours).To(BeZero())
		Expect(minutes).To(BeZero())
	})
})

var _ = Describe("EntriesOnDate", func() {
	It("should keep entries clocked in on the given day", func() {
		utc := time.UTC
		entries := []timeaccounting.ClockEntry{
			open(at(utc, 11, 9, 0)),
			open(at(utc, 12, 9, 0)),
		}

		got := timeaccounting.EntriesOnDate(entries, at(utc, 12, 0, 0), utc)

		Expect(got).To(HaveLen(1))
		Expect(got[0].ClockIn.Day()).To(Equal(12))
	})
})
