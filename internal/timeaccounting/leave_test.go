package timeaccounting_test

import (
	"time"

	"github.com/frahmantamala/employee-dashboard/internal/timeaccounting"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func date(day int) time.Time {
	return time.Date(2024, time.May, day, 0, 0, 0, 0, time.UTC)
}

func leave(name string, start, end int, status timeaccounting.LeaveStatus) timeaccounting.LeaveRequest {
	return timeaccounting.LeaveRequest{
		FullName:  name,
		StartDate: date(start),
		EndDate:   date(end),
		Status:    status,
	}
}

var _ = Describe("TallyLeaveStatuses", func() {
	It("should count each status", func() {
		requests := []timeaccounting.LeaveRequest{
			leave("Ana", 1, 2, timeaccounting.LeavePending),
			leave("Budi", 3, 4, timeaccounting.LeaveApproved),
			leave("Citra", 5, 6, timeaccounting.LeaveDeclined),
			leave("Dewi", 7, 8, timeaccounting.LeaveApproved),
		}

		tally := timeaccounting.TallyLeaveStatuses(requests)

		Expect(tally).To(Equal(timeaccounting.LeaveTally{Total: 4, Pending: 1, Approved: 2, Declined: 1}))
	})

	It("should keep declined equal to total minus pending minus approved", func() {
		requests := []timeaccounting.LeaveRequest{
			leave("Ana", 1, 2, timeaccounting.LeaveDeclined),
			leave("Budi", 1, 2, "approved"),
			leave("Citra", 1, 2, "on hold"),
			leave("Dewi", 1, 2, timeaccounting.LeaveDeclined),
		}

		tally := timeaccounting.TallyLeaveStatuses(requests)

		Expect(tally.Declined).To(Equal(tally.Total - tally.Pending - tally.Approved))
		Expect(tally.Declined).To(Equal(2))
		Expect(tally.Total).To(Equal(3))
	})

	It("should return zeros for no requests", func() {
		Expect(timeaccounting.TallyLeaveStatuses([]timeaccounting.LeaveRequest{})).To(BeZero())
	})
})

var _ = Describe("RequestsCoveringDate", func() {
	requests := []timeaccounting.LeaveRequest{
		leave("Ana", 10, 12, timeaccounting.LeavePending),
		leave("Budi", 12, 12, timeaccounting.LeaveApproved),
		leave("Citra", 13, 20, timeaccounting.LeavePending),
		leave("Dewi", 15, 11, timeaccounting.LeavePending), // malformed range
	}

	It("should include requests starting or ending on the date", func() {
		got := timeaccounting.RequestsCoveringDate(requests, date(12))

		names := []string{}
		for _, r := range got {
			names = append(names, r.FullName)
		}
		Expect(names).To(ConsistOf("Ana", "Budi"))
	})

	It("should ignore the time of day of the queried date", func() {
		got := timeaccounting.RequestsCoveringDate(requests, date(10).Add(23*time.Hour))
		Expect(got).To(HaveLen(1))
		Expect(got[0].FullName).To(Equal("Ana"))
	})

	It("should never match a request whose start is after its end", func() {
		got := timeaccounting.RequestsCoveringDate(requests, date(13))
		Expect(got).To(HaveLen(1))
		Expect(got[0].FullName).To(Equal("Citra"))
	})

	It("should return an empty slice when nothing matches", func() {
		got := timeaccounting.RequestsCoveringDate(requests, date(1))
		Expect(got).NotTo(BeNil())
		Expect(got).To(BeEmpty())
	})
})

var _ = Describe("FilterLeaveByName", func() {
	requests := []timeaccounting.LeaveRequest{
		leave("Ana Rahma", 1, 1, timeaccounting.LeavePending),
		leave("Budi", 1, 1, timeaccounting.LeavePending),
	}

	It("should match case-insensitively", func() {
		got := timeaccounting.FilterLeaveByName(requests, "RAHMA")
		Expect(got).To(HaveLen(1))
		Expect(got[0].FullName).To(Equal("Ana Rahma"))
	})

	It("should keep everything for an empty query", func() {
		Expect(timeaccounting.FilterLeaveByName(requests, "  ")).To(HaveLen(2))
	})
})

var _ = Describe("LeaveStatus", func() {
	DescribeTable("CanTransitionTo",
		func(from, to timeaccounting.LeaveStatus, allowed bool) {
			Expect(from.CanTransitionTo(to)).To(Equal(allowed))
		},
		Entry("pending to approved", timeaccounting.LeavePending, timeaccounting.LeaveApproved, true),
		Entry("pending to declined", timeaccounting.LeavePending, timeaccounting.LeaveDeclined, true),
		Entry("pending to pending", timeaccounting.LeavePending, timeaccounting.LeavePending, false),
		Entry("approved to declined", timeaccounting.LeaveApproved, timeaccounting.LeaveDeclined, false),
		Entry("declined to approved", timeaccounting.LeaveDeclined, timeaccounting.LeaveApproved, false),
	)

	It("should parse stored statuses regardless of case", func() {
		status, ok := timeaccounting.ParseLeaveStatus(" APPROVED ")
		Expect(ok).To(BeTrue())
		Expect(status).To(Equal(timeaccounting.LeaveApproved))

		_, ok = timeaccounting.ParseLeaveStatus("cancelled")
		Expect(ok).To(BeFalse())
	})
})
