package clock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/core/common/validation"
	clockDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/clock"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
	"github.com/frahmantamala/employee-dashboard/internal/timeaccounting"
)

var (
	// ErrNoOpenEntry is returned when the owner has no entry without a clock-out.
	ErrNoOpenEntry = errors.New("no open clock entry")
	// ErrOpenEntryExists is returned when storage refuses a second open entry.
	ErrOpenEntryExists = errors.New("open clock entry already exists")
)

type RepositoryAPI interface {
	Create(ctx context.Context, e *clockDatamodel.Entry) error
	ListByOwner(ctx context.Context, ownerUID string) ([]*clockDatamodel.Entry, error)
	FindOpen(ctx context.Context, ownerUID string) (*clockDatamodel.Entry, error)
	CloseEntry(ctx context.Context, id int64, at time.Time) error
}

// ReportStoreAPI lists entries with the owner's full name, newest first.
type ReportStoreAPI interface {
	ListAll(ctx context.Context) ([]*ReportRow, error)
	ListByEmail(ctx context.Context, email string) ([]*ReportRow, error)
}

type Service struct {
	repo    RepositoryAPI
	reports ReportStoreAPI
	logger  *slog.Logger
	loc     *time.Location
	now     func() time.Time
}

func NewService(repo RepositoryAPI, reports ReportStoreAPI, logger *slog.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:    repo,
		reports: reports,
		logger:  logger,
		loc:     loc,
		now:     time.Now,
	}
}

func (s *Service) ClockIn(ctx context.Context, session identity.Session) (*Entry, error) {
	if _, err := s.repo.FindOpen(ctx, session.UID); err == nil {
		return nil, internal.ErrAlreadyClockedIn
	} else if !errors.Is(err, ErrNoOpenEntry) {
		return nil, fmt.Errorf("failed to look up open entry: %w", err)
	}

	m := &clockDatamodel.Entry{
		OwnerUID:   session.UID,
		OwnerEmail: session.Email,
		ClockIn:    s.now().UTC(),
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, ErrOpenEntryExists) {
			return nil, internal.ErrAlreadyClockedIn
		}
		s.logger.ErrorContext(ctx, "failed to create clock entry", "uid", session.UID, "error", err)
		return nil, fmt.Errorf("failed to create clock entry: %w", err)
	}

	s.logger.InfoContext(ctx, "clocked in", "uid", session.UID, "entry_id", m.ID)
	return FromDataModel(m), nil
}

func (s *Service) ClockOut(ctx context.Context, session identity.Session) (*Entry, error) {
	open, err := s.repo.FindOpen(ctx, session.UID)
	if err != nil {
		if errors.Is(err, ErrNoOpenEntry) {
			return nil, internal.ErrNotClockedIn
		}
		return nil, fmt.Errorf("failed to look up open entry: %w", err)
	}

	at := s.now().UTC()
	if err := s.repo.CloseEntry(ctx, open.ID, at); err != nil {
		if errors.Is(err, ErrNoOpenEntry) {
			// closed concurrently by another request
			return nil, internal.ErrNotClockedIn
		}
		s.logger.ErrorContext(ctx, "failed to close clock entry", "uid", session.UID, "entry_id", open.ID, "error", err)
		return nil, fmt.Errorf("failed to close clock entry: %w", err)
	}
	open.ClockOut = &at

	s.logger.InfoContext(ctx, "clocked out", "uid", session.UID, "entry_id", open.ID)
	return FromDataModel(open), nil
}

// MySummary totals the caller's entries against the current time in the
// configured timezone.
func (s *Service) MySummary(ctx context.Context, session identity.Session) (*Summary, error) {
	models, err := s.repo.ListByOwner(ctx, session.UID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list clock entries", "uid", session.UID, "error", err)
		return nil, err
	}

	ref := s.now().In(s.loc)
	entries := make([]*Entry, 0, len(models))
	acc := make([]timeaccounting.ClockEntry, 0, len(models))
	for _, m := range models {
		e := FromDataModel(m)
		entries = append(entries, e)
		acc = append(acc, e.accounting())
	}

	summary := &Summary{
		Entries: entries,
		Today:   timeaccounting.EntriesOnDate(entries, ref, s.loc),
		Totals:  timeaccounting.ComputeTotals(acc, ref),
		Weekday: timeaccounting.WeekdayBreakdown(acc, ref),
	}
	summary.Daily = NewDuration(summary.DailyMinutes)
	summary.Weekly = NewDuration(summary.WeeklyMinutes)

	for _, e := range entries {
		if e.ClockOut == nil {
			summary.IsClockedIn = true
			summary.OpenEntry = e
		}
	}
	return summary, nil
}

// Report lists all entries for the admin view. Entries whose owner has no
// directory record are shown under the unknown-user placeholder.
func (s *Service) Report(ctx context.Context, filter ReportFilter) ([]*ReportRow, error) {
	var (
		day    time.Time
		hasDay bool
	)
	if filter.Date != "" {
		parsed, appErr := validation.ParseDate("date", filter.Date, s.loc)
		if appErr != nil {
			return nil, appErr
		}
		day, hasDay = parsed, true
	}

	var (
		rows []*ReportRow
		err  error
	)
	if email := strings.ToLower(strings.TrimSpace(filter.Email)); email != "" {
		rows, err = s.reports.ListByEmail(ctx, email)
	} else {
		rows, err = s.reports.ListAll(ctx)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load clock report", "error", err)
		return nil, err
	}
	if hasDay {
		rows = timeaccounting.EntriesOnDate(rows, day, s.loc)
	}

	name := strings.ToLower(strings.TrimSpace(filter.Name))
	out := make([]*ReportRow, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r.FullName) == "" {
			r.FullName = identity.UnknownName
		}
		if name != "" && !strings.Contains(strings.ToLower(r.FullName), name) {
			continue
		}
		r.Minutes = r.accounting().Minutes()
		out = append(out, r)
	}
	return out, nil
}
