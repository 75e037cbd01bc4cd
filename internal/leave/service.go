package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/core/common/validation"
	leaveDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/leave"
	"github.com/frahmantamala/employee-dashboard/internal/core/events"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
	"github.com/frahmantamala/employee-dashboard/internal/timeaccounting"
)

var (
	ErrNotFound = errors.New("leave request not found")
	// ErrNotPending is returned by UpdateStatus when the request was decided
	// before the update reached it.
	ErrNotPending = errors.New("leave request is no longer pending")
)

type RepositoryAPI interface {
	Create(ctx context.Context, r *leaveDatamodel.Request) error
	ListByOwner(ctx context.Context, ownerUID string) ([]*leaveDatamodel.Request, error)
	ListAll(ctx context.Context) ([]*leaveDatamodel.Request, error)
	GetByID(ctx context.Context, id int64) (*leaveDatamodel.Request, error)
	UpdateStatus(ctx context.Context, id int64, status string, decidedBy string, at time.Time) error
}

// DirectoryAPI resolves a requester's display name.
type DirectoryAPI interface {
	DisplayName(ctx context.Context, email string) string
}

type Service struct {
	repo      RepositoryAPI
	directory DirectoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, directory DirectoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) Create(ctx context.Context, session identity.Session, dto CreateRequestDTO) (*Request, error) {
	start, end, appErr := dto.Validate()
	if appErr != nil {
		return nil, appErr
	}

	now := s.now()
	r := &Request{
		OwnerUID:  session.UID,
		Email:     session.Email,
		FullName:  s.directory.DisplayName(ctx, session.Email),
		StartDate: start,
		EndDate:   end,
		Reason:    strings.TrimSpace(dto.Reason),
		Status:    timeaccounting.LeavePending,
		CreatedAt: now,
	}

	m := ToDataModel(r)
	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.ErrorContext(ctx, "failed to create leave request", "uid", session.UID, "error", err)
		return nil, fmt.Errorf("failed to create leave request: %w", err)
	}
	r.ID = m.ID

	s.logger.InfoContext(ctx, "leave requested", "uid", session.UID, "leave_id", r.ID,
		"start", start.Format(time.DateOnly), "end", end.Format(time.DateOnly))
	return r, nil
}

func (s *Service) Mine(ctx context.Context, session identity.Session) (*ListResponse, error) {
	models, err := s.repo.ListByOwner(ctx, session.UID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list own leave requests", "uid", session.UID, "error", err)
		return nil, err
	}
	requests := fromDataModels(models)
	s.warnUnknownStatuses(ctx, requests)
	return newListResponse(requests), nil
}

// List returns every request, narrowed to those covering filter.Date and
// whose requester name contains filter.Name. The tally counts what is returned.
func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	var (
		day    time.Time
		hasDay bool
	)
	if filter.Date != "" {
		parsed, appErr := validation.ParseDate("date", filter.Date, time.UTC)
		if appErr != nil {
			return nil, appErr
		}
		day, hasDay = parsed, true
	}

	models, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list leave requests", "error", err)
		return nil, err
	}

	requests := fromDataModels(models)
	s.warnUnknownStatuses(ctx, requests)
	if hasDay {
		requests = timeaccounting.RequestsCoveringDate(requests, day)
	}
	requests = timeaccounting.FilterLeaveByName(requests, filter.Name)
	return newListResponse(requests), nil
}

func (s *Service) Approve(ctx context.Context, actor identity.Session, id int64) (*Request, error) {
	return s.decide(ctx, actor, id, timeaccounting.LeaveApproved)
}

func (s *Service) Decline(ctx context.Context, actor identity.Session, id int64) (*Request, error) {
	return s.decide(ctx, actor, id, timeaccounting.LeaveDeclined)
}

func (s *Service) decide(ctx context.Context, actor identity.Session, id int64, next timeaccounting.LeaveStatus) (*Request, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrLeaveNotFound
		}
		return nil, fmt.Errorf("failed to load leave request: %w", err)
	}

	current := FromDataModel(m)
	if !current.Status.CanTransitionTo(next) {
		return nil, internal.ErrLeaveAlreadyDecided
	}

	at := s.now()
	if err := s.repo.UpdateStatus(ctx, id, string(next), actor.Email, at); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrLeaveNotFound
		}
		if errors.Is(err, ErrNotPending) {
			s.logger.WarnContext(ctx, "leave decision lost to a concurrent update", "leave_id", id, "actor", actor.UID)
			return nil, internal.ErrLeaveAlreadyDecided
		}
		s.logger.ErrorContext(ctx, "failed to update leave status", "leave_id", id, "error", err)
		return nil, fmt.Errorf("failed to update leave status: %w", err)
	}

	current.Status = next
	current.DecidedBy = actor.Email
	current.DecidedAt = &at

	event := events.NewLeaveStatusChangedEvent(id, current.OwnerUID, string(next), actor.Email)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish leave decision", "leave_id", id, "error", err)
	}

	s.logger.InfoContext(ctx, "leave decided", "leave_id", id, "status", next, "actor", actor.UID)
	return current, nil
}

// warnUnknownStatuses reports records the tally will skip.
func (s *Service) warnUnknownStatuses(ctx context.Context, requests []*Request) {
	for _, r := range requests {
		if !r.Status.Valid() {
			s.logger.WarnContext(ctx, "leave request has an unrecognised status", "leave_id", r.ID, "status", r.Status)
		}
	}
}

func fromDataModels(models []*leaveDatamodel.Request) []*Request {
	out := make([]*Request, 0, len(models))
	for _, m := range models {
		out = append(out, FromDataModel(m))
	}
	return out
}
