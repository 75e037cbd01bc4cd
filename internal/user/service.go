package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal"
	principalDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/principal"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
)

var (
	// ErrNotFound is returned by repositories when no principal matches.
	ErrNotFound = errors.New("principal not found")
	// ErrDuplicateEmail is returned when the email unique constraint rejects an insert.
	ErrDuplicateEmail = errors.New("principal email already exists")
)

type RepositoryAPI interface {
	Create(ctx context.Context, p *principalDatamodel.Principal) error
	GetByUID(ctx context.Context, uid string) (*principalDatamodel.Principal, error)
	GetByEmail(ctx context.Context, email string) (*principalDatamodel.Principal, error)
	List(ctx context.Context) ([]*principalDatamodel.Principal, error)
	UpdateProfile(ctx context.Context, uid string, fields map[string]interface{}) error
	Delete(ctx context.Context, uid string) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) GetByUID(ctx context.Context, uid string) (*identity.Principal, error) {
	m, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("failed to get principal by uid: %w", err)
	}
	return FromDataModel(m), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*identity.Principal, error) {
	m, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("failed to get principal by email: %w", err)
	}
	return FromDataModel(m), nil
}

// DisplayName resolves an email to a full name, falling back to the
// "Unknown User" placeholder when the principal is missing or unreadable.
func (s *Service) DisplayName(ctx context.Context, email string) string {
	p, err := s.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, internal.ErrPrincipalNotFound) {
			s.logger.ErrorContext(ctx, "failed to resolve display name", "email", email, "error", err)
		}
		return identity.UnknownName
	}
	return p.DisplayName()
}

func (s *Service) List(ctx context.Context) ([]*identity.Principal, error) {
	models, err := s.repo.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list principals", "error", err)
		return nil, err
	}
	out := make([]*identity.Principal, 0, len(models))
	for _, m := range models {
		out = append(out, FromDataModel(m))
	}
	return out, nil
}

// Create stores a new principal. The email must not already be registered.
func (s *Service) Create(ctx context.Context, p *identity.Principal) error {
	p.Email = normalizeEmail(p.Email)
	if _, err := s.repo.GetByEmail(ctx, p.Email); err == nil {
		return internal.ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if p.Role == identity.RoleUndefined {
		p.Role = identity.RoleEmployee
	}
	if err := s.repo.Create(ctx, ToDataModel(p)); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return internal.ErrEmailTaken
		}
		s.logger.ErrorContext(ctx, "failed to create principal", "error", err, "email", p.Email)
		return fmt.Errorf("failed to create principal: %w", err)
	}

	s.logger.InfoContext(ctx, "principal created", "uid", p.UID, "role", p.Role)
	return nil
}

// Delete removes a principal. Deleting an unknown uid is not an error.
func (s *Service) Delete(ctx context.Context, uid string) error {
	if err := s.repo.Delete(ctx, uid); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete principal", "uid", uid, "error", err)
		return fmt.Errorf("failed to delete principal: %w", err)
	}
	s.logger.InfoContext(ctx, "principal deleted", "uid", uid)
	return nil
}

func (s *Service) UpdateProfile(ctx context.Context, uid string, dto UpdateProfileDTO) (*identity.Principal, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	if dto.IsEmpty() {
		return s.GetByUID(ctx, uid)
	}

	fields := dto.Fields()
	fields["updated_at"] = s.now()
	if err := s.repo.UpdateProfile(ctx, uid, fields); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrPrincipalNotFound
		}
		s.logger.ErrorContext(ctx, "failed to update profile", "error", err, "uid", uid)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.InfoContext(ctx, "profile updated", "uid", uid)
	return s.GetByUID(ctx, uid)
}

// SetRole changes a principal's privilege tier in the directory. Issued tokens
// pick the new role up only after the role mirror has run.
func (s *Service) SetRole(ctx context.Context, uid string, role identity.Role) error {
	if role != identity.RoleEmployee && role != identity.RoleAdmin {
		return internal.NewValidationFieldError("role", fmt.Sprintf("unknown role %q", role), internal.ErrCodeValidationFailed)
	}

	err := s.repo.UpdateProfile(ctx, uid, map[string]interface{}{
		"role":       string(role),
		"updated_at": s.now(),
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrPrincipalNotFound
		}
		return fmt.Errorf("failed to set role: %w", err)
	}

	s.logger.InfoContext(ctx, "role changed", "uid", uid, "role", role)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
