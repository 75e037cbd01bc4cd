package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal"
	identityDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/identity"
	"github.com/frahmantamala/employee-dashboard/internal/core/events"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service is the identity provider: it registers users, checks passwords
// and issues tokens.
type Service struct {
	credentials    CredentialRepositoryAPI
	claims         ClaimStoreAPI
	directory      DirectoryAPI
	tokenGenerator TokenGenerator
	publisher      events.Publisher
	bcryptCost     int
	logger         *slog.Logger
	now            func() time.Time
}

// NewService creates a new auth service
func NewService(credentials CredentialRepositoryAPI, claims ClaimStoreAPI, directory DirectoryAPI, tokenGen TokenGenerator, publisher events.Publisher, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		credentials:    credentials,
		claims:         claims,
		directory:      directory,
		tokenGenerator: tokenGen,
		publisher:      publisher,
		bcryptCost:     bcryptCost,
		logger:         logger,
		now:            time.Now,
	}
}

// Signup registers a new employee and announces it so the role can be
// mirrored into the identity claims.
func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*identity.Principal, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	email := strings.ToLower(strings.TrimSpace(dto.Email))

	if _, err := s.credentials.GetByEmail(ctx, email); err == nil {
		return nil, internal.ErrEmailTaken
	} else if !errors.Is(err, ErrCredentialNotFound) {
		return nil, fmt.Errorf("failed to check credentials: %w", err)
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	principal := &identity.Principal{
		UID:       uuid.NewString(),
		Email:     email,
		FullName:  strings.TrimSpace(dto.FullName),
		Role:      identity.RoleEmployee,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.directory.Create(ctx, principal); err != nil {
		return nil, err
	}

	credential := &identityDatamodel.Credential{
		UID:          principal.UID,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.credentials.Create(ctx, credential); err != nil {
		s.logger.ErrorContext(ctx, "failed to store credential", "uid", principal.UID, "error", err)
		// a principal without a credential would block the email for good
		if delErr := s.directory.Delete(ctx, principal.UID); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to roll back principal", "uid", principal.UID, "error", delErr)
		}
		if errors.Is(err, ErrCredentialExists) {
			return nil, internal.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.NewPrincipalCreatedEvent(principal.UID, principal.Email)); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish principal created", "uid", principal.UID, "error", err)
	}

	s.logger.InfoContext(ctx, "user signed up", "uid", principal.UID)
	return principal, nil
}

// Signin validates credentials and returns tokens
func (s *Service) Signin(ctx context.Context, dto SigninDTO) (AuthTokens, error) {
	if appErr := dto.Validate(); appErr != nil {
		return AuthTokens{}, appErr
	}
	email := strings.ToLower(strings.TrimSpace(dto.Email))

	credential, err := s.credentials.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrCredentialNotFound) {
			s.logger.ErrorContext(ctx, "failed to load credential", "error", err)
		}
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(credential.PasswordHash, dto.Password); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	tokens, err := s.issue(ctx, credential.UID, credential.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	if err := s.publisher.Publish(ctx, events.NewSessionEvent(events.EventTypeSessionSignedIn, credential.UID, credential.Email)); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish sign in", "uid", credential.UID, "error", err)
	}
	return tokens, nil
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return AuthTokens{}, internal.ErrInvalidToken
	}

	return s.issue(ctx, claims.UserID, claims.Email)
}

// Signout announces the end of a session. Tokens are stateless and expire on their own.
func (s *Service) Signout(ctx context.Context, session identity.Session) error {
	return s.publisher.Publish(ctx, events.NewSessionEvent(events.EventTypeSessionSignedOut, session.UID, session.Email))
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

// issue mints a token pair carrying the mirrored role claim. A principal whose
// role has not been mirrored yet gets tokens without one.
func (s *Service) issue(ctx context.Context, uid, email string) (AuthTokens, error) {
	role, err := s.claims.GetRole(ctx, uid)
	if err != nil && !errors.Is(err, ErrClaimNotFound) {
		s.logger.WarnContext(ctx, "failed to read role claim", "uid", uid, "error", err)
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(uid, email, role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(uid, email, role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate refresh token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
