package auth

import (
	"context"
	"errors"

	identityDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/identity"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrCredentialExists   = errors.New("credential already exists")
	ErrClaimNotFound      = errors.New("identity claim not found")
)

// TokenGenerator creates and validates signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID, email string, role identity.Role) (string, error)
	GenerateRefreshToken(userID, email string, role identity.Role) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type CredentialRepositoryAPI interface {
	Create(ctx context.Context, c *identityDatamodel.Credential) error
	GetByEmail(ctx context.Context, email string) (*identityDatamodel.Credential, error)
}

// ClaimStoreAPI keeps the role that issued tokens carry.
type ClaimStoreAPI interface {
	SetRole(ctx context.Context, uid string, role identity.Role) error
	GetRole(ctx context.Context, uid string) (identity.Role, error)
}

// DirectoryAPI is what the identity service needs from the user directory.
type DirectoryAPI interface {
	Create(ctx context.Context, p *identity.Principal) error
	GetByUID(ctx context.Context, uid string) (*identity.Principal, error)
	Delete(ctx context.Context, uid string) error
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func (c *Claims) Session() identity.Session {
	return identity.Session{UID: c.UserID, Email: c.Email}
}
