package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal/auth"
	identityDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/identity"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) Create(ctx context.Context, c *identityDatamodel.Credential) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return auth.ErrCredentialExists
	}
	return err
}

func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*identityDatamodel.Credential, error) {
	var c identityDatamodel.Credential
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrCredentialNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ClaimRepository stores the role claim that tokens are minted with.
type ClaimRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewClaimRepository(db *gorm.DB) *ClaimRepository {
	return &ClaimRepository{db: db, now: time.Now}
}

func (r *ClaimRepository) SetRole(ctx context.Context, uid string, role identity.Role) error {
	claim := identityDatamodel.Claim{
		UID:       uid,
		Role:      string(role),
		UpdatedAt: r.now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
	}).Create(&claim).Error
}

func (r *ClaimRepository) GetRole(ctx context.Context, uid string) (identity.Role, error) {
	var claim identityDatamodel.Claim
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return identity.RoleUndefined, auth.ErrClaimNotFound
		}
		return identity.RoleUndefined, err
	}
	return identity.ParseRole(claim.Role), nil
}
