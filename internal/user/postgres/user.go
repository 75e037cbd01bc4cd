package postgres

import (
	"context"
	"errors"

	principalDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/principal"
	"github.com/frahmantamala/employee-dashboard/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, p *principalDatamodel.Principal) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return user.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) Delete(ctx context.Context, uid string) error {
	return r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&principalDatamodel.Principal{}).Error
}

func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*principalDatamodel.Principal, error) {
	var p principalDatamodel.Principal
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*principalDatamodel.Principal, error) {
	var p principalDatamodel.Principal
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*principalDatamodel.Principal, error) {
	var principals []*principalDatamodel.Principal
	err := r.db.WithContext(ctx).Order("full_name ASC").Find(&principals).Error
	return principals, err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, uid string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&principalDatamodel.Principal{}).Where("uid = ?", uid).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}
