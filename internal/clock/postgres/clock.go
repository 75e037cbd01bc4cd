package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal/clock"
	clockDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/clock"
	"gorm.io/gorm"
)

type ClockRepository struct {
	db *gorm.DB
}

func NewClockRepository(db *gorm.DB) clock.RepositoryAPI {
	return &ClockRepository{db: db}
}

func (r *ClockRepository) Create(ctx context.Context, e *clockDatamodel.Entry) error {
	err := r.db.WithContext(ctx).Create(e).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return clock.ErrOpenEntryExists
	}
	return err
}

func (r *ClockRepository) ListByOwner(ctx context.Context, ownerUID string) ([]*clockDatamodel.Entry, error) {
	var entries []*clockDatamodel.Entry
	err := r.db.WithContext(ctx).
		Where("owner_uid = ?", ownerUID).
		Order("clock_in DESC").
		Find(&entries).Error
	return entries, err
}

func (r *ClockRepository) FindOpen(ctx context.Context, ownerUID string) (*clockDatamodel.Entry, error) {
	var e clockDatamodel.Entry
	err := r.db.WithContext(ctx).
		Where("owner_uid = ? AND clock_out IS NULL", ownerUID).
		Order("clock_in DESC").
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, clock.ErrNoOpenEntry
		}
		return nil, err
	}
	return &e, nil
}

// CloseEntry sets clock_out only while the entry is still open, so two
// concurrent clock-outs cannot both succeed.
func (r *ClockRepository) CloseEntry(ctx context.Context, id int64, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&clockDatamodel.Entry{}).
		Where("id = ? AND clock_out IS NULL", id).
		Update("clock_out", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return clock.ErrNoOpenEntry
	}
	return nil
}
