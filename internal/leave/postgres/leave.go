package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	leaveDatamodel "github.com/frahmantamala/employee-dashboard/internal/core/datamodel/leave"
	"github.com/frahmantamala/employee-dashboard/internal/leave"
	"github.com/frahmantamala/employee-dashboard/internal/timeaccounting"
	"gorm.io/gorm"
)

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.RepositoryAPI {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(ctx context.Context, req *leaveDatamodel.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *LeaveRepository) ListByOwner(ctx context.Context, ownerUID string) ([]*leaveDatamodel.Request, error) {
	var requests []*leaveDatamodel.Request
	err := r.db.WithContext(ctx).
		Where("owner_uid = ?", ownerUID).
		Order("start_date DESC, id DESC").
		Find(&requests).Error
	return requests, err
}

func (r *LeaveRepository) ListAll(ctx context.Context) ([]*leaveDatamodel.Request, error) {
	var requests []*leaveDatamodel.Request
	err := r.db.WithContext(ctx).
		Order("start_date DESC, id DESC").
		Find(&requests).Error
	return requests, err
}

func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*leaveDatamodel.Request, error) {
	var req leaveDatamodel.Request
	err := r.db.WithContext(ctx).First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leave.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// UpdateStatus only touches a request that is still pending, whatever the case
// of the stored status. When two admins decide the same request at once the
// first update wins and the second gets ErrNotPending.
func (r *LeaveRepository) UpdateStatus(ctx context.Context, id int64, status string, decidedBy string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&leaveDatamodel.Request{}).
		Where("id = ? AND LOWER(status) = ?", id, strings.ToLower(string(timeaccounting.LeavePending))).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": at,
			"updated_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&leaveDatamodel.Request{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return leave.ErrNotFound
		}
		return leave.ErrNotPending
	}
	return nil
}
