package leave

import "time"

type Request struct {
	ID        int64      `gorm:"primaryKey"`
	OwnerUID  string     `gorm:"column:owner_uid;index;not null"`
	Email     string     `gorm:"column:email;not null"`
	FullName  string     `gorm:"column:full_name;not null"`
	StartDate time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate   time.Time  `gorm:"column:end_date;type:date;not null"`
	Reason    string     `gorm:"column:reason"`
	Status    string     `gorm:"column:status;not null"`
	DecidedBy *string    `gorm:"column:decided_by"`
	DecidedAt *time.Time `gorm:"column:decided_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (Request) TableName() string {
	return "leave_requests"
}
