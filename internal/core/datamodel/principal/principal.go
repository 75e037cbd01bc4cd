package principal

import "time"

type Principal struct {
	UID           string    `gorm:"column:uid;primaryKey"`
	Email         string    `gorm:"column:email;uniqueIndex;not null"`
	FullName      string    `gorm:"column:full_name;not null"`
	Role          string    `gorm:"column:role;not null"`
	EmergencyInfo string    `gorm:"column:emergency_info"`
	OtherInfo     string    `gorm:"column:other_info"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (Principal) TableName() string {
	return "principals"
}
