package clock

import "time"

type Entry struct {
	ID         int64      `gorm:"primaryKey"`
	OwnerUID   string     `gorm:"column:owner_uid;index;not null"`
	OwnerEmail string     `gorm:"column:owner_email;index;not null"`
	ClockIn    time.Time  `gorm:"column:clock_in;not null"`
	ClockOut   *time.Time `gorm:"column:clock_out"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (Entry) TableName() string {
	return "clock_entries"
}
