package payroll

import "time"

type Payroll struct {
	ID        int64     `gorm:"primaryKey"`
	Email     string    `gorm:"column:email;index;not null"`
	Username  string    `gorm:"column:username;not null"`
	Salary    float64   `gorm:"column:salary;not null"`
	PayDate   time.Time `gorm:"column:pay_date;type:date;not null"`
	CreatedBy string    `gorm:"column:created_by;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Payroll) TableName() string {
	return "payrolls"
}
