package identity

import "time"

// Credential holds the password hash for a principal. It lives apart from
// the directory record so profile reads never load it.
type Credential struct {
	UID          string    `gorm:"column:uid;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Credential) TableName() string {
	return "credentials"
}

// Claim is the role mirrored from the directory into issued tokens.
type Claim struct {
	UID       string    `gorm:"column:uid;primaryKey"`
	Role      string    `gorm:"column:role;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Claim) TableName() string {
	return "identity_claims"
}
