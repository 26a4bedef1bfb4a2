package models

import (
	"time"
)

// User model. Contact fields and declared income live directly on the user;
// the password hash is persisted but never serialized.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"-"`
	DeletedAt      *time.Time `gorm:"index" json:"-"`
	FirstName      string     `gorm:"size:128;not null" json:"firstName"`
	LastName       string     `gorm:"size:128;not null" json:"lastName"`
	Email          string     `gorm:"size:255;not null;unique" json:"email"`
	Phone          string     `gorm:"size:64" json:"phone"`
	HashedPassword []byte     `gorm:"not null" json:"-"`
	// CurrentRole is a key into the roles catalog (e.g. "data analyst").
	CurrentRole   string  `gorm:"size:64;not null" json:"currentRole"`
	MonthlyIncome float64 `gorm:"not null" json:"monthlyIncome"`
	PhotoPath     string  `gorm:"size:512" json:"photoUrl"`
}
