package models

import (
	"time"
)

// Subscriber is a newsletter signup. The unique index on Email backs the
// distinct duplicate-signup error surfaced to the public form.
type Subscriber struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Email     string `gorm:"uniqueIndex;size:255;not null"`
	CreatedAt time.Time
}

// Exhibition is a show listing on the public site.
type Exhibition struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Title     string `gorm:"size:255;not null"`
	Location  string `gorm:"size:255"`
	Dates     string `gorm:"size:255"`
	Year      string `gorm:"size:32"`
	Link      string `gorm:"size:1024"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserProfile mirrors an admin account held by the external auth provider.
// Account create/delete happens there; this row is the console's read model.
type UserProfile struct {
	ID                string `gorm:"type:char(36);primaryKey"`
	Email             string `gorm:"size:255;not null"`
	Role              string `gorm:"size:64;not null;default:admin"`
	MustResetPassword bool   `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName overrides the table name for Subscriber
func (Subscriber) TableName() string {
	return "subscribers"
}

// TableName overrides the table name for Exhibition
func (Exhibition) TableName() string {
	return "exhibitions"
}

// TableName overrides the table name for UserProfile
func (UserProfile) TableName() string {
	return "user_profiles"
}
