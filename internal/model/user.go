package model

import "time"

// User is an account that can sign in. Occupants may exist without one.
type User struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;size:254;not null" json:"email"`
	DisplayName  string `gorm:"size:128;not null" json:"displayName"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Associations
	Memberships []DormMembership `gorm:"foreignKey:UserID" json:"-"`
}
