package model

import "time"

// Dorm is the tenant boundary. Every other row hangs off a dorm.
type Dorm struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Slug      string `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	Name      string `gorm:"size:128;not null" json:"name"`
	Capacity  int    `json:"capacity"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Occupants []Occupant `gorm:"foreignKey:DormID" json:"-"`
	Rooms     []Room     `gorm:"foreignKey:DormID" json:"-"`
}

// Role is the per-dorm role a user holds.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTreasurer Role = "treasurer"
	RoleSecretary Role = "secretary"
	RoleOccupant  Role = "occupant"
)

// DormMembership maps (dorm, user) to a role. It is the single
// authorization fact the whole service checks.
type DormMembership struct {
	ID        int64 `gorm:"primaryKey" json:"id"`
	DormID    int64 `gorm:"uniqueIndex:idx_membership_dorm_user;not null" json:"dormId"`
	UserID    int64 `gorm:"uniqueIndex:idx_membership_dorm_user;not null" json:"userId"`
	Role      Role  `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Dorm Dorm `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
