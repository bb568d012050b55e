package model

import "time"

// OccupantStatus tracks whether a resident is still living in the dorm.
type OccupantStatus string

const (
	OccupantActive  OccupantStatus = "active"
	OccupantRemoved OccupantStatus = "removed"
)

// Occupant is a resident profile, optionally linked to a user account.
type Occupant struct {
	ID           int64          `gorm:"primaryKey" json:"id"`
	DormID       int64          `gorm:"uniqueIndex:idx_occupant_dorm_roster;not null" json:"dormId"`
	UserID       *int64         `gorm:"index" json:"userId,omitempty"`
	RosterNumber string         `gorm:"uniqueIndex:idx_occupant_dorm_roster;size:32;not null" json:"rosterNumber"`
	FullName     string         `gorm:"size:128;not null" json:"fullName"`
	Phone        string         `gorm:"size:32" json:"phone"`
	Status       OccupantStatus `gorm:"size:16;not null;default:active" json:"status"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Associations
	Dorm        Dorm             `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Assignments []RoomAssignment `gorm:"foreignKey:OccupantID" json:"-"`
}

// Room is a physical room within a dorm.
type Room struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	DormID    int64  `gorm:"uniqueIndex:idx_room_dorm_number;not null" json:"dormId"`
	Number    string `gorm:"uniqueIndex:idx_room_dorm_number;size:32;not null" json:"number"`
	Floor     int    `json:"floor"`
	Capacity  int    `json:"capacity"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Dorm Dorm `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// RoomAssignment places an occupant in a room for a bounded period.
// EndDate nil means the assignment is the occupant's current one; the store
// guarantees at most one open assignment per occupant.
type RoomAssignment struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	OccupantID int64      `gorm:"index;not null" json:"occupantId"`
	RoomID     int64      `gorm:"index;not null" json:"roomId"`
	StartDate  time.Time  `gorm:"not null" json:"startDate"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Associations
	Occupant Occupant `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Room     Room     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
