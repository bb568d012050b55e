package model

import "time"

// CleaningTask is a recurring weekly duty for an area, assigned to a room
// or a single occupant.
type CleaningTask struct {
	ID         int64        `gorm:"primaryKey" json:"id"`
	DormID     int64        `gorm:"index;not null" json:"dormId"`
	SemesterID *int64       `gorm:"index" json:"semesterId,omitempty"`
	Area       string       `gorm:"size:128;not null" json:"area"`
	Weekday    time.Weekday `gorm:"not null" json:"weekday"`
	RoomID     *int64       `json:"roomId,omitempty"`
	OccupantID *int64       `json:"occupantId,omitempty"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Associations
	Dorm Dorm `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
