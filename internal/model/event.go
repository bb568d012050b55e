package model

import "time"

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventCancelled EventStatus = "cancelled"
)

// Event is a dorm activity. Competition mode turns it into a scored,
// ranked team competition.
type Event struct {
	ID          int64       `gorm:"primaryKey" json:"id"`
	DormID      int64       `gorm:"index;not null" json:"dormId"`
	SemesterID  *int64      `gorm:"index" json:"semesterId,omitempty"`
	CommitteeID *int64      `gorm:"index" json:"committeeId,omitempty"`
	Title       string      `gorm:"size:256;not null" json:"title"`
	Description string      `gorm:"size:2048" json:"description"`
	StartsAt    time.Time   `gorm:"not null" json:"startsAt"`
	EndsAt      *time.Time  `json:"endsAt,omitempty"`
	Status      EventStatus `gorm:"size:16;not null;default:draft" json:"status"`
	Competition bool        `gorm:"not null;default:false" json:"competition"`
	CreatedByID int64       `json:"createdById"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time

	// Associations
	Dorm       Dorm                 `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Teams      []EventTeam          `gorm:"foreignKey:EventID" json:"-"`
	Categories []EventScoreCategory `gorm:"foreignKey:EventID" json:"-"`
}

// EventTeam is a competing team within a competition-mode event.
// RankOverride, when set, pins the team above any computed ordering.
type EventTeam struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	EventID      int64  `gorm:"uniqueIndex:idx_event_team_name;not null" json:"eventId"`
	Name         string `gorm:"uniqueIndex:idx_event_team_name;size:128;not null" json:"name"`
	MemberCount  int    `gorm:"not null;default:0" json:"memberCount"`
	RankOverride *int   `json:"rankOverride,omitempty"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Associations
	Event Event `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// EventScoreCategory is a judged category. SortOrder decides tie-break
// priority between categories on the leaderboard.
type EventScoreCategory struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	EventID   int64  `gorm:"uniqueIndex:idx_event_category_name;not null" json:"eventId"`
	Name      string `gorm:"uniqueIndex:idx_event_category_name;size:128;not null" json:"name"`
	SortOrder int    `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Event Event `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// EventScore is one awarded score row: points for a team in a category.
type EventScore struct {
	ID         int64 `gorm:"primaryKey" json:"id"`
	EventID    int64 `gorm:"index;not null" json:"eventId"`
	TeamID     int64 `gorm:"index;not null" json:"teamId"`
	CategoryID int64 `gorm:"index;not null" json:"categoryId"`
	Points     int   `gorm:"not null" json:"points"`
	AwardedBy  int64 `json:"awardedBy"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Associations
	Event    Event              `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Team     EventTeam          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Category EventScoreCategory `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
