package model

import "time"

// DormSemester bounds a period of dorm operations. One semester per dorm is
// active at a time; archiving snapshots the period and may roll over to the
// next one.
type DormSemester struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	DormID    int64     `gorm:"uniqueIndex:idx_semester_dorm_name;not null" json:"dormId"`
	Name      string    `gorm:"uniqueIndex:idx_semester_dorm_name;size:64;not null" json:"name"`
	StartDate time.Time `gorm:"not null" json:"startDate"`
	EndDate   time.Time `gorm:"not null" json:"endDate"`
	Active    bool      `gorm:"not null;default:false" json:"active"`
	Archived  bool      `gorm:"not null;default:false" json:"archived"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Dorm Dorm `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// SemesterArchive is the one-row JSON snapshot produced when a semester is
// archived.
type SemesterArchive struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	SemesterID int64     `gorm:"uniqueIndex;not null" json:"semesterId"`
	Snapshot   string    `gorm:"type:text;not null" json:"-"`
	ArchivedBy int64     `json:"archivedBy"`
	CreatedAt  time.Time `json:"createdAt"`

	// Associations
	Semester DormSemester `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
