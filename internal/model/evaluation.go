package model

import "time"

// EvaluationCycle is a rating period during which peers score occupants
// against a weighted criteria template.
type EvaluationCycle struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	DormID     int64     `gorm:"index;not null" json:"dormId"`
	SemesterID *int64    `gorm:"index" json:"semesterId,omitempty"`
	Name       string    `gorm:"size:128;not null" json:"name"`
	OpensAt    time.Time `gorm:"not null" json:"opensAt"`
	ClosesAt   time.Time `gorm:"not null" json:"closesAt"`
	Closed     bool      `gorm:"not null;default:false" json:"closed"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Associations
	Dorm     Dorm                  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Criteria []EvaluationCriterion `gorm:"foreignKey:CycleID" json:"criteria,omitempty"`
}

// EvaluationCriterion is one weighted template criterion within a cycle.
type EvaluationCriterion struct {
	ID       int64   `gorm:"primaryKey" json:"id"`
	CycleID  int64   `gorm:"uniqueIndex:idx_eval_criterion;not null" json:"cycleId"`
	Name     string  `gorm:"uniqueIndex:idx_eval_criterion;size:128;not null" json:"name"`
	Weight   float64 `gorm:"not null" json:"weight"`
	MaxScore int     `gorm:"not null;default:10" json:"maxScore"`

	// Associations
	Cycle EvaluationCycle `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// EvaluationSubmission is one rater's scores for one occupant in a cycle.
// Scores is a JSON object keyed by criterion ID.
type EvaluationSubmission struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	CycleID     int64  `gorm:"uniqueIndex:idx_eval_submission;not null" json:"cycleId"`
	OccupantID  int64  `gorm:"uniqueIndex:idx_eval_submission;not null" json:"occupantId"`
	SubmittedBy int64  `gorm:"uniqueIndex:idx_eval_submission;not null" json:"submittedBy"`
	Scores      string `gorm:"type:text;not null" json:"scores"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Associations
	Cycle    EvaluationCycle `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Occupant Occupant        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
