package model

import "time"

// FineRule is a named, reusable charge definition.
type FineRule struct {
	ID            int64  `gorm:"primaryKey" json:"id"`
	DormID        int64  `gorm:"uniqueIndex:idx_fine_rule_dorm_name;not null" json:"dormId"`
	Name          string `gorm:"uniqueIndex:idx_fine_rule_dorm_name;size:128;not null" json:"name"`
	DefaultAmount int64  `gorm:"not null" json:"defaultAmount"` // cents
	Active        bool   `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Associations
	Dorm Dorm `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Fine is a charge against an occupant. Voided fines keep their row for
// audit history; the mirrored ledger entry is voided alongside.
type Fine struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	DormID        int64      `gorm:"index;not null" json:"dormId"`
	OccupantID    int64      `gorm:"index;not null" json:"occupantId"`
	SemesterID    *int64     `gorm:"index" json:"semesterId,omitempty"`
	RuleID        *int64     `json:"ruleId,omitempty"`
	Amount        int64      `gorm:"not null" json:"amount"` // cents
	Reason        string     `gorm:"size:512;not null" json:"reason"`
	IssuedByID    int64      `gorm:"not null" json:"issuedById"`
	LedgerEntryID *int64     `json:"ledgerEntryId,omitempty"`
	Voided        bool       `gorm:"not null;default:false" json:"voided"`
	VoidReason    string     `gorm:"size:512" json:"voidReason,omitempty"`
	VoidedAt      *time.Time `json:"voidedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time

	// Associations
	Dorm     Dorm     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Occupant Occupant `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
