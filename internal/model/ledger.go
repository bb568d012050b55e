package model

import "time"

// LedgerCategory partitions the finance ledger.
type LedgerCategory string

const (
	LedgerMaintenance LedgerCategory = "maintenance"
	LedgerFines       LedgerCategory = "fines"
	LedgerEvents      LedgerCategory = "events"
)

// LedgerEntry is an append-only financial record. Corrections void the row
// rather than delete it. ImportKey deduplicates spreadsheet imports.
type LedgerEntry struct {
	ID         int64          `gorm:"primaryKey" json:"id"`
	DormID     int64          `gorm:"index;not null" json:"dormId"`
	OccupantID *int64         `gorm:"index" json:"occupantId,omitempty"`
	Category   LedgerCategory `gorm:"size:32;not null;index" json:"category"`
	Amount     int64          `gorm:"not null" json:"amount"` // cents, negative for charges
	Memo       string         `gorm:"size:512" json:"memo"`
	EntryDate  time.Time      `gorm:"not null" json:"entryDate"`
	ImportKey  *string        `gorm:"uniqueIndex;size:64" json:"importKey,omitempty"`
	EnteredBy  int64          `json:"enteredBy"`
	Voided     bool           `gorm:"not null;default:false" json:"voided"`
	VoidReason string         `gorm:"size:512" json:"voidReason,omitempty"`
	VoidedAt   *time.Time     `json:"voidedAt,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time

	// Associations
	Dorm Dorm `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
