package model

import "time"

// CommitteeRole is the role a user holds within a committee, separate from
// their dorm role.
type CommitteeRole string

const (
	CommitteeHead       CommitteeRole = "head"
	CommitteeCoHead     CommitteeRole = "co-head"
	CommitteeMemberRole CommitteeRole = "member"
)

// Committee groups users around a shared responsibility (events, cleaning,
// welfare). Committees own sub-events and expenses.
type Committee struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	DormID      int64  `gorm:"uniqueIndex:idx_committee_dorm_name;not null" json:"dormId"`
	Name        string `gorm:"uniqueIndex:idx_committee_dorm_name;size:128;not null" json:"name"`
	Description string `gorm:"size:512" json:"description"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Associations
	Dorm    Dorm              `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Members []CommitteeMember `gorm:"foreignKey:CommitteeID" json:"members,omitempty"`
}

// CommitteeMember links a user to a committee with a committee role.
type CommitteeMember struct {
	ID          int64         `gorm:"primaryKey" json:"id"`
	CommitteeID int64         `gorm:"uniqueIndex:idx_committee_member;not null" json:"committeeId"`
	UserID      int64         `gorm:"uniqueIndex:idx_committee_member;not null" json:"userId"`
	Role        CommitteeRole `gorm:"size:16;not null" json:"role"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Associations
	Committee Committee `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// CommitteeExpense records committee spending, mirrored into the dorm
// maintenance ledger.
type CommitteeExpense struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	CommitteeID   int64     `gorm:"index;not null" json:"committeeId"`
	Amount        int64     `gorm:"not null" json:"amount"` // cents
	Memo          string    `gorm:"size:512" json:"memo"`
	SpentAt       time.Time `gorm:"not null" json:"spentAt"`
	LedgerEntryID *int64    `json:"ledgerEntryId,omitempty"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Associations
	Committee Committee `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
