// Package store is the persistence layer. Plain single-table reads go
// through gorm directly in the handlers; every multi-table write lives here
// so it can run inside one transaction.
package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"dormops-backend/internal/model"
)

// Store defines the database operations with cross-table semantics.
type Store interface {
	DB() *gorm.DB

	// Memberships
	RolesFor(ctx context.Context, userID, dormID int64) ([]model.Role, error)

	// Occupants and rooms
	AssignRoom(ctx context.Context, dormID, occupantID, roomID int64, start time.Time) (*model.RoomAssignment, error)

	// Fines
	IssueFine(ctx context.Context, p IssueFineParams) (*model.Fine, error)
	VoidFine(ctx context.Context, fineID, actorID int64, reason string) (*model.Fine, error)

	// Ledger
	AddLedgerEntry(ctx context.Context, p LedgerEntryParams) (*model.LedgerEntry, error)
	VoidLedgerEntry(ctx context.Context, entryID, actorID int64, reason string) (*model.LedgerEntry, error)
	OccupantBalance(ctx context.Context, occupantID int64) (int64, error)
	DormLedgerSummary(ctx context.Context, dormID int64) (map[model.LedgerCategory]int64, error)

	// Committees
	AddCommitteeExpense(ctx context.Context, p CommitteeExpenseParams) (*model.CommitteeExpense, error)

	// Semesters
	ArchiveSemester(ctx context.Context, p ArchiveParams) (*model.SemesterArchive, error)

	// Audit
	RecordAudit(ctx context.Context, dormID, userID int64, action, subject, detail string)
	CountRecentActions(ctx context.Context, dormID, userID int64, action string, window time.Duration) (int64, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for plain reads in handlers.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// RolesFor returns the roles the user holds in the dorm. An empty slice
// means the user is not a member.
func (s *gormStore) RolesFor(ctx context.Context, userID, dormID int64) ([]model.Role, error) {
	var memberships []model.DormMembership
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND dorm_id = ?", userID, dormID).
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	roles := make([]model.Role, len(memberships))
	for i, m := range memberships {
		roles[i] = m.Role
	}
	return roles, nil
}
