package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dormops-backend/internal/model"
)

var (
	ErrAlreadyVoided   = errors.New("entry is already voided")
	ErrDuplicateImport = errors.New("entry with this import key already exists")
)

// LedgerEntryParams describes a new ledger entry.
type LedgerEntryParams struct {
	DormID     int64
	OccupantID *int64
	Category   model.LedgerCategory
	Amount     int64 // cents, negative for charges
	Memo       string
	EntryDate  time.Time
	ImportKey  *string
	EnteredBy  int64
}

// AddLedgerEntry inserts one entry. When an ImportKey is set, an existing
// entry with the same key makes the insert a no-op and returns
// ErrDuplicateImport; this is what keeps spreadsheet imports idempotent.
func (s *gormStore) AddLedgerEntry(ctx context.Context, p LedgerEntryParams) (*model.LedgerEntry, error) {
	entry := model.LedgerEntry{
		DormID:     p.DormID,
		OccupantID: p.OccupantID,
		Category:   p.Category,
		Amount:     p.Amount,
		Memo:       p.Memo,
		EntryDate:  p.EntryDate,
		ImportKey:  p.ImportKey,
		EnteredBy:  p.EnteredBy,
	}

	tx := s.db.WithContext(ctx)
	if p.ImportKey != nil {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "import_key"}},
			DoNothing: true,
		}).Create(&entry)
		if result.Error != nil {
			return nil, fmt.Errorf("ledger insert: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrDuplicateImport
		}
		return &entry, nil
	}

	if err := tx.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("ledger insert: %w", err)
	}
	return &entry, nil
}

// VoidLedgerEntry marks an entry voided. Voided entries stay on record but
// drop out of every balance.
func (s *gormStore) VoidLedgerEntry(ctx context.Context, entryID, actorID int64, reason string) (*model.LedgerEntry, error) {
	var entry model.LedgerEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, entryID).Error; err != nil {
			return err
		}
		if entry.Voided {
			return ErrAlreadyVoided
		}
		return voidEntry(tx, &entry, reason)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// voidEntry flips the void flags on an already-loaded entry within tx.
func voidEntry(tx *gorm.DB, entry *model.LedgerEntry, reason string) error {
	now := time.Now().UTC()
	entry.Voided = true
	entry.VoidReason = reason
	entry.VoidedAt = &now
	if err := tx.Model(entry).
		Select("voided", "void_reason", "voided_at").
		Updates(entry).Error; err != nil {
		return fmt.Errorf("voiding ledger entry %d: %w", entry.ID, err)
	}
	return nil
}

// OccupantBalance sums all non-voided entries for the occupant.
func (s *gormStore) OccupantBalance(ctx context.Context, occupantID int64) (int64, error) {
	var balance int64
	err := s.db.WithContext(ctx).
		Model(&model.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("occupant_id = ? AND voided = ?", occupantID, false).
		Scan(&balance).Error
	if err != nil {
		return 0, fmt.Errorf("balance query: %w", err)
	}
	return balance, nil
}

// DormLedgerSummary totals non-voided entries per category for the dorm.
func (s *gormStore) DormLedgerSummary(ctx context.Context, dormID int64) (map[model.LedgerCategory]int64, error) {
	type row struct {
		Category model.LedgerCategory
		Total    int64
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Model(&model.LedgerEntry{}).
		Select("category, COALESCE(SUM(amount), 0) as total").
		Where("dorm_id = ? AND voided = ?", dormID, false).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("ledger summary query: %w", err)
	}

	summary := make(map[model.LedgerCategory]int64, len(rows))
	for _, r := range rows {
		summary[r.Category] = r.Total
	}
	return summary, nil
}
