package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"dormops-backend/internal/model"
)

// CommitteeExpenseParams describes committee spending to record.
type CommitteeExpenseParams struct {
	CommitteeID int64
	Amount      int64 // cents, positive
	Memo        string
	SpentAt     time.Time
	EnteredBy   int64
}

// AddCommitteeExpense records the expense and mirrors it into the dorm
// maintenance ledger in one transaction.
func (s *gormStore) AddCommitteeExpense(ctx context.Context, p CommitteeExpenseParams) (*model.CommitteeExpense, error) {
	var expense model.CommitteeExpense

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var committee model.Committee
		if err := tx.First(&committee, p.CommitteeID).Error; err != nil {
			return fmt.Errorf("committee lookup: %w", err)
		}

		entry := model.LedgerEntry{
			DormID:    committee.DormID,
			Category:  model.LedgerMaintenance,
			Amount:    -p.Amount,
			Memo:      fmt.Sprintf("%s: %s", committee.Name, p.Memo),
			EntryDate: p.SpentAt,
			EnteredBy: p.EnteredBy,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("mirrored ledger entry: %w", err)
		}

		expense = model.CommitteeExpense{
			CommitteeID:   p.CommitteeID,
			Amount:        p.Amount,
			Memo:          p.Memo,
			SpentAt:       p.SpentAt,
			LedgerEntryID: &entry.ID,
		}
		if err := tx.Create(&expense).Error; err != nil {
			return fmt.Errorf("expense insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}
