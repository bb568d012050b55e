package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"dormops-backend/internal/model"
)

var ErrFineVoided = errors.New("fine is already voided")

// IssueFineParams describes a new fine.
type IssueFineParams struct {
	DormID     int64
	OccupantID int64
	SemesterID *int64
	RuleID     *int64
	Amount     int64 // cents, positive
	Reason     string
	IssuedByID int64
}

// IssueFine inserts the fine and its mirrored ledger entry in one
// transaction. The ledger entry is a negative amount in the fines category.
func (s *gormStore) IssueFine(ctx context.Context, p IssueFineParams) (*model.Fine, error) {
	var fine model.Fine

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var occupant model.Occupant
		if err := tx.First(&occupant, p.OccupantID).Error; err != nil {
			return fmt.Errorf("occupant lookup: %w", err)
		}
		if occupant.DormID != p.DormID {
			return errors.New("occupant belongs to a different dorm")
		}

		if p.RuleID != nil {
			var rule model.FineRule
			if err := tx.First(&rule, *p.RuleID).Error; err != nil {
				return fmt.Errorf("fine rule lookup: %w", err)
			}
			if p.Amount == 0 {
				p.Amount = rule.DefaultAmount
			}
		}
		if p.Amount <= 0 {
			return errors.New("fine amount must be positive")
		}

		entry := model.LedgerEntry{
			DormID:     p.DormID,
			OccupantID: &p.OccupantID,
			Category:   model.LedgerFines,
			Amount:     -p.Amount,
			Memo:       p.Reason,
			EntryDate:  time.Now().UTC(),
			EnteredBy:  p.IssuedByID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("mirrored ledger entry: %w", err)
		}

		fine = model.Fine{
			DormID:        p.DormID,
			OccupantID:    p.OccupantID,
			SemesterID:    p.SemesterID,
			RuleID:        p.RuleID,
			Amount:        p.Amount,
			Reason:        p.Reason,
			IssuedByID:    p.IssuedByID,
			LedgerEntryID: &entry.ID,
		}
		if err := tx.Create(&fine).Error; err != nil {
			return fmt.Errorf("fine insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &fine, nil
}

// VoidFine voids the fine and its mirrored ledger entry together.
func (s *gormStore) VoidFine(ctx context.Context, fineID, actorID int64, reason string) (*model.Fine, error) {
	var fine model.Fine

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&fine, fineID).Error; err != nil {
			return err
		}
		if fine.Voided {
			return ErrFineVoided
		}

		now := time.Now().UTC()
		fine.Voided = true
		fine.VoidReason = reason
		fine.VoidedAt = &now
		if err := tx.Model(&fine).
			Select("voided", "void_reason", "voided_at").
			Updates(&fine).Error; err != nil {
			return fmt.Errorf("voiding fine %d: %w", fineID, err)
		}

		if fine.LedgerEntryID != nil {
			var entry model.LedgerEntry
			if err := tx.First(&entry, *fine.LedgerEntryID).Error; err != nil {
				return fmt.Errorf("mirrored entry lookup: %w", err)
			}
			if !entry.Voided {
				if err := voidEntry(tx, &entry, reason); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &fine, nil
}
