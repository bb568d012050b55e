package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"dormops-backend/internal/model"
)

var (
	ErrAlreadyArchived  = errors.New("semester is already archived")
	ErrSemesterNotFound = errors.New("semester not found")
)

// ArchiveParams controls a semester archival run.
type ArchiveParams struct {
	SemesterID int64
	ArchivedBy int64

	// NextSemesterID reactivates an existing semester after archiving;
	// NextSemester creates a fresh one. At most one of the two is set.
	NextSemesterID *int64
	NextSemester   *model.DormSemester

	// Turnover marks active occupants removed, except RetainOccupantIDs.
	Turnover          bool
	RetainOccupantIDs []int64
}

// semesterSnapshot is the JSON document stored in the archive row.
type semesterSnapshot struct {
	Semester      model.DormSemester             `json:"semester"`
	Events        []model.Event                  `json:"events"`
	Fines         []model.Fine                   `json:"fines"`
	CleaningTasks []model.CleaningTask           `json:"cleaningTasks"`
	Cycles        []model.EvaluationCycle        `json:"evaluationCycles"`
	LedgerSummary map[model.LedgerCategory]int64 `json:"ledgerSummary"`
	ArchivedAt    time.Time                      `json:"archivedAt"`
}

// ArchiveSemester snapshots every row referencing the semester into one
// JSON archive row, marks the semester archived, optionally activates the
// successor, and optionally performs occupant turnover. The whole sequence
// runs in a single transaction: a failure anywhere rolls everything back.
func (s *gormStore) ArchiveSemester(ctx context.Context, p ArchiveParams) (*model.SemesterArchive, error) {
	var archive model.SemesterArchive

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var semester model.DormSemester
		if err := tx.First(&semester, p.SemesterID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSemesterNotFound
			}
			return err
		}
		if semester.Archived {
			return ErrAlreadyArchived
		}
		var existing int64
		if err := tx.Model(&model.SemesterArchive{}).
			Where("semester_id = ?", p.SemesterID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyArchived
		}

		snapshot := semesterSnapshot{
			Semester:   semester,
			ArchivedAt: time.Now().UTC(),
		}
		if err := tx.Where("semester_id = ?", p.SemesterID).Find(&snapshot.Events).Error; err != nil {
			return fmt.Errorf("collecting events: %w", err)
		}
		if err := tx.Where("semester_id = ?", p.SemesterID).Find(&snapshot.Fines).Error; err != nil {
			return fmt.Errorf("collecting fines: %w", err)
		}
		if err := tx.Where("semester_id = ?", p.SemesterID).Find(&snapshot.CleaningTasks).Error; err != nil {
			return fmt.Errorf("collecting cleaning tasks: %w", err)
		}
		if err := tx.Where("semester_id = ?", p.SemesterID).Find(&snapshot.Cycles).Error; err != nil {
			return fmt.Errorf("collecting evaluation cycles: %w", err)
		}

		summary, err := ledgerSummaryTx(tx, semester.DormID)
		if err != nil {
			return err
		}
		snapshot.LedgerSummary = summary

		blob, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}

		archive = model.SemesterArchive{
			SemesterID: p.SemesterID,
			Snapshot:   string(blob),
			ArchivedBy: p.ArchivedBy,
		}
		if err := tx.Create(&archive).Error; err != nil {
			return fmt.Errorf("archive insert: %w", err)
		}

		if err := tx.Model(&semester).
			Updates(map[string]any{"archived": true, "active": false}).Error; err != nil {
			return fmt.Errorf("flipping semester flags: %w", err)
		}

		if p.NextSemesterID != nil {
			if err := tx.Model(&model.DormSemester{}).
				Where("id = ? AND dorm_id = ?", *p.NextSemesterID, semester.DormID).
				Update("active", true).Error; err != nil {
				return fmt.Errorf("reactivating next semester: %w", err)
			}
		} else if p.NextSemester != nil {
			next := *p.NextSemester
			next.DormID = semester.DormID
			next.Active = true
			if err := tx.Create(&next).Error; err != nil {
				return fmt.Errorf("creating next semester: %w", err)
			}
		}

		if p.Turnover {
			if err := turnoverOccupants(tx, semester.DormID, p.RetainOccupantIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &archive, nil
}

// turnoverOccupants marks every active occupant removed except the retained
// set, and closes their open room assignments.
func turnoverOccupants(tx *gorm.DB, dormID int64, retain []int64) error {
	q := tx.Model(&model.Occupant{}).
		Where("dorm_id = ? AND status = ?", dormID, model.OccupantActive)
	if len(retain) > 0 {
		q = q.Where("id NOT IN ?", retain)
	}
	if err := q.Update("status", model.OccupantRemoved).Error; err != nil {
		return fmt.Errorf("occupant turnover: %w", err)
	}

	now := time.Now().UTC()
	closeQ := tx.Model(&model.RoomAssignment{}).
		Where("end_date IS NULL AND occupant_id IN (?)",
			tx.Model(&model.Occupant{}).Select("id").
				Where("dorm_id = ? AND status = ?", dormID, model.OccupantRemoved))
	if err := closeQ.Update("end_date", now).Error; err != nil {
		return fmt.Errorf("closing assignments on turnover: %w", err)
	}
	return nil
}

// ledgerSummaryTx mirrors DormLedgerSummary inside an open transaction.
func ledgerSummaryTx(tx *gorm.DB, dormID int64) (map[model.LedgerCategory]int64, error) {
	type row struct {
		Category model.LedgerCategory
		Total    int64
	}
	var rows []row
	err := tx.Model(&model.LedgerEntry{}).
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
