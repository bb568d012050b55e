// Package importer loads occupant rosters and finance ledgers from XLSX
// workbooks. Finance rows carry a computed import key so re-running the
// same workbook never duplicates entries.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm/clause"

	"dormops-backend/internal/model"
	"dormops-backend/internal/store"
)

// importNamespace scopes the UUIDv5 import keys to this application.
var importNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// ImportKey derives a stable key from the row's identifying fields. Two
// rows with the same dorm, occupant, category, amount, date and memo map
// to the same key.
func ImportKey(dormID int64, rosterNumber string, category model.LedgerCategory, amount int64, date time.Time, memo string) string {
	material := fmt.Sprintf("%d|%s|%s|%d|%s|%s",
		dormID, rosterNumber, category, amount, date.Format("2006-01-02"), memo)
	return uuid.NewSHA1(importNamespace, []byte(material)).String()
}

// Importer runs spreadsheet imports against the store.
type Importer struct {
	store store.Store
}

// New creates an importer.
func New(s store.Store) *Importer {
	return &Importer{store: s}
}

// Result summarizes an import run.
type Result struct {
	Inserted int
	Skipped  int
}

// ImportOccupants upserts occupants from the first sheet. Expected columns:
// roster number, full name, phone. The header row is skipped.
func (im *Importer) ImportOccupants(ctx context.Context, dormID int64, path string) (Result, error) {
	rows, err := readRows(path)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		roster := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		if roster == "" || name == "" {
			log.Printf("skipping occupant row %d: missing roster number or name", i+1)
			res.Skipped++
			continue
		}
		occupant := model.Occupant{
			DormID:       dormID,
			RosterNumber: roster,
			FullName:     name,
			Status:       model.OccupantActive,
		}
		if len(row) > 2 {
			occupant.Phone = strings.TrimSpace(row[2])
		}

		err := im.store.DB().WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dorm_id"}, {Name: "roster_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "phone", "updated_at"}),
		}).Create(&occupant).Error
		if err != nil {
			return res, fmt.Errorf("upserting occupant %q: %w", roster, err)
		}
		res.Inserted++
	}
	return res, nil
}

// ImportFinance inserts ledger entries from the first sheet. Expected
// columns: roster number (may be empty for dorm-level rows), category,
// amount, date (2006-01-02), memo. Rows whose import key already exists
// are skipped, which makes re-runs idempotent.
func (im *Importer) ImportFinance(ctx context.Context, dormID, actorID int64, path string) (Result, error) {
	rows, err := readRows(path)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 4 {
			log.Printf("skipping finance row %d: too few columns", i+1)
			res.Skipped++
			continue
		}

		roster := strings.TrimSpace(row[0])
		category, err := parseCategory(row[1])
		if err != nil {
			log.Printf("skipping finance row %d: %v", i+1, err)
			res.Skipped++
			continue
		}
		amount, err := parseAmount(row[2])
		if err != nil {
			log.Printf("skipping finance row %d: %v", i+1, err)
			res.Skipped++
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(row[3]))
		if err != nil {
			log.Printf("skipping finance row %d: bad date %q", i+1, row[3])
			res.Skipped++
			continue
		}
		var memo string
		if len(row) > 4 {
			memo = strings.TrimSpace(row[4])
		}

		var occupantID *int64
		if roster != "" {
			var occupant model.Occupant
			err := im.store.DB().WithContext(ctx).
				Where("dorm_id = ? AND roster_number = ?", dormID, roster).
				First(&occupant).Error
			if err != nil {
				log.Printf("skipping finance row %d: unknown roster number %q", i+1, roster)
				res.Skipped++
				continue
			}
			occupantID = &occupant.ID
		}

		key := ImportKey(dormID, roster, category, amount, date, memo)
		_, err = im.store.AddLedgerEntry(ctx, store.LedgerEntryParams{
			DormID:     dormID,
			OccupantID: occupantID,
			Category:   category,
			Amount:     amount,
			Memo:       memo,
			EntryDate:  date,
			ImportKey:  &key,
			EnteredBy:  actorID,
		})
		if errors.Is(err, store.ErrDuplicateImport) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("inserting finance row %d: %w", i+1, err)
		}
		res.Inserted++
	}
	return res, nil
}

func readRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func parseCategory(raw string) (model.LedgerCategory, error) {
	switch model.LedgerCategory(strings.ToLower(strings.TrimSpace(raw))) {
	case model.LedgerMaintenance:
		return model.LedgerMaintenance, nil
	case model.LedgerFines:
		return model.LedgerFines, nil
	case model.LedgerEvents:
		return model.LedgerEvents, nil
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// parseAmount reads a decimal currency value into cents.
func parseAmount(raw string) (int64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("bad amount %q", raw)
	}
	cents := int64(math.Round(v * 100))
	if cents == 0 {
		return 0, fmt.Errorf("zero amount %q", raw)
	}
	return cents, nil
}
