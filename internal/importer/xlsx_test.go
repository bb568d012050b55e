package importer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dormops-backend/internal/model"
	"dormops-backend/internal/store"
)

func newTestImporter(t *testing.T) (*Importer, *gorm.DB, model.Dorm) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Dorm{}, &model.Occupant{}, &model.LedgerEntry{}))

	dorm := model.Dorm{Slug: "north", Name: "North Hall"}
	require.NoError(t, db.Create(&dorm).Error)
	return New(store.NewGormStore(db)), db, dorm
}

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", name, cell))
		}
	}
	path := filepath.Join(t.TempDir(), "import.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportKeyStable(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	k1 := ImportKey(1, "N-001", model.LedgerMaintenance, 4200, date, "term dues")
	k2 := ImportKey(1, "N-001", model.LedgerMaintenance, 4200, date, "term dues")
	k3 := ImportKey(1, "N-001", model.LedgerMaintenance, 4300, date, "term dues")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestImportOccupantsUpserts(t *testing.T) {
	im, db, dorm := newTestImporter(t)
	path := writeWorkbook(t, [][]any{
		{"Roster", "Name", "Phone"},
		{"N-001", "Asha Okello", "0700111222"},
		{"N-002", "Biko Mwangi", ""},
		{"", "No Roster", ""}, // skipped
	})

	res, err := im.ImportOccupants(context.Background(), dorm.ID, path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 1, res.Skipped)

	// Re-running updates rather than duplicating.
	res, err = im.ImportOccupants(context.Background(), dorm.ID, path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	var count int64
	db.Model(&model.Occupant{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestImportFinanceIdempotent(t *testing.T) {
	im, db, dorm := newTestImporter(t)
	require.NoError(t, db.Create(&model.Occupant{
		DormID: dorm.ID, RosterNumber: "N-001", FullName: "Asha Okello",
		Status: model.OccupantActive,
	}).Error)

	path := writeWorkbook(t, [][]any{
		{"Roster", "Category", "Amount", "Date", "Memo"},
		{"N-001", "maintenance", "42.00", "2026-03-01", "term dues"},
		{"", "events", "-15.50", "2026-03-02", "poster printing"},
		{"N-001", "bogus", "10.00", "2026-03-03", "bad category"}, // skipped
	})

	res, err := im.ImportFinance(context.Background(), dorm.ID, 1, path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 1, res.Skipped)

	// Identical re-run inserts nothing.
	res, err = im.ImportFinance(context.Background(), dorm.ID, 1, path)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 3, res.Skipped)

	var count int64
	db.Model(&model.LedgerEntry{}).Count(&count)
	assert.Equal(t, int64(2), count)

	var entry model.LedgerEntry
	require.NoError(t, db.Where("memo = ?", "term dues").First(&entry).Error)
	assert.Equal(t, int64(4200), entry.Amount)
	require.NotNil(t, entry.OccupantID)
}

func TestImportFinanceUnknownRosterSkipped(t *testing.T) {
	im, db, dorm := newTestImporter(t)
	path := writeWorkbook(t, [][]any{
		{"Roster", "Category", "Amount", "Date", "Memo"},
		{"MISSING", "maintenance", "10.00", "2026-03-01", "x"},
	})

	res, err := im.ImportFinance(context.Background(), dorm.ID, 1, path)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 1, res.Skipped)

	var count int64
	db.Model(&model.LedgerEntry{}).Count(&count)
	assert.Zero(t, count)
}
