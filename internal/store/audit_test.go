package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB wires gorm to a sqlmock connection so the exact SQL can be
// asserted without a database.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestRecordAuditSwallowsWriteFailure(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// Must not panic or propagate; the primary action goes on.
	s.RecordAudit(context.Background(), 1, 7, "fine.issue", "42", "noise")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountRecentActionsWindowedQuery(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "audit_logs" WHERE dorm_id = $1 AND user_id = $2 AND action = $3 AND created_at >= $4`)).
		WithArgs(int64(1), int64(7), "organizer.invoke", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := s.CountRecentActions(context.Background(), 1, 7, "organizer.invoke", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	assert.NoError(t, mock.ExpectationsWereMet())
}
