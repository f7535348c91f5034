package postgres

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestNullInt64ToIntPtr(t *testing.T) {
	t.Run("returns nil for null", func(t *testing.T) {
		if got := nullInt64ToIntPtr(sql.NullInt64{}); got != nil {
			t.Fatalf("expected nil, got %d", *got)
		}
	})

	t.Run("returns value", func(t *testing.T) {
		got := nullInt64ToIntPtr(sql.NullInt64{Int64: 7, Valid: true})
		if got == nil || *got != 7 {
			t.Fatalf("expected 7, got %v", got)
		}
	})
}
