package audit

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

func TestNewDBLogger(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock := setupMockDB(t)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS audit_logs").WillReturnResult(sqlmock.NewResult(0, 0))

		logger, err := NewDBLogger(db)
		require.NoError(t, err)
		assert.NotNil(t, logger)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil database", func(t *testing.T) {
		logger, err := NewDBLogger(nil)
		assert.Error(t, err)
		assert.Nil(t, logger)
	})

	t.Run("table creation error", func(t *testing.T) {
		db, mock := setupMockDB(t)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS audit_logs").WillReturnError(errors.New("boom"))

		logger, err := NewDBLogger(db)
		assert.Error(t, err)
		assert.Nil(t, logger)
		assert.Contains(t, err.Error(), "failed to ensure audit_logs table")
	})
}

func TestDBLogger_Append(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	logger := &DBLogger{db: db}
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry, err := logger.Append(ctx, Entry{
		Action:         ActionPromoteUser,
		ActorID:        "actor-1",
		TargetMemberID: "member-1",
		Details:        "promoted from intern to paramedic",
		Metadata:       map[string]interface{}{"made_chief": false},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.Timestamp.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBLogger_Append_Error(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	logger := &DBLogger{db: db}

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnError(errors.New("insert failed"))

	_, err := logger.Append(context.Background(), Entry{Action: ActionLogin, ActorID: "a"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to append audit entry")
}

func TestDBLogger_Query(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	logger := &DBLogger{db: db}

	rows := sqlmock.NewRows([]string{
		"id", "action", "actor_id", "target_member_id", "shift_id", "details", "metadata", "timestamp",
	}).AddRow(
		"id-2", "exonerate_user", "actor-1", "member-9", nil, "threshold reached", []byte(`{"warnings":3}`), time.Now().UTC(),
	)

	mock.ExpectQuery("SELECT (.+) FROM audit_logs").
		WithArgs("exonerate_user", "member-9").
		WillReturnRows(rows)

	entries, err := logger.Query(context.Background(), Filter{
		Action:          ActionExonerateUser,
		ActorOrTargetID: "member-9",
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionExonerateUser, entries[0].Action)
	assert.Equal(t, "member-9", entries[0].TargetMemberID)
	assert.Equal(t, float64(3), entries[0].Metadata["warnings"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBLogger_Cleanup(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	logger := &DBLogger{db: db}

	mock.ExpectExec("DELETE FROM audit_logs WHERE timestamp <").
		WillReturnResult(sqlmock.NewResult(0, 42))

	removed, err := logger.Cleanup(context.Background(), 90)
	require.NoError(t, err)
	assert.Equal(t, int64(42), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
