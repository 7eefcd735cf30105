package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital-rp/staffd/pkg/roles"
	"github.com/hospital-rp/staffd/pkg/staff"
	"github.com/hospital-rp/staffd/pkg/storage"
)

func newCachedStore(t *testing.T) (*CachedStore, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)

	cfg := storage.DefaultConfig()
	cfg.RedisAddr = mr.Addr()
	cfg.CacheEnabled = true
	cfg.CacheTTL = time.Minute

	cached, err := NewCachedStore(NewStoreWithDB(db), cfg)
	require.NoError(t, err)
	return cached, mock, mr
}

func TestCachedStore_GetMemberCachesSecondRead(t *testing.T) {
	cached, mock, _ := newCachedStore(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM members WHERE id =").
		WithArgs("m1").
		WillReturnRows(memberRow("m1", "1234", "paramedic", nil, false))

	first, err := cached.GetMember(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, roles.RoleParamedic, first.Role)

	// Second read must come from cache; no DB expectation is queued.
	second, err := cached.GetMember(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedStore_RedisHitSurvivesL1Eviction(t *testing.T) {
	cached, mock, _ := newCachedStore(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM members WHERE id =").
		WithArgs("m1").
		WillReturnRows(memberRow("m1", "1234", "intern", nil, false))

	_, err := cached.GetMember(ctx, "m1")
	require.NoError(t, err)

	// Drop L1 and read again: Redis should answer without the DB.
	cached.l1.Purge()
	m, err := cached.GetMember(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedStore_ChangeRoleInvalidatesMemberAndDisplaced(t *testing.T) {
	cached, mock, _ := newCachedStore(t)
	ctx := context.Background()

	// Warm the cache for both members.
	mock.ExpectQuery("SELECT (.+) FROM members WHERE id =").
		WithArgs("m1").
		WillReturnRows(memberRow("m1", "1", "surgeon", "shift-a", true))
	mock.ExpectQuery("SELECT (.+) FROM members WHERE id =").
		WithArgs("m2").
		WillReturnRows(memberRow("m2", "2", "therapist", "shift-a", false))
	_, err := cached.GetMember(ctx, "m1")
	require.NoError(t, err)
	_, err = cached.GetMember(ctx, "m2")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM members WHERE id = (.+) FOR UPDATE").
		WithArgs("m2").
		WillReturnRows(memberRow("m2", "2", "therapist", "shift-a", false))
	mock.ExpectQuery("SELECT (.+) FROM members\\s+WHERE shift_id = (.+) AND is_chief AND id <>").
		WithArgs("shift-a", "m2").
		WillReturnRows(memberRow("m1", "1", "surgeon", "shift-a", true))
	mock.ExpectExec("UPDATE members SET is_chief = FALSE").
		WithArgs("m1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE members SET role =").
		WithArgs("m2", "surgeon", true).
		WillReturnRows(memberRow("m2", "2", "surgeon", "shift-a", true))
	mock.ExpectCommit()

	_, err = cached.ChangeRole(ctx, storage.ChangeRoleParams{
		MemberID:  "m2",
		NewRole:   roles.RoleSurgeon,
		MakeChief: true,
	})
	require.NoError(t, err)

	// Both entries were invalidated, so fresh reads hit the DB again.
	mock.ExpectQuery("SELECT (.+) FROM members WHERE id =").
		WithArgs("m1").
		WillReturnRows(memberRow("m1", "1", "surgeon", "shift-a", false))
	mock.ExpectQuery("SELECT (.+) FROM members WHERE id =").
		WithArgs("m2").
		WillReturnRows(memberRow("m2", "2", "surgeon", "shift-a", true))

	refetched, err := cached.GetMember(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, refetched.IsChief)
	promoted, err := cached.GetMember(ctx, "m2")
	require.NoError(t, err)
	assert.True(t, promoted.IsChief)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedStore_ShiftListInvalidatedByCreate(t *testing.T) {
	cached, mock, _ := newCachedStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	shiftCols := []string{"id", "name", "vice_leader_id", "password", "created_at"}

	mock.ExpectQuery("SELECT (.+) FROM shifts ORDER BY created_at").
		WillReturnRows(sqlmock.NewRows(shiftCols).AddRow("s1", "Night", "", "pw", now))

	shifts, err := cached.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 1)

	// Cached.
	shifts, err = cached.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 1)

	mock.ExpectExec("INSERT INTO shifts").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, cached.CreateShift(ctx, &staff.Shift{Name: "Day"}))

	mock.ExpectQuery("SELECT (.+) FROM shifts ORDER BY created_at").
		WillReturnRows(sqlmock.NewRows(shiftCols).
			AddRow("s1", "Night", "", "pw", now).
			AddRow("s2", "Day", "", "", now))

	shifts, err = cached.ListShifts(ctx)
	require.NoError(t, err)
	assert.Len(t, shifts, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedStore_RedisDownFallsBackToDB(t *testing.T) {
	cached, mock, mr := newCachedStore(t)
	ctx := context.Background()

	mr.Close()
	cached.l1.Purge()

	mock.ExpectQuery("SELECT (.+) FROM members WHERE id =").
		WithArgs("m1").
		WillReturnRows(memberRow("m1", "1234", "intern", nil, false))

	m, err := cached.GetMember(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)
}
