//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hospital-rp/staffd/pkg/roles"
	"github.com/hospital-rp/staffd/pkg/staff"
	"github.com/hospital-rp/staffd/pkg/storage"
)

func startPostgres(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("staffd_test"),
		tcpostgres.WithUsername("staffd"),
		tcpostgres.WithPassword("staffd"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := storage.DefaultConfig()
	cfg.Type = "postgres"
	cfg.PostgresURL = url
	cfg.PostgresTimeout = 30 * time.Second

	store, err := NewStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestIntegration_MemberRoundTrip(t *testing.T) {
	store := startPostgres(t)
	ctx := context.Background()

	sh := &staff.Shift{Name: "Night", Password: "pw"}
	require.NoError(t, store.CreateShift(ctx, sh))

	m := &staff.Member{
		AccessCode: "1234",
		Name:       "Alex",
		Role:       roles.RoleIntern,
		ShiftID:    &sh.ID,
	}
	require.NoError(t, store.CreateMember(ctx, m))

	got, err := store.GetMemberByAccessCode(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	name := "Alexandra"
	updated, err := store.UpdateMember(ctx, m.ID, staff.MemberUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alexandra", updated.Name)
	assert.Equal(t, roles.RoleIntern, updated.Role)

	require.NoError(t, store.DeleteMember(ctx, m.ID))
	_, err = store.GetMember(ctx, m.ID)
	assert.ErrorIs(t, err, staff.ErrNotFound)
}

func TestIntegration_ChangeRoleDisplacesChief(t *testing.T) {
	store := startPostgres(t)
	ctx := context.Background()

	sh := &staff.Shift{Name: "Day"}
	require.NoError(t, store.CreateShift(ctx, sh))

	first := &staff.Member{AccessCode: "1", Name: "First", Role: roles.RoleSurgeon, ShiftID: &sh.ID}
	second := &staff.Member{AccessCode: "2", Name: "Second", Role: roles.RoleTherapist, ShiftID: &sh.ID}
	require.NoError(t, store.CreateMember(ctx, first))
	require.NoError(t, store.CreateMember(ctx, second))

	_, err := store.ChangeRole(ctx, storage.ChangeRoleParams{
		MemberID:  first.ID,
		NewRole:   roles.RoleSurgeon,
		MakeChief: true,
	})
	require.NoError(t, err)

	res, err := store.ChangeRole(ctx, storage.ChangeRoleParams{
		MemberID:  second.ID,
		NewRole:   roles.RoleSurgeon,
		MakeChief: true,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Displaced)
	assert.Equal(t, first.ID, res.Displaced.ID)

	// The partial unique index guarantees a single chief per shift.
	members, err := store.ListMembersByShift(ctx, sh.ID)
	require.NoError(t, err)
	chiefs := 0
	for _, m := range members {
		if m.IsChief {
			chiefs++
		}
	}
	assert.Equal(t, 1, chiefs)
}

func TestIntegration_WarningCountAndCascade(t *testing.T) {
	store := startPostgres(t)
	ctx := context.Background()

	m := &staff.Member{AccessCode: "1", Name: "Warned", Role: roles.RoleIntern}
	require.NoError(t, store.CreateMember(ctx, m))

	for want := 1; want <= 3; want++ {
		count, err := store.CreateWarningCounting(ctx, &staff.Warning{
			MemberID:       m.ID,
			IssuedBy:       "boss",
			Reason:         "late",
			OccurrenceType: staff.OccurrenceStandardShift,
			OccurrenceDate: "2026-08-01",
		})
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	// Deleting the member cascades to their warnings.
	require.NoError(t, store.DeleteMember(ctx, m.ID))
	warnings, err := store.ListWarningsByMember(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}
