package resources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital-rp/staffd/pkg/audit"
	"github.com/hospital-rp/staffd/pkg/roles"
	"github.com/hospital-rp/staffd/pkg/staff"
	"github.com/hospital-rp/staffd/pkg/storage/memory"
)

type fixture struct {
	store   *memory.Store
	audit   *audit.MemoryLogger
	service *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	auditLog := audit.NewMemoryLogger()
	return &fixture{
		store:   store,
		audit:   auditLog,
		service: NewService(store, auditLog, nil),
	}
}

func (f *fixture) member(t *testing.T, accessCode string, role roles.Role, shiftID *string) *staff.Member {
	t.Helper()
	m := &staff.Member{AccessCode: accessCode, Name: "Member " + accessCode, Role: role, ShiftID: shiftID}
	require.NoError(t, f.store.CreateMember(context.Background(), m))
	return m
}

func strptr(s string) *string { return &s }

func TestRules_ScopeGates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shiftA := strptr("shift-a")

	vice := f.member(t, "v", roles.RoleViceLeader, shiftA)
	intern := f.member(t, "i", roles.RoleIntern, shiftA)

	t.Run("vice-leader creates general rule", func(t *testing.T) {
		r, err := f.service.CreateRule(ctx, vice, &staff.Rule{
			Title: "Conduct", Content: "Be kind.", Scope: staff.ScopeGeneral,
		})
		require.NoError(t, err)
		assert.Nil(t, r.ShiftID)
	})

	t.Run("vice-leader creates own-shift rule", func(t *testing.T) {
		_, err := f.service.CreateRule(ctx, vice, &staff.Rule{
			Title: "Handover", Content: "Brief the next shift.", Scope: staff.ScopeShift, ShiftID: shiftA,
		})
		assert.NoError(t, err)
	})

	t.Run("vice-leader cannot touch another shift", func(t *testing.T) {
		_, err := f.service.CreateRule(ctx, vice, &staff.Rule{
			Title: "X", Content: "Y", Scope: staff.ScopeShift, ShiftID: strptr("shift-b"),
		})
		assert.True(t, staff.IsAuthorization(err))
	})

	t.Run("intern cannot create", func(t *testing.T) {
		_, err := f.service.CreateRule(ctx, intern, &staff.Rule{
			Title: "X", Content: "Y", Scope: staff.ScopeGeneral,
		})
		assert.True(t, staff.IsAuthorization(err))
	})

	t.Run("shift scope requires shift", func(t *testing.T) {
		_, err := f.service.CreateRule(ctx, vice, &staff.Rule{
			Title: "X", Content: "Y", Scope: staff.ScopeShift,
		})
		assert.True(t, staff.IsValidation(err))
	})
}

func TestRules_UpdateDeleteAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := f.member(t, "l", roles.RoleLeader, nil)

	r, err := f.service.CreateRule(ctx, leader, &staff.Rule{
		Title: "Conduct", Content: "Be kind.", Scope: staff.ScopeGeneral,
	})
	require.NoError(t, err)

	content := "Be kinder."
	updated, err := f.service.UpdateRule(ctx, leader, r.ID, staff.RuleUpdate{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "Be kinder.", updated.Content)

	require.NoError(t, f.service.DeleteRule(ctx, leader, r.ID))

	for _, action := range []audit.Action{audit.ActionCreateRule, audit.ActionUpdateRule, audit.ActionDeleteRule} {
		entries, err := f.audit.Query(ctx, audit.Filter{Action: action})
		require.NoError(t, err)
		assert.Len(t, entries, 1, string(action))
	}
}

func TestMeCommands_CategoryLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := f.member(t, "l", roles.RoleLeader, nil)

	cat, err := f.service.CreateMeCategory(ctx, leader, &staff.MeCategory{
		Name: "Triage", Scope: staff.ScopeGeneral,
	})
	require.NoError(t, err)

	cmd, err := f.service.CreateMeCommand(ctx, leader, &staff.MeCommand{
		Text: "/me checks vitals", CategoryID: &cat.ID, Scope: staff.ScopeGeneral,
	})
	require.NoError(t, err)

	t.Run("unknown category rejected", func(t *testing.T) {
		_, err := f.service.CreateMeCommand(ctx, leader, &staff.MeCommand{
			Text: "/me waves", CategoryID: strptr("missing"), Scope: staff.ScopeGeneral,
		})
		assert.True(t, staff.IsValidation(err))
	})

	t.Run("clearing category", func(t *testing.T) {
		updated, err := f.service.UpdateMeCommand(ctx, leader, cmd.ID, staff.MeCommandUpdate{CategoryID: strptr("")})
		require.NoError(t, err)
		assert.Nil(t, updated.CategoryID)
	})

	require.NoError(t, f.service.DeleteMeCommand(ctx, leader, cmd.ID))
	require.NoError(t, f.service.DeleteMeCategory(ctx, leader, cat.ID))
}

func TestCovenants_CreateDerivesWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := f.member(t, "l", roles.RoleLeader, nil)

	// 4000 buys exactly 30 days.
	c, err := f.service.CreateCovenant(ctx, leader, "Mercy Group", 4000)
	require.NoError(t, err)
	assert.Equal(t, int64(30*86400), c.TotalSeconds)
	assert.WithinDuration(t, c.StartDate.Add(30*24*time.Hour), c.EndDate, time.Second)

	// 1000 buys 7.5 days.
	c2, err := f.service.CreateCovenant(ctx, leader, "Small Org", 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(7.5*86400), c2.TotalSeconds)
}

func TestCovenants_ExtendCarriesRemainder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := f.member(t, "l", roles.RoleLeader, nil)

	c, err := f.service.CreateCovenant(ctx, leader, "Mercy Group", 4000)
	require.NoError(t, err)

	extended, err := f.service.ExtendCovenant(ctx, leader, c.ID, 4000)
	require.NoError(t, err)
	assert.Equal(t, float64(8000), extended.AmountPaid)
	// Roughly 30 remaining + 30 purchased days from now.
	assert.InDelta(t, int64(60*86400), extended.TotalSeconds, 5)
	assert.WithinDuration(t, time.Now().Add(60*24*time.Hour), extended.EndDate, time.Minute)
}

func TestCovenants_ExtendExpiredRestartsFromNow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := f.member(t, "l", roles.RoleLeader, nil)

	c, err := f.service.CreateCovenant(ctx, leader, "Lapsed Org", 4000)
	require.NoError(t, err)

	// Force the covenant into the past.
	past := time.Now().UTC().Add(-24 * time.Hour)
	_, err = f.store.UpdateCovenant(ctx, c.ID, staff.CovenantUpdate{EndDate: &past})
	require.NoError(t, err)

	extended, err := f.service.ExtendCovenant(ctx, leader, c.ID, 4000)
	require.NoError(t, err)
	// No negative carry-over: exactly the purchased 30 days from now.
	assert.InDelta(t, int64(30*86400), extended.TotalSeconds, 5)
}

func TestCovenants_Gates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intern := f.member(t, "i", roles.RoleIntern, nil)

	_, err := f.service.CreateCovenant(ctx, intern, "X", 1000)
	assert.True(t, staff.IsAuthorization(err))

	_, err = f.service.CreateCovenant(ctx, f.member(t, "l", roles.RoleLeader, nil), "", 1000)
	assert.True(t, staff.IsValidation(err))
}

func TestAttendance_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shiftA := strptr("shift-a")

	vice := f.member(t, "v", roles.RoleViceLeader, shiftA)
	intern := f.member(t, "i", roles.RoleIntern, shiftA)

	a, err := f.service.CreateAttendance(ctx, vice, &staff.AttendanceRecord{
		MemberID: intern.ID,
		ShiftID:  "shift-a",
		Date:     "2026-08-01",
		Status:   staff.AttendancePresent,
	})
	require.NoError(t, err)
	assert.Equal(t, vice.ID, a.CreatedBy)

	t.Run("other shift denied", func(t *testing.T) {
		_, err := f.service.CreateAttendance(ctx, vice, &staff.AttendanceRecord{
			MemberID: intern.ID,
			ShiftID:  "shift-b",
			Date:     "2026-08-01",
			Status:   staff.AttendancePresent,
		})
		assert.True(t, staff.IsAuthorization(err))
	})

	t.Run("unknown member", func(t *testing.T) {
		_, err := f.service.CreateAttendance(ctx, vice, &staff.AttendanceRecord{
			MemberID: "missing",
			ShiftID:  "shift-a",
			Date:     "2026-08-01",
			Status:   staff.AttendanceAbsent,
		})
		assert.ErrorIs(t, err, staff.ErrNotFound)
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := f.service.CreateAttendance(ctx, vice, &staff.AttendanceRecord{
			MemberID: intern.ID,
			ShiftID:  "shift-a",
			Date:     "2026-08-01",
			Status:   staff.AttendanceStatus("late"),
		})
		assert.True(t, staff.IsValidation(err))
	})

	absent := staff.AttendanceAbsent
	updated, err := f.service.UpdateAttendance(ctx, vice, a.ID, staff.AttendanceUpdate{Status: &absent})
	require.NoError(t, err)
	assert.Equal(t, staff.AttendanceAbsent, updated.Status)

	byDate, err := f.service.ListAttendanceByShiftAndDate(ctx, "shift-a", "2026-08-01")
	require.NoError(t, err)
	assert.Len(t, byDate, 1)

	require.NoError(t, f.service.DeleteAttendance(ctx, vice, a.ID))
}
