package warnings

import (
	"context"
	"testing"

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
		service: NewService(store, auditLog, DefaultThreshold, nil),
	}
}

func (f *fixture) member(t *testing.T, accessCode string, role roles.Role, shiftID *string) *staff.Member {
	t.Helper()
	m := &staff.Member{AccessCode: accessCode, Name: "Member " + accessCode, Role: role, ShiftID: shiftID}
	require.NoError(t, f.store.CreateMember(context.Background(), m))
	return m
}

func strptr(s string) *string { return &s }

func warning(memberID string) *staff.Warning {
	return &staff.Warning{
		MemberID:       memberID,
		Reason:         "late to shift",
		OccurrenceType: staff.OccurrenceStandardShift,
		OccurrenceDate: "2026-08-01",
	}
}

func TestIssue_FirstWarning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leader := f.member(t, "l", roles.RoleLeader, nil)
	target := f.member(t, "t", roles.RoleIntern, strptr("shift-a"))

	res, err := f.service.Issue(ctx, leader, warning(target.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.False(t, res.MemberRemoved)
	assert.Equal(t, leader.ID, res.Warning.IssuedBy)
	require.NotNil(t, res.Warning.ShiftID)
	assert.Equal(t, "shift-a", *res.Warning.ShiftID)

	// Member is still on the roster.
	_, err = f.store.GetMember(ctx, target.ID)
	assert.NoError(t, err)
}

func TestIssue_ThirdWarningRemovesMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leader := f.member(t, "l", roles.RoleLeader, nil)
	target := f.member(t, "t", roles.RoleIntern, strptr("shift-a"))

	for i := 0; i < 2; i++ {
		res, err := f.service.Issue(ctx, leader, warning(target.ID))
		require.NoError(t, err)
		assert.False(t, res.MemberRemoved)
	}

	res, err := f.service.Issue(ctx, leader, warning(target.ID))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	assert.True(t, res.MemberRemoved)

	_, err = f.store.GetMember(ctx, target.ID)
	assert.ErrorIs(t, err, staff.ErrNotFound)

	entries, err := f.audit.Query(ctx, audit.Filter{Action: audit.ActionExonerateUser})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, target.ID, entries[0].TargetMemberID)
	assert.Equal(t, 3, entries[0].Metadata["warnings"])
}

func TestIssue_DeletedWarningDropsCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leader := f.member(t, "l", roles.RoleLeader, nil)
	target := f.member(t, "t", roles.RoleIntern, nil)

	res1, err := f.service.Issue(ctx, leader, warning(target.ID))
	require.NoError(t, err)
	_, err = f.service.Issue(ctx, leader, warning(target.ID))
	require.NoError(t, err)

	// Retract one: the next warning is #2 again, not #3.
	require.NoError(t, f.service.Delete(ctx, leader, res1.Warning.ID))

	res3, err := f.service.Issue(ctx, leader, warning(target.ID))
	require.NoError(t, err)
	assert.Equal(t, 2, res3.Count)
	assert.False(t, res3.MemberRemoved)
}

func TestIssue_PermissionGates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shift := strptr("shift-a")

	vice := f.member(t, "v", roles.RoleViceLeader, shift)
	sameShift := f.member(t, "s", roles.RoleIntern, shift)
	otherShift := f.member(t, "o", roles.RoleIntern, strptr("shift-b"))
	peer := f.member(t, "p", roles.RoleViceLeader, shift)
	surgeon := f.member(t, "c", roles.RoleSurgeon, shift)

	t.Run("vice-leader warns own shift", func(t *testing.T) {
		_, err := f.service.Issue(ctx, vice, warning(sameShift.ID))
		assert.NoError(t, err)
	})

	t.Run("vice-leader cannot warn other shift", func(t *testing.T) {
		_, err := f.service.Issue(ctx, vice, warning(otherShift.ID))
		assert.True(t, staff.IsAuthorization(err))
	})

	t.Run("vice-leader cannot warn equal rank", func(t *testing.T) {
		_, err := f.service.Issue(ctx, vice, warning(peer.ID))
		assert.True(t, staff.IsAuthorization(err))
	})

	t.Run("surgeon cannot warn anyone", func(t *testing.T) {
		_, err := f.service.Issue(ctx, surgeon, warning(sameShift.ID))
		assert.True(t, staff.IsAuthorization(err))
	})
}

func TestIssue_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := f.member(t, "l", roles.RoleLeader, nil)
	target := f.member(t, "t", roles.RoleIntern, nil)

	w := warning(target.ID)
	w.Reason = ""
	_, err := f.service.Issue(ctx, leader, w)
	assert.True(t, staff.IsValidation(err))

	w = warning(target.ID)
	w.OccurrenceType = staff.OccurrenceType("vacation")
	_, err = f.service.Issue(ctx, leader, w)
	assert.True(t, staff.IsValidation(err))

	// Submitted text lands in the message verbatim, formatting verbs
	// included.
	w = warning(target.ID)
	w.OccurrenceType = staff.OccurrenceType("50% shift")
	_, err = f.service.Issue(ctx, leader, w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown occurrence type: 50% shift")

	_, err = f.service.Issue(ctx, leader, warning("missing"))
	assert.ErrorIs(t, err, staff.ErrNotFound)
}

func TestUpdate_EditsFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := f.member(t, "l", roles.RoleLeader, nil)
	target := f.member(t, "t", roles.RoleIntern, nil)

	res, err := f.service.Issue(ctx, leader, warning(target.ID))
	require.NoError(t, err)

	reason := "no-show"
	updated, err := f.service.Update(ctx, leader, res.Warning.ID, staff.WarningUpdate{Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, "no-show", updated.Reason)
}

func TestCustomThreshold(t *testing.T) {
	store := memory.NewStore()
	auditLog := audit.NewMemoryLogger()
	service := NewService(store, auditLog, 2, nil)
	ctx := context.Background()

	leader := &staff.Member{AccessCode: "l", Name: "Leader", Role: roles.RoleLeader}
	require.NoError(t, store.CreateMember(ctx, leader))
	target := &staff.Member{AccessCode: "t", Name: "Target", Role: roles.RoleIntern}
	require.NoError(t, store.CreateMember(ctx, target))

	res, err := service.Issue(ctx, leader, warning(target.ID))
	require.NoError(t, err)
	assert.False(t, res.MemberRemoved)

	res, err = service.Issue(ctx, leader, warning(target.ID))
	require.NoError(t, err)
	assert.True(t, res.MemberRemoved)
}
