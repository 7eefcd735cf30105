package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hospital-rp/staffd/pkg/roles"
	"github.com/hospital-rp/staffd/pkg/staff"
)

func strPtr(s string) *string { return &s }

func member(role roles.Role, shiftID *string) *staff.Member {
	return &staff.Member{ID: "m-" + string(role), Role: role, ShiftID: shiftID}
}

func TestCanManageUser(t *testing.T) {
	day := strPtr("day")
	night := strPtr("night")

	t.Run("admin and leader always allowed", func(t *testing.T) {
		for _, actorRole := range []roles.Role{roles.RoleAdministrator, roles.RoleLeader} {
			for _, target := range []*staff.Member{
				member(roles.RoleAdministrator, nil),
				member(roles.RoleIntern, day),
				member(roles.RoleViceLeader, night),
			} {
				d := CanManageUser(member(actorRole, nil), target)
				assert.True(t, d.Allowed)
				assert.NoError(t, d.Err())
			}
		}
	})

	t.Run("vice-leader same shift lower rank", func(t *testing.T) {
		d := CanManageUser(member(roles.RoleViceLeader, day), member(roles.RoleSurgeon, day))
		assert.True(t, d.Allowed)
	})

	t.Run("vice-leader different shift denied", func(t *testing.T) {
		d := CanManageUser(member(roles.RoleViceLeader, day), member(roles.RoleIntern, night))
		assert.False(t, d.Allowed)
		assert.Contains(t, d.Reason, "own shift")
		assert.True(t, staff.IsAuthorization(d.Err()))
	})

	t.Run("vice-leader equal or higher rank denied", func(t *testing.T) {
		for _, r := range []roles.Role{roles.RoleViceLeader, roles.RoleLeader, roles.RoleAdministrator} {
			d := CanManageUser(member(roles.RoleViceLeader, day), member(r, day))
			assert.False(t, d.Allowed, "target %s", r)
			assert.Contains(t, d.Reason, "lower rank")
		}
	})

	t.Run("unassigned vice-leader manages unassigned member", func(t *testing.T) {
		d := CanManageUser(member(roles.RoleViceLeader, nil), member(roles.RoleIntern, nil))
		assert.True(t, d.Allowed)
	})

	t.Run("lower ranks denied", func(t *testing.T) {
		for _, r := range []roles.Role{roles.RoleIntern, roles.RoleParamedic, roles.RoleTherapist, roles.RoleSurgeon} {
			d := CanManageUser(member(r, day), member(roles.RoleIntern, day))
			assert.False(t, d.Allowed, "actor %s", r)
		}
	})

	t.Run("nil members denied", func(t *testing.T) {
		assert.False(t, CanManageUser(nil, member(roles.RoleIntern, day)).Allowed)
		assert.False(t, CanManageUser(member(roles.RoleLeader, nil), nil).Allowed)
	})
}

func TestCanManageResource(t *testing.T) {
	day := strPtr("day")
	night := strPtr("night")

	t.Run("admin and leader always allowed", func(t *testing.T) {
		for _, r := range []roles.Role{roles.RoleAdministrator, roles.RoleLeader} {
			assert.True(t, CanManageResource(r, nil, staff.ScopeShift, night).Allowed)
			assert.True(t, CanManageResource(r, day, staff.ScopeGeneral, nil).Allowed)
		}
	})

	t.Run("vice-leader general always allowed", func(t *testing.T) {
		assert.True(t, CanManageResource(roles.RoleViceLeader, day, staff.ScopeGeneral, night).Allowed)
		assert.True(t, CanManageResource(roles.RoleViceLeader, nil, staff.ScopeGeneral, nil).Allowed)
	})

	t.Run("vice-leader shift scope requires matching shift", func(t *testing.T) {
		assert.True(t, CanManageResource(roles.RoleViceLeader, day, staff.ScopeShift, day).Allowed)
		d := CanManageResource(roles.RoleViceLeader, day, staff.ScopeShift, night)
		assert.False(t, d.Allowed)
		assert.NotEmpty(t, d.Reason)
	})

	t.Run("other roles denied", func(t *testing.T) {
		for _, r := range []roles.Role{roles.RoleIntern, roles.RoleParamedic, roles.RoleTherapist, roles.RoleSurgeon} {
			assert.False(t, CanManageResource(r, day, staff.ScopeGeneral, nil).Allowed, "role %s", r)
			assert.False(t, CanManageResource(r, day, staff.ScopeShift, day).Allowed, "role %s", r)
		}
	})
}

func TestCanCreateResource(t *testing.T) {
	allowed := map[roles.Role]bool{
		roles.RoleIntern:        false,
		roles.RoleParamedic:     false,
		roles.RoleTherapist:     false,
		roles.RoleSurgeon:       false,
		roles.RoleViceLeader:    true,
		roles.RoleLeader:        true,
		roles.RoleAdministrator: true,
	}
	for r, want := range allowed {
		assert.Equal(t, want, CanCreateResource(r), "role %s", r)
	}
}
