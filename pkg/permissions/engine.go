// Package permissions is the single source of truth for the
// authorization rules gating every mutation. All three checks are pure
// functions over already-resolved actor/target state: callers load the
// members first, consult the engine, and short-circuit on a denial
// before touching the store.
package permissions

import (
	"github.com/hospital-rp/staffd/pkg/roles"
	"github.com/hospital-rp/staffd/pkg/staff"
)

// Decision is the outcome of a permission check. Reason is set only
// when the check is denied.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Err converts a denial into an AuthorizationError, nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return staff.NewAuthorizationError(d.Reason)
}

// CanManageUser decides whether actor may manage (edit, warn, exonerate)
// target. Administrators and leaders always may. Vice-leaders may only
// manage members of their own shift whose rank is strictly below their
// own. Everyone else is denied.
func CanManageUser(actor, target *staff.Member) Decision {
	if actor == nil || target == nil {
		return deny("member not found")
	}

	switch actor.Role {
	case roles.RoleAdministrator, roles.RoleLeader:
		return allow()
	case roles.RoleViceLeader:
		if !SameShift(actor.ShiftID, target.ShiftID) {
			return deny("vice-leaders may only manage members of their own shift")
		}
		if roles.Rank(target.Role) >= roles.Rank(roles.RoleViceLeader) {
			return deny("vice-leaders may only manage members of lower rank")
		}
		return allow()
	}
	return deny("permission denied")
}

// CanManageResource decides whether an actor may mutate a scoped record.
// Administrators and leaders always may. Vice-leaders may touch any
// general record, and shift records only for their own shift.
func CanManageResource(actorRole roles.Role, actorShiftID *string, scope staff.ResourceScope, resourceShiftID *string) Decision {
	switch actorRole {
	case roles.RoleAdministrator, roles.RoleLeader:
		return allow()
	case roles.RoleViceLeader:
		if scope == staff.ScopeGeneral {
			return allow()
		}
		if scope == staff.ScopeShift {
			if SameShift(actorShiftID, resourceShiftID) {
				return allow()
			}
			return deny("vice-leaders may only manage resources of their own shift")
		}
	}
	return deny("permission denied")
}

// CanCreateResource reports whether a role may create shared records
// (rules, commands, categories, covenants, attendance, members).
func CanCreateResource(actorRole roles.Role) bool {
	switch actorRole {
	case roles.RoleViceLeader, roles.RoleLeader, roles.RoleAdministrator:
		return true
	}
	return false
}

// SameShift reports whether two shift assignments match. Two unassigned
// members count as sharing a shift.
func SameShift(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
