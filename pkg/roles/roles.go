// Package roles defines the staff rank hierarchy and the rank-based
// rules for creating and promoting members. All rank comparisons in the
// service go through this package; nothing else hard-codes role order.
package roles

import "fmt"

// Role is a staff rank.
type Role string

const (
	RoleIntern        Role = "intern"
	RoleParamedic     Role = "paramedic"
	RoleTherapist     Role = "therapist"
	RoleSurgeon       Role = "surgeon"
	RoleViceLeader    Role = "vice_leader"
	RoleLeader        Role = "leader"
	RoleAdministrator Role = "administrator"
)

// hierarchy is the canonical rank order, lowest first.
var hierarchy = []Role{
	RoleIntern,
	RoleParamedic,
	RoleTherapist,
	RoleSurgeon,
	RoleViceLeader,
	RoleLeader,
	RoleAdministrator,
}

var rankIndex = func() map[Role]int {
	m := make(map[Role]int, len(hierarchy))
	for i, r := range hierarchy {
		m[r] = i
	}
	return m
}()

// All returns every role in rank order, lowest first.
func All() []Role {
	out := make([]Role, len(hierarchy))
	copy(out, hierarchy)
	return out
}

// Valid reports whether r is a known role.
func Valid(r Role) bool {
	_, ok := rankIndex[r]
	return ok
}

// Parse converts a string into a Role.
func Parse(s string) (Role, error) {
	r := Role(s)
	if !Valid(r) {
		return "", fmt.Errorf("unknown role: %q", s)
	}
	return r, nil
}

// Rank returns the ordinal of a role in the hierarchy (0 = lowest).
// Unknown roles rank below every valid role.
func Rank(r Role) int {
	if i, ok := rankIndex[r]; ok {
		return i
	}
	return -1
}

// IsPromotion reports whether moving from from to to raises rank.
func IsPromotion(from, to Role) bool {
	return Rank(to) > Rank(from)
}

// IsDemotion reports whether moving from from to to lowers rank.
func IsDemotion(from, to Role) bool {
	return Rank(to) < Rank(from)
}

// CanCreateUserWithRole reports whether a member holding creatorRole may
// create a new member holding targetRole. Vice-leaders may only create
// up to surgeon, leaders anything below administrator, administrators
// anything. The reason is empty when allowed.
func CanCreateUserWithRole(creatorRole, targetRole Role) (bool, string) {
	switch creatorRole {
	case RoleViceLeader:
		if Rank(targetRole) > Rank(RoleSurgeon) {
			return false, "vice-leaders may only create members up to surgeon"
		}
		return true, ""
	case RoleLeader:
		if targetRole == RoleAdministrator {
			return false, "leaders may not create administrators"
		}
		return true, ""
	case RoleAdministrator:
		return true, ""
	}
	return false, "permission denied"
}

// CanPromoteToRole reports whether a member holding promoterRole may
// move another member to targetRole. Vice-leaders top out at surgeon;
// leaders and administrators may assign any rank.
func CanPromoteToRole(promoterRole, targetRole Role) bool {
	switch promoterRole {
	case RoleViceLeader:
		return Rank(targetRole) <= Rank(RoleSurgeon)
	case RoleLeader, RoleAdministrator:
		return true
	}
	return false
}
