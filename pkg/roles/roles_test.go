package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankOrder(t *testing.T) {
	all := All()
	require.Len(t, all, 7)

	for i, r := range all {
		assert.Equal(t, i, Rank(r))
		assert.True(t, Valid(r))
	}

	assert.Equal(t, -1, Rank(Role("janitor")))
	assert.False(t, Valid(Role("janitor")))
}

func TestParse(t *testing.T) {
	r, err := Parse("surgeon")
	require.NoError(t, err)
	assert.Equal(t, RoleSurgeon, r)

	_, err = Parse("chief")
	assert.Error(t, err)
}

func TestPromotionDemotionClassification(t *testing.T) {
	// For every role pair exactly one of promotion/demotion/lateral holds
	// and each matches the rank comparison.
	for _, from := range All() {
		for _, to := range All() {
			promo := IsPromotion(from, to)
			demo := IsDemotion(from, to)

			assert.Equal(t, Rank(to) > Rank(from), promo, "%s -> %s", from, to)
			assert.Equal(t, Rank(to) < Rank(from), demo, "%s -> %s", from, to)

			lateral := !promo && !demo
			count := 0
			for _, b := range []bool{promo, demo, lateral} {
				if b {
					count++
				}
			}
			assert.Equal(t, 1, count, "%s -> %s", from, to)
			if lateral {
				assert.Equal(t, from, to)
			}
		}
	}
}

func TestCanCreateUserWithRole(t *testing.T) {
	tests := []struct {
		name    string
		creator Role
		target  Role
		allowed bool
	}{
		{"vice-leader creates intern", RoleViceLeader, RoleIntern, true},
		{"vice-leader creates surgeon", RoleViceLeader, RoleSurgeon, true},
		{"vice-leader creates vice-leader", RoleViceLeader, RoleViceLeader, false},
		{"vice-leader creates leader", RoleViceLeader, RoleLeader, false},
		{"vice-leader creates administrator", RoleViceLeader, RoleAdministrator, false},
		{"leader creates vice-leader", RoleLeader, RoleViceLeader, true},
		{"leader creates leader", RoleLeader, RoleLeader, true},
		{"leader creates administrator", RoleLeader, RoleAdministrator, false},
		{"administrator creates administrator", RoleAdministrator, RoleAdministrator, true},
		{"surgeon creates intern", RoleSurgeon, RoleIntern, false},
		{"intern creates intern", RoleIntern, RoleIntern, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, reason := CanCreateUserWithRole(tt.creator, tt.target)
			assert.Equal(t, tt.allowed, allowed)
			if !allowed {
				assert.NotEmpty(t, reason)
			} else {
				assert.Empty(t, reason)
			}
		})
	}
}

func TestCanPromoteToRole(t *testing.T) {
	// Vice-leaders top out at surgeon regardless of target.
	for _, target := range All() {
		want := Rank(target) <= Rank(RoleSurgeon)
		assert.Equal(t, want, CanPromoteToRole(RoleViceLeader, target), "vice-leader -> %s", target)
		assert.True(t, CanPromoteToRole(RoleLeader, target), "leader -> %s", target)
		assert.True(t, CanPromoteToRole(RoleAdministrator, target), "administrator -> %s", target)
		assert.False(t, CanPromoteToRole(RoleSurgeon, target), "surgeon -> %s", target)
		assert.False(t, CanPromoteToRole(RoleIntern, target), "intern -> %s", target)
	}
}
