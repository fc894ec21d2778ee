package roles

import (
	"math/rand"

	"github.com/khnpedu/tension-meeting/globals"
	"github.com/khnpedu/tension-meeting/types"
)

// AssignTeam computes the bulk role assignment for one team at meeting start.
// The pool is drawn for max(4, memberCount) so that even a one- or two-person
// team plays with the full base set of personas. If the pool is shorter than
// the team (catalog exhausted), positions beyond the pool cycle through
// FallbackRoles, which introduces intra-team duplicates. The result is in team
// list order, i.e. result[i] belongs to team member i.
func AssignTeam(memberCount int, rng *rand.Rand) []types.RoleID {
	if memberCount < 1 {
		return nil
	}
	poolSize := memberCount
	if poolSize < 4 {
		poolSize = 4
	}
	pool := ForTeamSize(poolSize)
	if len(pool) < memberCount {
		globals.AppLogger.Warn("role catalog exhausted, padding with fallback roles",
			"team_size", memberCount, "catalog_size", len(pool))
		for i := len(pool); i < memberCount; i++ {
			pool = append(pool, FallbackRoles[i%len(FallbackRoles)])
		}
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool[:memberCount]
}

// AssignLateJoiner picks a role for a participant joining a team of an already
// started meeting. held lists the roles currently assigned in that team,
// newSize is the team size including the joiner. The pick avoids held roles
// while distinct catalog entries remain, and degrades to a uniform pick from
// FallbackRoles otherwise.
func AssignLateJoiner(held []types.RoleID, newSize int, rng *rand.Rand) types.RoleID {
	taken := make(map[types.RoleID]struct{}, len(held))
	for _, id := range held {
		taken[id] = struct{}{}
	}
	candidates := make([]types.RoleID, 0)
	for _, id := range ForTeamSize(newSize) {
		if _, ok := taken[id]; !ok {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		globals.AppLogger.Warn("no unique role left for late joiner, picking fallback role",
			"team_size", newSize, "held", len(held))
		return FallbackRoles[rng.Intn(len(FallbackRoles))]
	}
	return candidates[rng.Intn(len(candidates))]
}
