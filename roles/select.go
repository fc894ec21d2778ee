package roles

import "github.com/khnpedu/tension-meeting/types"

const baseSetSize = 4

// FallbackRoles is the generalist sub-catalog used to pad assignments once the
// catalog is exhausted. Duplicates within a team are accepted in that case.
var FallbackRoles = []types.RoleID{
	types.RoleYesman,
	types.RoleActive,
	types.RoleMediator,
	types.RoleFreeloader,
}

// ForTeamSize returns the ordered role pool for a team of n members: the base
// set of four for n <= 4, further catalog entries appended up to n beyond that.
// If n exceeds the catalog, the returned pool is shorter than requested and the
// caller pads via FallbackRoles. The selected set is deterministic for fixed n,
// only the assignment order is randomized downstream. The returned slice is a
// fresh copy on every call.
func ForTeamSize(n int) []types.RoleID {
	if n < baseSetSize {
		n = baseSetSize
	}
	if n > len(Catalog) {
		n = len(Catalog)
	}
	pool := make([]types.RoleID, 0, n)
	for _, def := range Catalog[:n] {
		pool = append(pool, def.Id)
	}
	return pool
}
