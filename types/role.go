package types

import (
	"encoding/json"
	"fmt"
)

// RoleID identifies one entry of the fixed role catalog.
type RoleID string

const (
	RoleLeader     RoleID = "LEADER"
	RoleActive     RoleID = "ACTIVE"
	RoleDictator   RoleID = "DICTATOR"
	RoleMediator   RoleID = "MEDIATOR"
	RoleBystander  RoleID = "BYSTANDER"
	RoleDistractor RoleID = "DISTRACTOR"
	RoleYesman     RoleID = "YESMAN"
	RoleFreeloader RoleID = "FREELOADER"
)

// RoleAssignment distinguishes "no role given yet" from "role given" structurally
// instead of relying on an empty-string convention. The zero value is unassigned.
type RoleAssignment struct {
	role     RoleID
	assigned bool
}

func AssignedRole(id RoleID) RoleAssignment {
	return RoleAssignment{role: id, assigned: true}
}

func Unassigned() RoleAssignment {
	return RoleAssignment{}
}

// Role returns the assigned role id, if any.
func (a RoleAssignment) Role() (RoleID, bool) {
	return a.role, a.assigned
}

func (a RoleAssignment) IsAssigned() bool {
	return a.assigned
}

// MarshalJSON serializes an unassigned role as null, like the stored documents
// of the web client this service replaced.
func (a RoleAssignment) MarshalJSON() ([]byte, error) {
	if !a.assigned {
		return []byte("null"), nil
	}
	return json.Marshal(string(a.role))
}

func (a *RoleAssignment) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = RoleAssignment{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid role assignment: %w", err)
	}
	if s == "" {
		*a = RoleAssignment{}
		return nil
	}
	*a = RoleAssignment{role: RoleID(s), assigned: true}
	return nil
}
