package rbac

import "testing"

func TestCapabilityTableIsExhaustive(t *testing.T) {
	for _, role := range AllRoles {
		if _, ok := capabilities[role]; !ok {
			t.Errorf("role %s has no capability entry", role)
		}
		if _, ok := seniority[role]; !ok {
			t.Errorf("role %s has no seniority entry", role)
		}
	}
	if len(capabilities) != len(AllRoles) {
		t.Errorf("capability table has %d entries, want %d", len(capabilities), len(AllRoles))
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       Role
		capability Capability
		want       bool
	}{
		{RoleSuperAdmin, CanManageUsers, true},
		{RoleAdmin, CanManageAutomations, true},
		{RoleGeneralManager, CanCreateTasks, true},
		{RoleGeneralManager, CanViewAllTasks, true},
		{RoleGeneralManager, CanManageAutomations, false},
		{RoleProgramManager, CanAssignTasks, true},
		{RoleProgramManager, CanManageUsers, false},
		{RoleProjectCoordinator, CanAssignTasks, true},
		{RoleProjectCoordinator, CanViewAllTasks, false},
		{RoleHR, CanCreateTasks, true},
		{RoleHR, CanAssignTasks, false},
		{RoleFieldOfficer, CanSendMessages, true},
		{RoleFieldOfficer, CanCreateTasks, false},
		{RoleUser, CanViewAllTasks, false},
		{Role("NO_SUCH_ROLE"), CanSendMessages, false},
	}

	for _, tt := range tests {
		if got := HasPermission(tt.role, tt.capability); got != tt.want {
			t.Errorf("HasPermission(%s, %s) = %v, want %v", tt.role, tt.capability, got, tt.want)
		}
	}
}

func TestCanAssignRole(t *testing.T) {
	tests := []struct {
		name   string
		actor  Role
		target Role
		want   bool
	}{
		{"super admin assigns super admin", RoleSuperAdmin, RoleSuperAdmin, true},
		{"super admin assigns user", RoleSuperAdmin, RoleUser, true},
		{"admin assigns general manager", RoleAdmin, RoleGeneralManager, true},
		{"admin assigns admin (reflexive)", RoleAdmin, RoleAdmin, false},
		{"admin assigns super admin (inverse)", RoleAdmin, RoleSuperAdmin, false},
		{"gm assigns field officer", RoleGeneralManager, RoleFieldOfficer, true},
		{"gm assigns gm (peer)", RoleGeneralManager, RoleGeneralManager, false},
		{"program manager assigns gm (inverse)", RoleProgramManager, RoleGeneralManager, false},
		{"field officer assigns user", RoleFieldOfficer, RoleUser, true},
		{"user assigns anyone", RoleUser, RoleFieldOfficer, false},
		{"unknown actor", Role("GHOST"), RoleUser, false},
		{"unknown target", RoleAdmin, Role("GHOST"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAssignRole(tt.actor, tt.target); got != tt.want {
				t.Errorf("CanAssignRole(%s, %s) = %v, want %v", tt.actor, tt.target, got, tt.want)
			}
		})
	}
}

// Seniority must be a strict total order: assignment is never symmetric
// between two distinct non-top-tier roles.
func TestSeniorityMonotonicity(t *testing.T) {
	for i, senior := range AllRoles {
		for j, junior := range AllRoles {
			if senior == RoleSuperAdmin {
				continue
			}
			got := CanAssignRole(senior, junior)
			want := i < j
			if got != want {
				t.Errorf("CanAssignRole(%s, %s) = %v, want %v", senior, junior, got, want)
			}
			if got && CanAssignRole(junior, senior) {
				t.Errorf("assignment between %s and %s is symmetric", senior, junior)
			}
		}
	}
}
