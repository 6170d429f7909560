package rbac

// seniority maps each role to its rank in the hierarchy. Lower rank is
// more senior.
var seniority = func() map[Role]int {
	m := make(map[Role]int, len(AllRoles))
	for i, r := range AllRoles {
		m[r] = i
	}
	return m
}()

// capabilities is the full role -> capability-set table. Roles absent from
// this table (unknown role strings) hold no capabilities at all.
var capabilities = map[Role]map[Capability]bool{
	RoleSuperAdmin: {
		CanCreateTasks:       true,
		CanAssignTasks:       true,
		CanViewAllTasks:      true,
		CanManageUsers:       true,
		CanSendMessages:      true,
		CanManageAutomations: true,
		CanExportReports:     true,
	},
	RoleAdmin: {
		CanCreateTasks:       true,
		CanAssignTasks:       true,
		CanViewAllTasks:      true,
		CanManageUsers:       true,
		CanSendMessages:      true,
		CanManageAutomations: true,
		CanExportReports:     true,
	},
	RoleGeneralManager: {
		CanCreateTasks:   true,
		CanAssignTasks:   true,
		CanViewAllTasks:  true,
		CanManageUsers:   true,
		CanSendMessages:  true,
		CanExportReports: true,
	},
	RoleProgramManager: {
		CanCreateTasks:   true,
		CanAssignTasks:   true,
		CanViewAllTasks:  true,
		CanSendMessages:  true,
		CanExportReports: true,
	},
	RoleProjectCoordinator: {
		CanCreateTasks:  true,
		CanAssignTasks:  true,
		CanSendMessages: true,
	},
	RoleHR: {
		CanCreateTasks:  true,
		CanSendMessages: true,
	},
	RoleFinance: {
		CanCreateTasks:  true,
		CanSendMessages: true,
	},
	RoleProcurement: {
		CanCreateTasks:  true,
		CanSendMessages: true,
	},
	RoleStorekeeper: {
		CanSendMessages: true,
	},
	RoleMEOfficer: {
		CanCreateTasks:  true,
		CanSendMessages: true,
	},
	RoleFieldOfficer: {
		CanSendMessages: true,
	},
	RoleAccountant: {
		CanSendMessages: true,
	},
	RoleUser: {
		CanSendMessages: true,
	},
}

// HasPermission reports whether role holds the capability. Pure lookup,
// no I/O. Unknown roles hold nothing.
func HasPermission(role Role, capability Capability) bool {
	caps, ok := capabilities[role]
	if !ok {
		return false
	}
	return caps[capability]
}

// Seniority returns the hierarchy rank of role (0 is most senior) and
// whether the role is known.
func Seniority(role Role) (int, bool) {
	rank, ok := seniority[role]
	return rank, ok
}

// CanAssignRole reports whether actor may assign target to another user.
// Only a strictly senior actor may hand out a role; the top tier may hand
// out any role. This is what prevents a mid-tier manager from promoting a
// peer or a superior.
func CanAssignRole(actor, target Role) bool {
	actorRank, ok := seniority[actor]
	if !ok {
		return false
	}
	targetRank, ok := seniority[target]
	if !ok {
		return false
	}
	if actor == RoleSuperAdmin {
		return true
	}
	return actorRank < targetRank
}

// IsManager reports whether role sees system-wide task views.
func IsManager(role Role) bool {
	return HasPermission(role, CanViewAllTasks)
}
