package rbac

// Role is a platform role. The set is closed: every role carries an entry
// in the seniority order and in the capability table, and the tests assert
// both tables are exhaustive.
type Role string

const (
	RoleSuperAdmin         Role = "SUPER_ADMIN"
	RoleAdmin              Role = "ADMIN"
	RoleGeneralManager     Role = "GENERAL_MANAGER"
	RoleProgramManager     Role = "PROGRAM_MANAGER"
	RoleProjectCoordinator Role = "PROJECT_COORDINATOR"
	RoleHR                 Role = "HR"
	RoleFinance            Role = "FINANCE"
	RoleProcurement        Role = "PROCUREMENT"
	RoleStorekeeper        Role = "STOREKEEPER"
	RoleMEOfficer          Role = "ME_OFFICER"
	RoleFieldOfficer       Role = "FIELD_OFFICER"
	RoleAccountant         Role = "ACCOUNTANT"
	RoleUser               Role = "USER"
)

// AllRoles lists every role from most to least senior. Index order is the
// seniority order used for role assignment checks.
var AllRoles = []Role{
	RoleSuperAdmin,
	RoleAdmin,
	RoleGeneralManager,
	RoleProgramManager,
	RoleProjectCoordinator,
	RoleHR,
	RoleFinance,
	RoleProcurement,
	RoleStorekeeper,
	RoleMEOfficer,
	RoleFieldOfficer,
	RoleAccountant,
	RoleUser,
}

// Capability is a named permission bit gating one class of operation.
type Capability string

const (
	CanCreateTasks       Capability = "canCreateTasks"
	CanAssignTasks       Capability = "canAssignTasks"
	CanViewAllTasks      Capability = "canViewAllTasks"
	CanManageUsers       Capability = "canManageUsers"
	CanSendMessages      Capability = "canSendMessages"
	CanManageAutomations Capability = "canManageAutomations"
	CanExportReports     Capability = "canExportReports"
)

// AllCapabilities is used by the exhaustiveness tests.
var AllCapabilities = []Capability{
	CanCreateTasks,
	CanAssignTasks,
	CanViewAllTasks,
	CanManageUsers,
	CanSendMessages,
	CanManageAutomations,
	CanExportReports,
}

// Valid reports whether r is a known platform role.
func (r Role) Valid() bool {
	_, ok := seniority[r]
	return ok
}
