package domain

type Role string

const (
	RoleDefaultAdmin Role = "DEFAULT_ADMIN"
	RoleAdmin        Role = "ADMIN"
	RoleApprover     Role = "APPROVER"
	RoleMinter       Role = "MINTER"
	RoleUpgrader     Role = "UPGRADER"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleDefaultAdmin, RoleAdmin, RoleApprover, RoleMinter, RoleUpgrader:
		return true
	default:
		return false
	}
}
