package domain

// Role is the closed set of account classes served by the API.
// Credential lookup is dispatched per role; a mobile number is unique
// within one role's account set, not globally.
type Role string

const (
	RoleOrganization Role = "organization"
	RoleManager      Role = "manager"
	RoleSecurity     Role = "security"
)

// AllRoles lists every valid role, in route-registration order.
var AllRoles = []Role{RoleOrganization, RoleManager, RoleSecurity}

func (r Role) Valid() bool {
	switch r {
	case RoleOrganization, RoleManager, RoleSecurity:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
