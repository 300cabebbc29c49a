package claims

// Role is the account's role
type Role string

const (
	// RolePatient submits claims
	RolePatient Role = "patient"
	// RoleInsurer reviews claims
	RoleInsurer Role = "insurer"
)

// IsValid checks if the role is one of the two recognized values
func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleInsurer:
		return true
	default:
		return false
	}
}

// CanReview reports whether this role may adjudicate claims
func (r Role) CanReview() bool {
	return r == RoleInsurer
}

// ParseRole safely parses a string into a Role type
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}

// AllRoles returns the recognized roles
func AllRoles() []Role {
	return []Role{RolePatient, RoleInsurer}
}
