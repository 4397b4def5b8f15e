package enums

// Role is the fixed set of actor roles recognized by the platform.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
	RoleStore    Role = "STORE"
)

// Valid reports whether the role is one of the declared constants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCustomer, RoleStore:
		return true
	default:
		return false
	}
}
