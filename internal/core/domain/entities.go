package domain

// Role represents a user role in the system
type Role string

const (
	RoleCustomer      Role = "CUSTOMER"
	RoleAdministrator Role = "ADMINISTRATOR"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdministrator
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
