package enums

import "fmt"

// Role identifies which side of the procurement workflow a user acts on.
type Role string

const (
	RoleBuyer      Role = "Buyer"
	RoleSeller     Role = "Seller"
	RoleSuperadmin Role = "Superadmin"
)

var validRoles = []Role{
	RoleBuyer,
	RoleSeller,
	RoleSuperadmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
