package enums

import "fmt"

// Role represents a platform-wide permissions role. Values are stored with
// their Korean labels, matching the canonical user records.
type Role string

const (
	RoleUser           Role = "일반사용자"
	RoleStoreOwner     Role = "점주"
	RoleOperator       Role = "운영자"
	RoleAdmin          Role = "관리자"
	RoleFranchiseAdmin Role = "프차관리자"
)

var validRoles = []Role{
	RoleUser,
	RoleStoreOwner,
	RoleOperator,
	RoleAdmin,
	RoleFranchiseAdmin,
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

// HasGlobalStoreAccess reports whether the role can act on any store without
// an explicit assignment.
func (r Role) HasGlobalStoreAccess() bool {
	return r == RoleOperator || r == RoleAdmin
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
