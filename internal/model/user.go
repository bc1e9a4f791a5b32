package model

import "fmt"

// Role is a user's privilege level. Roles are ordered: user < admin <
// super_admin.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Roles lists every role from least to most privileged.
var Roles = []Role{RoleUser, RoleAdmin, RoleSuperAdmin}

func (r Role) rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperAdmin:
		return 3
	default:
		return 0
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r.rank() > 0
}

// AtLeast reports whether r grants at least the privileges of min.
func (r Role) AtLeast(min Role) bool {
	return r.rank() > 0 && r.rank() >= min.rank()
}

// CanManage reports whether a user with role r may create, edit or delete a
// user holding target. Only super admins touch admin-level accounts.
func (r Role) CanManage(target Role) bool {
	if target.AtLeast(RoleAdmin) {
		return r == RoleSuperAdmin
	}
	return r.AtLeast(RoleAdmin)
}

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// User is an admin-managed console user.
type User struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Active    bool   `json:"is_active"`
	CreatedAt Time   `json:"created_at"`
	LastLogin Time   `json:"last_login"`
}

// UserInput is the payload for creating or updating a user. Empty fields are
// omitted on update.
type UserInput struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role,omitempty"`
}
