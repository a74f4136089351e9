package model

import "time"

// Role gates what a user may change.
type Role string

const (
	RolePlanner   Role = "PLANNER"
	RoleDeveloper Role = "DEVELOPER"
	RoleVisitor   Role = "VISITOR"
	RoleResident  Role = "RESIDENT"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RolePlanner, RoleDeveloper, RoleVisitor, RoleResident:
		return true
	}
	return false
}

// CanEdit reports whether the role may create and modify documents and
// their reference data.
func (r Role) CanEdit() bool {
	return r == RolePlanner || r == RoleDeveloper
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
