package domain

import "time"

// Role distinguishes submitters, assignable staff, and administrators.
type Role string

const (
	RoleUser  Role = "User"
	RoleStaff Role = "Staff"
	RoleAdmin Role = "Admin"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleStaff || r == RoleAdmin
}

// User is the domain model for every principal: end-users, staff and admins
// share one table, differentiated by Role.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Phone        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the authenticated principal initiating a transition. The HTTP
// layer builds it from the verified token; the core trusts it.
type Actor struct {
	ID   string
	Role Role
}
