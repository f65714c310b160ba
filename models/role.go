package models

import "github.com/google/uuid"

// Role represents the access level of a user
type Role struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"unique;not null" json:"name"`
}

const (
	RoleGuest = "Guest"
	RoleHost  = "Host"
	RoleAdmin = "Admin"
)

// IsAdmin reports whether the role grants access to the admin-only
// message write namespace.
func (r Role) IsAdmin() bool {
	return r.Name == RoleAdmin
}
