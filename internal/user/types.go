package user

import (
	"slices"
	"strings"
	"time"
)

// Role is a user's permission level. Stored for reference only; the API
// does not enforce it.
type Role string

// Role constants.
const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
	RoleViewer     Role = "viewer"
)

// AllRoles returns every valid role.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleTechnician, RoleViewer}
}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return slices.Contains(AllRoles(), r)
}

// roleNames lists the valid roles for validation messages.
func roleNames() string {
	names := make([]string, 0, len(AllRoles()))
	for _, r := range AllRoles() {
		names = append(names, string(r))
	}
	return strings.Join(names, ", ")
}

// User is an inventory user. PasswordHash never leaves the service in JSON.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateInput is the payload for creating a user.
type CreateInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	IsActive *bool  `json:"isActive"`
}

// Patch holds the fields of a partial update. Nil fields are left unchanged.
type Patch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *Role   `json:"role"`
	IsActive *bool   `json:"isActive"`
}

// Summary is returned when a user is deleted.
type Summary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Summary returns the delete summary of u.
func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Email: u.Email, Name: u.Name}
}
