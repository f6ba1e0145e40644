package user

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nerrad567/iot-inventory/internal/integrity"
)

const (
	minNameLength     = 2
	maxNameLength     = 100
	minPasswordLength = 6
)

var emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// normalizeEmail trims and lowercases, so uniqueness is case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(v *integrity.ValidationError, name string) {
	n := utf8.RuneCountInString(name)
	switch {
	case n == 0:
		v.Add("name", "name is required")
	case n < minNameLength:
		v.Add("name", "name must be at least 2 characters")
	case n > maxNameLength:
		v.Add("name", "name cannot exceed 100 characters")
	}
}

func validateEmail(v *integrity.ValidationError, email string) {
	if email == "" {
		v.Add("email", "email is required")
		return
	}
	if !emailRegex.MatchString(email) {
		v.Add("email", "email must be a valid address")
	}
}

func validatePassword(v *integrity.ValidationError, password string) {
	if password == "" {
		v.Add("password", "password is required")
		return
	}
	if len(password) < minPasswordLength {
		v.Add("password", "password must be at least 6 characters")
	}
}

func validateRole(v *integrity.ValidationError, role Role) {
	if !role.IsValid() {
		v.Add("role", string(role)+" is not a valid role (one of "+roleNames()+")")
	}
}

// normalizeCreate trims and applies defaults in place.
func normalizeCreate(in *CreateInput) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = RoleViewer
	}
}

// validateCreate checks a normalized CreateInput.
func validateCreate(in CreateInput) error {
	v := integrity.NewValidationError()
	validateName(v, in.Name)
	validateEmail(v, in.Email)
	validatePassword(v, in.Password)
	validateRole(v, in.Role)
	return v.Err()
}

// applyPatch normalizes and validates p, then copies it onto u.
func applyPatch(u *User, p Patch) (newPassword string, err error) {
	v := integrity.NewValidationError()

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		validateName(v, name)
		u.Name = name
	}
	if p.Email != nil {
		email := normalizeEmail(*p.Email)
		validateEmail(v, email)
		u.Email = email
	}
	if p.Password != nil {
		validatePassword(v, *p.Password)
		newPassword = *p.Password
	}
	if p.Role != nil {
		validateRole(v, *p.Role)
		u.Role = *p.Role
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}

	return newPassword, v.Err()
}
