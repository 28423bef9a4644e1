package profile

import (
	"errors"
	"strings"
)

// Role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleUser, RoleAdmin}

// Domain errors
var (
	ErrEmptyUsername   = errors.New("username cannot be empty")
	ErrInvalidUsername = errors.New("username may not contain '@'")
	ErrEmptyEmail      = errors.New("email cannot be empty")
	ErrInvalidEmail    = errors.New("email must contain '@'")
	ErrInvalidRole     = errors.New("role must be 'user' or 'admin'")
)

// Profile holds the public identity attached to an account.
// Profiles are created by the backend when an account signs up and are
// read-only from the application's perspective apart from that.
type Profile struct {
	ID          string
	Username    string
	Email       string
	DisplayName string
	Role        string // user, admin
}

// Validate checks if the Profile has valid data.
// PRE: Profile struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return ErrEmptyUsername
	}
	if strings.Contains(p.Username, "@") {
		return ErrInvalidUsername
	}
	if strings.TrimSpace(p.Email) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	if !isValidRole(p.Role) {
		return ErrInvalidRole
	}
	return nil
}

// IsAdmin returns true if the profile has the admin role.
// INVARIANT: Profile fields are not mutated
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Label returns the name shown in the navigation bar: display name
// first, then email.
func (p *Profile) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Email
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
