package profile

// Package profile contains domain types for the profiles store, the
// authoritative source of user roles. Each role authenticates with its own
// government identifier column; exactly one column is consulted per login.

import (
	"fmt"
	"time"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
)

// Profile is a row in the profiles table. Exactly one of the identifier
// columns is set, matching the profile's role.
type Profile struct {
	ID           string          `json:"id" db:"id"`
	Role         domainauth.Role `json:"role" db:"role"`
	Name         string          `json:"name" db:"name"`
	Email        string          `json:"email" db:"email"`
	PasswordHash string          `json:"-" db:"password_hash"`
	Aadhaar      *string         `json:"aadhaar,omitempty" db:"aadhaar"`
	AparID       *string         `json:"apar_id,omitempty" db:"apar_id"`
	AisheCode    *string         `json:"aishe_code,omitempty" db:"aishe_code"`
	OfficialID   *string         `json:"official_id,omitempty" db:"official_id"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// Identifier returns the identifier value for the profile's role, if set.
func (p Profile) Identifier() string {
	col := map[domainauth.Role]*string{
		domainauth.RoleStudent:          p.Aadhaar,
		domainauth.RoleTeacher:          p.AparID,
		domainauth.RoleInstitutionAdmin: p.AisheCode,
		domainauth.RoleMinistryAdmin:    p.OfficialID,
	}[p.Role]
	if col == nil {
		return ""
	}
	return *col
}

// IdentifierColumn returns the profiles column holding the login identifier
// for the given role. Unknown roles have no identifier column.
func IdentifierColumn(role domainauth.Role) (string, error) {
	switch role {
	case domainauth.RoleStudent:
		return "aadhaar", nil
	case domainauth.RoleTeacher:
		return "apar_id", nil
	case domainauth.RoleInstitutionAdmin:
		return "aishe_code", nil
	case domainauth.RoleMinistryAdmin:
		return "official_id", nil
	default:
		return "", fmt.Errorf("no identifier column for role %q", role)
	}
}

// IdentifierLabel returns the user-facing name of the login identifier for
// the given role, used by login form payloads.
func IdentifierLabel(role domainauth.Role) string {
	switch role {
	case domainauth.RoleStudent:
		return "Aadhaar Number"
	case domainauth.RoleTeacher:
		return "APAR ID"
	case domainauth.RoleInstitutionAdmin:
		return "AISHE Code"
	case domainauth.RoleMinistryAdmin:
		return "Official ID"
	default:
		return "Identifier"
	}
}

// Credentials carries a login attempt. Role selects which identifier column
// is consulted.
type Credentials struct {
	Role       string `json:"role"       validate:"required"`
	Identifier string `json:"identifier" validate:"required,min=3,max=64"`
	Password   string `json:"password"   validate:"required,min=6,max=128"`
}

// SignupRequest carries a new-account registration.
type SignupRequest struct {
	Role       string `json:"role"       validate:"required"`
	Name       string `json:"name"       validate:"required,min=2,max=120"`
	Email      string `json:"email"      validate:"required,email"`
	Identifier string `json:"identifier" validate:"required,min=3,max=64"`
	Password   string `json:"password"   validate:"required,min=8,max=128"`
}
