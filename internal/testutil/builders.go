package testutil

import (
	"github.com/alexedwards/argon2id"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/domain/profile"
)

// ProfileBuilder provides a fluent interface for building Profile rows for testing.
type ProfileBuilder struct {
	p profile.Profile
}

// NewProfile creates a ProfileBuilder with sensible student defaults.
func NewProfile() *ProfileBuilder {
	aadhaar := "123412341234"
	return &ProfileBuilder{
		p: profile.Profile{
			ID:      "user-1",
			Role:    domainauth.RoleStudent,
			Name:    "Asha Rao",
			Email:   "asha@example.com",
			Aadhaar: &aadhaar,
		},
	}
}

// WithID sets the profile ID.
func (b *ProfileBuilder) WithID(id string) *ProfileBuilder {
	b.p.ID = id
	return b
}

// WithName sets the display name.
func (b *ProfileBuilder) WithName(name string) *ProfileBuilder {
	b.p.Name = name
	return b
}

// WithEmail sets the email address.
func (b *ProfileBuilder) WithEmail(email string) *ProfileBuilder {
	b.p.Email = email
	return b
}

// WithRole sets the role and moves the identifier to the matching column.
func (b *ProfileBuilder) WithRole(role domainauth.Role, identifier string) *ProfileBuilder {
	b.p.Role = role
	b.p.Aadhaar = nil
	b.p.AparID = nil
	b.p.AisheCode = nil
	b.p.OfficialID = nil
	switch role {
	case domainauth.RoleStudent:
		b.p.Aadhaar = &identifier
	case domainauth.RoleTeacher:
		b.p.AparID = &identifier
	case domainauth.RoleInstitutionAdmin:
		b.p.AisheCode = &identifier
	case domainauth.RoleMinistryAdmin:
		b.p.OfficialID = &identifier
	}
	return b
}

// WithPassword hashes the password and sets PasswordHash.
func (b *ProfileBuilder) WithPassword(t TestingTB, password string) *ProfileBuilder {
	t.Helper()
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		t.Fatal("Failed to hash password:", err)
	}
	b.p.PasswordHash = hash
	return b
}

// Build returns the constructed profile.
func (b *ProfileBuilder) Build() profile.Profile {
	return b.p
}
