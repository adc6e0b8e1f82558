package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Role
	}{
		{name: "student", in: "student", want: RoleStudent},
		{name: "mixed case teacher", in: "Teacher", want: RoleTeacher},
		{name: "upper case ministry", in: "MINISTRY_ADMIN", want: RoleMinistryAdmin},
		{name: "surrounding whitespace", in: "  institution_admin ", want: RoleInstitutionAdmin},
		{name: "outside enumeration", in: "guest", want: RoleUnknown},
		{name: "empty", in: "", want: RoleUnknown},
		{name: "unknown literal stays unknown", in: "unknown", want: RoleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRole(tt.in))
		})
	}
}

func TestRoleMatches(t *testing.T) {
	assert.True(t, Role("Teacher").Matches(RoleTeacher))
	assert.True(t, RoleStudent.Matches(Role("STUDENT")))
	assert.False(t, RoleTeacher.Matches(RoleStudent))

	// Values outside the enumeration never match anything, including themselves.
	for _, required := range Roles() {
		assert.False(t, Role("guest").Matches(required))
	}
	assert.False(t, Role("guest").Matches(Role("guest")))
	assert.False(t, RoleUnknown.Matches(RoleUnknown))
}

func TestStateAllows(t *testing.T) {
	assert.True(t, Authenticated(RoleTeacher).Allows(RoleTeacher))
	assert.False(t, Authenticated(RoleTeacher).Allows(RoleStudent))
	assert.False(t, Anonymous().Allows(RoleTeacher))

	// A loading state never allows, even when it carries a role hint.
	assert.False(t, Loading(RoleTeacher).Allows(RoleTeacher))
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{ID: "s1", ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Minute)))
}
