package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
)

func TestDatasetGet(t *testing.T) {
	svc := NewDatasetService()

	ds, err := svc.Get("nirf_trends")
	require.NoError(t, err)

	rows, ok := ds.([]any)
	require.True(t, ok)
	assert.Len(t, rows, 5)

	_, err = svc.Get("no_such_dataset")
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestDatasetNames(t *testing.T) {
	svc := NewDatasetService()
	names := svc.Names()
	assert.Contains(t, names, "leaderboard")
	assert.Contains(t, names, "enrollment_by_category")
	assert.Len(t, names, 6)
}

func TestDatasetQuery(t *testing.T) {
	svc := NewDatasetService()

	out, err := svc.Query("leaderboard", "[?score > `92`].name")
	require.NoError(t, err)
	assert.Equal(t, []any{"IIT Bombay", "IISc Bangalore"}, out)

	// An empty expression returns the dataset untouched.
	out, err = svc.Query("leaderboard", "")
	require.NoError(t, err)
	assert.Len(t, out, 5)

	_, err = svc.Query("leaderboard", "[?score >")
	assert.Error(t, err)
}

func TestDashboardFor(t *testing.T) {
	svc := NewDatasetService()

	for _, role := range domainauth.Roles() {
		payload, err := svc.DashboardFor(role)
		require.NoError(t, err, "role %s", role)
		assert.Equal(t, role, payload.Role)
		assert.NotEmpty(t, payload.Title)
		assert.NotEmpty(t, payload.KPIs)
		assert.NotEmpty(t, payload.Datasets)
	}

	_, err := svc.DashboardFor(domainauth.RoleUnknown)
	assert.Error(t, err)

	// Role normalization applies here too.
	payload, err := svc.DashboardFor(domainauth.Role("Student"))
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStudent, payload.Role)
}
