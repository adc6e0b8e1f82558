package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/ports"
	"github.com/edupulse/edupulse/internal/testutil"
)

func TestProfileRepoCreateAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewProfileRepo(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, testutil.NewProfile().
		WithID("user-create").
		WithPassword(t, "hunter22!").
		Build())
	require.NoError(t, err)
	assert.Equal(t, "user-create", created.ID)
	assert.Equal(t, domainauth.RoleStudent, created.Role)
	assert.NotEmpty(t, created.PasswordHash)
	assert.False(t, created.CreatedAt.IsZero())

	byUser, err := repo.FindByUser(ctx, "user-create")
	require.NoError(t, err)
	assert.Equal(t, created.Email, byUser.Email)

	byID, err := repo.FindByIdentifier(ctx, domainauth.RoleStudent, "123412341234")
	require.NoError(t, err)
	assert.Equal(t, "user-create", byID.ID)
}

func TestProfileRepoIdentifierScopedToRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewProfileRepo(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, testutil.NewProfile().
		WithID("user-teacher").
		WithRole(domainauth.RoleTeacher, "APAR-42").
		WithPassword(t, "hunter22!").
		Build())
	require.NoError(t, err)

	// The same identifier never matches through another role's column.
	_, err = repo.FindByIdentifier(ctx, domainauth.RoleStudent, "APAR-42")
	assert.ErrorIs(t, err, ports.ErrProfileNotFound)

	found, err := repo.FindByIdentifier(ctx, domainauth.RoleTeacher, "APAR-42")
	require.NoError(t, err)
	assert.Equal(t, "user-teacher", found.ID)
}

func TestProfileRepoDuplicateIdentifier(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewProfileRepo(db)
	ctx := context.Background()

	first := testutil.NewProfile().WithID("user-dup-1").WithPassword(t, "hunter22!").Build()
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)

	second := testutil.NewProfile().
		WithID("user-dup-2").
		WithEmail("other@example.com").
		WithPassword(t, "hunter22!").
		Build()
	_, err = repo.Create(ctx, second)
	assert.ErrorIs(t, err, ErrIdentifierExists)
}

func TestProfileRepoInvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewProfileRepo(db)

	p := testutil.NewProfile().Build()
	p.Role = domainauth.Role("superuser")
	_, err := repo.Create(context.Background(), p)
	assert.Error(t, err)
}

func TestProfileRepoFindMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewProfileRepo(db)

	_, err := repo.FindByUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, ports.ErrProfileNotFound)
}
