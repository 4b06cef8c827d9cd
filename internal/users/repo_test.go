package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiu748/cafe-alya/pkg/db"
	"github.com/poiu748/cafe-alya/pkg/db/dbtest"
	"github.com/poiu748/cafe-alya/pkg/enums"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	user, err := repo.Create(ctx, CreateUserDTO{
		Username:     " Manager ",
		Email:        "Manager@Cafe.fr",
		PasswordHash: "hash",
		Role:         enums.UserRoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "manager", user.Username)
	assert.Equal(t, "manager@cafe.fr", user.Email)

	found, err := repo.FindByUsername(ctx, "MANAGER")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.True(t, db.IsNotFound(err))

	_, err = repo.Create(ctx, CreateUserDTO{Username: "manager", Email: "other@cafe.fr", PasswordHash: "x", Role: enums.UserRoleEmployee})
	assert.True(t, db.IsUniqueViolation(err, ""))

	at := time.Date(2024, 10, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))
	require.NoError(t, repo.UpdatePasswordHash(ctx, user.ID, "rehashed"))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.True(t, reloaded.LastLoginAt.Equal(at))
	assert.Equal(t, "rehashed", reloaded.PasswordHash)

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
