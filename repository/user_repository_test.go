package repository

import (
	"context"
	"testing"

	"divvy/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByEmail(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("user found", func(t *testing.T) {
		created, err := repo.Create(ctx, "alice@example.com")
		require.NoError(t, err)

		user, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, created.ID, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, created.CreatedAt, user.CreatedAt)
	})
}

func TestUserRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		user, err := repo.Create(ctx, "bob@example.com")
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.NotZero(t, user.ID)
		assert.Equal(t, "bob@example.com", user.Email)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Create(ctx, "dup@example.com")
		require.NoError(t, err)

		_, err = repo.Create(ctx, "dup@example.com")
		assert.Error(t, err)
	})

	t.Run("get by id", func(t *testing.T) {
		created, err := repo.Create(ctx, "carol@example.com")
		require.NoError(t, err)

		user, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, created.Email, user.Email)
	})
}
