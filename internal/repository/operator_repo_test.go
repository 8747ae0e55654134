package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/spc-registrar/records-api/internal/models"
)

func TestOperatorRepositoryFindByUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOperatorRepository(db)

	operator := models.Operator{Username: "admin", PasswordHash: "hash", Role: "admin", FullName: "System Administrator"}
	require.NoError(t, repo.Create(context.Background(), &operator))

	found, err := repo.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.Equal(t, operator.ID, found.ID)
	require.Nil(t, found.LastLogin)

	_, err = repo.FindByUsername(context.Background(), "nobody")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOperatorRepositoryTouchLastLogin(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOperatorRepository(db)

	operator := models.Operator{Username: "admin", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), &operator))

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.TouchLastLogin(context.Background(), operator.ID, at))

	found, err := repo.GetByID(context.Background(), operator.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLogin)
	require.WithinDuration(t, at, *found.LastLogin, time.Second)
}

func TestOperatorRepositoryUpdatePasswordHash(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOperatorRepository(db)

	operator := models.Operator{Username: "admin", PasswordHash: "old"}
	require.NoError(t, repo.Create(context.Background(), &operator))

	require.NoError(t, repo.UpdatePasswordHash(context.Background(), operator.ID, "new"))

	found, err := repo.GetByID(context.Background(), operator.ID)
	require.NoError(t, err)
	require.Equal(t, "new", found.PasswordHash)

	require.ErrorIs(t, repo.UpdatePasswordHash(context.Background(), 999, "x"), gorm.ErrRecordNotFound)
}
