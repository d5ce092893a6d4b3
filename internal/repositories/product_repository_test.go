package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"productapi/internal/models"
	"productapi/internal/repositories"
)

func newSQLiteRepository(t *testing.T) repositories.ProductRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repositories.NewGORMProductRepository(db)
}

// Both implementations must behave the same.
func repositoriesUnderTest(t *testing.T) map[string]repositories.ProductRepository {
	return map[string]repositories.ProductRepository{
		"gorm":   newSQLiteRepository(t),
		"memory": repositories.NewMemoryProductRepository(),
	}
}

func TestProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()

	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			first := &models.Product{Name: "Monitor", Price: decimal.NewFromInt(300), Availability: true}
			second := &models.Product{Name: "Teclado", Price: decimal.RequireFromString("49.90"), Availability: true}
			require.NoError(t, repo.Create(ctx, first))
			require.NoError(t, repo.Create(ctx, second))
			assert.NotZero(t, first.ID)
			assert.Greater(t, second.ID, first.ID)

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, second.ID, all[0].ID, "newest product comes first")
			assert.Equal(t, first.ID, all[1].ID)

			fetched, err := repo.GetByID(ctx, second.ID)
			require.NoError(t, err)
			assert.Equal(t, "Teclado", fetched.Name)
			assert.True(t, decimal.RequireFromString("49.90").Equal(fetched.Price))

			fetched.Availability = false
			fetched.Name = "Teclado mecánico"
			require.NoError(t, repo.Update(ctx, fetched))

			updated, err := repo.GetByID(ctx, second.ID)
			require.NoError(t, err)
			assert.False(t, updated.Availability)
			assert.Equal(t, "Teclado mecánico", updated.Name)

			require.NoError(t, repo.Delete(ctx, first.ID))
			_, err = repo.GetByID(ctx, first.ID)
			assert.ErrorIs(t, err, repositories.ErrProductNotFound)
			assert.ErrorIs(t, repo.Delete(ctx, first.ID), repositories.ErrProductNotFound)
		})
	}
}

func TestProductRepository_GetAllEmpty(t *testing.T) {
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			all, err := repo.GetAll(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, all)
			assert.Empty(t, all)
		})
	}
}

func TestMemoryProductRepository_UpdateMissing(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()
	err := repo.Update(context.Background(), &models.Product{ID: 99, Name: "Nada"})
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestUnavailableProductRepository(t *testing.T) {
	repo := repositories.NewUnavailableProductRepository(errors.New("dial tcp: connection refused"))
	ctx := context.Background()

	_, err := repo.GetAll(ctx)
	assert.ErrorIs(t, err, repositories.ErrDatabaseUnavailable)
	assert.ErrorContains(t, err, "connection refused")

	_, err = repo.GetByID(ctx, 1)
	assert.ErrorIs(t, err, repositories.ErrDatabaseUnavailable)
	assert.ErrorIs(t, repo.Create(ctx, &models.Product{}), repositories.ErrDatabaseUnavailable)
	assert.ErrorIs(t, repo.Update(ctx, &models.Product{}), repositories.ErrDatabaseUnavailable)
	assert.ErrorIs(t, repo.Delete(ctx, 1), repositories.ErrDatabaseUnavailable)
}
