//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
	"github.com/Apurer/go-gin-demo-server/internal/domains/users/ports"
	"github.com/Apurer/go-gin-demo-server/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-demo-server/internal/platform/postgres"
)

func setupUsersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("demo_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := platformpostgres.Connect(ctx, dsn)
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestRepositoryPostgres_SaveGetDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser(1, "alice")
	require.NoError(t, err)
	require.NoError(t, user.SetPassword("secret"))

	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.True(t, saved.CheckPassword("secret"))

	fetched, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, saved, fetched)

	require.NoError(t, repo.Delete(ctx, 1))
	_, err = repo.GetByID(ctx, 1)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepositoryPostgres_DuplicateUsername(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Save(ctx, &domain.User{ID: 1, Username: "alice"})
	require.NoError(t, err)
	_, err = repo.Save(ctx, &domain.User{ID: 2, Username: "alice"})
	assert.ErrorIs(t, err, ports.ErrConflict)
}
