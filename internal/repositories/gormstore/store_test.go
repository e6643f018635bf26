package gormstore

import (
	"context"
	"os"
	"testing"
	"time"

	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/internal/repositories/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// testDSN берет TEST_DATABASE_URL или поднимает PostgreSQL в контейнере.
// Без Docker тесты пропускаются.
func testDSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		return dsn
	}
	if testing.Short() {
		t.Skip("skipping container tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("hyperlocal_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	driver := os.Getenv("TEST_DATABASE_DRIVER")
	if driver == "" {
		driver = DriverPostgres
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := Open(ctx, Config{
		Driver:       driver,
		DSN:          testDSN(t),
		MaxOpenConns: 20,
		AutoMigrate:  true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreContract(t *testing.T) {
	store := openTestStore(t)

	storetest.Run(t, func(t *testing.T) repositories.Store {
		require.NoError(t, store.DeleteAllUsers(context.Background()))
		return store
	})
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "sqlite", DSN: "file::memory:"})
	assert.Error(t, err)
}

func TestLikePatternEscapes(t *testing.T) {
	assert.Equal(t, `%plumb%`, likePattern("Plumb"))
	assert.Equal(t, `%100\%\_x%`, likePattern("100%_x"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}
