package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgresContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

// forEachDriver runs fn against a freshly migrated schema once per driver.
func forEachDriver(t *testing.T, fn func(t *testing.T, db *sql.DB)) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dsn := setupPostgresContainer(t)
	for _, driver := range []string{DriverPQ, DriverPGX} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			db, err := Open(ctx, driver, dsn)
			require.NoError(t, err)
			defer db.Close()

			require.NoError(t, MigrateDown(ctx, db))
			require.NoError(t, MigrateUp(ctx, db))

			fn(t, db)
		})
	}
}
