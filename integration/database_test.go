//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestTracelensWithMySQL exercises the baseline and history commands
// against a MySQL store backend.
func TestTracelensWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "tracelens",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/tracelens?parseTime=true", host, port.Port())
	runStoreLifecycle(t, "mysql", connStr)
}

// TestTracelensWithPostgres exercises the baseline and history commands
// against a PostgreSQL store backend.
func TestTracelensWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	runStoreLifecycle(t, "postgresql", connStr)
}

// runStoreLifecycle drives the full baseline/history flow against the
// configured backend: clear, score, store, check, status, list.
func runStoreLifecycle(t *testing.T, backend, connStr string) {
	t.Helper()

	_ = os.Setenv("TRACELENS_STORE_BACKEND", backend)
	_ = os.Setenv("TRACELENS_STORE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("TRACELENS_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("TRACELENS_STORE_DB_CONNECT") }()

	tracePath := writeSampleTrace(t)

	// Start from an empty store
	err := runTracelensCommand(t, "baseline", "clear")
	require.NoError(t, err)

	// Bring the schema to the latest version
	err = runTracelensCommand(t, "baseline", "migrate")
	require.NoError(t, err)

	// Score a run; this archives it to history
	err = runTracelensCommand(t, "score", tracePath)
	require.NoError(t, err)

	// Store the baseline
	err = runTracelensCommand(t, "baseline", "store", tracePath)
	require.NoError(t, err)

	// Check against the baseline; same trace, so no regression
	err = runTracelensCommand(t, "baseline", "check", tracePath)
	require.NoError(t, err)

	// Inspect store status
	err = runTracelensCommand(t, "baseline", "status")
	require.NoError(t, err)

	// List the archived runs
	err = runTracelensCommand(t, "history", "list", "--test-name", "integration-checkout")
	require.NoError(t, err)
}
