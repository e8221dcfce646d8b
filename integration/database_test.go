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

// setBackendEnv points both stores at the given backends for the duration of the test.
func setBackendEnv(t *testing.T, cacheBackend, cacheConn, historyBackend, historyConn string) {
	t.Helper()
	env := map[string]string{
		"LEADPULSE_CACHE_BACKEND":      cacheBackend,
		"LEADPULSE_CACHE_DB_CONNECT":   cacheConn,
		"LEADPULSE_HISTORY_BACKEND":    historyBackend,
		"LEADPULSE_HISTORY_DB_CONNECT": historyConn,
	}
	for k, v := range env {
		_ = os.Setenv(k, v)
	}
	t.Cleanup(func() {
		for k := range env {
			_ = os.Unsetenv(k)
		}
	})
}

// runBackendRoundTrip exercises clear, a dashboard run twice (miss then hit) and status.
func runBackendRoundTrip(t *testing.T, withHistory bool) {
	getLeadpulseBinary()

	_, err := runLeadpulse(t, "cache", "clear")
	require.NoError(t, err)

	if withHistory {
		_, err = runLeadpulse(t, "history", "clear")
		require.NoError(t, err)
		_, err = runLeadpulse(t, "history", "migrate")
		require.NoError(t, err)
	}

	for range 2 {
		_, err = runLeadpulse(t, "leads", sharedFixturePath, "--period", "Last 12 Weeks", "--output", "json")
		require.NoError(t, err)
	}

	_, err = runLeadpulse(t, "cache", "status")
	require.NoError(t, err)

	if withHistory {
		_, err = runLeadpulse(t, "history", "status")
		require.NoError(t, err)
	}
}

// TestLeadpulseWithMySQL tests the leadpulse CLI with a MySQL backend.
func TestLeadpulseWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "leadpulse",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/leadpulse?parseTime=true", host, port.Port())

	setBackendEnv(t, "mysql", connStr, "mysql", connStr)
	runBackendRoundTrip(t, true)
}

// TestLeadpulseWithPostgres tests the leadpulse CLI with a PostgreSQL backend.
func TestLeadpulseWithPostgres(t *testing.T) {
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

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	setBackendEnv(t, "postgresql", connStr, "postgresql", connStr)
	runBackendRoundTrip(t, true)
}

// TestLeadpulseWithRedis tests the table cache on Redis without run history.
func TestLeadpulseWithRedis(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = redisC.Terminate(ctx) }()

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	setBackendEnv(t, "redis", fmt.Sprintf("redis://%s:%s/0", host, port.Port()), "none", "")
	runBackendRoundTrip(t, false)
}
