package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/database"
)

// PostgresTestImage is the stock image the integration suite runs against.
const PostgresTestImage = "postgres:16-alpine"

// PostgresDB holds a shared PostgreSQL container with migrations applied.
type PostgresDB struct {
	Container testcontainers.Container
	DB        *database.DB
	ConnStr   string
}

var (
	sharedPostgresDB     *PostgresDB
	sharedPostgresDBOnce sync.Once
	sharedPostgresDBErr  error
)

// GetPostgresDB returns a shared PostgreSQL database for integration tests.
// The container is created once and reused across all tests in the run, so
// tests must isolate their data (each test creates its own users).
func GetPostgresDB(t *testing.T) *PostgresDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedPostgresDBOnce.Do(func() {
		sharedPostgresDB, sharedPostgresDBErr = setupPostgresDB()
	})

	if sharedPostgresDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedPostgresDBErr)
	}

	return sharedPostgresDB
}

func setupPostgresDB() (*PostgresDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresTestImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "taskify_test",
			"POSTGRES_USER":     "taskify",
			"POSTGRES_PASSWORD": "test_password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://taskify:test_password@%s:%s/taskify_test?sslmode=disable",
		host, port.Port())

	var db *database.DB
	for i := 0; i < 10; i++ {
		db, err = database.NewConnection(ctx, &database.Config{
			Driver:         "postgres",
			DSN:            connStr,
			MaxConnections: 5,
		})
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := database.RunMigrations(db, zap.NewNop()); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresDB{
		Container: container,
		DB:        db,
		ConnStr:   connStr,
	}, nil
}
