package testhelpers

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/database"
)

// NewSQLiteDB returns a migrated SQLite database in a fresh temp directory.
// Each call gets its own file, so tests never share state.
func NewSQLiteDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewConnection(context.Background(), &database.Config{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "taskify.db"),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.RunMigrations(db, zap.NewNop()); err != nil {
		t.Fatalf("failed to migrate sqlite test database: %v", err)
	}
	return db
}
