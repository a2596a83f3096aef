// Package cli implements the taskify command-line interface.
package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/config"
	"github.com/codemauri/taskify/pkg/database"
	"github.com/codemauri/taskify/pkg/logging"
	"github.com/codemauri/taskify/pkg/retry"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskify",
		Short: "Project and task tracking service",
		Long: `taskify serves a JSON API and an MCP endpoint for managing projects and tasks.
Every project belongs to one user, and nobody else can see or change it.

Quick start:
  taskify migrate     Apply database migrations
  taskify seed        Load the demo account (demo@taskify.com)
  taskify serve       Start the server`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// runtime is what every database-backed command needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *database.DB
}

func (r *runtime) Close() {
	if err := r.db.Close(); err != nil {
		r.logger.Warn("Failed to close database", zap.Error(err))
	}
	_ = r.logger.Sync()
}

// openRuntime loads configuration, builds the logger, connects to the
// database with retries and applies migrations.
func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(Version)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if cfg.Auth.SessionSecret == "" {
		// config.Load only allows this in local environments.
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.Auth.SessionSecret = secret
		logger.Warn("SESSION_SECRET not set; using a random secret, sessions will not survive a restart")
	}

	dbCfg := &database.Config{
		Driver:         cfg.Database.Driver,
		DSN:            cfg.Database.DSN(),
		MaxConnections: cfg.Database.MaxConnections,
	}
	logger.Info("Connecting to database",
		zap.String("driver", cfg.Database.Driver),
		zap.String("dsn", logging.SanitizeConnectionString(dbCfg.DSN)))

	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*database.DB, error) {
		db, err := database.NewConnection(ctx, dbCfg)
		if err != nil {
			logger.Warn("Database not ready", zap.String("error", logging.SanitizeError(err)))
		}
		return db, err
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &runtime{cfg: cfg, logger: logger, db: db}, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
