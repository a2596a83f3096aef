// Package server assembles taskify's HTTP surface: the JSON API, the
// browser auth endpoints and the MCP endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/codemauri/taskify/pkg/audit"
	"github.com/codemauri/taskify/pkg/auth"
	"github.com/codemauri/taskify/pkg/config"
	"github.com/codemauri/taskify/pkg/database"
	"github.com/codemauri/taskify/pkg/handlers"
	"github.com/codemauri/taskify/pkg/mcp"
	mcpauth "github.com/codemauri/taskify/pkg/mcp/auth"
	"github.com/codemauri/taskify/pkg/mcp/tools"
	"github.com/codemauri/taskify/pkg/middleware"
	"github.com/codemauri/taskify/pkg/repositories"
	"github.com/codemauri/taskify/pkg/services"
)

const shutdownTimeout = 10 * time.Second

// Server owns the assembled handler tree and the resources behind it.
type Server struct {
	cfg       *config.Config
	logger    *zap.Logger
	handler   http.Handler
	validator auth.TokenValidator
}

// New wires repositories, services and handlers over db.
// The caller owns db; Close releases what New created.
func New(cfg *config.Config, db *database.DB, logger *zap.Logger) (*Server, error) {
	secret := []byte(cfg.Auth.SessionSecret)
	if len(secret) == 0 {
		return nil, errors.New("session secret is empty")
	}

	var jwks auth.TokenValidator
	if len(cfg.Auth.JWKSEndpoints) > 0 {
		client, err := auth.NewJWKSClient(cfg.Auth.JWKSEndpoints)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JWKS client: %w", err)
		}
		jwks = client
		logger.Info("External token issuers enabled", zap.Int("issuers", len(cfg.Auth.JWKSEndpoints)))
	}
	validator := auth.NewTokenValidator(secret, cfg.Auth.Issuer, jwks)

	auditor := audit.NewSecurityAuditor(logger)

	// Repositories
	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	statusRepo := repositories.NewTaskStatusRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// Services
	projectService := services.NewProjectService(projectRepo, taskRepo, auditor, logger)
	taskService := services.NewTaskService(db, projectRepo, taskRepo, statusRepo, auditor, logger)
	userService := services.NewUserService(userRepo, logger)

	// Authentication
	sessions := auth.NewSessionStore(cfg.Auth.SessionSecret, cfg.Auth.TokenTTL,
		auth.DeriveCookieSettings(cfg.BaseURL, cfg.CookieDomain))
	issuer := auth.NewTokenIssuer(secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	authMiddleware := auth.NewMiddleware(auth.NewAuthService(sessions, validator, logger), logger)

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(userService, issuer, sessions, auditor, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewProjectsHandler(projectService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewTasksHandler(taskService, logger).RegisterRoutes(mux, authMiddleware)

	// MCP accepts bearer tokens only.
	toolAuditor := mcp.NewToolAuditor(logger)
	mcpServer := mcp.NewServer("taskify", cfg.Version, toolAuditor.Hooks(), logger)
	tools.RegisterAll(mcpServer.MCP(), &tools.ToolDeps{
		Projects: projectService,
		Tasks:    taskService,
		Logger:   logger,
	}, cfg.Version)
	mcpAuth := mcpauth.NewMiddleware(auth.NewAuthService(nil, validator, logger), logger)
	mcpServer.RegisterRoutes(mux, mcpAuth)

	return &Server{
		cfg:       cfg,
		logger:    logger,
		handler:   middleware.Chain(mux, middleware.RequestLogger(logger), middleware.Recoverer(logger)),
		validator: validator,
	}, nil
}

// Handler returns the root handler with request logging and panic recovery.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr is the listen address derived from configuration.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.BindAddr, s.cfg.Port)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting taskify",
			zap.String("addr", listener.Addr().String()),
			zap.String("version", s.cfg.Version),
			zap.String("env", s.cfg.Env))
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		s.logger.Info("Server stopped")
		return nil
	})

	return g.Wait()
}

// Close releases background resources such as JWKS refreshers.
func (s *Server) Close() {
	s.validator.Close()
}
