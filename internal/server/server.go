package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FACorreiaa/nora-content/internal/app/domain/auth"
	database "github.com/FACorreiaa/nora-content/internal/db"
	"github.com/FACorreiaa/nora-content/internal/pkg/config"
)

const defaultAdminPassword = "admin"

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	dbPool *pgxpool.Pool
	tokens *auth.TokenService
	router http.Handler
}

// New connects to Postgres, applies migrations and makes sure the admin
// account exists.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.Cookie.Name, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure session tokens: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		tokens: tokens,
	}

	dbPool, err := s.setupDatabase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}
	s.dbPool = dbPool

	if err := s.bootstrapAdmin(ctx); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// setupDatabase initializes the database connection and runs migrations
func (s *Server) setupDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	s.logger.Info("Setting up database connection and migrations")

	pool, err := database.Init(ctx, s.cfg.Repositories.Postgres, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	if err := database.WaitForDB(ctx, pool, s.logger); err != nil {
		pool.Close()
		return nil, err
	}

	if err = database.RunMigrations(s.cfg.Repositories.Postgres.URL, s.logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s.logger.Info("Database setup completed successfully")
	return pool, nil
}

func (s *Server) bootstrapAdmin(ctx context.Context) error {
	password := s.cfg.AdminPassword
	if password == "" {
		s.logger.Warn("ADMIN_PASSWORD is not set, bootstrap admin uses the default password")
		password = defaultAdminPassword
	}

	svc := auth.NewAuthService(auth.NewPostgresAuthRepo(s.dbPool, s.logger), s.tokens, s.logger)
	if err := svc.Bootstrap(ctx, password, s.cfg.I18n.Langs); err != nil {
		return fmt.Errorf("failed to bootstrap admin account: %w", err)
	}
	return nil
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              ":" + s.cfg.ServerPort,
		Handler:           s.router,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// GetDBPool returns the database connection pool
func (s *Server) GetDBPool() *pgxpool.Pool {
	return s.dbPool
}

// Tokens returns the session token service shared by middleware and handlers.
func (s *Server) Tokens() *auth.TokenService {
	return s.tokens
}

// Close closes all server resources
func (s *Server) Close() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
}
