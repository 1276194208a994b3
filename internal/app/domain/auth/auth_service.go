package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/nora-content/internal/app/models"
)

// BootstrapUsername is the account created on first start.
const BootstrapUsername = "admin"

// Ensure implementation satisfies the interface
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	Bootstrap(ctx context.Context, password string, langs []string) error
	CreateToken(user *models.User) (string, error)
	VerifyToken(token string) *Claims
	GetUserFromRequest(r *http.Request) *Claims
}

// AuthServiceImpl provides the implementation for AuthService.
type AuthServiceImpl struct {
	logger *zap.Logger
	repo   AuthRepo
	tokens *TokenService
}

// NewAuthService creates a new authentication service instance.
func NewAuthService(repo AuthRepo, tokens *TokenService, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{logger: logger, repo: repo, tokens: tokens}
}

// Login checks credentials and issues a session token. Unknown users and
// wrong passwords fail identically with models.ErrUnauthenticated.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	l := s.logger.With(zap.String("method", "Login"), zap.String("username", username))

	ctx, span := otel.Tracer("AuthService").Start(ctx, "AuthService.Login", trace.WithAttributes(
		attribute.String("username", username),
	))
	defer span.End()

	if username == "" || password == "" {
		span.SetStatus(codes.Error, "Missing credentials")
		return nil, "", fmt.Errorf("username and password required: %w", models.ErrValidation)
	}

	user, err := s.repo.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			l.Warn("Login for unknown user")
			span.SetStatus(codes.Error, "Invalid credentials")
			return nil, "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
		}
		l.Error("GetUser failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository error")
		return nil, "", fmt.Errorf("app error fetching user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		l.Warn("Password comparison failed", zap.Int64("userID", user.ID))
		span.SetStatus(codes.Error, "Invalid credentials")
		return nil, "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	token, err := s.tokens.CreateToken(user)
	if err != nil {
		l.Error("Failed to generate token", zap.Int64("userID", user.ID), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token generation failed")
		return nil, "", fmt.Errorf("app error generating token: %w", err)
	}

	l.Info("Login successful", zap.Int64("userID", user.ID), zap.String("role", string(user.Role)))
	span.SetStatus(codes.Ok, "Logged in")
	return user, token, nil
}

// Bootstrap creates the admin account with every supported language when it
// does not exist yet. An existing admin is left untouched.
func (s *AuthServiceImpl) Bootstrap(ctx context.Context, password string, langs []string) error {
	l := s.logger.With(zap.String("method", "Bootstrap"))

	hash, err := HashPassword(password)
	if err != nil {
		l.Error("Failed to hash bootstrap password", zap.Error(err))
		return fmt.Errorf("could not process bootstrap password: %w", err)
	}

	created, err := s.repo.EnsureUser(ctx, &models.User{
		Username:     BootstrapUsername,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		AllowedLangs: langs,
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	if created {
		l.Info("Created bootstrap admin account", zap.Strings("allowed_langs", langs))
	} else {
		l.Debug("Bootstrap admin account already exists")
	}
	return nil
}

func (s *AuthServiceImpl) CreateToken(user *models.User) (string, error) {
	return s.tokens.CreateToken(user)
}

func (s *AuthServiceImpl) VerifyToken(token string) *Claims {
	return s.tokens.VerifyToken(token)
}

func (s *AuthServiceImpl) GetUserFromRequest(r *http.Request) *Claims {
	return s.tokens.GetUserFromRequest(r)
}
