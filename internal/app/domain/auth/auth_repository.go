package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/nora-content/internal/app/models"
	"github.com/FACorreiaa/nora-content/internal/app/observability/metrics"
	database "github.com/FACorreiaa/nora-content/internal/db"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	// GetUser fetches a user with its password hash. Unknown usernames
	// return models.ErrNotFound.
	GetUser(ctx context.Context, username string) (*models.User, error)
	// EnsureUser inserts user unless the username exists. Reports whether a row was created.
	EnsureUser(ctx context.Context, user *models.User) (bool, error)
}

type PostgresAuthRepo struct {
	logger *zap.Logger
	db     database.Querier
}

func NewPostgresAuthRepo(db database.Querier, logger *zap.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		db:     db,
	}
}

// GetUser implements auth.AuthRepo.
func (r *PostgresAuthRepo) GetUser(ctx context.Context, username string) (*models.User, error) {
	ctx, span := otel.Tracer("AuthRepository").Start(ctx, "GetUser", trace.WithAttributes(
		semconv.DBSystemNamePostgreSQL,
		attribute.String("username", username),
	))
	defer span.End()

	var (
		user models.User
		role string
	)
	query := `SELECT id, username, password_hash, role, allowed_langs, created_at FROM users WHERE username = $1`
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &role, &user.AllowedLangs, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "No user found")
			return nil, fmt.Errorf("user %s not found: %w", username, models.ErrNotFound)
		}
		r.logger.Error("Error fetching user", zap.Error(err), zap.String("username", username))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		metrics.RecordDBError(ctx, "GetUser")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	user.Role = models.Role(role)
	return &user, nil
}

// EnsureUser implements auth.AuthRepo.
func (r *PostgresAuthRepo) EnsureUser(ctx context.Context, user *models.User) (bool, error) {
	ctx, span := otel.Tracer("AuthRepository").Start(ctx, "EnsureUser", trace.WithAttributes(
		semconv.DBSystemNamePostgreSQL,
		attribute.String("username", user.Username),
	))
	defer span.End()

	query := `
        INSERT INTO users (username, password_hash, role, allowed_langs)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (username) DO NOTHING
    `
	tag, err := r.db.Exec(ctx, query, user.Username, user.PasswordHash, string(user.Role), user.AllowedLangs)
	if err != nil {
		r.logger.Error("Failed to ensure user", zap.Error(err), zap.String("username", user.Username))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database insert failed")
		metrics.RecordDBError(ctx, "EnsureUser")
		return false, fmt.Errorf("database error ensuring user: %w", err)
	}

	created := tag.RowsAffected() == 1
	span.SetAttributes(attribute.Bool("created", created))
	return created, nil
}
