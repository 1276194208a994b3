package i18n

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
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

var _ OverrideRepo = (*PostgresOverrideRepo)(nil)

const overridesTable = "i18n_overrides"

type OverrideRepo interface {
	// GetOverrides lists the overrides of lang in insertion order.
	GetOverrides(ctx context.Context, lang string) ([]models.Override, error)
	// SetOverride inserts or replaces the override of (lang, keyPath).
	SetOverride(ctx context.Context, lang, keyPath, value string, userID int64) error
	// DeleteOverride removes the override of (lang, keyPath). Deleting a
	// missing override is not an error.
	DeleteOverride(ctx context.Context, lang, keyPath string) error
}

type PostgresOverrideRepo struct {
	logger *zap.Logger
	db     database.Querier
	psql   sq.StatementBuilderType
}

func NewPostgresOverrideRepo(db database.Querier, logger *zap.Logger) *PostgresOverrideRepo {
	return &PostgresOverrideRepo{
		logger: logger,
		db:     db,
		psql:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PostgresOverrideRepo) startSpan(ctx context.Context, name, lang string) (context.Context, trace.Span) {
	return otel.Tracer("OverrideRepository").Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemNamePostgreSQL,
		attribute.String("lang", lang),
	))
}

func (r *PostgresOverrideRepo) fail(ctx context.Context, span trace.Span, op string, err error) {
	r.logger.Error("Override query failed", zap.String("op", op), zap.Error(err))
	span.RecordError(err)
	span.SetStatus(codes.Error, "Database query failed")
	metrics.RecordDBError(ctx, op)
}

// GetOverrides implements i18n.OverrideRepo.
func (r *PostgresOverrideRepo) GetOverrides(ctx context.Context, lang string) ([]models.Override, error) {
	ctx, span := r.startSpan(ctx, "GetOverrides", lang)
	defer span.End()

	query, args, err := r.psql.
		Select("key_path", "value").
		From(overridesTable).
		Where(sq.Eq{"lang": lang}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build overrides query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.fail(ctx, span, "GetOverrides", err)
		return nil, fmt.Errorf("database error fetching overrides: %w", err)
	}
	defer rows.Close()

	overrides := []models.Override{}
	for rows.Next() {
		o := models.Override{Lang: lang}
		if err := rows.Scan(&o.KeyPath, &o.Value); err != nil {
			r.fail(ctx, span, "GetOverrides", err)
			return nil, fmt.Errorf("scan override: %w", err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		r.fail(ctx, span, "GetOverrides", err)
		return nil, fmt.Errorf("iterate overrides: %w", err)
	}

	span.SetAttributes(attribute.Int("overrides.count", len(overrides)))
	return overrides, nil
}

// SetOverride implements i18n.OverrideRepo.
func (r *PostgresOverrideRepo) SetOverride(ctx context.Context, lang, keyPath, value string, userID int64) error {
	ctx, span := r.startSpan(ctx, "SetOverride", lang)
	defer span.End()

	query, args, err := r.psql.
		Insert(overridesTable).
		Columns("lang", "key_path", "value", "updated_by", "updated_at").
		Values(lang, keyPath, value, userID, sq.Expr("NOW()")).
		Suffix("ON CONFLICT (lang, key_path) DO UPDATE SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		r.fail(ctx, span, "SetOverride", err)
		return fmt.Errorf("database error saving override: %w", err)
	}
	return nil
}

// DeleteOverride implements i18n.OverrideRepo.
func (r *PostgresOverrideRepo) DeleteOverride(ctx context.Context, lang, keyPath string) error {
	ctx, span := r.startSpan(ctx, "DeleteOverride", lang)
	defer span.End()

	query, args, err := r.psql.
		Delete(overridesTable).
		Where(sq.Eq{"lang": lang}).
		Where(sq.Eq{"key_path": keyPath}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.fail(ctx, span, "DeleteOverride", err)
		return fmt.Errorf("database error deleting override: %w", err)
	}
	span.SetAttributes(attribute.Int64("rows.deleted", tag.RowsAffected()))
	return nil
}
