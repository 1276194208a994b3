package i18n

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/nora-content/internal/app/domain/auth"
	"github.com/FACorreiaa/nora-content/internal/app/models"
	"github.com/FACorreiaa/nora-content/internal/app/observability/metrics"
)

// maxKeyPathLength matches the key_path column width.
const maxKeyPathLength = 255

var _ Service = (*ServiceImpl)(nil)

// Service is the translation override business logic.
type Service interface {
	Overrides(ctx context.Context, lang string) ([]models.Override, error)
	// Write upserts the override, or deletes it when value is nil.
	Write(ctx context.Context, claims *auth.Claims, lang, keyPath string, value *string) error
	// Merged returns the static bundle of lang with its overrides applied.
	Merged(ctx context.Context, lang string) (map[string]any, error)
}

type ServiceImpl struct {
	logger  *zap.Logger
	repo    OverrideRepo
	bundles BundleLoader
	langs   Languages
}

func NewService(repo OverrideRepo, bundles BundleLoader, langs Languages, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		repo:    repo,
		bundles: bundles,
		langs:   langs,
	}
}

func (s *ServiceImpl) Overrides(ctx context.Context, lang string) ([]models.Override, error) {
	if err := s.langs.Validate(lang); err != nil {
		return nil, err
	}
	return s.repo.GetOverrides(ctx, lang)
}

func (s *ServiceImpl) Write(ctx context.Context, claims *auth.Claims, lang, keyPath string, value *string) error {
	ctx, span := otel.Tracer("I18nService").Start(ctx, "I18nService.Write", trace.WithAttributes(
		attribute.String("lang", lang),
		attribute.String("key_path", keyPath),
	))
	defer span.End()

	if err := s.langs.Validate(lang); err != nil {
		return err
	}
	if claims == nil {
		return models.ErrUnauthenticated
	}
	if !auth.CanEditLang(claims, lang) {
		s.logger.Warn("Override write denied",
			zap.String("username", claims.Username),
			zap.String("lang", lang))
		span.SetStatus(codes.Error, "Forbidden")
		return fmt.Errorf("no permission for language %s: %w", lang, models.ErrForbidden)
	}
	if strings.TrimSpace(keyPath) == "" {
		return fmt.Errorf("key_path required: %w", models.ErrValidation)
	}
	if utf8.RuneCountInString(keyPath) > maxKeyPathLength {
		return fmt.Errorf("key_path longer than %d characters: %w", maxKeyPathLength, models.ErrValidation)
	}

	if value == nil {
		if err := s.repo.DeleteOverride(ctx, lang, keyPath); err != nil {
			span.RecordError(err)
			return err
		}
		metrics.RecordOverrideWrite(ctx, lang, "delete")
		s.logger.Info("Override reverted",
			zap.String("lang", lang),
			zap.String("key_path", keyPath),
			zap.Int64("userID", claims.ID))
		return nil
	}

	if err := s.repo.SetOverride(ctx, lang, keyPath, *value, claims.ID); err != nil {
		span.RecordError(err)
		return err
	}
	metrics.RecordOverrideWrite(ctx, lang, "upsert")
	s.logger.Info("Override saved",
		zap.String("lang", lang),
		zap.String("key_path", keyPath),
		zap.Int64("userID", claims.ID))
	return nil
}

func (s *ServiceImpl) Merged(ctx context.Context, lang string) (map[string]any, error) {
	ctx, span := otel.Tracer("I18nService").Start(ctx, "I18nService.Merged", trace.WithAttributes(
		attribute.String("lang", lang),
	))
	defer span.End()

	if err := s.langs.Validate(lang); err != nil {
		return nil, err
	}

	var (
		tree      map[string]any
		overrides []models.Override
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tree, err = s.bundles.Load(gctx, lang)
		return err
	})
	g.Go(func() error {
		var err error
		overrides, err = s.repo.GetOverrides(gctx, lang)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Merge failed", zap.String("lang", lang), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Merge failed")
		metrics.RecordMerge(ctx, lang, "error")
		return nil, err
	}

	metrics.RecordMerge(ctx, lang, "ok")
	span.SetAttributes(attribute.Int("overrides.count", len(overrides)))
	merged, skipped := ApplyOverrides(tree, overrides)
	if len(skipped) > 0 {
		s.logger.Warn("Overrides do not fit the bundle shape",
			zap.String("lang", lang),
			zap.Strings("key_paths", skipped))
	}
	return merged, nil
}
