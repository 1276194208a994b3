package server

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/nora-content/internal/app/domain/auth"
	"github.com/FACorreiaa/nora-content/internal/app/middleware"
	database "github.com/FACorreiaa/nora-content/internal/db"
	"github.com/FACorreiaa/nora-content/internal/pkg/config"
	"github.com/FACorreiaa/nora-content/internal/routes"
)

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(db database.DB, tokens *auth.TokenService, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		logger.Error("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(middleware.RequestIDMiddleware())
	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
		SkipPaths:  []string{"/healthz"},
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.OTELGinMiddleware(cfg.Observability.ServiceName))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.HTTP.AllowedOrigins))
	r.Use(middleware.SecurityMiddleware())
	r.Use(middleware.SessionMiddleware(tokens))

	routes.Setup(r, routes.Dependencies{
		DB:     db,
		Tokens: tokens,
		Config: cfg,
		Logger: logger,
	})

	return r
}

// zapContextFunc adds request and trace ids to access log lines. Bodies are
// never logged since login bodies carry passwords.
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.Writer.Header().Get(middleware.RequestIDHeader); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		if claims := middleware.GetClaims(c); claims != nil {
			fields = append(fields, zap.String("user", claims.Username))
		}

		return fields
	}
}
