package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/nora-content/internal/app/domain/auth"
	"github.com/FACorreiaa/nora-content/internal/app/domain/health"
	"github.com/FACorreiaa/nora-content/internal/app/domain/i18n"
	database "github.com/FACorreiaa/nora-content/internal/db"
	"github.com/FACorreiaa/nora-content/internal/pkg/config"
)

type AppHandlers struct {
	Auth   *auth.AuthHandlers
	I18n   *i18n.Handlers
	Health *health.Handler
}

// Dependencies are the process-wide resources the handlers are built from.
type Dependencies struct {
	DB     database.DB
	Tokens *auth.TokenService
	Config *config.Config
	Logger *zap.Logger
}

func Setup(r *gin.Engine, deps Dependencies) *AppHandlers {
	handlers := setupDependencies(deps)
	setupRouter(r, handlers)
	return handlers
}

func setupDependencies(deps Dependencies) *AppHandlers {
	log := deps.Logger
	cfg := deps.Config

	authRepo := auth.NewPostgresAuthRepo(deps.DB, log)
	authService := auth.NewAuthService(authRepo, deps.Tokens, log)
	limiter := auth.NewLoginLimiter(0, 0)

	langs := i18n.NewLanguages(cfg.I18n.Langs)
	overrideRepo := i18n.NewPostgresOverrideRepo(deps.DB, log)
	i18nService := i18n.NewService(overrideRepo, i18n.NewFileBundleLoader(cfg.I18n.Dir), langs, log)

	return &AppHandlers{
		Auth: auth.NewAuthHandlers(authService, limiter, auth.CookieOptions{
			Name:   cfg.Cookie.Name,
			Secure: cfg.Cookie.Secure,
			MaxAge: int(cfg.JWT.AccessTokenTTL.Seconds()),
		}, log),
		I18n:   i18n.NewHandlers(i18nService, langs, log),
		Health: health.NewHandler(deps.DB, log),
	}
}

func setupRouter(r *gin.Engine, h *AppHandlers) {
	r.GET("/healthz", h.Health.Health)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/login", h.Auth.LoginHandler)
		authGroup.POST("/logout", h.Auth.LogoutHandler)

		i18nGroup := api.Group("/i18n")
		i18nGroup.GET("/merged/:lang", h.I18n.GetMerged)
		i18nGroup.GET("/:lang", h.I18n.GetOverrides)
		i18nGroup.POST("/:lang", h.I18n.SetOverride)
	}
}
