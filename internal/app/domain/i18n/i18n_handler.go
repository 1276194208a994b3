package i18n

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/nora-content/internal/app/domain"
	"github.com/FACorreiaa/nora-content/internal/app/domain/auth"
	"github.com/FACorreiaa/nora-content/internal/app/middleware"
	"github.com/FACorreiaa/nora-content/internal/app/models"
)

const mergedCacheControl = "public, max-age=60"

type Handlers struct {
	*domain.BaseHandler
	service Service
	langs   Languages
}

func NewHandlers(service Service, langs Languages, logger *zap.Logger) *Handlers {
	return &Handlers{
		BaseHandler: domain.NewBaseHandler(logger),
		service:     service,
		langs:       langs,
	}
}

// GetOverrides handles GET /api/i18n/:lang.
func (h *Handlers) GetOverrides(c *gin.Context) {
	lang := c.Param("lang")
	if err := h.langs.Validate(lang); err != nil {
		h.RespondError(c, err)
		return
	}

	overrides, err := h.service.Overrides(c.Request.Context(), lang)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OverrideList{Overrides: overrides})
}

// SetOverride handles POST /api/i18n/:lang. The checks run in order:
// language, session, permission, body.
func (h *Handlers) SetOverride(c *gin.Context) {
	lang := c.Param("lang")
	if err := h.langs.Validate(lang); err != nil {
		h.RespondError(c, err)
		return
	}

	claims := middleware.ClaimsFromContext(c.Request.Context())
	if claims == nil {
		h.RespondError(c, models.ErrUnauthenticated)
		return
	}
	if !auth.CanEditLang(claims, lang) {
		h.RespondError(c, fmt.Errorf("no permission for language %s: %w", lang, models.ErrForbidden))
		return
	}

	var req models.SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Debug("Malformed override body", zap.Error(err))
		h.RespondError(c, fmt.Errorf("malformed request body: %w", models.ErrValidation))
		return
	}

	value, err := req.Text()
	if err != nil {
		h.RespondError(c, err)
		return
	}

	if err := h.service.Write(c.Request.Context(), claims, lang, req.Path(), value); err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetMerged handles GET /api/i18n/merged/:lang.
func (h *Handlers) GetMerged(c *gin.Context) {
	lang := c.Param("lang")
	if err := h.langs.Validate(lang); err != nil {
		h.RespondError(c, err)
		return
	}

	tree, err := h.service.Merged(c.Request.Context(), lang)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.Header("Cache-Control", mergedCacheControl)
	c.JSON(http.StatusOK, tree)
}
