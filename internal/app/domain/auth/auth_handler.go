package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/nora-content/internal/app/domain"
	"github.com/FACorreiaa/nora-content/internal/app/models"
	"github.com/FACorreiaa/nora-content/internal/app/observability/metrics"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CookieOptions controls the attributes of the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge int
}

type AuthHandlers struct {
	*domain.BaseHandler
	authService AuthService
	limiter     *LoginLimiter
	cookie      CookieOptions
}

func NewAuthHandlers(authService AuthService, limiter *LoginLimiter, cookie CookieOptions, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		BaseHandler: domain.NewBaseHandler(logger),
		authService: authService,
		limiter:     limiter,
		cookie:      cookie,
	}
}

// LoginHandler handles POST /api/auth/login.
func (h *AuthHandlers) LoginHandler(c *gin.Context) {
	ctx := c.Request.Context()
	clientKey := c.ClientIP()

	if !h.limiter.Allow(clientKey) {
		h.Logger.Warn("Login throttled", zap.String("client", clientKey))
		metrics.RecordLogin(ctx, "throttled")
		h.RespondError(c, models.ErrTooManyAttempts)
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.RecordLogin(ctx, "invalid")
		h.RespondError(c, fmt.Errorf("malformed login body: %w", models.ErrValidation))
		return
	}

	user, token, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthenticated):
			h.limiter.RecordFailure(clientKey)
			metrics.RecordLogin(ctx, "failure")
			h.RespondError(c, err)
		case errors.Is(err, models.ErrValidation):
			metrics.RecordLogin(ctx, "invalid")
			h.RespondError(c, err)
		default:
			metrics.RecordLogin(ctx, "error")
			h.RespondError(c, err)
		}
		return
	}

	h.limiter.Reset(clientKey)
	metrics.RecordLogin(ctx, "success")
	h.setSessionCookie(c, token, h.cookie.MaxAge)

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.Public()})
}

// LogoutHandler handles POST /api/auth/logout. It always succeeds.
func (h *AuthHandlers) LogoutHandler(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandlers) setSessionCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
