package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	database "github.com/FACorreiaa/nora-content/internal/db"
)

const pingTimeout = 2 * time.Second

type Handler struct {
	db     database.Pinger
	logger *zap.Logger
}

func NewHandler(db database.Pinger, logger *zap.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Health answers 200 while the database responds to a ping and 503 otherwise.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
