package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tryhup-api/internal/domain"
)

// Pinger lo implementa *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MetaHandler sirve el catálogo de categorías y los endpoints de salud.
type MetaHandler struct {
	logger  *zap.Logger
	catalog domain.CreatorCatalog
	db      Pinger
}

func NewMetaHandler(logger *zap.Logger, catalog domain.CreatorCatalog, db Pinger) *MetaHandler {
	return &MetaHandler{logger: logger, catalog: catalog, db: db}
}

// CreatorCategories maneja GET /meta/creator-categories.
func (h *MetaHandler) CreatorCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog)
}

func (h *MetaHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "tryhup-api"})
}

// Healthz maneja GET /healthz comprobando la base de datos.
func (h *MetaHandler) Healthz(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}
