package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tryhup-api/internal/domain"
	"tryhup-api/internal/service"
)

// ContentHandler maneja contenidos, valoraciones, likes y el feed.
type ContentHandler struct {
	logger   *zap.Logger
	contents *service.ContentService
	ratings  *service.RatingService
	feed     *service.FeedService
}

func NewContentHandler(
	logger *zap.Logger,
	contents *service.ContentService,
	ratings *service.RatingService,
	feed *service.FeedService,
) *ContentHandler {
	return &ContentHandler{
		logger:   logger,
		contents: contents,
		ratings:  ratings,
		feed:     feed,
	}
}

// Create maneja POST /contents. El contenido nace sin aprobar.
func (h *ContentHandler) Create(c *gin.Context) {
	var req service.CreateContentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "create content", err)
		return
	}

	user, _ := CurrentUser(c)
	content, err := h.contents.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		respondError(c, h.logger, "create content", err)
		return
	}
	c.JSON(http.StatusCreated, content)
}

// Rate maneja POST /contents/:id/rate.
func (h *ContentHandler) Rate(c *gin.Context) {
	var req struct {
		Score int `json:"score" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "rate content", err)
		return
	}

	content, err := h.ratings.Rate(c.Request.Context(), c.Param("id"), req.Score)
	if err != nil {
		respondError(c, h.logger, "rate content", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"content_id":   content.ID,
		"rating_avg":   content.RatingAvg,
		"rating_count": content.RatingCount,
	})
}

// Feed maneja GET /contents/feed?limit=&offset=.
func (h *ContentHandler) Feed(c *gin.Context) {
	limit, err := queryInt(c, "limit", domain.DefaultFeedLimit)
	if err != nil {
		badRequest(c, h.logger, "feed", err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		badRequest(c, h.logger, "feed", err)
		return
	}

	user, _ := CurrentUser(c)
	page, err := h.feed.Feed(c.Request.Context(), user.ID, limit, offset)
	if err != nil {
		respondError(c, h.logger, "feed", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Like maneja POST /likes/:content_id.
func (h *ContentHandler) Like(c *gin.Context) {
	user, _ := CurrentUser(c)
	if err := h.contents.Like(c.Request.Context(), user.ID, c.Param("content_id")); err != nil {
		respondError(c, h.logger, "like", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "content liked"})
}

// Unlike maneja DELETE /likes/:content_id.
func (h *ContentHandler) Unlike(c *gin.Context) {
	user, _ := CurrentUser(c)
	if err := h.contents.Unlike(c.Request.Context(), user.ID, c.Param("content_id")); err != nil {
		respondError(c, h.logger, "unlike", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidInput
	}
	return v, nil
}
