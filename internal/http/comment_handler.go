package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tryhup-api/internal/service"
)

type CommentHandler struct {
	logger   *zap.Logger
	comments *service.CommentService
}

func NewCommentHandler(logger *zap.Logger, comments *service.CommentService) *CommentHandler {
	return &CommentHandler{logger: logger, comments: comments}
}

// Create maneja POST /comments/:content_id. El veredicto de moderación se
// devuelve junto al comentario.
func (h *CommentHandler) Create(c *gin.Context) {
	var req service.CreateCommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "create comment", err)
		return
	}

	user, _ := CurrentUser(c)
	comment, err := h.comments.Create(c.Request.Context(), user.ID, c.Param("content_id"), req)
	if err != nil {
		respondError(c, h.logger, "create comment", err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// List maneja GET /comments/:content_id.
func (h *CommentHandler) List(c *gin.Context) {
	items, err := h.comments.ListApproved(c.Request.Context(), c.Param("content_id"))
	if err != nil {
		respondError(c, h.logger, "list comments", err)
		return
	}
	c.JSON(http.StatusOK, items)
}
