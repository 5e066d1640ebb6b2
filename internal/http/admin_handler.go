package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tryhup-api/internal/domain"
	"tryhup-api/internal/service"
)

// AdminHandler agrupa la revisión de creators, contenidos y comentarios.
// Todas sus rutas van detrás de RequireAdmin.
type AdminHandler struct {
	logger        *zap.Logger
	verifications *service.VerificationService
	contents      *service.ContentService
	comments      *service.CommentService
}

func NewAdminHandler(
	logger *zap.Logger,
	verifications *service.VerificationService,
	contents *service.ContentService,
	comments *service.CommentService,
) *AdminHandler {
	return &AdminHandler{
		logger:        logger,
		verifications: verifications,
		contents:      contents,
		comments:      comments,
	}
}

// ListCreators maneja GET /admin/creators?status=pending|verified|rejected.
func (h *AdminHandler) ListCreators(c *gin.Context) {
	status, err := domain.ParseVerificationStatus(c.DefaultQuery("status", string(domain.VerificationPending)))
	if err != nil {
		badRequest(c, h.logger, "list creators", err)
		return
	}
	items, err := h.verifications.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, h.logger, "list creators", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ApproveCreator maneja POST /admin/creators/:id/approve.
func (h *AdminHandler) ApproveCreator(c *gin.Context) {
	req, err := h.verifications.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "approve creator", err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// RejectCreator maneja POST /admin/creators/:id/reject.
func (h *AdminHandler) RejectCreator(c *gin.Context) {
	var body struct {
		AdminNote string `json:"admin_note" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, h.logger, "reject creator", err)
		return
	}
	req, err := h.verifications.Reject(c.Request.Context(), c.Param("id"), body.AdminNote)
	if err != nil {
		respondError(c, h.logger, "reject creator", err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ListContents maneja GET /admin/contents?approved=true|false.
func (h *AdminHandler) ListContents(c *gin.Context) {
	var approved *bool
	if raw, ok := c.GetQuery("approved"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, h.logger, "list contents", err)
			return
		}
		approved = &v
	}
	items, err := h.contents.List(c.Request.Context(), approved)
	if err != nil {
		respondError(c, h.logger, "list contents", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ApproveContent maneja POST /admin/contents/:id/approve.
func (h *AdminHandler) ApproveContent(c *gin.Context) {
	content, err := h.contents.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "approve content", err)
		return
	}
	c.JSON(http.StatusOK, content)
}

// ListComments maneja GET /admin/comments?status=pending|approved|flagged.
func (h *AdminHandler) ListComments(c *gin.Context) {
	filter, err := domain.ParseCommentFilter(c.DefaultQuery("status", string(domain.CommentFilterPending)))
	if err != nil {
		badRequest(c, h.logger, "list comments", err)
		return
	}
	items, err := h.comments.ListForReview(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "list comments", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ApproveComment maneja PATCH /admin/comments/:id/approve.
func (h *AdminHandler) ApproveComment(c *gin.Context) {
	h.reviewComment(c, true)
}

// RejectComment maneja PATCH /admin/comments/:id/reject.
func (h *AdminHandler) RejectComment(c *gin.Context) {
	h.reviewComment(c, false)
}

func (h *AdminHandler) reviewComment(c *gin.Context, approve bool) {
	comment, err := h.comments.Review(c.Request.Context(), c.Param("id"), approve)
	if err != nil {
		respondError(c, h.logger, "review comment", err)
		return
	}
	c.JSON(http.StatusOK, comment)
}
