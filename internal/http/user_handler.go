package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tryhup-api/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios.
type UserHandler struct {
	logger        *zap.Logger
	users         *service.UserService
	verifications *service.VerificationService
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, users *service.UserService, verifications *service.VerificationService) *UserHandler {
	return &UserHandler{
		logger:        logger,
		users:         users,
		verifications: verifications,
	}
}

// Me maneja GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	user, _ := CurrentUser(c)
	profile, err := h.users.Me(c.Request.Context(), user)
	if err != nil {
		respondError(c, h.logger, "get me", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMe maneja PATCH /users/me.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req service.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "update me", err)
		return
	}

	user, _ := CurrentUser(c)
	profile, err := h.users.UpdateProfile(c.Request.Context(), user.ID, req)
	if err != nil {
		respondError(c, h.logger, "update me", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// BecomeCreator maneja POST /users/become-creator.
func (h *UserHandler) BecomeCreator(c *gin.Context) {
	var req service.SubmitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "become creator", err)
		return
	}

	user, _ := CurrentUser(c)
	result, err := h.verifications.Submit(c.Request.Context(), user.ID, req)
	if err != nil {
		respondError(c, h.logger, "become creator", err)
		return
	}

	status := http.StatusOK
	if result.Verification != nil {
		status = http.StatusAccepted
	}
	c.JSON(status, gin.H{
		"user":                 result.User,
		"creator_verification": result.Verification,
	})
}

// PublicProfile maneja GET /users/:handle.
func (h *UserHandler) PublicProfile(c *gin.Context) {
	profile, err := h.users.PublicProfile(c.Request.Context(), c.Param("handle"))
	if err != nil {
		respondError(c, h.logger, "public profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Stats maneja GET /users/:handle/stats.
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context(), c.Param("handle"))
	if err != nil {
		respondError(c, h.logger, "user stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
