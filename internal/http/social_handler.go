package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tryhup-api/internal/domain"
	"tryhup-api/internal/service"
)

type SocialHandler struct {
	logger *zap.Logger
	social *service.SocialService
}

func NewSocialHandler(logger *zap.Logger, social *service.SocialService) *SocialHandler {
	return &SocialHandler{logger: logger, social: social}
}

// Follow maneja POST /follows/:user_id.
func (h *SocialHandler) Follow(c *gin.Context) {
	user, _ := CurrentUser(c)
	if err := h.social.Follow(c.Request.Context(), user.ID, c.Param("user_id")); err != nil {
		respondError(c, h.logger, "follow", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user followed"})
}

// Unfollow maneja DELETE /follows/:user_id.
func (h *SocialHandler) Unfollow(c *gin.Context) {
	user, _ := CurrentUser(c)
	if err := h.social.Unfollow(c.Request.Context(), user.ID, c.Param("user_id")); err != nil {
		respondError(c, h.logger, "unfollow", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SocialHandler) Followers(c *gin.Context) {
	users, err := h.social.Followers(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, h.logger, "followers", err)
		return
	}
	c.JSON(http.StatusOK, publicUsers(users))
}

func (h *SocialHandler) Following(c *gin.Context) {
	users, err := h.social.Following(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, h.logger, "following", err)
		return
	}
	c.JSON(http.StatusOK, publicUsers(users))
}

// publicUsers oculta el email en listados accesibles por cualquier usuario.
func publicUsers(users []domain.User) []domain.User {
	out := make([]domain.User, len(users))
	for i, u := range users {
		u.Email = ""
		out[i] = u
	}
	return out
}
