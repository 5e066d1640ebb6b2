package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tryhup-api/internal/domain"
	"tryhup-api/internal/metrics"
	"tryhup-api/internal/service"
)

// AuthHandler mantiene dependencias para los endpoints /auth.
type AuthHandler struct {
	logger   *zap.Logger
	codes    *service.LoginCodeService
	sessions *service.SessionService
	users    *service.UserService
	metrics  *metrics.Metrics
	devMode  bool
}

func NewAuthHandler(
	logger *zap.Logger,
	codes *service.LoginCodeService,
	sessions *service.SessionService,
	users *service.UserService,
	m *metrics.Metrics,
	devMode bool,
) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		codes:    codes,
		sessions: sessions,
		users:    users,
		metrics:  m,
		devMode:  devMode,
	}
}

type tokenResponse struct {
	AccessToken      string    `json:"access_token"`
	TokenType        string    `json:"token_type"`
	ExpiresAt        time.Time `json:"expires_at"`
	ProfileCompleted bool      `json:"profile_completed"`
}

// RequestCode maneja POST /auth/request-code.
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "request code", err)
		return
	}

	issued, err := h.codes.Issue(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.logger, "request code", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "login code sent",
		"email":      issued.Email,
		"expires_at": issued.ExpiresAt,
	})
}

// VerifyCode maneja POST /auth/verify-code.
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "verify code", err)
		return
	}

	user, err := h.codes.Verify(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		respondError(c, h.logger, "verify code", err)
		return
	}
	h.respondToken(c, user)
}

// DevLogin maneja POST /auth/dev-login. Solo existe con DEV_MODE activo.
func (h *AuthHandler) DevLogin(c *gin.Context) {
	if !h.devMode {
		c.JSON(http.StatusForbidden, gin.H{"error": "dev mode disabled"})
		return
	}
	var req struct {
		Email string `json:"email" binding:"required"`
		Role  string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "dev login", err)
		return
	}

	user, err := h.users.DevProvision(c.Request.Context(), req.Email, req.Role)
	if err != nil {
		respondError(c, h.logger, "dev login", err)
		return
	}
	h.respondToken(c, user)
}

// Logout maneja POST /auth/logout revocando el token presentado.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(bearerTokenKey)
	if token == "" {
		// Sesiones resueltas por headers dev no tienen token que revocar.
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
		respondError(c, h.logger, "logout", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) respondToken(c *gin.Context, user domain.User) {
	session, err := h.sessions.Issue(user.Email)
	if err != nil {
		respondError(c, h.logger, "issue session", err)
		return
	}
	h.metrics.SessionIssued()

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:      session.Token,
		TokenType:        "bearer",
		ExpiresAt:        session.ExpiresAt,
		ProfileCompleted: user.ProfileCompleted(),
	})
}
