package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tryhup-api/internal/domain"
	"tryhup-api/internal/service"
)

const (
	currentUserKey = "current_user"
	bearerTokenKey = "bearer_token"

	devEmailHeader = "X-Dev-Email"
	devRoleHeader  = "X-Dev-Role"
)

// AuthMiddleware resuelve el usuario autenticado de cada petición.
type AuthMiddleware struct {
	logger  *zap.Logger
	users   *service.UserService
	devMode bool
}

func NewAuthMiddleware(logger *zap.Logger, users *service.UserService, devMode bool) *AuthMiddleware {
	if devMode {
		logger.Warn("dev auth bypass enabled")
	}
	return &AuthMiddleware{logger: logger, users: users, devMode: devMode}
}

// Require exige un usuario. En modo dev los headers X-Dev-Email / X-Dev-Role
// tienen prioridad sobre el bearer token.
func (m *AuthMiddleware) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.users == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
			return
		}

		if m.devMode {
			if devEmail := strings.TrimSpace(c.GetHeader(devEmailHeader)); devEmail != "" {
				user, err := m.users.DevProvision(c.Request.Context(), devEmail, c.GetHeader(devRoleHeader))
				if err != nil {
					respondError(c, m.logger, "dev auth", err)
					return
				}
				c.Set(currentUserKey, user)
				c.Next()
				return
			}
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		user, err := m.users.ResolveSession(c.Request.Context(), token)
		if err != nil {
			respondError(c, m.logger, "auth", err)
			return
		}

		c.Set(currentUserKey, user)
		c.Set(bearerTokenKey, token)
		c.Next()
	}
}

// RequireAdmin debe ir después de Require.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		if !user.Role.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			return
		}
		c.Next()
	}
}

// CurrentUser obtiene el usuario autenticado desde el contexto.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
