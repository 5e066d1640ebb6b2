package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tryhup-api/internal/metrics"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// Handlers agrupa los handlers que monta el router.
type Handlers struct {
	Auth    *AuthHandler
	Users   *UserHandler
	Admin   *AdminHandler
	Content *ContentHandler
	Comment *CommentHandler
	Social  *SocialHandler
	Meta    *MetaHandler
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(logger *zap.Logger, m *metrics.Metrics, authMW *AuthMiddleware, h Handlers) *gin.Engine {
	r := gin.New()

	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), metricsMiddleware(m), gin.Recovery())

	r.GET("/", h.Meta.Root)
	r.GET("/healthz", h.Meta.Healthz)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	r.GET("/meta/creator-categories", h.Meta.CreatorCategories)

	requireUser := authMW.Require()

	auth := r.Group("/auth")
	auth.POST("/request-code", h.Auth.RequestCode)
	auth.POST("/verify-code", h.Auth.VerifyCode)
	auth.POST("/dev-login", h.Auth.DevLogin)
	auth.POST("/logout", requireUser, h.Auth.Logout)

	users := r.Group("/users")
	users.GET("/me", requireUser, h.Users.Me)
	users.PATCH("/me", requireUser, h.Users.UpdateMe)
	users.POST("/become-creator", requireUser, h.Users.BecomeCreator)
	users.GET("/:handle", h.Users.PublicProfile)
	users.GET("/:handle/stats", h.Users.Stats)

	contents := r.Group("/contents", requireUser)
	contents.POST("", h.Content.Create)
	contents.GET("/feed", h.Content.Feed)
	contents.POST("/:id/rate", h.Content.Rate)

	comments := r.Group("/comments")
	comments.POST("/:content_id", requireUser, h.Comment.Create)
	comments.GET("/:content_id", h.Comment.List)

	follows := r.Group("/follows")
	follows.POST("/:user_id", requireUser, h.Social.Follow)
	follows.DELETE("/:user_id", requireUser, h.Social.Unfollow)
	follows.GET("/:user_id/followers", h.Social.Followers)
	follows.GET("/:user_id/following", h.Social.Following)

	likes := r.Group("/likes", requireUser)
	likes.POST("/:content_id", h.Content.Like)
	likes.DELETE("/:content_id", h.Content.Unlike)

	admin := r.Group("/admin", requireUser, RequireAdmin())
	admin.GET("/creators", h.Admin.ListCreators)
	admin.POST("/creators/:id/approve", h.Admin.ApproveCreator)
	admin.POST("/creators/:id/reject", h.Admin.RejectCreator)
	admin.GET("/contents", h.Admin.ListContents)
	admin.POST("/contents/:id/approve", h.Admin.ApproveContent)
	admin.GET("/comments", h.Admin.ListComments)
	admin.PATCH("/comments/:id/approve", h.Admin.ApproveComment)
	admin.PATCH("/comments/:id/reject", h.Admin.RejectComment)

	return r
}

// requestIDMiddleware propaga X-Request-ID o genera uno nuevo.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", requestID(c)),
		)
	}
}

// metricsMiddleware etiqueta por ruta registrada para no disparar la cardinalidad.
func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		m.RequestStarted()
		c.Next()
		m.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
