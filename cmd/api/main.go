package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tryhup-api/internal/config"
	"tryhup-api/internal/db"
	"tryhup-api/internal/domain"
	"tryhup-api/internal/email"
	apihttp "tryhup-api/internal/http"
	"tryhup-api/internal/metrics"
	"tryhup-api/internal/repository"
	"tryhup-api/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	m := metrics.New("tryhup")

	var (
		limiter     service.LoginCodeLimiter
		revocations service.RevocationStore
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory stores", zap.Error(err))
		} else {
			limiter = service.NewRedisLoginCodeLimiter(logger, redisClient, cfg.OTPRateWindow, cfg.OTPRateMax)
			revocations = service.NewRedisRevocationStore(redisClient)
		}
		cancel()
	}
	if limiter == nil {
		limiter = service.NewMemoryLoginCodeLimiter(cfg.OTPRateWindow, cfg.OTPRateMax)
	}

	sessions, err := service.NewSessionService(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL, revocations)
	if err != nil {
		logger.Fatal("session service", zap.Error(err))
	}

	tx := repository.NewPgTxManager(pool)
	userRepo := repository.NewPgUserRepository(pool)
	codeRepo := repository.NewPgLoginCodeRepository(pool)
	verificationRepo := repository.NewPgVerificationRepository(pool)
	contentRepo := repository.NewPgContentRepository(pool)
	commentRepo := repository.NewPgCommentRepository(pool)
	followRepo := repository.NewPgFollowRepository(pool)
	likeRepo := repository.NewPgLikeRepository(pool)

	userSvc := service.NewUserService(logger, tx, userRepo, followRepo, verificationRepo, sessions)
	codeSvc := service.NewLoginCodeService(logger, tx, codeRepo, userRepo, newEmailSender(cfg, logger), limiter, m)
	verificationSvc := service.NewVerificationService(logger, tx, userRepo, verificationRepo, cfg.SensitiveCategories, m)
	contentSvc := service.NewContentService(logger, contentRepo, likeRepo)
	ratingSvc := service.NewRatingService(logger, tx, contentRepo, m)
	commentSvc := service.NewCommentService(logger, commentRepo, contentRepo, service.NewModerationScorer(cfg.BannedTerms), m)
	feedSvc := service.NewFeedService(logger, contentRepo, nil, m)
	socialSvc := service.NewSocialService(userRepo, followRepo)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := apihttp.NewRouter(logger, m, apihttp.NewAuthMiddleware(logger, userSvc, cfg.DevMode), apihttp.Handlers{
		Auth:    apihttp.NewAuthHandler(logger, codeSvc, sessions, userSvc, m, cfg.DevMode),
		Users:   apihttp.NewUserHandler(logger, userSvc, verificationSvc),
		Admin:   apihttp.NewAdminHandler(logger, verificationSvc, contentSvc, commentSvc),
		Content: apihttp.NewContentHandler(logger, contentSvc, ratingSvc, feedSvc),
		Comment: apihttp.NewCommentHandler(logger, commentSvc),
		Social:  apihttp.NewSocialHandler(logger, socialSvc),
		Meta:    apihttp.NewMetaHandler(logger, domain.NewCreatorCatalog(cfg.SensitiveCategories), pool),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.Bool("dev_mode", cfg.DevMode))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	build := zap.NewProduction
	if cfg.IsDevelopment() {
		build = zap.NewDevelopment
	}
	logger, err := build()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return logger
}

// newEmailSender elige SMTP si hay host; sin él, en desarrollo los códigos
// van al log y en producción la entrega queda deshabilitada.
func newEmailSender(cfg *config.Config, logger *zap.Logger) email.Sender {
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err == nil {
			return sender
		}
		logger.Warn("smtp sender init failed", zap.Error(err))
	}
	if cfg.IsDevelopment() {
		return email.NewLogSender(logger)
	}
	return email.NewDisabledSender("email sender not configured")
}
