package main

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"shortlink.backend/internal/config"
	"shortlink.backend/internal/infrastructure/cache"
	"shortlink.backend/internal/infrastructure/jobs"
	"shortlink.backend/internal/infrastructure/mail"
	"shortlink.backend/internal/infrastructure/repositories"
	"shortlink.backend/internal/interfaces/http/handlers"
	"shortlink.backend/internal/interfaces/http/middleware"
	"shortlink.backend/internal/usecases"
	"shortlink.backend/pkg/jwt"
	"shortlink.backend/pkg/metrics"
	"shortlink.backend/pkg/redis"
)

type routeDeps struct {
	authHandler     *handlers.AuthHandler
	userHandler     *handlers.UserHandler
	shortURLHandler *handlers.ShortURLHandler
	sessionAuth     gin.HandlerFunc
	loginLimit      gin.HandlerFunc
	resendLimit     gin.HandlerFunc
}

type app struct {
	router    *gin.Engine
	scheduler *jobs.Scheduler
}

// buildApp wires repositories, usecases and handlers over db. Redis must
// already be initialized.
func buildApp(cfg *config.Config, db *gorm.DB, mailer mail.Sender) (*app, error) {
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewActionTokenRepository(db)
	shortURLRepo := repositories.NewShortURLRepository(db)
	uow := repositories.NewUnitOfWork(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)
	urlCache := cache.NewURLCache(cfg.Cache.Size, cfg.Cache.TTL)

	authUsecase := usecases.NewAuthUsecase(userRepo, tokenRepo, uow, jwtService, mailer, redis.NewRevocationStore(), usecases.AuthOptions{
		PublicHost: cfg.Server.PublicHost,
		TokenTTL:   cfg.Verification.TokenTTL,
	})
	userUsecase := usecases.NewUserUsecase(userRepo)
	shortURLUsecase := usecases.NewShortURLUsecase(shortURLRepo, urlCache)

	scheduler := jobs.NewScheduler()
	if err := scheduler.AddJob(jobs.NewTokenCleanupJob(tokenRepo, cfg.Jobs.TokenRetention), cfg.Jobs.TokenCleanupSpec); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerRoutes(r, routeDeps{
		authHandler:     handlers.NewAuthHandler(authUsecase, cfg.Server.CookieSecure),
		userHandler:     handlers.NewUserHandler(userUsecase),
		shortURLHandler: handlers.NewShortURLHandler(shortURLUsecase),
		sessionAuth:     middleware.SessionAuth(authUsecase),
		loginLimit:      middleware.RateLimit("login", cfg.RateLimit.Limit, cfg.RateLimit.Window),
		resendLimit:     middleware.RateLimit("resend-verification", cfg.RateLimit.Limit, cfg.RateLimit.Window),
	})

	return &app{router: r, scheduler: scheduler}, nil
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "shortlink",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", d.authHandler.Register)
		auth.POST("/login", d.loginLimit, d.authHandler.Login)
		auth.POST("/logout", d.sessionAuth, d.authHandler.Logout)
		auth.GET("/verify-email/:tokenId", d.authHandler.VerifyEmail)
		auth.GET("/resend-verification", d.resendLimit, d.authHandler.ResendVerification)
	}

	users := r.Group("/users")
	{
		users.GET("/:id", d.userHandler.GetUser)
		users.PUT("/update/:id", d.sessionAuth, d.userHandler.UpdateUser)
	}

	r.GET("/url/show-long-url/:code", d.shortURLHandler.ShowLongURL)

	urls := r.Group("/url")
	urls.Use(d.sessionAuth)
	{
		urls.POST("", middleware.IdempotencyMiddleware(), d.shortURLHandler.Create)
		urls.GET("/list", d.shortURLHandler.List)
		urls.GET("/:code", d.shortURLHandler.Redirect)
		urls.PUT("/update/:id", d.shortURLHandler.Update)
		urls.DELETE("/delete/:id", d.shortURLHandler.Delete)
	}
}
