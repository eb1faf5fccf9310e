// Package main runs the news platform HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ytnews/backend/config"
	"github.com/ytnews/backend/internal/announcements"
	"github.com/ytnews/backend/internal/auth"
	"github.com/ytnews/backend/internal/categories"
	"github.com/ytnews/backend/internal/employees"
	"github.com/ytnews/backend/internal/events"
	"github.com/ytnews/backend/internal/joinrequests"
	"github.com/ytnews/backend/internal/middleware"
	"github.com/ytnews/backend/internal/organizations"
	"github.com/ytnews/backend/internal/upload"
	"github.com/ytnews/backend/internal/users"
	"github.com/ytnews/backend/pkg/database"
	"github.com/ytnews/backend/pkg/redis"
	"github.com/ytnews/backend/pkg/response"
	"github.com/ytnews/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Redis only backs auth rate limiting; the server runs without it.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn("redis disabled", zap.Error(err))
		} else {
			defer rdb.Close()
		}
	}

	// Uploads go to local disk unless an S3 bucket is configured.
	var store storage.Store
	localUploads := true
	if cfg.AWS.Region != "" && cfg.AWS.UploadsBucket != "" {
		s3Store, err := storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Bucket:          cfg.AWS.UploadsBucket,
		}, logger)
		if err != nil {
			logger.Warn("s3 uploads disabled, falling back to local disk", zap.Error(err))
		} else {
			store = s3Store
			localUploads = false
		}
	}
	if store == nil {
		local, err := storage.NewLocal(cfg.Upload.Dir)
		if err != nil {
			logger.Fatal("upload dir", zap.Error(err))
		}
		store = local
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Users / auth
	userRepo := users.NewRepository(pool)
	userHandler := users.NewHandler(userRepo, logger)
	authHandler := auth.NewHandler(userRepo, jwtService, logger)

	// Organizations and membership
	employeeRepo := employees.NewRepository(pool)
	employeeHandler := employees.NewHandler(employeeRepo, logger)
	orgRepo := organizations.NewRepository(pool)
	orgHandler := organizations.NewHandler(orgRepo, employeeRepo, logger)
	joinRequestRepo := joinrequests.NewRepository(pool)
	joinRequestHandler := joinrequests.NewHandler(joinRequestRepo, employeeRepo, orgRepo, logger)

	// Content
	categoryRepo := categories.NewRepository(pool)
	categoryHandler := categories.NewHandler(categoryRepo, logger)
	announcementRepo := announcements.NewRepository(pool)
	announcementHandler := announcements.NewHandler(announcementRepo, employeeRepo, logger)
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, logger)

	uploadHandler := upload.NewHandler(store, cfg.Upload.MaxSize, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/", func(c *gin.Context) { response.OK(c, gin.H{"name": "ytnews api", "docs": "/api/v1"}) })
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	if localUploads {
		router.Static("/uploads", cfg.Upload.Dir)
	}

	requireAuth := middleware.JWT(jwtService, userRepo)
	optionalAuth := middleware.OptionalJWT(jwtService, userRepo)

	api := router.Group("/api/v1")

	// Auth (public, rate limited when Redis is available)
	authGroup := api.Group("/auth")
	if rdb != nil {
		authGroup.Use(middleware.RateLimit(rdb.Client, cfg.RateLimit.AuthPerMinute, time.Minute, logger))
	}
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Users
	userGroup := api.Group("/users")
	{
		userGroup.GET("/me", requireAuth, userHandler.Me)
		userGroup.PUT("/me", requireAuth, userHandler.UpdateMe)

		admin := userGroup.Group("", requireAuth, middleware.RequireAdmin())
		admin.GET("", userHandler.List)
		admin.POST("", userHandler.Create)
		admin.GET("/:id", userHandler.Get)
		admin.PUT("/:id", userHandler.Update)
		admin.DELETE("/:id", userHandler.Delete)
	}

	// Organizations
	orgGroup := api.Group("/organizations")
	{
		orgGroup.GET("", orgHandler.List)
		orgGroup.GET("/slug/:slug", orgHandler.GetBySlug)
		orgGroup.GET("/:id", orgHandler.Get)
		orgGroup.POST("", requireAuth, orgHandler.Create)
		orgGroup.PUT("/:id", requireAuth, orgHandler.Update)
		orgGroup.DELETE("/:id", requireAuth, middleware.RequireModerator(), orgHandler.Delete)
	}

	// Employees
	employeeGroup := api.Group("/employees")
	{
		employeeGroup.GET("/my-organizations", requireAuth, employeeHandler.MyOrganizations)
		employeeGroup.GET("/organization/:id", employeeHandler.ListByOrganization)
		employeeGroup.POST("", requireAuth, employeeHandler.Create)
		employeeGroup.PUT("/:id", requireAuth, employeeHandler.Update)
		employeeGroup.DELETE("/:id", requireAuth, employeeHandler.Delete)
	}

	// Join requests
	joinGroup := api.Group("/join-requests", requireAuth)
	{
		joinGroup.POST("", joinRequestHandler.Submit)
		joinGroup.GET("/organization/:id", joinRequestHandler.ListByOrganization)
		joinGroup.POST("/:id/accept", joinRequestHandler.Accept)
		joinGroup.POST("/:id/reject", joinRequestHandler.Reject)
	}

	// Categories
	categoryGroup := api.Group("/categories")
	{
		categoryGroup.GET("", categoryHandler.List)
		categoryGroup.GET("/slug/:slug", categoryHandler.GetBySlug)
		categoryGroup.GET("/:id", categoryHandler.Get)
		categoryGroup.POST("", requireAuth, middleware.RequireModerator(), categoryHandler.Create)
		categoryGroup.PUT("/:id", requireAuth, middleware.RequireModerator(), categoryHandler.Update)
		categoryGroup.DELETE("/:id", requireAuth, middleware.RequireModerator(), categoryHandler.Delete)
	}

	// Announcements
	announcementGroup := api.Group("/announcements")
	{
		announcementGroup.GET("", announcementHandler.List)
		announcementGroup.GET("/all", requireAuth, middleware.RequireModerator(), announcementHandler.ListAll)
		announcementGroup.GET("/slug/:slug", optionalAuth, announcementHandler.GetBySlug)
		announcementGroup.GET("/:id", optionalAuth, announcementHandler.Get)
		announcementGroup.POST("", requireAuth, middleware.RequireModerator(), announcementHandler.Create)
		announcementGroup.PUT("/:id", requireAuth, middleware.RequireModerator(), announcementHandler.Update)
		announcementGroup.DELETE("/:id", requireAuth, middleware.RequireModerator(), announcementHandler.Delete)
	}

	// Events and registrations
	eventGroup := api.Group("/events")
	{
		eventGroup.GET("", optionalAuth, eventHandler.List)
		eventGroup.GET("/upcoming", eventHandler.ListUpcoming)
		eventGroup.GET("/slug/:slug", optionalAuth, eventHandler.GetBySlug)
		eventGroup.GET("/registrations/my", requireAuth, eventHandler.MyRegistrations)
		eventGroup.GET("/:id", optionalAuth, eventHandler.Get)
		eventGroup.GET("/:id/registrations", requireAuth, middleware.RequireModerator(), eventHandler.ListRegistrations)
		eventGroup.POST("", requireAuth, middleware.RequireModerator(), eventHandler.Create)
		eventGroup.PUT("/:id", requireAuth, middleware.RequireModerator(), eventHandler.Update)
		eventGroup.DELETE("/:id", requireAuth, middleware.RequireAdmin(), eventHandler.Delete)
		eventGroup.POST("/:id/register", optionalAuth, eventHandler.Register)
		eventGroup.DELETE("/registrations/:id", requireAuth, eventHandler.DeleteRegistration)
	}

	// Uploads
	uploadGroup := api.Group("/upload", requireAuth, middleware.RequireModerator())
	{
		uploadGroup.POST("/image", uploadHandler.Image)
		uploadGroup.POST("/images", uploadHandler.Images)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
