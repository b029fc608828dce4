package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/abdulra7ma/social-media-app/internal/config"
	"github.com/abdulra7ma/social-media-app/internal/handler"
	"github.com/abdulra7ma/social-media-app/internal/middleware"
	"github.com/abdulra7ma/social-media-app/internal/migration"
	"github.com/abdulra7ma/social-media-app/internal/repository"
	"github.com/abdulra7ma/social-media-app/internal/routes"
	"github.com/abdulra7ma/social-media-app/internal/service"
	pkgcache "github.com/abdulra7ma/social-media-app/pkg/cache"
	"github.com/abdulra7ma/social-media-app/pkg/jwt"
	pkglogger "github.com/abdulra7ma/social-media-app/pkg/logger"
	pkgredis "github.com/abdulra7ma/social-media-app/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Social Media API
// @version         1.0
// @description     Posts with likes and dislikes
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns the config file path based on APP_ENV
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.GetLogger().Info().
		Str("env", env).
		Strs("env_files", dotenvFiles).
		Msg("starting")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	pkglogger.GetLogger().Info().Msg("connected to MySQL")

	// The counter cache degrades rather than blocks startup: reads
	// fall back to store counts while Redis is down.
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	var counter pkgcache.Counter
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("Redis unreachable; counter cache will connect lazily")
		redisClient = nil
		counter = pkgcache.NewCounter(pkgcache.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
	} else {
		pkglogger.GetLogger().Info().Msg("connected to Redis")
		counter = pkgcache.NewCounterWithClient(redisClient)
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	authService := service.NewAuthService(userRepo, jwtManager)
	postService := service.NewPostService(postRepo, reactionRepo, counter)
	reactionService := service.NewReactionService(postRepo, reactionRepo, counter)
	reconcileService := service.NewReconcileService(postRepo, reactionRepo, counter)

	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService)
	reactionHandler := handler.NewReactionHandler(reactionService)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           86400,
	}))

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	if redisClient != nil && !cfg.IsDevelopment() {
		router.Use(middleware.RateLimit(redisClient, middleware.DefaultRateLimitConfig()))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "social-media-app",
			"time":    time.Now().Unix(),
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, authHandler, postHandler, reactionHandler, jwtManager)

	// Background counter reconciliation
	reconcileCtx, stopReconcile := context.WithCancel(context.Background())
	defer stopReconcile()
	go reconcileService.Run(reconcileCtx, 5*time.Minute)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	pkglogger.GetLogger().Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// splitAndTrim splits a string by delimiter and trims spaces
func splitAndTrim(s, delimiter string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, delimiter) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// initDB opens the MySQL connection with duplicate-key translation
// enabled so unique-index violations surface as gorm.ErrDuplicatedKey
func initDB(cfg *config.Config) (*gorm.DB, error) {
	logMode := gormlogger.Warn
	if cfg.IsDevelopment() {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
