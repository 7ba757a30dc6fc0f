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

	sizingapp "github.com/lumiere/backend/internal/application/sizing"
	"github.com/lumiere/backend/internal/domain/sizing"
	"github.com/lumiere/backend/internal/infrastructure/cache"
	"github.com/lumiere/backend/internal/infrastructure/config"
	"github.com/lumiere/backend/internal/infrastructure/logger"
	"github.com/lumiere/backend/internal/infrastructure/persistence"
	"github.com/lumiere/backend/internal/interfaces/http/handler"
	"github.com/lumiere/backend/internal/interfaces/http/middleware"
	"github.com/lumiere/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Lumiere sizing service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	recommendationRepo := persistence.NewGormRecommendationRepository(db.DB)
	feedbackRepo := persistence.NewGormFeedbackRepository(db.DB)

	// Conversion tables are static reference data shared by all services
	tables := sizing.StandardTables()

	// Application services
	sisterService := sizingapp.NewSisterSizeService(variantRepo, recommendationRepo, tables)
	conversionService := sizingapp.NewCupConversionService(tables)
	brandFitService := sizingapp.NewBrandFitService(brandRepo, feedbackRepo, tables)

	// Result cache: Redis when reachable, in-process otherwise. The
	// engine stays correct without a cache, only slower.
	if cfg.Sizing.CacheEnabled {
		cacheCfg := sizing.CacheConfig{
			ConversionTTL: cfg.Sizing.ConversionCacheTTL,
			SisterTTL:     cfg.Sizing.SisterCacheTTL,
		}

		redisCache, err := cache.NewRedisSizingCache(cache.RedisOptions{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-process result cache", zap.Error(err))
			memCache := cache.NewInMemorySizingCache()
			defer memCache.Close()
			sisterService.SetResultCache(memCache, cacheCfg)
			conversionService.SetResultCache(memCache, cacheCfg)
		} else {
			defer redisCache.Close()
			sisterService.SetResultCache(redisCache, cacheCfg)
			conversionService.SetResultCache(redisCache, cacheCfg)
			log.Info("Redis result cache enabled",
				zap.Duration("conversion_ttl", cacheCfg.ConversionTTL),
				zap.Duration("sister_ttl", cacheCfg.SisterTTL),
			)
		}
	}

	// Handlers
	sizingHandler := handler.NewSizingHandler(sisterService, conversionService)
	brandFitHandler := handler.NewBrandFitHandler(brandFitService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	sizingRoutes := router.NewDomainGroup("sizing", "/sizing")
	sizingRoutes.GET("/sister/:uic", sizingHandler.SisterSizes)
	sizingRoutes.GET("/sister/:uic/family", sizingHandler.SisterFamily)
	sizingRoutes.GET("/products/:productId/alternatives", sizingHandler.FindAlternatives)
	sizingRoutes.POST("/recommendations/:id/accept", sizingHandler.AcceptRecommendation)
	sizingRoutes.GET("/recommendations/stats", sizingHandler.AcceptanceStats)
	sizingRoutes.GET("/recommendations/out-of-stock", sizingHandler.TopOutOfStock)
	sizingRoutes.POST("/cup/convert", sizingHandler.ConvertCup)
	sizingRoutes.GET("/cup/progression/:region", sizingHandler.CupProgression)
	sizingRoutes.GET("/cup/matrix/:volume", sizingHandler.CupMatrix)
	sizingRoutes.GET("/cup/regions", sizingHandler.Regions)

	brandRoutes := router.NewDomainGroup("brands", "/brands")
	brandRoutes.GET("/fit", brandFitHandler.AllProfiles)
	brandRoutes.GET("/:brandId/fit", brandFitHandler.Profile)
	brandRoutes.POST("/:brandId/fit/adjust", brandFitHandler.Adjust)
	brandRoutes.POST("/:brandId/fit/feedback", brandFitHandler.SubmitFeedback)
	brandRoutes.GET("/:brandId/fit/stats", brandFitHandler.Stats)
	brandRoutes.GET("/:brandId/fit/suggested-adjustment", brandFitHandler.SuggestedAdjustment)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(sizingRoutes).
		Register(brandRoutes).
		Register(systemRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness of the service and its database
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
