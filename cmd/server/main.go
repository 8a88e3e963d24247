package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/facturio/backend/internal/application/rendering"
	"github.com/facturio/backend/internal/infrastructure/cache"
	"github.com/facturio/backend/internal/infrastructure/config"
	"github.com/facturio/backend/internal/infrastructure/logger"
	"github.com/facturio/backend/internal/infrastructure/render"
	"github.com/facturio/backend/internal/infrastructure/storage"
	"github.com/facturio/backend/internal/infrastructure/telemetry"
	"github.com/facturio/backend/internal/interfaces/http/handler"
	"github.com/facturio/backend/internal/interfaces/http/middleware"
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
		_ = log.Sync()
	}()

	log.Info("Starting document renderer",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize PDF storage
	pdfStorage, err := buildStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}

	// Initialize the render service
	opts := []rendering.ServiceOption{
		rendering.WithMaxPages(cfg.Render.MaxPages),
		rendering.WithPersistence(cfg.Render.PersistResults),
	}

	var assetCache cache.AssetCache
	if cfg.Render.LogoFetch {
		assetCache, err = buildAssetCache(cfg)
		if err != nil {
			log.Fatal("Failed to initialize asset cache", zap.Error(err))
		}
		defer func() {
			if err := assetCache.Close(); err != nil {
				log.Error("Error closing asset cache", zap.Error(err))
			}
		}()
		fetcher := cache.NewLogoFetcher(assetCache, cfg.Render.LogoMaxBytes, cfg.Cache.TTL, log)
		opts = append(opts, rendering.WithLogoFetcher(fetcher))
	}

	registry := render.DefaultRegistry()
	renderService := rendering.NewRenderService(registry, pdfStorage, log, opts...)

	// Periodic cleanup of expired documents
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	if cfg.Render.PersistResults && cfg.Storage.RetentionDays > 0 {
		go runRetentionLoop(cleanupCtx, pdfStorage, cfg.Storage.RetentionDays, log)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID(log))
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.BodySizeLimit(cfg.HTTP.MaxBodySize))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	engine.GET("/healthz", healthHandler())
	handler.RegisterRoutes(engine, handler.NewRenderHandler(renderService))

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

// buildStorage selects the storage backend from configuration
func buildStorage(cfg *config.Config, log *zap.Logger) (storage.PDFStorage, error) {
	if !cfg.Render.PersistResults {
		return storage.NopStorage{}, nil
	}

	switch cfg.Storage.Driver {
	case "s3":
		s3Storage, err := storage.NewS3Storage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3Storage, nil
	default:
		return storage.NewFileSystemStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	}
}

// buildAssetCache selects the asset cache backend from configuration
func buildAssetCache(cfg *config.Config) (cache.AssetCache, error) {
	if cfg.Cache.Driver == "redis" {
		return cache.NewRedisAssetCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	}
	return cache.NewInMemoryAssetCache(cfg.Cache.MaxEntries), nil
}

// runRetentionLoop deletes persisted documents past the retention window
func runRetentionLoop(ctx context.Context, pdfStorage storage.PDFStorage, retentionDays int, log *zap.Logger) {
	age := time.Duration(retentionDays) * 24 * time.Hour

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := pdfStorage.CleanupOlderThan(ctx, age)
			if err != nil {
				log.Error("Document cleanup failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				log.Info("Expired documents removed", zap.Int("count", removed))
			}
		}
	}
}

// healthHandler returns a handler for health check endpoints
func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
