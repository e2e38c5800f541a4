// @title           AI CREAT Gateway API
// @version         1.0.0
// @description     Gateway for the AI CREAT dashboard. Starts generation jobs and follows their progress, normalizes manual edits before they reach the generation backend, and brokers downloads.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aicreat-gateway/docs"
	"aicreat-gateway/internal/cache"
	"aicreat-gateway/internal/config"
	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/database"
	"aicreat-gateway/internal/handlers"
	"aicreat-gateway/internal/logging"
	"aicreat-gateway/internal/middleware"
	"aicreat-gateway/internal/poller"
	"aicreat-gateway/internal/services"
	"aicreat-gateway/internal/supabase"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Environment)
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		if baseURL, err := url.Parse(cfg.BaseURL); err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	client := creative.NewClient(creative.Options{
		BaseURL: cfg.CreativeAPIBaseURL,
		Timeout: cfg.CreativeAPITimeout,
		Logger:  &logger,
	})

	checks := map[string]handlers.Check{}
	jobOpts := services.JobServiceOptions{
		Poll: poller.Options{
			RunningDelay:         cfg.PollInterval,
			ErrorDelay:           cfg.PollErrorInterval,
			MaxWait:              cfg.PollMaxWait,
			MaxConsecutiveErrors: cfg.PollMaxErrors,
		},
		Logger: logger,
	}

	// Job history is optional
	var history *database.JobStore
	if cfg.DatabaseURL == "" {
		logger.Warn().Msg("DATABASE_URL not set, job history is disabled")
	} else {
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		if err := database.NewMigrator(db, logger).Run(ctx); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		history = database.NewJobStore(db)
		jobOpts.History = history
		checks["database"] = pingDB(db)
		logger.Info().Msg("job history enabled")
	}

	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cache.DefaultTTL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		jobOpts.Cache = redisCache
		checks["redis"] = redisCache.Ping
		logger.Info().Msg("job cache enabled")
	}

	if cfg.SupabaseURL != "" {
		supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return err
		}
		jobOpts.Publisher = supabase.NewRealtimeClient(supabaseClient, logger)
		logger.Info().Msg("realtime progress enabled")
	}

	jobs := services.NewJobService(jobOpts)

	var jobHistory handlers.JobHistory
	if history != nil {
		jobHistory = history
	}

	healthHandler := handlers.NewHealthHandler(checks)
	catalogHandler := handlers.NewCatalogHandler(client)
	jobsHandler := handlers.NewJobsHandler(client, jobs, jobHistory)
	assetsHandler := handlers.NewAssetsHandler(client, cfg.DisplayWidth, logger)
	downloadsHandler := handlers.NewDownloadsHandler(client)
	projectsHandler := handlers.NewProjectsHandler(client)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", healthHandler.Health)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	api.GET("/providers", catalogHandler.GetProviders)
	api.GET("/formats", catalogHandler.GetFormats)

	// Generation jobs
	api.POST("/generate", jobsHandler.Generate)
	api.GET("/jobs", jobsHandler.ListJobs)
	api.GET("/jobs/:job_id", jobsHandler.GetJob)
	api.DELETE("/jobs/:job_id", jobsHandler.CancelJob)

	// Assets and downloads
	api.GET("/assets/:asset_id", assetsHandler.GetAsset)
	api.PUT("/assets/:asset_id/edits", assetsHandler.ApplyEdits)
	api.POST("/downloads", downloadsHandler.Download)
	api.POST("/downloads/batch", downloadsHandler.DownloadBatch)

	api.GET("/projects", projectsHandler.ListProjects)
	api.GET("/projects/:project_id/status", projectsHandler.GetProjectStatus)
	api.DELETE("/projects/:project_id", projectsHandler.DeleteProject)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Int("active_jobs", jobs.Active()).Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		if err := jobs.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("job service shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("server stopped gracefully")
	return nil
}

func pingDB(db *sql.DB) handlers.Check {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}
