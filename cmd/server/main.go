package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizdash/internal/auth"
	"quizdash/internal/config"
	"quizdash/internal/domain/repositories"
	reportRepo "quizdash/internal/domain/repositories/report"
	reportSvc "quizdash/internal/domain/services/report"
	"quizdash/internal/handler"
	"quizdash/internal/metrics"
	"quizdash/internal/middleware"
	"quizdash/internal/renderer"
	"quizdash/internal/repository/memory"
	"quizdash/internal/repository/postgres"
	postgresReport "quizdash/internal/repository/postgres/report"
	"quizdash/internal/repository/postgrest"
	reportService "quizdash/internal/service/report"
	"quizdash/internal/service/report/converter"
	"quizdash/internal/service/report/render"
	"quizdash/internal/service/report/sanitizer"
	"quizdash/internal/storage/supabase"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	supa "github.com/supabase-community/supabase-go"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"store_backend", cfg.StoreBackend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics registry shared by services and middleware
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	templateRepo, txManager, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open template store: %v", err)
	}
	defer closeStore()

	// Collaborators
	htmlSanitizer := sanitizer.NewHTMLSanitizer()
	catalog, err := render.NewCatalog()
	if err != nil {
		log.Fatalf("Failed to load variable catalog: %v", err)
	}
	documentRenderer := renderer.NewClient(cfg.RendererURL, cfg.RendererAPIKey, cfg.RendererTimeout, logger)
	uploader := newUploader(cfg, logger)

	// Services
	templateService := reportService.NewTemplateService(templateRepo, txManager, htmlSanitizer, m, logger)
	reportSvcImpl := reportService.NewReportService(templateService, htmlSanitizer, catalog, render.Preparer{}, documentRenderer, m, logger)
	transferService := reportService.NewTransferService(templateService, converter.NewImporter(), converter.NewExporter(), logger)

	logger.Info("services initialized")

	handlers := &handler.Handlers{
		Templates: handler.NewTemplateHandler(templateService, transferService, logger),
		Sections:  handler.NewSectionHandler(templateService, uploader, logger),
		Reports:   handler.NewReportHandler(reportSvcImpl, logger),
		Uploads:   handler.NewUploadHandler(uploader, logger),
		Metrics:   metrics.Handler(registry),
	}

	mux := http.NewServeMux()
	handlers.Register(mux)

	// Order: CORS → Recovery → Auth → Metrics → Routes
	var h http.Handler = middleware.Metrics(m)(mux)
	authMiddleware, closeAuth, err := newAuthMiddleware(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer closeAuth()
	h = authMiddleware(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to answer OPTIONS pre-flight requests
	h = cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}).Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RendererTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}

// openStore selects the template repository for STORE_BACKEND.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (reportRepo.TemplateRepository, repositories.TransactionManager, func(), error) {
	tables := postgres.NewTableNames(cfg.TablePrefix)

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
		if err != nil {
			return nil, nil, nil, err
		}
		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		if err := postgresReport.Migrate(ctx, repoConfig); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		logger.Info("database connected", "table", tables.ReportTemplates)
		return postgresReport.NewTemplateRepository(repoConfig), postgres.NewTransactionManager(pool, logger), pool.Close, nil

	case config.BackendPostgREST:
		client, err := supa.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create supabase client: %w", err)
		}
		logger.Warn("PostgREST backend has no multi-statement transactions; default changes run as two steps")
		return postgrest.NewTemplateRepository(client, tables.ReportTemplates, logger), postgrest.NewTransactionManager(), func() {}, nil

	case config.BackendMemory:
		logger.Warn("using in-memory template store; data is lost on restart")
		db := memory.NewDB()
		return memory.NewTemplateRepository(db), memory.NewTransactionManager(db), func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

func newUploader(cfg *config.Config, logger *slog.Logger) reportSvc.ImageUploader {
	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		logger.Warn("image uploads disabled: SUPABASE_URL or SUPABASE_KEY not set")
		return supabase.NewDisabledUploader()
	}
	uploader, err := supabase.NewFromClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.StorageBucket, logger)
	if err != nil {
		logger.Error("image uploads disabled", "error", err)
		return supabase.NewDisabledUploader()
	}
	return uploader
}

func newAuthMiddleware(ctx context.Context, cfg *config.Config, logger *slog.Logger) (func(http.Handler) http.Handler, func(), error) {
	if cfg.AuthDisabled {
		logger.Warn("AUTH DISABLED: every request acts as the dev user (never use in production!)", "user_id", cfg.DevUserID)
		return middleware.DevAuthMiddleware(cfg.DevUserID), func() {}, nil
	}

	verifier, err := auth.NewJWTVerifier(ctx, cfg.SupabaseJWKSURL, logger)
	if err != nil {
		return nil, nil, err
	}
	return middleware.AuthMiddleware(verifier, logger), func() { _ = verifier.Close() }, nil
}
