package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"quizdash/internal/auth"
	"quizdash/internal/config"
	"quizdash/internal/repository/postgres"
	postgresReport "quizdash/internal/repository/postgres/report"
	"quizdash/internal/seed"
	reportService "quizdash/internal/service/report"
	"quizdash/internal/service/report/sanitizer"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop the templates table before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed templates")
	demoEmail := flag.String("demo-user", "", "Email of a demo user to create and seed personal templates for")
	demoPassword := flag.String("demo-password", "", "Password for --demo-user")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding templates (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}

	if *dropTables {
		log.Println("🗑️  Dropping templates table...")
		if _, err := pool.Exec(ctx, postgresReport.DropSchema(repoConfig.Tables)); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgresReport.Migrate(ctx, repoConfig); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	specs, err := seed.SystemTemplates()
	if err != nil {
		log.Fatalf("Failed to load seed templates: %v", err)
	}

	templateService := reportService.NewTemplateService(
		postgresReport.NewTemplateRepository(repoConfig),
		postgres.NewTransactionManager(pool, logger),
		sanitizer.NewHTMLSanitizer(),
		nil,
		logger,
	)
	seeder := seed.NewTemplateSeeder(templateService, logger)

	result, err := seeder.Seed(ctx, specs, nil)
	if err != nil {
		log.Fatalf("Failed to seed system templates: %v", err)
	}
	log.Printf("✅ System templates: %d created, %d already present", len(result.Created), len(result.Skipped))

	if *demoEmail == "" {
		log.Println("🎉 Seeding complete!")
		return
	}

	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		log.Fatalf("--demo-user requires SUPABASE_URL and SUPABASE_KEY")
	}
	if *demoPassword == "" {
		log.Fatalf("--demo-user requires --demo-password")
	}

	admin := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)
	userID, err := admin.EnsureUser(ctx, *demoEmail, *demoPassword, map[string]interface{}{
		"display_name": "Demo Teacher",
	})
	if err != nil {
		log.Fatalf("Failed to provision demo user: %v", err)
	}
	log.Printf("👤 Demo user ready: %s (%s)", *demoEmail, userID)

	demoSpecs, err := seed.DemoTemplates()
	if err != nil {
		log.Fatalf("Failed to load demo templates: %v", err)
	}
	result, err = seeder.Seed(ctx, demoSpecs, &userID)
	if err != nil {
		log.Fatalf("Failed to seed demo templates: %v", err)
	}
	log.Printf("✅ Demo templates: %d created, %d already present", len(result.Created), len(result.Skipped))
	log.Println("🎉 Seeding complete!")
}
