package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendPostgres  = "postgres"
	BackendPostgREST = "postgrest"
	BackendMemory    = "memory"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseKey     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins     []string
	TablePrefix     string
	StoreBackend    string
	StorageBucket   string
	// External renderer
	RendererURL     string
	RendererAPIKey  string
	RendererTimeout time.Duration
	// Logging
	LogDir      string
	MaxLogFiles int
	// Local development only: skip JWT verification and act as DevUserID
	AuthDisabled bool
	DevUserID    string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	supabaseURL := strings.TrimRight(getEnv("SUPABASE_URL", ""), "/")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		SupabaseURL:     supabaseURL,
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		SupabaseDBURL:   getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL: supabaseURL + "/auth/v1/.well-known/jwks.json",
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		TablePrefix:     getTablePrefix(env),
		StoreBackend:    getEnv("STORE_BACKEND", BackendPostgres),
		StorageBucket:   getEnv("STORAGE_BUCKET", "report-images"),
		RendererURL:     getEnv("RENDERER_URL", ""),
		RendererAPIKey:  getEnv("RENDERER_API_KEY", ""),
		RendererTimeout: getDuration("RENDERER_TIMEOUT", 30*time.Second),
		LogDir:          getEnv("LOG_DIR", ""),
		MaxLogFiles:     getInt("MAX_LOG_FILES", 10),
		// Never honoured in production
		AuthDisabled: env != "prod" && getEnv("AUTH_DISABLED", "false") == "true",
		DevUserID:    getEnv("DEV_USER_ID", "00000000-0000-0000-0000-000000000001"),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

// getDuration accepts Go durations ("45s") or a bare number of seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
