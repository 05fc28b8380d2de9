/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the punch report server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load .env (if present) and apply environment overrides
  3. Initialize SQLite store
  4. Create API handler, seed and cache report profiles
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: punch.db)
           Use ":memory:" for in-memory database
  -env     Env file to load (default: .env, missing file is fine)

ENVIRONMENT (wins over flags):
  PORT                 HTTP server port
  DB_PATH              SQLite database path
  CORS_ORIGINS         Comma-separated allowed origins
  MAX_UPLOAD_MB        Upload size limit for reports (default: 20)
  REPORT_RATE_PER_MIN  Report requests per client IP per minute (default: 30, 0 = off)
  COMPANY_NAME         Muster roll header
  COMPANY_CONTACT      Muster roll contact line
  REPORT_CLIENT        Client named in the muster roll title
  CONFIG_REFRESH_SEC   Profile/override reload interval (default: 60, 0 = off)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  ./server -db="./data/punch.db"
  PORT=3000 REPORT_RATE_PER_MIN=0 ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/punch-engine/api"
	"github.com/warp/punch-engine/sheet"
	"github.com/warp/punch-engine/store/sqlite"
)

type config struct {
	Port          int
	DBPath        string
	Origins       []string
	MaxUploadMB   int
	RatePerMinute int
	RefreshEvery  time.Duration
	Branding      sheet.Branding
}

func loadConfig(port int, dbPath string) config {
	cfg := config{
		Port:          envInt("PORT", port),
		DBPath:        dbPath,
		MaxUploadMB:   envInt("MAX_UPLOAD_MB", 20),
		RatePerMinute: envInt("REPORT_RATE_PER_MIN", 30),
		RefreshEvery:  time.Duration(envInt("CONFIG_REFRESH_SEC", 60)) * time.Second,
		Branding:      sheet.DefaultBranding(),
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.Origins = append(cfg.Origins, o)
		}
	}
	if v := os.Getenv("COMPANY_NAME"); v != "" {
		cfg.Branding.Company = v
	}
	if v := os.Getenv("COMPANY_CONTACT"); v != "" {
		cfg.Branding.Contact = v
	}
	cfg.Branding.Client = os.Getenv("REPORT_CLIENT")
	return cfg
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: ignoring %s=%q: %v", key, v, err)
		return def
	}
	return n
}

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "punch.db", "SQLite database path")
	envFile := flag.String("env", ".env", "Env file to load")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: Failed to load %s: %v", *envFile, err)
	}
	cfg := loadConfig(*port, *dbPath)

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store)
	handler.Writer = sheet.NewWriter(cfg.Branding)
	handler.MaxUploadBytes = int64(cfg.MaxUploadMB) << 20

	// Seed and cache report profiles
	if err := handler.LoadProfiles(context.Background()); err != nil {
		log.Printf("Warning: Failed to load profiles, using bundled presets: %v", err)
	}

	// Pick up profile edits made by other processes sharing the database
	refresher := api.NewRefreshScheduler(handler)
	refresher.CheckInterval = cfg.RefreshEvery
	refresher.Start()
	defer refresher.Stop()

	// Create router
	router := api.NewRouter(handler, api.Options{
		AllowedOrigins:      cfg.Origins,
		ReportRatePerMinute: cfg.RatePerMinute,
	})

	// Create server. Large uploads need a longer read timeout than the API default.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.Port)
		log.Printf("API available at http://localhost:%d/api", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
