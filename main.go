package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/lakonic/pressroom/api"
	"github.com/lakonic/pressroom/conversion"
	"github.com/lakonic/pressroom/datastore"
	"github.com/lakonic/pressroom/models"
	"github.com/lakonic/pressroom/publishing"
	rh "github.com/lakonic/pressroom/route-handlers"
	"github.com/lakonic/pressroom/storage"
)

const (
	defaultPort        = "8080"
	defaultDatabaseURL = "user=postgres password=password dbname=pressroom host=localhost port=5432 sslmode=disable"
	dbPingTimeout      = 5 * time.Second
	shutdownTimeout    = 15 * time.Second
	dbMaxOpenConns     = 25
	dbMaxIdleConns     = 25
	dbConnMaxLifetime  = 5 * time.Minute
)

type config struct {
	port              string
	databaseURL       string
	storageURL        string
	storageAPIKey     string
	localStorageDir   string
	convertURL        string
	convertAPIKey     string
	conversionTimeout time.Duration
}

func main() {
	cfg := loadConfig()

	db, err := setupDatabase(cfg.databaseURL)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	defer db.Close()

	var store storage.ObjectStore
	if cfg.storageURL != "" {
		store = storage.NewClient(cfg.storageURL, cfg.storageAPIKey)
	} else {
		log.Println("WARNING: STORAGE_URL not set, using local file storage")
		store = storage.NewLocalStore(cfg.localStorageDir)
	}
	converter := conversion.NewClient(cfg.convertURL, cfg.convertAPIKey, cfg.conversionTimeout, store)
	contentRepo := datastore.NewContentRepository(db)

	uploader := publishing.NewUploadCoordinator(store)
	publisher := publishing.NewPublishCoordinator(store, converter, contentRepo)

	// One workflow per content type; each tracks its own draft lifecycle.
	workflows := make(map[models.ContentType]*publishing.Workflow)
	for contentType, desc := range models.Descriptors() {
		workflows[contentType] = publishing.NewWorkflow(desc, uploader, publisher)
	}

	contentHandler := rh.NewContentHandler(workflows, contentRepo, store)

	apiRouter := api.SetupRoutes(contentHandler)

	mainRouter := chi.NewRouter()
	mainRouter.Mount("/", apiRouter)

	startServer(cfg.port, mainRouter)
}

func loadConfig() config {
	// Local development keeps its settings in a .env file; absence is fine.
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: No .env file loaded, using process environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		dbURL = defaultDatabaseURL
		log.Println("WARNING: DB_CONNECTION_STRING not set, using default local connection string.")
	}

	storageURL := os.Getenv("STORAGE_URL")
	storageAPIKey := os.Getenv("STORAGE_API_KEY")
	if storageURL != "" && storageAPIKey == "" {
		log.Println("WARNING: STORAGE_API_KEY not set. Uploads will fail at runtime.")
	}
	localStorageDir := os.Getenv("LOCAL_STORAGE_DIR")

	convertURL := os.Getenv("CONVERT_FUNCTION_URL")
	if convertURL == "" {
		log.Println("WARNING: CONVERT_FUNCTION_URL not set. Publishing will fail at runtime.")
	}
	convertAPIKey := os.Getenv("CONVERT_FUNCTION_KEY")
	if convertAPIKey == "" {
		convertAPIKey = storageAPIKey
	}

	conversionTimeout := conversion.DefaultTimeout
	if raw := os.Getenv("CONVERT_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("WARNING: Invalid CONVERT_TIMEOUT %q, using default %s", raw, conversionTimeout)
		} else {
			conversionTimeout = parsed
		}
	}

	return config{
		port:              port,
		databaseURL:       dbURL,
		storageURL:        storageURL,
		storageAPIKey:     storageAPIKey,
		localStorageDir:   localStorageDir,
		convertURL:        convertURL,
		convertAPIKey:     convertAPIKey,
		conversionTimeout: conversionTimeout,
	}
}

func setupDatabase(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close() // Close unusable connection pool
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection successful")
	return db, nil
}

func startServer(port string, router http.Handler) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal // Block until signal received
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
