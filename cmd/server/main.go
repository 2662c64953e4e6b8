package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"diagbench/internal/analysis"
	"diagbench/internal/api"
	"diagbench/internal/config"
	"diagbench/internal/service"
	"diagbench/internal/store"
)

func main() {
	cfg := config.Load()

	// Initialize store
	experimentStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StorageDriver, err)
	}
	defer experimentStore.Close()

	// Initialize Services
	diagnostic := service.NewDiagnosticCalculator()
	agreement := service.NewAgreementCalculator()
	ingest := analysis.NewIngestService()

	// Initialize Handler
	handler := api.NewHandler(diagnostic, agreement, ingest, experimentStore)

	// Router Setup
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	// CORS - Allow frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Register all API Routes
	handler.RegisterRoutes(r)

	log.Printf("Starting diagbench backend on http://localhost:%s", cfg.Port)
	log.Printf("Storage driver: %s", cfg.StorageDriver)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func openStore(cfg config.Config) (store.ExperimentStore, error) {
	switch cfg.StorageDriver {
	case "sqlite":
		return store.OpenSQLite(cfg.SQLitePath)
	case "postgres":
		return store.OpenPostgres(store.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPassword,
			DBName:   cfg.PostgresDBName,
			SSLMode:  cfg.PostgresSSLMode,
		})
	default:
		return store.NewMemoryStore(), nil
	}
}
