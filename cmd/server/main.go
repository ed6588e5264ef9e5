package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
	"walk-schedule-service/internal/adapters/cache"
	"walk-schedule-service/internal/adapters/optimizer"
	"walk-schedule-service/internal/adapters/repositories"
	"walk-schedule-service/internal/api"
	"walk-schedule-service/internal/config"
	"walk-schedule-service/internal/logging"
	"walk-schedule-service/internal/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, redis, optimizer HTTP client) behind
// ports and starts the HTTP server.
func main() {
	if err := config.Load(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(config.Get("ENV", "development"))
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/appointments.json")
	port := config.Get("PORT", "8080")
	walkingSpeed := config.GetFloat("WALKING_SPEED_MPH", 3.0)

	optimizerURL := os.Getenv("OPTIMIZER_URL")
	optimizerKey := os.Getenv("OPTIMIZER_API_KEY")
	if strings.TrimSpace(optimizerURL) == "" || strings.TrimSpace(optimizerKey) == "" {
		logger.Fatal("OPTIMIZER_URL and OPTIMIZER_API_KEY are required")
	}

	db, err := openDB(dbPath)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		logger.Fatal("init and seed", zap.Error(err))
	}

	// Optimizer responses are cached in redis when an address is configured,
	// so repeated renders of the same day skip the external round trip.
	var seqCache ports.StopSequenceCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		seqCache = cache.NewRedisSequenceCache(client, 5*time.Minute)
		logger.Info("sequence cache enabled", zap.String("redis_addr", addr))
	}

	provider, err := optimizer.NewHTTPStopSequenceProvider(optimizerURL, optimizerKey, seqCache)
	if err != nil {
		logger.Fatal("build optimizer provider", zap.Error(err))
	}

	repo := repositories.NewSqliteAppointmentRepository(db)
	router := api.NewRouter(logger, repo, provider, walkingSpeed)

	// Timeouts are tuned for cold-cache itinerary builds (external API latency).
	logger.Info("server listening", zap.String("addr", ":"+port))
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	logger.Fatal("server stopped", zap.Error(srv.ListenAndServe()))
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
