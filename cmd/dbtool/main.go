package main

import (
	"context"
	"log"
	"os"
	"strings"
	"walk-schedule-service/internal/config"
	"walk-schedule-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// dbtool applies the Postgres migrations for deployments that run the
// service against the pg repository instead of the embedded SQLite store.
func main() {
	if err := config.Load(); err != nil {
		log.Fatal(err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	pool, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	migrationsPath := config.Get("MIGRATIONS_PATH", "migrations")

	migrator, err := db.NewMigrator(pool, migrationsPath)
	if err != nil {
		log.Fatal(err)
	}
	defer migrator.Close()

	log.Println("Applying migrations...")
	if err := migrator.Run(ctx); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	version, err := migrator.Version(ctx)
	if err != nil {
		log.Fatalf("read migration version: %v", err)
	}
	log.Printf("Migrations applied. Current version: %d", version)
}
