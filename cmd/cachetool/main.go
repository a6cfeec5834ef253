package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"delivery-planner-service/internal/adapters/cache"
	"delivery-planner-service/internal/platform/db"
)

// cachetool initializes the matrix-cache schema on whichever backend
// is configured, so a fresh deployment's first request doesn't race a
// missing table. It replaces the source system's package-seeding
// tool: this domain has no package/destination table to seed, only
// the duration/distance cache the routing backend reads and writes.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		sqlDB, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer sqlDB.Close()

		log.Println("Initializing postgres matrix_cache schema...")
		if err := cache.InitPostgresSchema(sqlDB); err != nil {
			log.Fatalf("schema initialization failed: %v", err)
		}
		log.Println("Schema ready.")
		return
	}

	dbPath := getEnv("DB_PATH", "data/matrix_cache.db")
	sqlDB, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	log.Printf("Initializing sqlite matrix_cache schema at %s...", dbPath)
	if err := cache.InitSQLiteSchema(sqlDB); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
