package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"delivery-planner-service/internal/adapters/cache"
	"delivery-planner-service/internal/adapters/routing"
	"delivery-planner-service/internal/api"
	"delivery-planner-service/internal/platform/db"
	"delivery-planner-service/internal/ports"
	"delivery-planner-service/internal/service"
)

// main is the application composition root. It wires the concrete ORS
// routing backend and its matrix cache (Postgres or SQLite, optionally
// fronted by Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := getEnv("PORT", "8080")

	orsKey := os.Getenv("ORS_API_KEY")
	if strings.TrimSpace(orsKey) == "" {
		log.Fatal("ORS_API_KEY is required")
	}

	matrixCache, closeCache, err := buildMatrixCache()
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	routingBackend, err := routing.NewORSRoutingBackend(orsKey, matrixCache)
	if err != nil {
		log.Fatal(err)
	}

	planning := service.NewPlanningService(routingBackend)
	router := api.NewRouter(planning, routingBackend)

	// Timeouts are tuned for cold-cache route planning (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildMatrixCache opens the configured persistent matrix cache
// (Postgres via DATABASE_URL, else SQLite via DB_PATH) and, if
// REDIS_ADDR is set, layers it behind a Redis hot path. The returned
// close func releases whatever backing connections were opened.
func buildMatrixCache() (ports.MatrixCache, func(), error) {
	var persistent ports.MatrixCache
	var sqlDB *sql.DB
	var err error

	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		sqlDB, err = db.Open(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitPostgresSchema(sqlDB); err != nil {
			return nil, nil, err
		}
		persistent = cache.NewSQLMatrixCache(sqlDB)
	} else {
		dbPath := getEnv("DB_PATH", "data/matrix_cache.db")
		sqlDB, err = db.OpenSQLite(dbPath)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSQLiteSchema(sqlDB); err != nil {
			return nil, nil, err
		}
		persistent = cache.NewSqliteMatrixCache(sqlDB)
	}

	closeFn := func() { _ = sqlDB.Close() }

	redisAddr := os.Getenv("REDIS_ADDR")
	if strings.TrimSpace(redisAddr) == "" {
		return persistent, closeFn, nil
	}

	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	hot := cache.NewRedisMatrixCache(redisClient)
	layered := cache.NewLayeredMatrixCache(hot, persistent)

	return layered, func() {
		_ = redisClient.Close()
		closeFn()
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
