package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"delivery-planner-service/internal/platform/obs"
	"delivery-planner-service/internal/ports"
)

// coordPrecision rounds a coordinate to ~1.1m before it becomes a cache
// key, so nearby GPS jitter still hits the same row.
const coordPrecision = 1e5

func roundCoord(c ports.Coordinate) (lat, lon int64) {
	return int64(c.Lat * coordPrecision), int64(c.Lon * coordPrecision)
}

// SQLMatrixCache is a Postgres-backed cache for origin->destination
// duration/distance results, keyed by rounded coordinate pair.
type SQLMatrixCache struct {
	DB *sql.DB
}

func NewSQLMatrixCache(db *sql.DB) *SQLMatrixCache {
	return &SQLMatrixCache{DB: db}
}

func (s *SQLMatrixCache) GetMany(ctx context.Context, origin ports.Coordinate, destinations []ports.Coordinate) (_ map[ports.Coordinate]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "matrix.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("matrix cache: db is nil")
	}
	if len(destinations) == 0 {
		return map[ports.Coordinate]ports.DistanceResult{}, nil
	}

	originLat, originLon := roundCoord(origin)

	rows, err := s.DB.QueryContext(ctx, `
	SELECT dest_lat, dest_lon, distance_meters, duration_seconds
    FROM matrix_cache
    WHERE origin_lat = $1 AND origin_lon = $2;
	`, originLat, originLon)
	if err != nil {
		return nil, fmt.Errorf("get matrix cache: query matrix_cache table: %w", err)
	}
	defer rows.Close()

	byKey := make(map[[2]int64]ports.DistanceResult)
	for rows.Next() {
		var lat, lon int64
		var meters, seconds int
		if err := rows.Scan(&lat, &lon, &meters, &seconds); err != nil {
			return nil, fmt.Errorf("get matrix cache: scan rows: %w", err)
		}
		byKey[[2]int64{lat, lon}] = ports.DistanceResult{DistanceMeters: meters, DurationSeconds: seconds}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get matrix cache: row iteration: %w", err)
	}

	out := make(map[ports.Coordinate]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		lat, lon := roundCoord(d)
		if r, ok := byKey[[2]int64{lat, lon}]; ok {
			out[d] = r
		}
	}

	return out, nil
}

func (s *SQLMatrixCache) PutMany(ctx context.Context, origin ports.Coordinate, results map[ports.Coordinate]ports.DistanceResult) error {
	if s.DB == nil {
		return errors.New("matrix cache: db is nil")
	}
	if len(results) == 0 {
		return nil
	}

	originLat, originLon := roundCoord(origin)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert matrix cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO matrix_cache (origin_lat, origin_lon, dest_lat, dest_lon, distance_meters, duration_seconds)
    VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (origin_lat, origin_lon, dest_lat, dest_lon) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds;
	`)
	if err != nil {
		return fmt.Errorf("insert matrix cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, r := range results {
		destLat, destLon := roundCoord(dest)
		if _, err := stmt.ExecContext(ctx, originLat, originLon, destLat, destLon, r.DistanceMeters, r.DurationSeconds); err != nil {
			return fmt.Errorf("insert matrix cache dest=%v: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert matrix cache commit: %w", err)
	}

	return nil
}
