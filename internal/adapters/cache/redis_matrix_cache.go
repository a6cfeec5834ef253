package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"delivery-planner-service/internal/ports"
)

// defaultMatrixTTL bounds how long a cached matrix entry survives
// before it falls back to the backing SQL/SQLite store, so a changed
// road network eventually ages out of the hot path on its own.
const defaultMatrixTTL = 24 * time.Hour

// RedisMatrixCache is a hot-path ports.MatrixCache layer in front of a
// slower persistent cache (Postgres or SQLite): reads check Redis
// first, writes fan out to Redis with a TTL and leave the caller to
// also persist to the backing store.
type RedisMatrixCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisMatrixCache(client *redis.Client) *RedisMatrixCache {
	return &RedisMatrixCache{client: client, ttl: defaultMatrixTTL}
}

func matrixCacheKey(origin, dest ports.Coordinate) string {
	oLat, oLon := roundCoord(origin)
	dLat, dLon := roundCoord(dest)
	return fmt.Sprintf("matrix:%d:%d:%d:%d", oLat, oLon, dLat, dLon)
}

func (r *RedisMatrixCache) GetMany(ctx context.Context, origin ports.Coordinate, destinations []ports.Coordinate) (map[ports.Coordinate]ports.DistanceResult, error) {
	if r.client == nil {
		return nil, errors.New("matrix cache: redis client is nil")
	}
	if len(destinations) == 0 {
		return map[ports.Coordinate]ports.DistanceResult{}, nil
	}

	keys := make([]string, len(destinations))
	for i, d := range destinations {
		keys[i] = matrixCacheKey(origin, d)
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get matrix cache: redis mget: %w", err)
	}

	out := make(map[ports.Coordinate]ports.DistanceResult, len(destinations))
	for i, v := range vals {
		if v == nil {
			continue
		}
		str, ok := v.(string)
		if !ok {
			continue
		}
		var meters, seconds int
		if _, err := fmt.Sscanf(str, "%d:%d", &meters, &seconds); err != nil {
			continue
		}
		out[destinations[i]] = ports.DistanceResult{DistanceMeters: meters, DurationSeconds: seconds}
	}

	return out, nil
}

func (r *RedisMatrixCache) PutMany(ctx context.Context, origin ports.Coordinate, results map[ports.Coordinate]ports.DistanceResult) error {
	if r.client == nil {
		return errors.New("matrix cache: redis client is nil")
	}
	if len(results) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for dest, res := range results {
		key := matrixCacheKey(origin, dest)
		pipe.Set(ctx, key, fmt.Sprintf("%d:%d", res.DistanceMeters, res.DurationSeconds), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put matrix cache: redis pipeline exec: %w", err)
	}

	return nil
}

// layeredMatrixCache reads through Redis first and falls back to a
// slower persistent store on miss, populating Redis from the fallback
// result so the next lookup for the same pair is hot.
type layeredMatrixCache struct {
	hot  ports.MatrixCache
	cold ports.MatrixCache
}

// NewLayeredMatrixCache composes a hot Redis cache in front of a cold
// persistent one (Postgres or SQLite). Writes go to both layers;
// reads are satisfied from hot first, then cold for whatever's left.
func NewLayeredMatrixCache(hot, cold ports.MatrixCache) ports.MatrixCache {
	return &layeredMatrixCache{hot: hot, cold: cold}
}

func (l *layeredMatrixCache) GetMany(ctx context.Context, origin ports.Coordinate, destinations []ports.Coordinate) (map[ports.Coordinate]ports.DistanceResult, error) {
	out, err := l.hot.GetMany(ctx, origin, destinations)
	if err != nil {
		return nil, err
	}

	missing := make([]ports.Coordinate, 0, len(destinations)-len(out))
	for _, d := range destinations {
		if _, ok := out[d]; !ok {
			missing = append(missing, d)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	fromCold, err := l.cold.GetMany(ctx, origin, missing)
	if err != nil {
		return nil, err
	}
	if len(fromCold) > 0 {
		if err := l.hot.PutMany(ctx, origin, fromCold); err != nil {
			return nil, err
		}
	}
	for k, v := range fromCold {
		out[k] = v
	}

	return out, nil
}

func (l *layeredMatrixCache) PutMany(ctx context.Context, origin ports.Coordinate, results map[ports.Coordinate]ports.DistanceResult) error {
	if err := l.hot.PutMany(ctx, origin, results); err != nil {
		return err
	}
	return l.cold.PutMany(ctx, origin, results)
}
