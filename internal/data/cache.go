package data

import (
	"context"
	"fmt"

	"moviehub/internal/pkg/metrics"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	rankTopRated = "rank:movies:top"
	rankPopular  = "rank:movies:popular"
	// rankBuilt marks both sets as complete. It is missing on a fresh or
	// flushed redis, which forces a rebuild from the database.
	rankBuilt = "rank:movies:built"
)

// rankedMovie is one reviewed movie as stored in the leaderboards.
type rankedMovie struct {
	ID            string
	AverageRating float64
	Reviews       int64
}

func movieCacheKey(id string) string {
	return fmt.Sprintf("movie:%s", id)
}

// cacheGet decodes the cached value at key into v. It reports false on a
// miss, a decode failure, or when redis is not configured.
func (d *Data) cacheGet(ctx context.Context, key string, v interface{}) bool {
	if d.rdb == nil {
		return false
	}
	cached, err := d.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			d.log.Warnf("failed to read cache key %s: %v", key, err)
		}
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(cached, v); err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
		return false
	}
	metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
	return true
}

func (d *Data) cacheSet(ctx context.Context, key string, v interface{}) {
	if d.rdb == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := d.rdb.Set(ctx, key, data, d.cacheTTL).Err(); err != nil {
		d.log.Warnf("failed to write cache key %s: %v", key, err)
	}
}

func (d *Data) cacheDel(ctx context.Context, keys ...string) {
	if d.rdb == nil {
		return
	}
	if err := d.rdb.Del(ctx, keys...).Err(); err != nil {
		d.log.Warnf("failed to invalidate cache keys %v: %v", keys, err)
	}
}

// updateRankings stores the movie's score in the top-rated sorted set and
// its review count in the popularity set. Movies without reviews leave both.
func (d *Data) updateRankings(ctx context.Context, movieID string, average float64, reviews int64) {
	if d.rdb == nil {
		return
	}
	pipe := d.rdb.TxPipeline()
	if reviews > 0 {
		pipe.ZAdd(ctx, rankPopular, redis.Z{Score: float64(reviews), Member: movieID})
		pipe.ZAdd(ctx, rankTopRated, redis.Z{Score: average, Member: movieID})
	} else {
		pipe.ZRem(ctx, rankPopular, movieID)
		pipe.ZRem(ctx, rankTopRated, movieID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		d.log.Warnf("failed to update rankings for movie %s: %v", movieID, err)
	}
}

func (d *Data) removeFromRankings(ctx context.Context, movieID string) {
	if d.rdb == nil {
		return
	}
	pipe := d.rdb.TxPipeline()
	pipe.ZRem(ctx, rankTopRated, movieID)
	pipe.ZRem(ctx, rankPopular, movieID)
	if _, err := pipe.Exec(ctx); err != nil {
		d.log.Warnf("failed to drop rankings for movie %s: %v", movieID, err)
	}
}

func (d *Data) rankingsBuilt(ctx context.Context) (bool, error) {
	n, err := d.rdb.Exists(ctx, rankBuilt).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// replaceRankings swaps both sets for rows and marks them complete.
func (d *Data) replaceRankings(ctx context.Context, rows []rankedMovie) error {
	pipe := d.rdb.TxPipeline()
	pipe.Del(ctx, rankTopRated, rankPopular)
	for _, row := range rows {
		pipe.ZAdd(ctx, rankTopRated, redis.Z{Score: row.AverageRating, Member: row.ID})
		pipe.ZAdd(ctx, rankPopular, redis.Z{Score: float64(row.Reviews), Member: row.ID})
	}
	pipe.Set(ctx, rankBuilt, len(rows), 0)
	_, err := pipe.Exec(ctx)
	return err
}

// ranked returns up to limit movie ids from the sorted set at key, best first.
func (d *Data) ranked(ctx context.Context, key string, limit int) ([]string, error) {
	return d.rdb.ZRevRange(ctx, key, 0, int64(limit-1)).Result()
}
