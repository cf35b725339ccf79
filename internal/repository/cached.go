package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"jobmindr/internal/common/logger"
	"jobmindr/internal/common/metrics"
	"jobmindr/internal/models"

	"github.com/redis/go-redis/v9"
)

// CachedStore keeps list results in Redis. Every cached key embeds the current
// generation; a successful mutation bumps the generation, so older entries are
// never read again and expire on their TTL.
type CachedStore struct {
	next   Store
	redis  *redis.Client
	config *CacheConfig
	logger logger.Logger
}

func NewCachedStore(next Store, rdb *redis.Client, config *CacheConfig, log logger.Logger) *CachedStore {
	return &CachedStore{
		next:   next,
		redis:  rdb,
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "list-cache"}),
	}
}

func (c *CachedStore) generationKey() string {
	return c.config.KeyPrefix + ":generation"
}

func (c *CachedStore) listKey(ctx context.Context, name string) (string, error) {
	gen, err := c.redis.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d:%s", c.config.KeyPrefix, gen, name), nil
}

func (c *CachedStore) cached(ctx context.Context, name string, load func() ([]models.JobApplication, error)) ([]models.JobApplication, error) {
	key, err := c.listKey(ctx, name)
	if err != nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		c.logger.Warn("cache generation lookup failed", map[string]interface{}{"error": err})
		return load()
	}

	val, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var apps []models.JobApplication
		jsonErr := json.Unmarshal(val, &apps)
		if jsonErr == nil {
			metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
			return apps, nil
		}
		c.logger.Warn("discarding unreadable cache entry", map[string]interface{}{"key": key, "error": jsonErr})
	case errors.Is(err, redis.Nil):
	default:
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		c.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
		return load()
	}
	metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()

	apps, err := load()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(apps)
	if err != nil {
		return apps, nil
	}
	if err := c.redis.Set(ctx, key, data, c.config.TTL).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
	return apps, nil
}

func (c *CachedStore) invalidate(ctx context.Context) {
	if err := c.redis.Incr(ctx, c.generationKey()).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", map[string]interface{}{"error": err})
	}
}

func (c *CachedStore) GetAll(ctx context.Context) ([]models.JobApplication, error) {
	return c.cached(ctx, "all", func() ([]models.JobApplication, error) {
		return c.next.GetAll(ctx)
	})
}

func (c *CachedStore) GetFiltered(ctx context.Context, filter models.ListFilter) ([]models.JobApplication, error) {
	return c.cached(ctx, filter.CacheKey(), func() ([]models.JobApplication, error) {
		return c.next.GetFiltered(ctx, filter)
	})
}

func (c *CachedStore) GetByID(ctx context.Context, id int64) (*models.JobApplication, error) {
	return c.next.GetByID(ctx, id)
}

func (c *CachedStore) Create(ctx context.Context, app *models.NewJobApplication) (*models.JobApplication, error) {
	created, err := c.next.Create(ctx, app)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return created, nil
}

func (c *CachedStore) Update(ctx context.Context, id int64, patch *models.ApplicationPatch) (*models.JobApplication, error) {
	updated, err := c.next.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if patch != nil && !patch.IsEmpty() {
		c.invalidate(ctx)
	}
	return updated, nil
}

func (c *CachedStore) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	deleted, err := c.next.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		c.invalidate(ctx)
	}
	return deleted, nil
}
