package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/freee021022/onco/internal/models"
)

const cachePrefix = "onconet:"

// CachedStorage serves pharmacy and testimonial reads from redis, falling
// back to the wrapped Storage on a miss or a redis failure. Every other
// operation goes straight to the wrapped Storage.
type CachedStorage struct {
	Storage
	rdb *redis.Client
	ttl time.Duration
}

func NewCachedStorage(inner Storage, rdb *redis.Client, ttl time.Duration) *CachedStorage {
	return &CachedStorage{Storage: inner, rdb: rdb, ttl: ttl}
}

func readThrough[T any](ctx context.Context, c *CachedStorage, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	key = cachePrefix + key

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var values []T
		if err := json.Unmarshal([]byte(cached), &values); err == nil {
			return values, nil
		}
		log.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
		log.Debug().Str("key", key).Msg("Cache miss")
	default:
		log.Error().Err(err).Str("key", key).Msg("Error reading from cache")
	}

	values, err := load(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(values)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Error encoding cache entry")
		return values, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Error writing to cache")
	}

	return values, nil
}

func (c *CachedStorage) GetPharmacies(ctx context.Context) ([]models.Pharmacy, error) {
	return readThrough(ctx, c, "pharmacies:all", c.Storage.GetPharmacies)
}

func (c *CachedStorage) GetPharmaciesByRegion(ctx context.Context, region string) ([]models.Pharmacy, error) {
	return readThrough(ctx, c, "pharmacies:region:"+region, func(ctx context.Context) ([]models.Pharmacy, error) {
		return c.Storage.GetPharmaciesByRegion(ctx, region)
	})
}

func (c *CachedStorage) GetPharmaciesByCity(ctx context.Context, city string) ([]models.Pharmacy, error) {
	return readThrough(ctx, c, "pharmacies:city:"+city, func(ctx context.Context) ([]models.Pharmacy, error) {
		return c.Storage.GetPharmaciesByCity(ctx, city)
	})
}

func (c *CachedStorage) GetPharmaciesBySpecialization(ctx context.Context, specialization string) ([]models.Pharmacy, error) {
	return readThrough(ctx, c, "pharmacies:specialization:"+specialization, func(ctx context.Context) ([]models.Pharmacy, error) {
		return c.Storage.GetPharmaciesBySpecialization(ctx, specialization)
	})
}

func (c *CachedStorage) GetTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	return readThrough(ctx, c, "testimonials:all", c.Storage.GetTestimonials)
}
