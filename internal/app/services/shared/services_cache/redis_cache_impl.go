package services_cache

import (
	"context"
	"prescriptions-service/internal/app/contracts"
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/exceptions"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// redisServicesCache shares lookups between service instances. Absent
// markers are stored as entries with an empty URL so they survive the
// round trip.
type redisServicesCache struct {
	redisRepository contracts.RedisRepository
	ttl             time.Duration
}

func NewRedisServicesCache(redisRepository contracts.RedisRepository, ttl time.Duration) contracts.ServicesCache {
	return &redisServicesCache{
		redisRepository: redisRepository,
		ttl:             ttl,
	}
}

func redisKey(odsCode string) string {
	return constvars.ServicesCacheRedisKeyPrefix + strings.ToLower(odsCode)
}

func (c *redisServicesCache) Get(ctx context.Context, odsCode string) (models.ServiceEntry, bool, error) {
	data, err := c.redisRepository.Get(ctx, redisKey(odsCode))
	if err != nil {
		return models.ServiceEntry{}, false, err
	}
	if data == "" {
		return models.ServiceEntry{}, false, nil
	}

	var entry models.ServiceEntry
	err = json.Unmarshal([]byte(data), &entry)
	if err != nil {
		return models.ServiceEntry{}, false, exceptions.ErrCannotParseJSON(err)
	}
	return entry, true, nil
}

func (c *redisServicesCache) Set(ctx context.Context, odsCode string, entry models.ServiceEntry) error {
	return c.redisRepository.Set(ctx, redisKey(odsCode), entry, c.ttl)
}
