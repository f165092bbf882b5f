package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"condoparcel/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "condoparcel"

// Scope names a family of views that go stale together.
type Scope string

func UnitsScope(condominiumID uuid.UUID) Scope {
	return Scope("units:" + condominiumID.String())
}

func PackagesScope(condominiumID uuid.UUID) Scope {
	return Scope("packages:" + condominiumID.String())
}

// ViewCache holds read-side copies of listings and the per-scope version counters
// that tell clients a listing changed.
type ViewCache interface {
	// GetUnits returns the listing cached for the scope's current version, and that
	// version. A miss returns nil units.
	GetUnits(ctx context.Context, condominiumID uuid.UUID) ([]*models.Unit, int64, error)
	// SetUnits stores units under version. A listing read before an Invalidate lands on
	// a superseded version and is never served.
	SetUnits(ctx context.Context, condominiumID uuid.UUID, version int64, units []*models.Unit) error

	// Invalidate bumps the version of each scope, orphaning its cached payloads.
	Invalidate(ctx context.Context, scopes ...Scope) error
	Version(ctx context.Context, scope Scope) (int64, error)

	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Ping(ctx context.Context) error
}

type redisViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a client from an address that may carry a redis:// scheme.
func NewRedisClient(addr, password string, db int) *redis.Client {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("addr", parsedAddr).Msg("Redis ping failed on initialization")
	} else {
		log.Debug().Str("addr", parsedAddr).Msg("Redis connection established")
	}
	return client
}

func NewRedisViewCache(client *redis.Client, ttl time.Duration) ViewCache {
	return &redisViewCache{client: client, ttl: ttl}
}

func payloadKey(scope Scope, version int64) string {
	return fmt.Sprintf("%s:view:%s:v%d", keyPrefix, scope, version)
}

func versionKey(scope Scope) string {
	return fmt.Sprintf("%s:version:%s", keyPrefix, scope)
}

func (r *redisViewCache) GetUnits(ctx context.Context, condominiumID uuid.UUID) ([]*models.Unit, int64, error) {
	scope := UnitsScope(condominiumID)
	version, err := r.Version(ctx, scope)
	if err != nil {
		return nil, 0, err
	}

	data, err := r.client.Get(ctx, payloadKey(scope, version)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, version, nil // cache miss
		}
		return nil, version, err
	}

	var units []*models.Unit
	if err := json.Unmarshal(data, &units); err != nil {
		return nil, version, err
	}
	return units, version, nil
}

func (r *redisViewCache) SetUnits(ctx context.Context, condominiumID uuid.UUID, version int64, units []*models.Unit) error {
	data, err := json.Marshal(units)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, payloadKey(UnitsScope(condominiumID), version), data, r.ttl).Err()
}

func (r *redisViewCache) Invalidate(ctx context.Context, scopes ...Scope) error {
	if len(scopes) == 0 {
		return nil
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, scope := range scopes {
			pipe.Incr(ctx, versionKey(scope))
		}
		return nil
	})
	return err
}

func (r *redisViewCache) Version(ctx context.Context, scope Scope) (int64, error) {
	v, err := r.client.Get(ctx, versionKey(scope)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// IsRateLimited counts one hit against key and reports whether the window's limit is exceeded.
func (r *redisViewCache) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, err
	}

	// Set expiry on first hit
	if count == 1 {
		if err := r.client.Expire(ctx, cacheKey, window).Err(); err != nil {
			return false, err
		}
	}
	return count > int64(limit), nil
}

func (r *redisViewCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
