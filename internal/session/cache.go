package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const cacheKeyPrefix = "storefront:session:"

// Cache is a byte cache with per-entry TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error) // ErrCacheMiss when absent
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")

type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache { return &RedisCache{rdb: rdb} }

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// CachedRepository reads through a Cache in front of another Repository.
// Cache failures fall back to the underlying repository.
type CachedRepository struct {
	next  Repository
	cache Cache
	now   func() time.Time
}

func NewCachedRepository(next Repository, cache Cache) *CachedRepository {
	return &CachedRepository{next: next, cache: cache, now: time.Now}
}

func (r *CachedRepository) Get(ctx context.Context, id string) (*Session, error) {
	if b, err := r.cache.Get(ctx, cacheKeyPrefix+id); err == nil {
		var s Session
		if json.Unmarshal(b, &s) == nil && s.ExpiresAt.After(r.now()) {
			s.ID = id
			return &s, nil
		}
	}

	s, err := r.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, s)
	return s, nil
}

func (r *CachedRepository) Save(ctx context.Context, s *Session) error {
	if err := r.next.Save(ctx, s); err != nil {
		return err
	}
	r.store(ctx, s)
	return nil
}

func (r *CachedRepository) Delete(ctx context.Context, id string) error {
	_ = r.cache.Del(ctx, cacheKeyPrefix+id)
	return r.next.Delete(ctx, id)
}

// DeleteExpired only touches the backing store; cache entries expire by TTL.
func (r *CachedRepository) DeleteExpired(ctx context.Context) (int64, error) {
	return r.next.DeleteExpired(ctx)
}

func (r *CachedRepository) store(ctx context.Context, s *Session) {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return
	}
	b, err := json.Marshal(s)
	if err != nil {
		return
	}
	_ = r.cache.Set(ctx, cacheKeyPrefix+s.ID, b, ttl)
}
