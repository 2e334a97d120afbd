package search

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Store is a byte-oriented TTL cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// MemoryStore keeps entries in process.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	// purge expired items every 10 minutes
	return &MemoryStore{cache: cache.New(ttl, 10*time.Minute)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if x, found := s.cache.Get(key); found {
		return x.([]byte), true, nil
	}
	return nil, false, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.cache.Set(key, value, ttl)
	return nil
}

// RedisStore shares entries across instances.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedClient memoizes successful lookups. Failures are never stored and
// a broken store falls through to the wrapped client.
type CachedClient struct {
	next  Client
	store Store
	ttl   time.Duration
	onErr func(op string, err error)
}

var _ Client = &CachedClient{}

func NewCachedClient(next Client, store Store, ttl time.Duration, onErr func(op string, err error)) *CachedClient {
	if onErr == nil {
		onErr = func(string, error) {}
	}
	return &CachedClient{next: next, store: store, ttl: ttl, onErr: onErr}
}

func (c *CachedClient) SearchFigure(ctx context.Context, query string) (FigureHit, error) {
	key := cacheKey("figure", query)
	var hit FigureHit
	if c.load(ctx, key, &hit) {
		return hit, nil
	}
	hit, err := c.next.SearchFigure(ctx, query)
	if err != nil {
		return FigureHit{}, err
	}
	c.save(ctx, key, hit)
	return hit, nil
}

func (c *CachedClient) SearchDocument(ctx context.Context, query string) (string, error) {
	key := cacheKey("document", query)
	var url string
	if c.load(ctx, key, &url) {
		return url, nil
	}
	url, err := c.next.SearchDocument(ctx, query)
	if err != nil {
		return "", err
	}
	c.save(ctx, key, url)
	return url, nil
}

func (c *CachedClient) load(ctx context.Context, key string, out interface{}) bool {
	b, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.onErr("get", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		c.onErr("decode", err)
		return false
	}
	return true
}

func (c *CachedClient) save(ctx context.Context, key string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		c.onErr("encode", err)
		return
	}
	if err := c.store.Set(ctx, key, b, c.ttl); err != nil {
		c.onErr("set", err)
	}
}

func cacheKey(kind, query string) string {
	sum := sha1.Sum([]byte(query))
	return "search:" + kind + ":" + hex.EncodeToString(sum[:])
}
