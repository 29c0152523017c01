package survey

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Store persists one session per slot. Load returns (nil, nil) when the
// slot is empty, holds an older schema version, or cannot be parsed; in
// the latter two cases the slot is cleared so the caller starts fresh.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}

// slotKey builds the storage key for one client.
func slotKey(clientKey string) string {
	return StorageKey + ":" + clientKey
}

// encodeSession stamps bookkeeping fields and marshals the session.
func encodeSession(s *Session) ([]byte, error) {
	s.Timestamps.LastActivity = time.Now()
	s.SchemaVersion = SchemaVersion
	return json.Marshal(s)
}

// decodeSession parses a stored slot. A nil session with a nil error means
// the payload is unusable and the slot should be cleared.
func decodeSession(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, nil
	}
	if s.SchemaVersion < SchemaVersion {
		return nil, nil
	}
	return &s, nil
}

// RedisStore keeps the session slot in Redis under a fixed key, optionally
// with a TTL so abandoned sessions age out.
type RedisStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, clientKey string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, key: slotKey(clientKey), ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, session *Session) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key, data, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context) (*Session, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	session, _ := decodeSession(data)
	if session == nil {
		return nil, s.Clear(ctx)
	}
	return session, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}

// CacheStore keeps the session slot in an in-process go-cache. It stores
// the serialized form so loads exercise the same defensive parse path as
// the Redis backend. Used in tests and DB-less development.
type CacheStore struct {
	c   *cache.Cache
	key string
}

func NewCacheStore(c *cache.Cache, clientKey string) *CacheStore {
	return &CacheStore{c: c, key: slotKey(clientKey)}
}

func (s *CacheStore) Save(_ context.Context, session *Session) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}
	s.c.Set(s.key, data, cache.NoExpiration)
	return nil
}

func (s *CacheStore) Load(ctx context.Context) (*Session, error) {
	raw, found := s.c.Get(s.key)
	if !found {
		return nil, nil
	}
	data, ok := raw.([]byte)
	if !ok {
		return nil, s.Clear(ctx)
	}
	session, _ := decodeSession(data)
	if session == nil {
		return nil, s.Clear(ctx)
	}
	return session, nil
}

func (s *CacheStore) Clear(_ context.Context) error {
	s.c.Delete(s.key)
	return nil
}
