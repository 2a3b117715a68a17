package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyTTL is how long a claimed checkout key blocks a repeat submission
const IdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers request keys so a retried submission is not persisted twice
type IdempotencyStore interface {
	// Claim returns true when key was not seen before and is now reserved
	Claim(ctx context.Context, key string) (bool, error)
	// Release forgets key so the request can be retried
	Release(ctx context.Context, key string) error
}

// RedisIdempotencyStore keeps keys in redis with SETNX
type RedisIdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisIdempotencyStore creates a store over rdb
func NewRedisIdempotencyStore(rdb *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *RedisIdempotencyStore) key(key string) string {
	return "idem:checkout:" + key
}

// Claim reserves key for the store's TTL
func (s *RedisIdempotencyStore) Claim(ctx context.Context, key string) (bool, error) {
	return s.rdb.SetNX(ctx, s.key(key), "1", s.ttl).Result()
}

// Release deletes key
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

// MemoryIdempotencyStore is the single-process store used without redis and in tests
type MemoryIdempotencyStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	keys map[string]time.Time
	now  func() time.Time
}

// NewMemoryIdempotencyStore creates an empty in-memory store
func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		ttl:  ttl,
		keys: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Claim reserves key unless an unexpired claim exists; expired keys are dropped on the way
func (s *MemoryIdempotencyStore) Claim(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expires, ok := s.keys[key]; ok && now.Before(expires) {
		return false, nil
	}
	for k, expires := range s.keys {
		if !now.Before(expires) {
			delete(s.keys, k)
		}
	}
	s.keys[key] = now.Add(s.ttl)
	return true, nil
}

// Release forgets key
func (s *MemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
	return nil
}
