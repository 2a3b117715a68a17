package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kendall-kelly/bakery-admin-api/pricing"
	"github.com/redis/go-redis/v9"
)

// CartDraftTTL is how long an untouched POS cart draft is kept
const CartDraftTTL = 24 * time.Hour

// CartDraftStore keeps each operator's in-progress POS cart between requests
type CartDraftStore interface {
	// Load returns the owner's draft, or an empty cart when there is none
	Load(ctx context.Context, owner string) (pricing.Cart, error)
	Save(ctx context.Context, owner string, cart pricing.Cart) error
	Delete(ctx context.Context, owner string) error
}

var cartDraftStoreInstance CartDraftStore

// GetCartDraftStore returns the shared draft store
func GetCartDraftStore() CartDraftStore {
	return cartDraftStoreInstance
}

// SetCartDraftStore sets the shared draft store
func SetCartDraftStore(store CartDraftStore) {
	cartDraftStoreInstance = store
}

// RedisCartDraftStore stores drafts as JSON strings in redis
type RedisCartDraftStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCartDraftStore creates a draft store over rdb
func NewRedisCartDraftStore(rdb *redis.Client, ttl time.Duration) *RedisCartDraftStore {
	return &RedisCartDraftStore{rdb: rdb, ttl: ttl}
}

func (s *RedisCartDraftStore) key(owner string) string {
	return "pos:cart:" + owner
}

// Load reads the owner's draft
func (s *RedisCartDraftStore) Load(ctx context.Context, owner string) (pricing.Cart, error) {
	raw, err := s.rdb.Get(ctx, s.key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return pricing.Cart{}, nil
	}
	if err != nil {
		return pricing.Cart{}, fmt.Errorf("load cart draft: %w", err)
	}

	var cart pricing.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return pricing.Cart{}, fmt.Errorf("decode cart draft: %w", err)
	}
	return cart, nil
}

// Save writes the owner's draft and refreshes its TTL. An empty cart deletes the draft.
func (s *RedisCartDraftStore) Save(ctx context.Context, owner string, cart pricing.Cart) error {
	if cart.IsEmpty() {
		return s.Delete(ctx, owner)
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart draft: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(owner), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart draft: %w", err)
	}
	return nil
}

// Delete removes the owner's draft
func (s *RedisCartDraftStore) Delete(ctx context.Context, owner string) error {
	if err := s.rdb.Del(ctx, s.key(owner)).Err(); err != nil {
		return fmt.Errorf("delete cart draft: %w", err)
	}
	return nil
}

// MemoryCartDraftStore keeps drafts in process memory
type MemoryCartDraftStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

// NewMemoryCartDraftStore creates an empty in-memory draft store
func NewMemoryCartDraftStore() *MemoryCartDraftStore {
	return &MemoryCartDraftStore{drafts: make(map[string][]byte)}
}

// Load returns a copy of the owner's draft
func (s *MemoryCartDraftStore) Load(_ context.Context, owner string) (pricing.Cart, error) {
	s.mu.RLock()
	raw, ok := s.drafts[owner]
	s.mu.RUnlock()
	if !ok {
		return pricing.Cart{}, nil
	}

	var cart pricing.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return pricing.Cart{}, fmt.Errorf("decode cart draft: %w", err)
	}
	return cart, nil
}

// Save stores a copy of cart. An empty cart deletes the draft.
func (s *MemoryCartDraftStore) Save(ctx context.Context, owner string, cart pricing.Cart) error {
	if cart.IsEmpty() {
		return s.Delete(ctx, owner)
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart draft: %w", err)
	}
	s.mu.Lock()
	s.drafts[owner] = raw
	s.mu.Unlock()
	return nil
}

// Delete removes the owner's draft
func (s *MemoryCartDraftStore) Delete(_ context.Context, owner string) error {
	s.mu.Lock()
	delete(s.drafts, owner)
	s.mu.Unlock()
	return nil
}
