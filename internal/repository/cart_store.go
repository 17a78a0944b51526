package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/joroshdy12596/ai-pharmacy/internal/model"
)

const cartKeyPrefix = "cart:"

// CartStore keeps the per-operator pending cart in Redis. The cart is owned
// by exactly one session; the TTL sweeps carts abandoned mid-checkout.
type CartStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	Save(ctx context.Context, userID uuid.UUID, cart *model.Cart) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCartStore(rdb *redis.Client, ttl time.Duration) CartStore {
	return &cartStore{rdb: rdb, ttl: ttl}
}

func (s *cartStore) key(userID uuid.UUID) string { return cartKeyPrefix + userID.String() }

// Get returns the stored cart, or an empty one when none exists — callers
// never need to distinguish "no cart yet" from "empty cart".
func (s *cartStore) Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	data, err := s.rdb.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &model.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		// Corrupt payload — discard rather than poison every POS request.
		_ = s.rdb.Del(ctx, s.key(userID)).Err()
		return &model.Cart{}, nil
	}
	return &cart, nil
}

func (s *cartStore) Save(ctx context.Context, userID uuid.UUID, cart *model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(userID), data, s.ttl).Err()
}

func (s *cartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.rdb.Del(ctx, s.key(userID)).Err()
}
