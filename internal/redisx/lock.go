package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Checkout serialization: lock:checkout:{cart_id}
	keyCheckoutLock = "lock:checkout:%s"
)

var lockTTL = 30 * time.Second

// New creates a redis client for the given address.
func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// CheckoutLock serializes checkout attempts per cart using SET NX with a TTL
// so an abandoned lock expires on its own.
type CheckoutLock struct {
	rdb *redis.Client
}

// NewCheckoutLock creates a lock backed by the given redis client.
func NewCheckoutLock(rdb *redis.Client) *CheckoutLock {
	return &CheckoutLock{rdb: rdb}
}

// Acquire attempts to take the checkout lock for a cart. It returns false when
// another checkout already holds it.
func (l *CheckoutLock) Acquire(ctx context.Context, cartID uuid.UUID) (bool, error) {
	key := fmt.Sprintf(keyCheckoutLock, cartID)
	return l.rdb.SetNX(ctx, key, "1", lockTTL).Result()
}

// Release drops the checkout lock for a cart.
func (l *CheckoutLock) Release(ctx context.Context, cartID uuid.UUID) error {
	key := fmt.Sprintf(keyCheckoutLock, cartID)
	return l.rdb.Del(ctx, key).Err()
}
