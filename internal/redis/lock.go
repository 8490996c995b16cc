package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireDonationLock attempts to acquire the reconcile lock for a donation.
// Returns true if the lock was acquired, false if another poll holds it.
func (s *LockStore) AcquireDonationLock(ctx context.Context, donationID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:donation:%s", donationID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseDonationLock releases the reconcile lock for a donation.
func (s *LockStore) ReleaseDonationLock(ctx context.Context, donationID string) error {
	key := fmt.Sprintf("lock:donation:%s", donationID)

	return s.client.Del(ctx, key).Err()
}
