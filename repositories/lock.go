package repositories

import (
	"HospiCare/database"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

const (
	lockTTL        = 10 * time.Second
	lockMaxRetries = 5
	lockRetryDelay = 200 * time.Millisecond
)

// withLock serializes a mutation behind a redis SETNX lock, retrying a few
// times before giving up. The lock is a fast-path guard; the database
// transaction inside fn remains the source of truth.
func withLock(ctx context.Context, key string, fn func() error) error {
	token := uuid.New().String()
	for attempt := 0; attempt < lockMaxRetries; attempt++ {
		acquired, err := database.NewLock(ctx, key, token, lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if acquired {
			defer func() {
				if err := database.ReleaseLock(ctx, key, token); err != nil {
					log.Printf("Failed to release lock %s: %v", key, err)
				}
			}()
			return fn()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return fmt.Errorf("%w: resource %s is locked by another operation", ErrStateConflict, key)
}
