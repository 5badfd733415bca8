package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	startupLockKey = "vitrine:normalizer:lock"
	defaultLockTTL = time.Minute
	pollInterval   = 250 * time.Millisecond
)

// ErrLockNotHeld is returned by Release when the lock expired or belongs to another holder.
var ErrLockNotHeld = errors.New("startup lock not held")

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// StartupLock serializes the normalization pass across replicas sharing one store.
type StartupLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	poll   time.Duration
	token  string
}

// NewStartupLock creates a lock held for at most ttl. A non-positive ttl uses one minute.
func NewStartupLock(client *redis.Client, ttl time.Duration) *StartupLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &StartupLock{client: client, key: startupLockKey, ttl: ttl, poll: pollInterval}
}

// Acquire blocks until the lock is obtained or ctx is done.
func (l *StartupLock) Acquire(ctx context.Context) error {
	token := uuid.NewString()

	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("startup lock: %w", ctxErr)
			}
			return fmt.Errorf("startup lock: %w", err)
		}
		if ok {
			l.token = token
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("startup lock: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Release deletes the lock if this instance still holds it.
func (l *StartupLock) Release(ctx context.Context) error {
	if l.token == "" {
		return ErrLockNotHeld
	}
	n, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int()
	l.token = ""
	if err != nil {
		return fmt.Errorf("startup lock release: %w", err)
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}
