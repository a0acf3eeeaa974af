package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("caregiver lock not acquired")
)

// Locker serializes booking writes per caregiver so two concurrent requests
// cannot both pass the overlap scan and double-book the same date and time.
type Locker interface {
	WithCaregiverLock(ctx context.Context, caregiverID uuid.UUID, fn func(ctx context.Context) error) error
}

type redisCaregiverLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCaregiverLocker creates a locker that uses a per caregiver Redis key
func NewRedisCaregiverLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisCaregiverLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisCaregiverLocker) WithCaregiverLock(ctx context.Context, caregiverID uuid.UUID, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:caregiver:%s", caregiverID.String())
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire caregiver lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisCaregiverLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release caregiver lock: %w", err)
	}
	return nil
}
