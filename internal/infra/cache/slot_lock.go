package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrLockBusy = errors.New("slot lock is held by another request")

// releaseScript deletes the lock only if it still holds our token, so a
// request whose lock expired cannot free someone else's.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SlotLocker serialises booking attempts for the same tutor and day across
// API instances. The database transaction remains the real guard.
type SlotLocker struct {
	client   *redis.Client
	ttl      time.Duration
	attempts int
	backoff  time.Duration
}

func NewSlotLocker(client *redis.Client, ttl time.Duration) *SlotLocker {
	return &SlotLocker{
		client:   client,
		ttl:      ttl,
		attempts: 20,
		backoff:  50 * time.Millisecond,
	}
}

func SlotKey(tutorID uint, date string) string {
	return fmt.Sprintf("lock:booking:%d:%s", tutorID, date)
}

// Acquire waits briefly for the lock at key. The returned func releases it.
func (l *SlotLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	for i := 0; i < l.attempts; i++ {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				_ = releaseScript.Run(context.Background(), l.client, []string{key}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.backoff):
		}
	}

	return nil, ErrLockBusy
}

// NoopLocker is used when Redis is not configured.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}
