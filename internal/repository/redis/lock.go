package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const lockPrefix = "lock:"

// Only the holder's token may release the lease
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SessionLock is a lease shared by every replica. The TTL bounds how long
// a crashed holder can block a session.
type SessionLock struct {
	client *Client
	ttl    time.Duration
}

// NewSessionLock creates a new session lock
func NewSessionLock(client *Client, ttl time.Duration) *SessionLock {
	return &SessionLock{client: client, ttl: ttl}
}

// TryLock takes the lease with SET NX PX. It does not wait.
func (l *SessionLock) TryLock(ctx context.Context, key string) (func(), bool, error) {
	fullKey := lockPrefix + key
	token := uuid.NewString()

	ok, err := l.client.rdb.SetNX(ctx, fullKey, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	return func() {
		// Release must outlive a cancelled request context
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := unlockScript.Run(ctx, l.client.rdb, []string{fullKey}, token).Err(); err != nil {
			log.Warn().Err(err).Str("key", fullKey).Msg("failed to release session lock")
		}
	}, true, nil
}
