package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/PabloGalante/intake-agent/internal/domain"
	"github.com/PabloGalante/intake-agent/internal/observability"
)

const retryInterval = 50 * time.Millisecond

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript extends the key's expiry only if it still holds our token.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker serializes work per key across processes. A held lock is
// renewed every ttl/3 until released, so only a crashed holder lets it
// expire.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisLocker connects to url and verifies the connection.
func NewRedisLocker(url string, ttl time.Duration) (*RedisLocker, error) {
	if ttl <= 0 {
		return nil, errors.New("redis: lock ttl must be positive")
	}
	if url == "" {
		return nil, errors.New("redis: url is empty")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	c := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return NewRedisLockerFromClient(c, ttl), nil
}

func NewRedisLockerFromClient(c *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: c, ttl: ttl, prefix: "intake:lock:"}
}

var _ domain.TurnLocker = (*RedisLocker)(nil)

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := l.prefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("redis: lock %s: %w", key, err)
		}
		if ok {
			break
		}

		t := time.NewTimer(retryInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, fmt.Errorf("lock %s: %w", key, domain.ErrLockTimeout)
		case <-t.C:
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(k, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			// The caller's ctx may already be done; release on a fresh one.
			rctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = releaseScript.Run(rctx, l.client, []string{k}, token).Err()
		})
	}, nil
}

// keepAlive pushes the key's expiry forward until stop is closed or the key
// no longer holds token.
func (l *RedisLocker) keepAlive(key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := l.ttl / 3
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), interval)
		n, err := renewScript.Run(ctx, l.client, []string{key}, token, l.ttl.Milliseconds()).Int()
		cancel()
		if err != nil {
			observability.WithFields("key", key).Warn("redis lock renewal failed", "error", err)
			continue
		}
		if n == 0 {
			observability.WithFields("key", key).Warn("redis lock lost before release")
			return
		}
	}
}

func (l *RedisLocker) Close() error {
	return l.client.Close()
}
