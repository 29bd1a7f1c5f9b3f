package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix is prepended to lock names to form Redis keys.
const KeyPrefix = "vmmanager:lock:"

const defaultPollInterval = 250 * time.Millisecond

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript extends the expiry only if the key still holds our token.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisClient is the subset of the go-redis client a RedisLocker uses.
type RedisClient interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// RedisLocker is a Locker backed by Redis SET NX with an expiry, so a
// crashed holder cannot block a lab forever. A held lock is renewed in the
// background until it is released.
type RedisLocker struct {
	client RedisClient
	ttl    time.Duration
	poll   time.Duration
	renew  time.Duration
}

// RedisOption configures a RedisLocker.
type RedisOption func(*RedisLocker)

// WithPollInterval sets how often a blocked Acquire retries.
func WithPollInterval(d time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if d > 0 {
			l.poll = d
		}
	}
}

// WithRenewInterval sets how often a held lock's expiry is extended.
// The default is a third of the ttl.
func WithRenewInterval(d time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if d > 0 {
			l.renew = d
		}
	}
}

// NewRedisLocker creates a RedisLocker whose locks expire ttl after their
// last renewal.
func NewRedisLocker(client RedisClient, ttl time.Duration, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{client: client, ttl: ttl, poll: defaultPollInterval}
	for _, opt := range opts {
		opt(l)
	}
	if l.renew == 0 {
		l.renew = ttl / 3
	}
	if l.renew <= 0 {
		l.renew = defaultPollInterval
	}
	return l
}

// Dial connects to the Redis server at addr and checks it answers.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// Acquire implements Locker.
func (l *RedisLocker) Acquire(ctx context.Context, name string) (Lock, error) {
	key := KeyPrefix + name
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", name, err)
		}
		if ok {
			held := &redisLock{
				client: l.client,
				key:    key,
				token:  token,
				stop:   make(chan struct{}),
				done:   make(chan struct{}),
			}
			go held.keepAlive(l.ttl, l.renew)
			return held, nil
		}

		timer := time.NewTimer(l.poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

type redisLock struct {
	client RedisClient
	key    string
	token  string

	stop chan struct{}
	done chan struct{}

	once sync.Once
	err  error
}

// keepAlive extends the key's expiry every interval until Release, or until
// the key is found to belong to someone else.
func (l *redisLock) keepAlive(ttl, interval time.Duration) {
	defer close(l.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), interval)
		n, err := renewScript.Run(ctx, l.client, []string{l.key}, l.token, ttl.Milliseconds()).Int()
		cancel()
		if err == nil && n == 0 {
			return
		}
	}
}

func (l *redisLock) Release(ctx context.Context) error {
	l.once.Do(func() {
		close(l.stop)
		<-l.done
		n, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int()
		switch {
		case err != nil:
			l.err = fmt.Errorf("failed to release lock %s: %w", l.key, err)
		case n == 0:
			l.err = fmt.Errorf("%s: %w", l.key, ErrNotHeld)
		}
	})
	return l.err
}
