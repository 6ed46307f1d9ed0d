package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultKey = "account-import:run"

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another replica is left alone.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// extendScript pushes the expiry out only while the key still holds our token.
const extendScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`

// RedisGuard is a SET NX PX lock shared by every process pointed at the same
// Redis. While held, the expiry is renewed every third of the TTL.
type RedisGuard struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
	token  func() string
	ticker func(d time.Duration) (<-chan time.Time, func())
	logger *zap.Logger
}

func NewRedisGuard(client redis.Cmdable, key string, ttl time.Duration, logger *zap.Logger) *RedisGuard {
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisGuard{client: client, key: key, ttl: ttl, token: uuid.NewString, ticker: newTicker, logger: logger}
}

func newTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

func (g *RedisGuard) TryAcquire(ctx context.Context) (func(), bool, error) {
	token := g.token()

	ok, err := g.client.SetNX(ctx, g.key, token, g.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire %s: %w", g.key, err)
	}
	if !ok {
		return nil, false, nil
	}

	ctx = context.WithoutCancel(ctx)
	stop := make(chan struct{})
	done := make(chan struct{})
	go g.keepAlive(ctx, token, stop, done)

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			<-done
			if err := g.client.Eval(ctx, releaseScript, []string{g.key}, token).Err(); err != nil {
				g.logger.Warn("release import lock failed", zap.String("key", g.key), zap.Error(err))
			}
		})
	}
	return release, true, nil
}

func (g *RedisGuard) keepAlive(ctx context.Context, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticks, stopTicker := g.ticker(g.ttl / 3)
	defer stopTicker()

	for {
		select {
		case <-stop:
			return
		case <-ticks:
			kept, err := g.client.Eval(ctx, extendScript, []string{g.key}, token, g.ttl.Milliseconds()).Int64()
			if err != nil {
				g.logger.Warn("extend import lock failed", zap.String("key", g.key), zap.Error(err))
				continue
			}
			if kept == 0 {
				g.logger.Error("import lock lost", zap.String("key", g.key))
				return
			}
		}
	}
}
