package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(t *testing.T) (*RedisGuard, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	guard := NewRedisGuard(client, "test:lock", time.Minute, nil)
	guard.token = func() string { return "token-1" }
	guard.ticker = func(time.Duration) (<-chan time.Time, func()) { return nil, func() {} }
	return guard, mock
}

func TestRedisGuardAcquireAndRelease(t *testing.T) {
	t.Parallel()

	guard, mock := newTestGuard(t)
	mock.ExpectSetNX("test:lock", "token-1", time.Minute).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"test:lock"}, "token-1").SetVal(int64(1))

	release, ok, err := guard.TryAcquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	release()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisGuardHeldElsewhere(t *testing.T) {
	t.Parallel()

	guard, mock := newTestGuard(t)
	mock.ExpectSetNX("test:lock", "token-1", time.Minute).SetVal(false)

	release, ok, err := guard.TryAcquire(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, release)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisGuardRedisDown(t *testing.T) {
	t.Parallel()

	guard, mock := newTestGuard(t)
	mock.ExpectSetNX("test:lock", "token-1", time.Minute).SetErr(errors.New("connection refused"))

	_, ok, err := guard.TryAcquire(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisGuardExtendsWhileHeld(t *testing.T) {
	t.Parallel()

	guard, mock := newTestGuard(t)
	ticks := make(chan time.Time)
	var interval time.Duration
	guard.ticker = func(d time.Duration) (<-chan time.Time, func()) {
		interval = d
		return ticks, func() {}
	}

	mock.ExpectSetNX("test:lock", "token-1", time.Minute).SetVal(true)
	mock.ExpectEval(extendScript, []string{"test:lock"}, "token-1", int64(60000)).SetVal(int64(1))
	mock.ExpectEval(extendScript, []string{"test:lock"}, "token-1", int64(60000)).SetVal(int64(1))
	mock.ExpectEval(releaseScript, []string{"test:lock"}, "token-1").SetVal(int64(1))

	release, ok, err := guard.TryAcquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	ticks <- time.Now()
	ticks <- time.Now()
	release()
	release()

	assert.Equal(t, 20*time.Second, interval)
	assert.NoError(t, mock.ExpectationsWereMet())
}
