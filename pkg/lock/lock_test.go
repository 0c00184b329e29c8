package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisLocker(t *testing.T, wait time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisLocker(rdb, 10*time.Second, wait, zap.NewNop()), mr
}

func lockers(t *testing.T, wait time.Duration) map[string]Locker {
	redisLocker, _ := newRedisLocker(t, wait)
	return map[string]Locker{
		"memory": NewMemoryLocker(wait),
		"redis":  redisLocker,
	}
}

func TestLocker_MutualExclusion(t *testing.T) {
	for name, l := range lockers(t, 5*time.Second) {
		l := l
		t.Run(name, func(t *testing.T) {
			var (
				wg      sync.WaitGroup
				holders int32
				maxSeen int32
			)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					unlock, err := l.Lock(context.Background(), "k")
					if !assert.NoError(t, err) {
						return
					}
					n := atomic.AddInt32(&holders, 1)
					for {
						m := atomic.LoadInt32(&maxSeen)
						if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
							break
						}
					}
					time.Sleep(2 * time.Millisecond)
					atomic.AddInt32(&holders, -1)
					unlock()
				}()
			}
			wg.Wait()
			assert.Equal(t, int32(1), maxSeen)
		})
	}
}

func TestLocker_Timeout(t *testing.T) {
	for name, l := range lockers(t, 50*time.Millisecond) {
		l := l
		t.Run(name, func(t *testing.T) {
			unlock, err := l.Lock(context.Background(), "busy")
			require.NoError(t, err)
			defer unlock()

			_, err = l.Lock(context.Background(), "busy")
			require.ErrorIs(t, err, ErrNotAcquired)

			other, err := l.Lock(context.Background(), "free")
			require.NoError(t, err)
			other()
		})
	}
}

func TestLocker_ContextCancel(t *testing.T) {
	l := NewMemoryLocker(0)
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Lock(ctx, "k")
	require.ErrorIs(t, err, ErrNotAcquired)
}

func TestMemoryLocker_ReleasesEntries(t *testing.T) {
	l := NewMemoryLocker(time.Second)
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	unlock()
	unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.locks)
}

func TestRedisLocker_ReleaseOnlyOwnToken(t *testing.T) {
	l, mr := newRedisLocker(t, time.Second)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	// 模拟锁过期后被其他实例抢占
	mr.Del("k")
	require.NoError(t, mr.Set("k", "someone-else"))

	unlock()
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}
