package lib

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalLockerSerialises(t *testing.T) {
	l := NewLocalLocker()
	var inside, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "room:1")
			require.NoError(t, err)
			defer unlock()
			n := atomic.AddInt32(&inside, 1)
			if n > atomic.LoadInt32(&peak) {
				atomic.StoreInt32(&peak, n)
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), peak)
	assert.Empty(t, l.slots)
}

func TestLocalLockerTimesOut(t *testing.T) {
	l := NewLocalLocker()
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	assert.True(t, errors.Is(err, ErrLockBusy))

	unlock()
	unlock()
	other, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	other()
}

func TestLocalLockerIndependentKeys(t *testing.T) {
	l := NewLocalLocker()
	a, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer a()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	b, err := l.Lock(ctx, "b")
	require.NoError(t, err)
	b()
}

func newTestRedisLocker() (*RedisLocker, redismock.ClientMock) {
	rdb, mock := redismock.NewClientMock()
	l := NewRedisLocker(rdb, 30*time.Second, zap.NewNop())
	l.retry = time.Millisecond
	l.newToken = func() string { return "token-1" }
	return l, mock
}

func TestRedisLockerAcquireRelease(t *testing.T) {
	l, mock := newTestRedisLocker()
	mock.ExpectSetNX("lock:checkout:session:cs_1", "token-1", 30*time.Second).SetVal(true)
	mock.ExpectEval(unlockScript, []string{"lock:checkout:session:cs_1"}, "token-1").SetVal(int64(1))

	unlock, err := l.Lock(context.Background(), "checkout:session:cs_1")
	require.NoError(t, err)
	unlock()
	unlock()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockerRetriesUntilFree(t *testing.T) {
	l, mock := newTestRedisLocker()
	mock.ExpectSetNX("lock:room:1", "token-1", 30*time.Second).SetVal(false)
	mock.ExpectSetNX("lock:room:1", "token-1", 30*time.Second).SetVal(true)

	_, err := l.Lock(context.Background(), "room:1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockerBusy(t *testing.T) {
	l, mock := newTestRedisLocker()
	l.retry = 50 * time.Millisecond
	mock.ExpectSetNX("lock:room:1", "token-1", 30*time.Second).SetVal(false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := l.Lock(ctx, "room:1")
	assert.True(t, errors.Is(err, ErrLockBusy))
}

func TestRedisLockerError(t *testing.T) {
	l, mock := newTestRedisLocker()
	mock.ExpectSetNX("lock:room:1", "token-1", 30*time.Second).SetErr(errors.New("connection refused"))

	_, err := l.Lock(context.Background(), "room:1")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrLockBusy))
}
