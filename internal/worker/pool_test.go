package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// redisCaido answers every BRPop with a connection error.
type redisCaido struct {
	redis.Cmdable
	lecturas atomic.Int64
}

func (r *redisCaido) BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd {
	r.lecturas.Add(1)
	return redis.NewStringSliceResult(nil, errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"))
}

func TestPool_RedisCaidoEspera(t *testing.T) {
	rdb := &redisCaido{}
	p := NewPool(rdb, nil)
	p.backoff = 100 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 450*time.Millisecond)
	defer cancel()

	p.Start(ctx, 1)
	p.Wait()

	// one read, then one per backoff period
	assert.LessOrEqual(t, rdb.lecturas.Load(), int64(6))
	assert.GreaterOrEqual(t, rdb.lecturas.Load(), int64(2))
}

func TestPool_RedisCaidoTerminaConCtx(t *testing.T) {
	rdb := &redisCaido{}
	p := NewPool(rdb, nil)
	p.backoff = time.Hour
	ctx, cancel := context.WithCancel(context.Background())

	p.Start(ctx, 2)
	assert.Eventually(t, func() bool { return rdb.lecturas.Load() >= 2 }, time.Second, 10*time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() { p.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not stop while backing off")
	}
}
