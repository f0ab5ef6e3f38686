package bench

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tezrry/oslab/container/gopool"
	"github.com/tezrry/oslab/container/lock"
	"github.com/tezrry/oslab/link"
	"github.com/tezrry/oslab/pkg/errors"
)

const ctxCheckMask = 1<<16 - 1

// RunCounter has Workers goroutines each run Iterations rounds of
// lock, increment, unlock on one shared counter, then checks that no
// increment was lost.
func RunCounter(ctx context.Context, config ...ConfigFunc) (*Result, error) {
	c, err := newConfig(config...)
	if err != nil {
		return nil, err
	}

	var lk lock.ILocker
	if c.Kind != KindAtomic {
		if lk, err = NewLocker(c.Kind); err != nil {
			return nil, err
		}
	}

	pool, err := gopool.NewAntsPool(c.Workers, c.Logger)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var counter uint64
	start := make(chan struct{})
	task := func(ctx context.Context, _ ...interface{}) (interface{}, error) {
		<-start
		for i := 0; i < c.Iterations; i++ {
			if i&ctxCheckMask == ctxCheckMask && ctx.Err() != nil {
				return nil, ctx.Err()
			}

			if lk == nil {
				atomic.AddUint64(&counter, 1)
				continue
			}

			lk.Lock()
			counter++
			lk.Unlock()
		}
		return nil, nil
	}

	chRsp := make(chan interface{}, c.Workers)
	scheduled := 0
	for ; scheduled < c.Workers; scheduled++ {
		if err = pool.ScheduleFuture(ctx, chRsp, task); err != nil {
			err = fmt.Errorf("schedule worker %d: %w", scheduled, err)
			break
		}
	}

	c.Logger.Debugf("counter run %s: %d workers scheduled", c.Kind, scheduled)
	t0 := link.Nanotime()
	close(start)
	for i := 0; i < scheduled; i++ {
		if e, ok := (<-chRsp).(error); ok && err == nil {
			err = e
		}
	}
	elapsed := time.Duration(link.Nanotime() - t0)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Bench:   BenchCounter,
		Kind:    c.Kind,
		Workers: c.Workers,
		Rounds:  c.Iterations,
		Counter: atomic.LoadUint64(&counter),
		Elapsed: elapsed,
	}
	if want := uint64(res.Ops()); res.Counter != want {
		return res, fmt.Errorf("%w: %s counted %d, want %d", errors.ErrCounterMismatch, c.Kind, res.Counter, want)
	}

	c.Logger.Infof("%s", res)
	return res, nil
}
