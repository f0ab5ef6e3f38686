package bench

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tezrry/oslab/internal/sys/futex"
	"github.com/tezrry/oslab/link"
	"github.com/tezrry/oslab/pkg/errors"
)

type wakeTrial func(waiters int) (time.Duration, error)

// RunWakeLatency parks Workers waiters on one primitive per trial, releases
// them all at once and measures how long it takes until every waiter has
// returned. The Result carries the mean trial time.
func RunWakeLatency(ctx context.Context, config ...ConfigFunc) (*Result, error) {
	c, err := newConfig(config...)
	if err != nil {
		return nil, err
	}

	var trial wakeTrial
	switch c.Kind {
	case KindFutex:
		trial = wakeFutex
	case KindCond:
		trial = wakeCond
	default:
		return nil, fmt.Errorf("%w: %q has no wake trial", errors.ErrUnknownLocker, c.Kind)
	}

	var total time.Duration
	for i := 0; i < c.Trials; i++ {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		var d time.Duration
		if d, err = trial(c.Workers); err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		total += d
	}

	res := &Result{
		Bench:   BenchWake,
		Kind:    c.Kind,
		Workers: c.Workers,
		Rounds:  c.Trials,
		Elapsed: total / time.Duration(c.Trials),
	}
	c.Logger.Infof("%s", res)
	return res, nil
}

func waitForReady(ready *atomic.Int32, n int) {
	for ready.Load() < int32(n) {
		runtime.Gosched()
	}
}

func wakeFutex(waiters int) (time.Duration, error) {
	var (
		g     errgroup.Group
		ready atomic.Int32
		word  = new(uint32)
	)

	for i := 0; i < waiters; i++ {
		g.Go(func() error {
			ready.Add(1)
			for atomic.LoadUint32(word) == 0 {
				// Errors are wakeups like any other, the word decides.
				_ = futex.Wait(word, 0, futex.Private)
			}
			return nil
		})
	}

	waitForReady(&ready, waiters)
	t0 := link.Nanotime()
	atomic.StoreUint32(word, 1)
	_, wakeErr := futex.Wake(word, futex.WakeAll, futex.Private)
	err := g.Wait()
	elapsed := time.Duration(link.Nanotime() - t0)
	if err == nil {
		err = wakeErr
	}
	return elapsed, err
}

func wakeCond(waiters int) (time.Duration, error) {
	var (
		g     errgroup.Group
		ready atomic.Int32
		mu    sync.Mutex
		flag  bool
	)
	cond := sync.NewCond(&mu)

	for i := 0; i < waiters; i++ {
		g.Go(func() error {
			mu.Lock()
			ready.Add(1)
			for !flag {
				cond.Wait()
			}
			mu.Unlock()
			return nil
		})
	}

	waitForReady(&ready, waiters)
	t0 := link.Nanotime()
	mu.Lock()
	flag = true
	cond.Broadcast()
	mu.Unlock()
	err := g.Wait()
	return time.Duration(link.Nanotime() - t0), err
}
