package gopool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAntsPoolSchedule(t *testing.T) {
	p, err := NewAntsPool(4, nil)
	require.NoError(t, err)
	defer p.Release()

	var (
		wg  sync.WaitGroup
		sum atomic.Int64
	)
	wg.Add(100)
	for i := 0; i < 100; i++ {
		err = p.Schedule(context.Background(), func(ctx context.Context, param ...interface{}) {
			defer wg.Done()
			sum.Add(int64(param[0].(int)))
		}, i)
		require.NoError(t, err)
	}
	wg.Wait()
	require.Equal(t, int64(4950), sum.Load())
}

func TestAntsPoolScheduleCanceled(t *testing.T) {
	p, err := NewAntsPool(1, nil)
	require.NoError(t, err)
	defer p.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chRsp := make(chan interface{}, 1)
	err = p.ScheduleFuture(ctx, chRsp, func(ctx context.Context, param ...interface{}) (interface{}, error) {
		return "ran", nil
	})
	require.NoError(t, err)
	require.ErrorIs(t, (<-chRsp).(error), context.Canceled)
}

func TestAntsPoolScheduleFuture(t *testing.T) {
	p, err := NewAntsPool(2, nil)
	require.NoError(t, err)
	defer p.Release()

	errBoom := errors.New("boom")
	chRsp := make(chan interface{}, 2)
	require.NoError(t, p.ScheduleFuture(context.Background(), chRsp, func(ctx context.Context, param ...interface{}) (interface{}, error) {
		return param[0].(int) * 2, nil
	}, 21))
	require.NoError(t, p.ScheduleFuture(context.Background(), chRsp, func(ctx context.Context, param ...interface{}) (interface{}, error) {
		return nil, errBoom
	}))

	var got []interface{}
	got = append(got, <-chRsp, <-chRsp)
	require.Contains(t, got, 42)
	require.Contains(t, got, errBoom)
}
