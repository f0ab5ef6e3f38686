package gopool

import (
	"context"

	"github.com/panjf2000/ants/v2"

	"github.com/tezrry/oslab/pkg/logging"
)

type antsLogger struct {
	logging.Logger
}

func (l antsLogger) Printf(format string, args ...interface{}) {
	l.Infof(format, args...)
}

// AntsPool runs tasks on an ants goroutine pool of fixed capacity. Schedule
// blocks while all workers are busy.
type AntsPool struct {
	pool *ants.Pool
}

var _ Pool = (*AntsPool)(nil)

func NewAntsPool(size int, logger logging.Logger) (*AntsPool, error) {
	if logger == nil {
		logger = logging.GetDefaultLogger()
	}

	p, err := ants.NewPool(size,
		ants.WithPreAlloc(true),
		ants.WithLogger(antsLogger{logger}),
		ants.WithPanicHandler(func(v interface{}) {
			logger.Errorf("task panicked in gopool: %v", v)
		}))
	if err != nil {
		return nil, err
	}

	return &AntsPool{pool: p}, nil
}

func (inst *AntsPool) Schedule(ctx context.Context, f TaskFunc, param ...interface{}) error {
	task := newTask(ctx, f, param...)
	err := inst.pool.Submit(func() {
		task.run()
		freeTask(task)
	})
	if err != nil {
		freeTask(task)
	}
	return err
}

// ScheduleFuture runs f and sends either its response or its error to chRsp.
func (inst *AntsPool) ScheduleFuture(ctx context.Context, chRsp chan interface{}, f TaskFutureFunc, param ...interface{}) error {
	task := newTaskFuture(ctx, chRsp, f, param...)
	err := inst.pool.Submit(func() {
		task.run()
		freeTaskFuture(task)
	})
	if err != nil {
		freeTaskFuture(task)
	}
	return err
}

func (inst *AntsPool) Running() int {
	return inst.pool.Running()
}

func (inst *AntsPool) Release() {
	inst.pool.Release()
}
