package bench

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tezrry/oslab/container/lock"
	"github.com/tezrry/oslab/container/shm"
	"github.com/tezrry/oslab/link"
	"github.com/tezrry/oslab/pkg/errors"
)

// Layout of the region shared by RunProcesses and its children.
const (
	regionLockOff    = 0
	regionCounterOff = 8
	regionSize       = 16
)

// ChildCommand is the subcommand a child process is started with.
const ChildCommand = "child"

// ChildArgs returns the arguments exe receives for one child of RunProcesses.
func ChildArgs(path string, iterations int) []string {
	return []string{ChildCommand, "-region", path, "-iterations", strconv.Itoa(iterations)}
}

// ParseChildArgs parses the arguments following ChildCommand.
func ParseChildArgs(args []string) (path string, iterations int, err error) {
	fs := flag.NewFlagSet(ChildCommand, flag.ContinueOnError)
	fs.StringVar(&path, "region", "", "path of the shared region file")
	fs.IntVar(&iterations, "iterations", 0, "lock/increment/unlock rounds")
	if err = fs.Parse(args); err != nil {
		return "", 0, err
	}

	if path == "" {
		return "", 0, fmt.Errorf("%w: -region is required", errors.ErrInvalidConfig)
	}
	if iterations < 1 {
		return "", 0, fmt.Errorf("%w: iterations MUST be greater than 0, got %d", errors.ErrInvalidConfig, iterations)
	}
	return path, iterations, nil
}

// RunProcesses starts Workers copies of exe, each running RunChild against
// one shared region, and checks the counter they leave behind. exe must
// dispatch ChildArgs to RunChild.
func RunProcesses(ctx context.Context, exe string, config ...ConfigFunc) (*Result, error) {
	c, err := newConfig(config...)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "oslab-")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()

	r, err := shm.Create(filepath.Join(dir, "region"), regionSize)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Close()
	}()

	counter, err := r.Uint64(regionCounterOff)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	t0 := link.Nanotime()
	for i := 0; i < c.Workers; i++ {
		id := i
		cmd := exec.CommandContext(gctx, exe, ChildArgs(r.Path(), c.Iterations)...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		g.Go(func() error {
			if err := cmd.Run(); err != nil {
				return fmt.Errorf("child %d: %w", id, err)
			}
			return nil
		})
	}
	err = g.Wait()
	elapsed := time.Duration(link.Nanotime() - t0)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Bench:   BenchProcess,
		Kind:    KindFutex,
		Workers: c.Workers,
		Rounds:  c.Iterations,
		Counter: atomic.LoadUint64(counter),
		Elapsed: elapsed,
	}
	if want := uint64(res.Ops()); res.Counter != want {
		return res, fmt.Errorf("%w: processes counted %d, want %d", errors.ErrCounterMismatch, res.Counter, want)
	}

	c.Logger.Infof("%s", res)
	return res, nil
}

// RunChild opens the region at path and runs iterations rounds of
// lock, increment, unlock on its counter.
func RunChild(path string, iterations int) error {
	r, err := shm.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Close()
	}()

	mu, err := lock.SharedAt(r, regionLockOff)
	if err != nil {
		return err
	}
	counter, err := r.Uint64(regionCounterOff)
	if err != nil {
		return err
	}

	for i := 0; i < iterations; i++ {
		mu.Lock()
		*counter++
		mu.Unlock()
	}
	return nil
}
