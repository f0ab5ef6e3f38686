// Command futexbench compares the futex mutex with other lock and wake
// primitives.
//
//	futexbench lock  [-workers 2] [-iterations 10000000] [-kinds futex,mutex,...]
//	futexbench wake  [-workers 8] [-trials 1000] [-kinds futex,cond]
//	futexbench proc  [-workers 2] [-iterations 10000000]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tezrry/oslab/bench"
	"github.com/tezrry/oslab/pkg/logging"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <lock|wake|proc> [flags]\n", os.Args[0])
}

func parseKinds(s string, all []bench.Kind) ([]bench.Kind, error) {
	if s == "" {
		return all, nil
	}

	var kinds []bench.Kind
	for _, f := range strings.Split(s, ",") {
		k, err := bench.ParseKind(f)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return flag.ErrHelp
	}

	cmd, args := args[0], args[1:]
	if cmd == bench.ChildCommand {
		path, iterations, err := bench.ParseChildArgs(args)
		if err != nil {
			return err
		}
		return bench.RunChild(path, iterations)
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	workers := fs.Int("workers", 0, "number of concurrent workers, waiters or processes")
	iterations := fs.Int("iterations", 10_000_000, "lock/increment/unlock rounds per worker")
	trials := fs.Int("trials", 1000, "wake rounds to average over")
	kinds := fs.String("kinds", "", "comma separated primitives to compare, all by default")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := []bench.ConfigFunc{
		bench.WithIterations(*iterations),
		bench.WithTrials(*trials),
	}
	if *workers > 0 {
		opts = append(opts, bench.WithWorkers(*workers))
	} else if cmd == "wake" {
		opts = append(opts, bench.WithWorkers(8))
	}

	var (
		rp  bench.Report
		res *bench.Result
		err error
	)
	switch cmd {
	case "lock":
		ks, err := parseKinds(*kinds, bench.CounterKinds)
		if err != nil {
			return err
		}
		rp.Title = "Comparing lock primitives on a shared counter"
		for _, k := range ks {
			if res, err = bench.RunCounter(ctx, append(opts, bench.WithKind(k))...); err != nil {
				return err
			}
			rp.Add(res)
		}

	case "wake":
		ks, err := parseKinds(*kinds, bench.WakeKinds)
		if err != nil {
			return err
		}
		rp.Title = "Comparing wake latency"
		for _, k := range ks {
			if res, err = bench.RunWakeLatency(ctx, append(opts, bench.WithKind(k))...); err != nil {
				return err
			}
			rp.Add(res)
		}

	case "proc":
		exe, err := os.Executable()
		if err != nil {
			return err
		}
		rp.Title = "Inter-process futex mutex on a shared counter"
		if res, err = bench.RunProcesses(ctx, exe, opts...); err != nil {
			return err
		}
		rp.Add(res)

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}

	_, err = rp.WriteTo(os.Stdout)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()

	if err != nil && err != flag.ErrHelp {
		logging.Errorf("futexbench: %v", err)
		logging.Cleanup()
		os.Exit(1)
	}
	logging.Cleanup()
}
