package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/valyala/bytebufferpool"
)

// Bench names the driver that produced a Result.
type Bench string

const (
	BenchCounter Bench = "counter"
	BenchWake    Bench = "wake"
	BenchProcess Bench = "process"
)

type Result struct {
	Bench   Bench
	Kind    Kind
	Workers int
	// Rounds is the iteration count per worker, or the trial count of a wake run.
	Rounds int
	// Counter is the final shared counter of counter and process runs.
	Counter uint64
	// Elapsed is the wall time of the whole run, or the mean time of one
	// trial for wake runs.
	Elapsed time.Duration
}

// Ops is the number of critical sections the run executed.
func (r *Result) Ops() int64 {
	return int64(r.Workers) * int64(r.Rounds)
}

func (r *Result) OpsPerSec() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops()) / r.Elapsed.Seconds()
}

func (r *Result) String() string {
	switch r.Bench {
	case BenchWake:
		return fmt.Sprintf("[%s] %s: %d waiters x %d trials, average wake time %v/waiter (total %v)",
			r.Bench, r.Kind, r.Workers, r.Rounds, r.Elapsed/time.Duration(r.Workers), r.Elapsed)
	default:
		return fmt.Sprintf("[%s] %s: %dx%d in %v, counter=%d, %.2f Mops/s",
			r.Bench, r.Kind, r.Workers, r.Rounds, r.Elapsed, r.Counter, r.OpsPerSec()/1e6)
	}
}

type Report struct {
	Title   string
	Results []*Result
}

func (rp *Report) Add(r *Result) {
	rp.Results = append(rp.Results, r)
}

func (rp *Report) WriteTo(w io.Writer) (int64, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if rp.Title != "" {
		_, _ = buf.WriteString(rp.Title)
		_ = buf.WriteByte('\n')
	}
	for _, r := range rp.Results {
		_, _ = buf.WriteString(r.String())
		_ = buf.WriteByte('\n')
	}
	return buf.WriteTo(w)
}
