package bench

import (
	"fmt"

	"github.com/tezrry/oslab/pkg/errors"
	"github.com/tezrry/oslab/pkg/logging"
)

type ConfigFunc func(c *Config)

type Config struct {
	// Workers is the number of goroutines, waiters or child processes a run
	// drives concurrently.
	Workers int

	// Iterations is the number of lock/increment/unlock rounds per worker.
	Iterations int

	// Trials is the number of wake rounds the wake latency run averages over.
	Trials int

	// Kind selects the primitive under test, see the Kind constants.
	Kind Kind

	Logger logging.Logger
}

func defaultConfig() Config {
	return Config{
		Workers:    2,
		Iterations: 10_000_000,
		Trials:     1000,
		Kind:       KindFutex,
	}
}

func WithConfig(config *Config) ConfigFunc {
	return func(c *Config) {
		*c = *config
	}
}

func WithWorkers(num int) ConfigFunc {
	return func(c *Config) {
		c.Workers = num
	}
}

func WithIterations(num int) ConfigFunc {
	return func(c *Config) {
		c.Iterations = num
	}
}

func WithTrials(num int) ConfigFunc {
	return func(c *Config) {
		c.Trials = num
	}
}

func WithKind(kind Kind) ConfigFunc {
	return func(c *Config) {
		c.Kind = kind
	}
}

func WithLogger(logger logging.Logger) ConfigFunc {
	return func(c *Config) {
		c.Logger = logger
	}
}

func newConfig(config ...ConfigFunc) (Config, error) {
	c := defaultConfig()
	for _, cf := range config {
		cf(&c)
	}

	if c.Workers < 1 {
		return c, fmt.Errorf("%w: Workers MUST be greater than 0, got %d", errors.ErrInvalidConfig, c.Workers)
	}
	if c.Iterations < 1 {
		return c, fmt.Errorf("%w: Iterations MUST be greater than 0, got %d", errors.ErrInvalidConfig, c.Iterations)
	}
	if c.Trials < 1 {
		return c, fmt.Errorf("%w: Trials MUST be greater than 0, got %d", errors.ErrInvalidConfig, c.Trials)
	}
	if c.Logger == nil {
		c.Logger = logging.GetDefaultLogger()
	}

	return c, nil
}
