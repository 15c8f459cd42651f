package trajplan

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	workers      int
	samplingStep float64
	normalRadius float64
	params       *Params

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithWorkers bounds the number of entry points processed concurrently.
// Default: GOMAXPROCS.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithSamplingStep sets the largest parametric step between samples taken along
// a trajectory. Default: 0.01. Samples are never farther apart than half a voxel.
func WithSamplingStep(step float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.samplingStep = step
	})
}

// WithNormalRadius sets the neighbourhood radius, in mm, used to estimate the
// cortical surface normal. Default: 5.
func WithNormalRadius(mm float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.normalRadius = mm
	})
}

// WithDefaultParams sets the parameters used by requests that carry none.
// Default: DefaultParams().
func WithDefaultParams(p Params) Option {
	return optionFunc(func(c *clientConfig) {
		c.params = &p
	})
}

// WithLogger enables structured logging for planning runs.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (run counts, run and stage durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
