package planning

import (
	"time"

	"go.uber.org/zap"
)

// StageStat is one stage's observation.
type StageStat struct {
	Stage   Stage         `json:"stage"`
	Elapsed time.Duration `json:"elapsed_ns"`
	Before  int           `json:"before"`
	After   int           `json:"after"`
}

type nopObserver struct{}

func (nopObserver) ObserveStage(Stage, time.Duration, int, int) {}

// Observers fans each observation out to every non-nil observer.
type Observers []Observer

// ObserveStage implements Observer.
func (os Observers) ObserveStage(stage Stage, elapsed time.Duration, before, after int) {
	for _, o := range os {
		if o != nil {
			o.ObserveStage(stage, elapsed, before, after)
		}
	}
}

// recorder keeps every observation of a single run, in order.
type recorder struct {
	stats []StageStat
}

func (r *recorder) ObserveStage(stage Stage, elapsed time.Duration, before, after int) {
	r.stats = append(r.stats, StageStat{Stage: stage, Elapsed: elapsed, Before: before, After: after})
}

// LogObserver writes stage observations to a zap logger at debug level.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver creates a LogObserver.
func NewLogObserver(log *zap.Logger) *LogObserver {
	return &LogObserver{log: log}
}

// ObserveStage implements Observer.
func (o *LogObserver) ObserveStage(stage Stage, elapsed time.Duration, before, after int) {
	o.log.Debug("planning stage",
		zap.String("stage", string(stage)),
		zap.Duration("elapsed", elapsed),
		zap.Int("before", before),
		zap.Int("after", after),
	)
}

// timed runs fn and reports it as stage.
func timed[T any](obs Observer, stage Stage, before int, fn func() T, count func(T) int) T {
	start := time.Now()
	out := fn()
	obs.ObserveStage(stage, time.Since(start), before, count(out))
	return out
}
