package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/trajplan/internal/usecase/planning"
)

// Planning Prometheus metrics.
var (
	PlanningStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trajplan",
			Name:      "planning_stage_duration_seconds",
			Help:      "Planning stage duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"},
	)

	PlanningItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trajplan",
			Name:      "planning_stage_items_total",
			Help:      "Points or trajectories entering and leaving each planning stage",
		},
		[]string{"stage", "direction"}, // "in" / "out"
	)

	PlansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trajplan",
			Name:      "plans_total",
			Help:      "Total number of planning requests by outcome",
		},
		[]string{"outcome"}, // "ok" / "cached" / "invalid" / "error"
	)

	PlanCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trajplan",
			Name:      "plan_cache_total",
			Help:      "Plan cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var planningMetricsRegistered bool

// RegisterPlanningMetrics registers Prometheus planning metrics. Must be called once from main.
func RegisterPlanningMetrics() {
	if planningMetricsRegistered {
		return
	}
	prometheus.MustRegister(PlanningStageDuration)
	prometheus.MustRegister(PlanningItemsTotal)
	prometheus.MustRegister(PlansTotal)
	prometheus.MustRegister(PlanCacheTotal)
	planningMetricsRegistered = true
}

// StageObserver records planning stages into the package metrics.
type StageObserver struct{}

// ObserveStage implements planning.Observer.
func (StageObserver) ObserveStage(stage planning.Stage, elapsed time.Duration, before, after int) {
	s := string(stage)
	PlanningStageDuration.WithLabelValues(s).Observe(elapsed.Seconds())
	PlanningItemsTotal.WithLabelValues(s, "in").Add(float64(before))
	PlanningItemsTotal.WithLabelValues(s, "out").Add(float64(after))
}

var _ planning.Observer = StageObserver{}
