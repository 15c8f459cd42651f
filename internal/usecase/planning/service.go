package planning

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/domain/trajectory"
	"github.com/kailas-cloud/trajplan/internal/logger"
)

// Plan is the outcome of one planning run.
type Plan struct {
	Params    domain.Params
	Selection trajectory.Selection
	Validated trajectory.Set // every trajectory that passed all constraints
	Stats     []StageStat
	Elapsed   time.Duration
}

// Service runs the planning pipeline: validation, constraint combination and
// best-trajectory selection.
type Service struct {
	opts     Options
	observer Observer
	logger   *zap.Logger
}

// New creates a Service with default options.
func New() *Service {
	return &Service{opts: DefaultOptions(), observer: nopObserver{}}
}

// WithWorkers bounds the number of entries processed concurrently.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.opts.Workers = n
	}
	return s
}

// WithSamplingStep sets the largest parametric step between segment samples.
func (s *Service) WithSamplingStep(step float64) *Service {
	if step > 0 && step <= 1 {
		s.opts.SamplingStep = step
	}
	return s
}

// WithNormalRadius sets the neighbourhood radius, in mm, for cortical surface normals.
func (s *Service) WithNormalRadius(mm float64) *Service {
	if mm > 0 {
		s.opts.NormalRadius = mm
	}
	return s
}

// WithObserver sets the stage observer.
func (s *Service) WithObserver(o Observer) *Service {
	if o != nil {
		s.observer = o
	}
	return s
}

// WithLogger sets the logger used when the request context carries none.
func (s *Service) WithLogger(l *zap.Logger) *Service {
	s.logger = l
	return s
}

// Options returns the effective options.
func (s *Service) Options() Options { return s.opts }

// Plan validates the inputs, combines every constraint and selects the best
// trajectory per entry. Nothing runs when validation fails.
func (s *Service) Plan(ctx context.Context, in Inputs, params domain.Params) (Plan, error) {
	if err := in.Validate(); err != nil {
		return Plan{}, err
	}
	if err := params.Validate(); err != nil {
		return Plan{}, err
	}

	log := s.log(ctx)
	rec := &recorder{}
	obs := Observers{s.observer, rec}
	start := time.Now()

	validated := combine(in, params.MaxAngleDeg, s.opts, obs)
	sel := timed(obs, StageOptimize, validated.Total(), func() trajectory.Selection {
		return SelectBest(validated, in.critical(), params.MaxLength, params.Precision, s.opts)
	}, trajectory.Selection.Len)

	p := Plan{
		Params:    params,
		Selection: sel,
		Validated: validated,
		Stats:     rec.stats,
		Elapsed:   time.Since(start),
	}
	log.Info("plan computed",
		zap.Int("entries", in.Entries.Len()),
		zap.Int("targets", in.Targets.Len()),
		zap.Int("validated", validated.Total()),
		zap.Int("best", sel.Len()),
		zap.Int("unreachable", len(sel.Unreachable())),
		zap.Duration("elapsed", p.Elapsed),
	)
	return p, nil
}

func (s *Service) log(ctx context.Context) *zap.Logger {
	l := logger.FromContext(ctx)
	if l.Core().Enabled(zap.FatalLevel) || s.logger == nil {
		return l
	}
	return s.logger
}

