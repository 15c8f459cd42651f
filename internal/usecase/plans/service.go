package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/domain/report"
	"github.com/kailas-cloud/trajplan/internal/logger"
	"github.com/kailas-cloud/trajplan/internal/metrics"
	"github.com/kailas-cloud/trajplan/internal/usecase/planning"
)

// Request is one planning request.
type Request struct {
	Inputs planning.Inputs
	Params domain.Params
	// Raw is the serialized request. Together with Params and the planner's options it
	// forms the cache fingerprint. Empty disables caching.
	Raw []byte
}

// Service computes plans and keeps them retrievable by id.
type Service struct {
	planner Planner
	repo    Repository
	cache   Cache
	ttl     time.Duration
	now     func() time.Time
	newID   func() string
}

// New creates a plans service.
func New(planner Planner, repo Repository) *Service {
	return &Service{
		planner: planner,
		repo:    repo,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// WithCache enables answering identical requests with the stored plan.
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// WithPlanTTL sets how long stored plans are kept. Zero keeps them until deleted.
func (s *Service) WithPlanTTL(ttl time.Duration) *Service {
	s.ttl = ttl
	return s
}

// Create plans the request, stores the result and returns it.
// The bool reports whether the result came from the cache.
func (s *Service) Create(ctx context.Context, req Request) (report.Report, bool, error) {
	key := s.fingerprint(req)
	if rep, ok := s.cached(ctx, key); ok {
		metrics.PlansTotal.WithLabelValues("cached").Inc()
		return rep, true, nil
	}

	p, err := s.planner.Plan(ctx, req.Inputs, req.Params)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			metrics.PlansTotal.WithLabelValues("invalid").Inc()
		} else {
			metrics.PlansTotal.WithLabelValues("error").Inc()
		}
		return report.Report{}, false, fmt.Errorf("plan: %w", err)
	}

	rep := FromPlan(s.newID(), s.now().UTC(), p)
	if err := s.repo.Save(ctx, rep, s.ttl); err != nil {
		metrics.PlansTotal.WithLabelValues("error").Inc()
		return report.Report{}, false, fmt.Errorf("store plan: %w", err)
	}
	if s.cache != nil && len(key) > 0 {
		s.cache.Remember(ctx, key, rep.ID)
	}
	metrics.PlansTotal.WithLabelValues("ok").Inc()
	return rep, false, nil
}

// Get returns a stored plan.
func (s *Service) Get(ctx context.Context, id string) (report.Report, error) {
	rep, err := s.repo.Get(ctx, id)
	if err != nil {
		return report.Report{}, fmt.Errorf("get plan: %w", err)
	}
	return rep, nil
}

// Delete removes a stored plan.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// fingerprint identifies what a request computes: its body, the resolved parameters
// and the planner's sampling options. Nil when the request has no body.
func (s *Service) fingerprint(req Request) []byte {
	if len(req.Raw) == 0 {
		return nil
	}
	p := req.Params
	key := append([]byte(nil), req.Raw...)
	key = fmt.Appendf(key, "\x00max_angle_deg=%v precision=%v max_length=%v", p.MaxAngleDeg, p.Precision, p.MaxLength)
	if t, ok := s.planner.(tunedPlanner); ok {
		o := t.Options()
		key = fmt.Appendf(key, " sampling_step=%v normal_radius=%v", o.SamplingStep, o.NormalRadius)
	}
	return key
}

func (s *Service) cached(ctx context.Context, key []byte) (report.Report, bool) {
	if s.cache == nil || len(key) == 0 {
		return report.Report{}, false
	}
	id, ok := s.cache.Lookup(ctx, key)
	if !ok {
		return report.Report{}, false
	}
	rep, err := s.repo.Get(ctx, id)
	if err != nil {
		// The plan expired or was deleted after being cached.
		if !errors.Is(err, domain.ErrPlanNotFound) {
			logger.FromContext(ctx).Warn("Failed to load cached plan", zap.String("id", id), zap.Error(err))
		}
		return report.Report{}, false
	}
	return rep, true
}
