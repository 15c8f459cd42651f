package trajplan

import (
	"context"
	"time"

	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/usecase/planning"
	"github.com/kailas-cloud/trajplan/internal/usecase/plans"
)

// planner is the internal interface substituted in tests.
type planner interface {
	Plan(ctx context.Context, in planning.Inputs, params domain.Params) (planning.Plan, error)
}

// Client plans trajectories in-process. It is safe for concurrent use.
type Client struct {
	planner planner
	params  Params
	obs     *observer
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	svc := planning.New().
		WithWorkers(cfg.workers).
		WithSamplingStep(cfg.samplingStep).
		WithNormalRadius(cfg.normalRadius).
		WithObserver(obs)

	params := domain.DefaultParams()
	if cfg.params != nil {
		params = *cfg.params
	}
	return &Client{planner: svc, params: params, obs: obs}, nil
}

// Plan runs every constraint and selects the best trajectory per entry.
// Missing volumes and out-of-range parameters fail with ErrInvalidInput
// before any work is done.
func (c *Client) Plan(ctx context.Context, req Request) (res Result, err error) {
	defer func(start time.Time) { c.obs.observe("plan", start, err) }(time.Now())

	params := c.params
	if req.Params != nil {
		params = *req.Params
	}
	in := planning.Inputs{
		Entries: &req.Entries,
		Targets: &req.Targets,
	}
	// Absent volumes stay untyped nils so validation names them.
	if req.Target != nil {
		in.Target = req.Target
	}
	if req.Ventricles != nil {
		in.Ventricles = req.Ventricles
	}
	if req.Vessels != nil {
		in.Vessels = req.Vessels
	}
	if req.Cortex != nil {
		in.Cortex = req.Cortex
	}

	p, err := c.planner.Plan(ctx, in, params)
	if err != nil {
		return Result{}, err
	}

	rep := plans.FromPlan("", time.Time{}, p)
	return Result{
		Best:        rep.Best,
		Unreachable: rep.Unreachable,
		Validated:   rep.Validated,
		Stats:       p.Stats,
		Elapsed:     p.Elapsed,
	}, nil
}
