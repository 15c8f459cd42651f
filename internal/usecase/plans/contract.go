package plans

import (
	"context"
	"time"

	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/domain/report"
	"github.com/kailas-cloud/trajplan/internal/usecase/planning"
)

// Planner computes a plan.
type Planner interface {
	Plan(ctx context.Context, in planning.Inputs, params domain.Params) (planning.Plan, error)
}

// tunedPlanner exposes the sampling options a planner runs with.
type tunedPlanner interface {
	Options() planning.Options
}

// Repository persists reports.
type Repository interface {
	Save(ctx context.Context, r report.Report, ttl time.Duration) error
	Get(ctx context.Context, id string) (report.Report, error)
	Delete(ctx context.Context, id string) error
}

// Cache maps a request fingerprint to the id of the plan that answered it.
type Cache interface {
	Lookup(ctx context.Context, request []byte) (string, bool)
	Remember(ctx context.Context, request []byte, id string)
}
