package trajplan

import (
	"context"

	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/usecase/planning"
)

// --- planner mock ---

type mockPlanner struct {
	planFn func(ctx context.Context, in planning.Inputs, params domain.Params) (planning.Plan, error)
}

func (m *mockPlanner) Plan(ctx context.Context, in planning.Inputs, params domain.Params) (planning.Plan, error) {
	return m.planFn(ctx, in, params)
}
