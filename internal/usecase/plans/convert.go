package plans

import (
	"time"

	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
	"github.com/kailas-cloud/trajplan/internal/domain/report"
	"github.com/kailas-cloud/trajplan/internal/usecase/planning"
)

// FromPlan converts a computed plan into a report.
func FromPlan(id string, createdAt time.Time, p planning.Plan) report.Report {
	best := p.Selection.Best()
	r := report.Report{
		ID:          id,
		CreatedAt:   createdAt,
		Params:      p.Params,
		Best:        make([]report.Choice, len(best)),
		Unreachable: p.Selection.Unreachable(),
		Validated:   make([]report.Candidates, 0, p.Validated.Len()),
		Stats:       make([]report.StageStat, len(p.Stats)),
		Elapsed:     p.Elapsed,
	}
	for i, b := range best {
		r.Best[i] = report.Choice{
			Entry:     b.Trajectory.Entry(),
			Target:    b.Trajectory.Target(),
			Length:    b.Length(),
			Clearance: b.Clearance,
		}
	}
	for _, c := range p.Validated.Entries() {
		ids := make([]geometry.ID, len(c.Trajectories))
		for j, t := range c.Trajectories {
			ids[j] = t.Target().ID
		}
		r.Validated = append(r.Validated, report.Candidates{Entry: c.Entry.ID, Targets: ids})
	}
	for i, s := range p.Stats {
		r.Stats[i] = report.StageStat{Stage: string(s.Stage), Elapsed: s.Elapsed, Before: s.Before, After: s.After}
	}
	return r
}
