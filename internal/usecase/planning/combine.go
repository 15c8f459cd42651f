package planning

import (
	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
	"github.com/kailas-cloud/trajplan/internal/domain/trajectory"
)

// Combine applies every constraint and returns the validated trajectories per entry:
// targets outside the target structure are dropped, the remaining targets are paired
// with every entry, and pairs crossing the ventricles or vessels or meeting the cortex
// at more than maxAngleDeg are removed. Each stage is reported to obs (may be nil).
func Combine(in Inputs, maxAngleDeg float64, opts Options, obs Observer) (trajectory.Set, error) {
	if err := in.Validate(); err != nil {
		return trajectory.Set{}, err
	}
	p := domain.DefaultParams()
	p.MaxAngleDeg = maxAngleDeg
	if err := p.Validate(); err != nil {
		return trajectory.Set{}, err
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return combine(in, maxAngleDeg, opts.withDefaults(), obs), nil
}

// combine runs the stages cheapest first. in must be valid.
func combine(in Inputs, maxAngleDeg float64, opts Options, obs Observer) trajectory.Set {
	total := func(s trajectory.Set) int { return s.Total() }

	targets := timed(obs, StageTargets, in.Targets.Len(), func() geometry.PointSet {
		return FilterTargets(*in.Targets, in.Target)
	}, geometry.PointSet.Len)

	set := timed(obs, StagePairs, in.Entries.Len()*targets.Len(), func() trajectory.Set {
		return BuildPairs(*in.Entries, targets)
	}, total)

	set = timed(obs, StageVentricles, set.Total(), func() trajectory.Set {
		return ExcludeIntersecting(set, in.Ventricles, opts)
	}, total)

	set = timed(obs, StageVessels, set.Total(), func() trajectory.Set {
		return ExcludeIntersecting(set, in.Vessels, opts)
	}, total)

	return timed(obs, StageAngle, set.Total(), func() trajectory.Set {
		return ExcludeShallowAngles(set, in.Cortex, maxAngleDeg, opts)
	}, total)
}
