package planning

import (
	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
	"github.com/kailas-cloud/trajplan/internal/domain/trajectory"
)

// BuildPairs pairs every entry with every target. Each entry's list follows target order.
func BuildPairs(entries, targets geometry.PointSet) trajectory.Set {
	cands := make([]trajectory.Candidates, entries.Len())
	for i := 0; i < entries.Len(); i++ {
		e := entries.At(i)
		list := make([]trajectory.Trajectory, targets.Len())
		for j := 0; j < targets.Len(); j++ {
			list[j] = trajectory.New(e, targets.At(j))
		}
		cands[i] = trajectory.Candidates{Entry: e, Trajectories: list}
	}
	// Entry ids are unique and every list is built from its own entry.
	set, err := trajectory.NewSet(cands)
	if err != nil {
		panic("planning: " + err.Error())
	}
	return set
}
