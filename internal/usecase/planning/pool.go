package planning

import (
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/trajplan/internal/domain/trajectory"
)

// forEachEntry runs fn once per entry of set on at most workers goroutines.
// Each call writes only its own index, so no locking is needed.
func forEachEntry(n, workers int, fn func(i int)) {
	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

// narrow evaluates keep for every trajectory, one entry per task, and returns the
// narrowed set.
func narrow(set trajectory.Set, workers int, keep func(t trajectory.Trajectory) bool) trajectory.Set {
	flags := make([][]bool, set.Len())
	forEachEntry(set.Len(), workers, func(i int) {
		list := set.At(i).Trajectories
		f := make([]bool, len(list))
		for j, t := range list {
			f[j] = keep(t)
		}
		flags[i] = f
	})
	return set.Filter(flags)
}
