package planning

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kailas-cloud/trajplan/internal/domain/trajectory"
)

// IncidenceAngle returns the angle, in degrees, between t and the perpendicular to the
// cortical surface at t's entry: 0 means the trajectory meets the surface head-on,
// 90 means it grazes it. ok is false when no surface can be found near the entry.
func IncidenceAngle(t trajectory.Trajectory, cortex SurfaceMask, radius float64) (deg float64, ok bool) {
	n, ok := cortex.SurfaceNormal(t.Entry().Point, radius)
	if !ok {
		return 0, false
	}
	return angleTo(t.Direction(), n), true
}

// angleTo returns the angle in degrees between direction d and the line along n.
func angleTo(d, n r3.Vec) float64 {
	c := math.Min(1, math.Abs(r3.Dot(d, n)))
	return math.Acos(c) * 180 / math.Pi
}

// ExcludeShallowAngles removes trajectories whose incidence angle exceeds maxAngleDeg.
// Trajectories whose entry has no estimable surface orientation are removed as well.
func ExcludeShallowAngles(set trajectory.Set, cortex SurfaceMask, maxAngleDeg float64, opts Options) trajectory.Set {
	opts = opts.withDefaults()
	// The normal depends only on the entry, so it is estimated once per entry.
	flags := make([][]bool, set.Len())
	forEachEntry(set.Len(), opts.Workers, func(i int) {
		c := set.At(i)
		f := make([]bool, len(c.Trajectories))
		flags[i] = f
		if len(c.Trajectories) == 0 {
			return
		}
		n, ok := cortex.SurfaceNormal(c.Entry.Point, opts.NormalRadius)
		if !ok {
			return
		}
		for j, t := range c.Trajectories {
			f[j] = angleTo(t.Direction(), n) <= maxAngleDeg
		}
	})
	return set.Filter(flags)
}
