package planning

import (
	"math"

	"github.com/kailas-cloud/trajplan/internal/domain/mask"
	"github.com/kailas-cloud/trajplan/internal/domain/trajectory"
)

// maxSegments caps the number of samples on one segment.
const maxSegments = 1 << 16

// segments returns how many equal parametric steps a segment of the given length is
// sampled with: the step is the configured fraction, refined so that consecutive
// samples are never more than half a voxel apart.
func segments(length, step, spacing float64) int {
	if length <= 0 {
		return 0
	}
	if spacing > 0 {
		step = math.Min(step, 0.5*spacing/length)
	}
	n := int(math.Ceil(1/step - 1e-9))
	return min(max(n, 1), maxSegments)
}

func minSpacing(m any) float64 {
	if s, ok := m.(spacedMask); ok {
		return s.MinSpacing()
	}
	return 0
}

// Intersects reports whether any sample along t, endpoints included, is classified
// occupied by m.
func Intersects(t trajectory.Trajectory, m mask.Mask, step float64) bool {
	n := segments(t.Length(), step, minSpacing(m))
	if n == 0 {
		return m.Classify(t.Entry().Point) == mask.Occupied
	}
	for i := 0; i <= n; i++ {
		if m.Classify(t.At(float64(i)/float64(n))) == mask.Occupied {
			return true
		}
	}
	return false
}

// ExcludeIntersecting removes trajectories that pass through the structure. Entries
// left without candidates remain in the result with empty lists.
func ExcludeIntersecting(set trajectory.Set, m mask.Mask, opts Options) trajectory.Set {
	opts = opts.withDefaults()
	return narrow(set, opts.Workers, func(t trajectory.Trajectory) bool {
		return !Intersects(t, m, opts.SamplingStep)
	})
}
