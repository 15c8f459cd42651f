package planning

import (
	"math"

	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
	"github.com/kailas-cloud/trajplan/internal/domain/trajectory"
)

const (
	invPhi        = 0.6180339887498949 // (sqrt(5)-1)/2
	maxRefineIter = 64
)

// Clearance returns the minimum distance from t to any of the critical structures,
// in mm. The segment is sampled coarsely first; the bracket around the closest sample
// is then refined by golden-section search until it is shorter than precision mm.
// +Inf means no structure is measurable from the segment.
func Clearance(t trajectory.Trajectory, critical []CriticalMask, step, precision float64) float64 {
	dist := func(s float64) float64 {
		p := t.At(s)
		d := math.Inf(1)
		for _, m := range critical {
			d = math.Min(d, m.Distance(p))
		}
		return d
	}

	spacing := math.Inf(1)
	for _, m := range critical {
		if s := minSpacing(m); s > 0 {
			spacing = math.Min(spacing, s)
		}
	}
	if math.IsInf(spacing, 1) {
		spacing = 0
	}

	n := segments(t.Length(), step, spacing)
	if n == 0 {
		return dist(0)
	}
	best, at := math.Inf(1), 0
	for i := 0; i <= n; i++ {
		if d := dist(float64(i) / float64(n)); d < best {
			best, at = d, i
		}
	}
	if math.IsInf(best, 1) {
		return best
	}

	lo := float64(max(at-1, 0)) / float64(n)
	hi := float64(min(at+1, n)) / float64(n)
	return math.Min(best, goldenMin(dist, lo, hi, precision/t.Length()))
}

// goldenMin returns the smallest value of f observed while narrowing [a, b] around a
// local minimum until the bracket is no wider than tol.
func goldenMin(f func(float64) float64, a, b, tol float64) float64 {
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, fd := f(c), f(d)
	best := math.Min(fc, fd)
	for i := 0; i < maxRefineIter && b-a > tol; i++ {
		if fc < fd {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = f(d)
		}
		best = math.Min(best, math.Min(fc, fd))
	}
	return best
}

type scored struct {
	t         trajectory.Trajectory
	clearance float64
}

// shorter orders candidates of equal safety: shorter first, then lower target id.
func (c scored) shorter(o scored) bool {
	if lc, lo := c.t.Length(), o.t.Length(); lc != lo {
		return lc < lo
	}
	return c.t.Target().ID < o.t.Target().ID
}

// pick returns the candidate with the greatest clearance. Every candidate within
// precision of the greatest clearance is tied with it; ties go to the shorter
// trajectory, then the lower target id.
func pick(cands []scored, precision float64) *scored {
	if len(cands) == 0 {
		return nil
	}
	top := math.Inf(-1)
	for _, c := range cands {
		top = math.Max(top, c.clearance)
	}
	var best *scored
	for i := range cands {
		c := &cands[i]
		if c.clearance != top && c.clearance <= top-precision {
			continue
		}
		if best == nil || c.shorter(*best) {
			best = c
		}
	}
	return best
}

// SelectBest picks, for every entry, the candidate with the greatest clearance from
// the critical structures among those no longer than maxLength. Entries with no such
// candidate are reported as unreachable.
func SelectBest(
	set trajectory.Set,
	critical []CriticalMask,
	maxLength, precision float64,
	opts Options,
) trajectory.Selection {
	opts = opts.withDefaults()
	if math.IsNaN(maxLength) || maxLength <= 0 {
		maxLength = math.Inf(1)
	}

	picks := make([]*scored, set.Len())
	forEachEntry(set.Len(), opts.Workers, func(i int) {
		var cands []scored
		for _, t := range set.At(i).Trajectories {
			if t.Length() > maxLength {
				continue
			}
			cands = append(cands, scored{t: t, clearance: Clearance(t, critical, opts.SamplingStep, precision)})
		}
		picks[i] = pick(cands, precision)
	})

	best := make([]trajectory.Best, 0, len(picks))
	var unreachable []geometry.NamedPoint
	for i, p := range picks {
		if p == nil {
			unreachable = append(unreachable, set.At(i).Entry)
			continue
		}
		best = append(best, trajectory.Best{Trajectory: p.t, Clearance: p.clearance})
	}
	return trajectory.NewSelection(best, unreachable)
}
