package planning

import (
	"math"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
	"github.com/kailas-cloud/trajplan/internal/domain/mask"
	"github.com/kailas-cloud/trajplan/internal/domain/trajectory"
)

// sphere is an analytic ball-shaped structure.
type sphere struct {
	c geometry.Point
	r float64
}

func (s sphere) Classify(p geometry.Point) mask.Classification {
	if p.Distance(s.c) <= s.r {
		return mask.Occupied
	}
	return mask.Background
}

func (s sphere) Distance(p geometry.Point) float64 {
	return math.Max(0, p.Distance(s.c)-s.r)
}

// slab is occupied for lo <= x <= hi.
type slab struct{ lo, hi float64 }

func (s slab) Classify(p geometry.Point) mask.Classification {
	if p.X() >= s.lo && p.X() <= s.hi {
		return mask.Occupied
	}
	return mask.Background
}

func (s slab) Distance(p geometry.Point) float64 {
	switch {
	case p.X() < s.lo:
		return s.lo - p.X()
	case p.X() > s.hi:
		return p.X() - s.hi
	}
	return 0
}

// flatCortex reports the same outward normal everywhere, except at points listed in bare.
type flatCortex struct {
	normal r3.Vec
	bare   map[geometry.Point]bool
	calls  atomic.Int64
}

func (c *flatCortex) Classify(geometry.Point) mask.Classification { return mask.Background }

func (c *flatCortex) SurfaceNormal(p geometry.Point, _ float64) (r3.Vec, bool) {
	c.calls.Add(1)
	if c.bare[p] {
		return r3.Vec{}, false
	}
	return r3.Unit(c.normal), true
}

// everywhere classifies every point as occupied.
type everywhere struct{}

func (everywhere) Classify(geometry.Point) mask.Classification { return mask.Occupied }

// stageLog records observations.
type stageLog struct {
	stats []StageStat
}

func (l *stageLog) ObserveStage(stage Stage, elapsed time.Duration, before, after int) {
	l.stats = append(l.stats, StageStat{Stage: stage, Elapsed: elapsed, Before: before, After: after})
}

func np(id int, x, y, z float64) geometry.NamedPoint {
	return geometry.NamedPoint{ID: geometry.ID(id), Point: geometry.NewPoint(x, y, z)}
}

func mustPointSet(pts ...geometry.NamedPoint) *geometry.PointSet {
	s, err := geometry.NewPointSet(pts)
	if err != nil {
		panic(err)
	}
	return &s
}

// pairs flattens a set into entry id -> target ids for comparison.
func pairs(s trajectory.Set) map[geometry.ID][]geometry.ID {
	out := make(map[geometry.ID][]geometry.ID, s.Len())
	for _, c := range s.Entries() {
		ids := make([]geometry.ID, 0, len(c.Trajectories))
		for _, t := range c.Trajectories {
			ids = append(ids, t.Target().ID)
		}
		out[c.Entry.ID] = ids
	}
	return out
}
