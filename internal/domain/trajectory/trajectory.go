// Package trajectory holds straight-line entry→target trajectories and the
// per-entry collections the planner narrows and selects from.
package trajectory

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
)

// Trajectory is a straight segment from a cortical entry point to a target point.
type Trajectory struct {
	entry  geometry.NamedPoint
	target geometry.NamedPoint
	length float64
}

// New creates a Trajectory and derives its length.
func New(entry, target geometry.NamedPoint) Trajectory {
	return Trajectory{entry: entry, target: target, length: entry.Point.Distance(target.Point)}
}

// Entry returns the entry point.
func (t Trajectory) Entry() geometry.NamedPoint { return t.entry }

// Target returns the target point.
func (t Trajectory) Target() geometry.NamedPoint { return t.target }

// Length returns |target - entry|.
func (t Trajectory) Length() float64 { return t.length }

// Direction returns the unit vector from entry to target (zero for a degenerate segment).
func (t Trajectory) Direction() r3.Vec {
	d := t.target.Point.Sub(t.entry.Point)
	if t.length == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/t.length, d)
}

// At returns the point at parameter s in [0, 1] along the segment.
func (t Trajectory) At(s float64) geometry.Point {
	return geometry.Lerp(t.entry.Point, t.target.Point, s)
}

// Equal reports whether both endpoints coincide.
func (t Trajectory) Equal(o Trajectory) bool {
	return t.entry.Point == o.entry.Point && t.target.Point == o.target.Point
}
