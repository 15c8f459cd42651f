// Package geometry holds the physical-space value types shared by the planner:
// points, identified points and ordered point sets.
package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point is an immutable position in physical (world) space, millimetres.
type Point struct {
	v r3.Vec
}

// NewPoint creates a Point from its coordinates.
func NewPoint(x, y, z float64) Point {
	return Point{v: r3.Vec{X: x, Y: y, Z: z}}
}

// FromVec wraps a gonum vector as a Point.
func FromVec(v r3.Vec) Point { return Point{v: v} }

// X returns the first coordinate.
func (p Point) X() float64 { return p.v.X }

// Y returns the second coordinate.
func (p Point) Y() float64 { return p.v.Y }

// Z returns the third coordinate.
func (p Point) Z() float64 { return p.v.Z }

// Vec returns the point as a gonum vector.
func (p Point) Vec() r3.Vec { return p.v }

// Sub returns the displacement p - q.
func (p Point) Sub(q Point) r3.Vec { return r3.Sub(p.v, q.v) }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return r3.Norm(r3.Sub(p.v, q.v)) }

// Lerp returns a + t*(b - a).
func Lerp(a, b Point, t float64) Point {
	return Point{v: r3.Add(a.v, r3.Scale(t, r3.Sub(b.v, a.v)))}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p.v.X, p.v.Y, p.v.Z)
}
