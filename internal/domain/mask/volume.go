package mask

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
)

// Geometry describes how voxel indices map to physical space:
// physical = Origin + Direction * diag(Spacing) * ijk.
type Geometry struct {
	Dims      [3]int
	Origin    [3]float64
	Spacing   [3]float64
	Direction [9]float64 // row-major; all zeros means identity
}

// DefaultMaxVoxels bounds the grid size accepted by Decode when no limit is given.
const DefaultMaxVoxels = 1 << 26

// Voxels returns the number of voxels in the grid. It fails with ErrInvalidMask when a
// dimension is not positive or the product exceeds limit.
func (g Geometry) Voxels(limit int) (int, error) {
	n := 1
	for axis, d := range g.Dims {
		if d <= 0 {
			return 0, fmt.Errorf("%w: dimension %d must be positive, got %d", domain.ErrInvalidMask, axis, d)
		}
		if n > limit/d {
			return 0, fmt.Errorf("%w: grid %v exceeds %d voxels", domain.ErrInvalidMask, g.Dims, limit)
		}
		n *= d
	}
	return n, nil
}

// Volume is a labelled voxel grid with its physical transform.
// It is read-only after construction and safe for concurrent use.
type Volume struct {
	dims    [3]int
	origin  r3.Vec
	toPhys  [9]float64 // Direction * diag(Spacing), row-major
	toIndex [9]float64 // inverse of toPhys
	step    [3]float64 // physical length of one voxel step along each index axis
	labels  []Classification
	count   int

	distOnce sync.Once
	dist     []float32
}

// Compile-time check: Volume implements Mask.
var _ Mask = (*Volume)(nil)

// NewVolume validates the geometry and creates a Volume over labels
// (one classification per voxel, x fastest).
func NewVolume(g Geometry, labels []Classification) (*Volume, error) {
	n, err := g.Voxels(math.MaxInt)
	if err != nil {
		return nil, err
	}
	for axis := range g.Spacing {
		if !(g.Spacing[axis] > 0) {
			return nil, fmt.Errorf("%w: spacing %d must be positive, got %v", domain.ErrInvalidMask, axis, g.Spacing[axis])
		}
	}
	if len(labels) != n {
		return nil, fmt.Errorf("%w: expected %d labels, got %d", domain.ErrInvalidMask, n, len(labels))
	}

	dir := g.Direction
	if dir == ([9]float64{}) {
		dir = [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	}

	v := &Volume{
		dims:   g.Dims,
		origin: r3.Vec{X: g.Origin[0], Y: g.Origin[1], Z: g.Origin[2]},
		labels: labels,
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			v.toPhys[r*3+c] = dir[r*3+c] * g.Spacing[c]
		}
	}
	for c := 0; c < 3; c++ {
		v.step[c] = math.Sqrt(v.toPhys[c]*v.toPhys[c] + v.toPhys[3+c]*v.toPhys[3+c] + v.toPhys[6+c]*v.toPhys[6+c])
	}

	fwd := mat.NewDense(3, 3, v.toPhys[:])
	if mat.Det(fwd) == 0 {
		return nil, fmt.Errorf("%w: direction matrix is singular", domain.ErrInvalidMask)
	}
	var inv mat.Dense
	if err := inv.Inverse(fwd); err != nil {
		return nil, fmt.Errorf("%w: invert transform: %w", domain.ErrInvalidMask, err)
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			v.toIndex[r*3+c] = inv.At(r, c)
		}
	}

	for _, l := range labels {
		if l == Occupied {
			v.count++
		}
	}
	return v, nil
}

// Dims returns the voxel grid dimensions.
func (v *Volume) Dims() [3]int { return v.dims }

// OccupiedCount returns the number of occupied voxels.
func (v *Volume) OccupiedCount() int { return v.count }

// MinSpacing returns the smallest physical voxel dimension.
func (v *Volume) MinSpacing() float64 {
	return math.Min(v.step[0], math.Min(v.step[1], v.step[2]))
}

// ContinuousIndex maps a physical point into fractional voxel coordinates.
func (v *Volume) ContinuousIndex(p geometry.Point) r3.Vec {
	d := r3.Sub(p.Vec(), v.origin)
	m := &v.toIndex
	return r3.Vec{
		X: m[0]*d.X + m[1]*d.Y + m[2]*d.Z,
		Y: m[3]*d.X + m[4]*d.Y + m[5]*d.Z,
		Z: m[6]*d.X + m[7]*d.Y + m[8]*d.Z,
	}
}

// Physical maps a voxel index to its physical centre.
func (v *Volume) Physical(i, j, k int) geometry.Point {
	return geometry.FromVec(r3.Add(v.origin, v.offset(float64(i), float64(j), float64(k))))
}

func (v *Volume) offset(di, dj, dk float64) r3.Vec {
	m := &v.toPhys
	return r3.Vec{
		X: m[0]*di + m[1]*dj + m[2]*dk,
		Y: m[3]*di + m[4]*dj + m[5]*dk,
		Z: m[6]*di + m[7]*dj + m[8]*dk,
	}
}

// NearestIndex returns the voxel nearest to p and whether it lies inside the grid.
func (v *Volume) NearestIndex(p geometry.Point) (i, j, k int, ok bool) {
	c := v.ContinuousIndex(p)
	i = int(math.Floor(c.X + 0.5))
	j = int(math.Floor(c.Y + 0.5))
	k = int(math.Floor(c.Z + 0.5))
	return i, j, k, v.inBounds(i, j, k)
}

// Classify maps p to its nearest voxel and reads the label.
// Points outside the grid are Background.
func (v *Volume) Classify(p geometry.Point) Classification {
	i, j, k, ok := v.NearestIndex(p)
	if !ok {
		return Background
	}
	return v.labels[v.linear(i, j, k)]
}

// At returns the classification of voxel (i, j, k); out-of-grid voxels are Background.
func (v *Volume) At(i, j, k int) Classification {
	if !v.inBounds(i, j, k) {
		return Background
	}
	return v.labels[v.linear(i, j, k)]
}

func (v *Volume) inBounds(i, j, k int) bool {
	return i >= 0 && j >= 0 && k >= 0 && i < v.dims[0] && j < v.dims[1] && k < v.dims[2]
}

func (v *Volume) linear(i, j, k int) int {
	return i + v.dims[0]*(j+v.dims[1]*k)
}
