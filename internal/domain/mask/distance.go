package mask

import (
	"math"

	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
)

// Distance returns the physical distance from p to the nearest occupied voxel centre,
// trilinearly interpolated between voxel centres. It is zero inside the structure and
// +Inf when the volume has no occupied voxels or p falls outside the grid.
//
// The distance field is computed on first use and cached. Axis spacing is taken from the
// transform's column lengths, which is exact for orthogonal direction matrices.
func (v *Volume) Distance(p geometry.Point) float64 {
	if v.count == 0 {
		return math.Inf(1)
	}
	c := v.ContinuousIndex(p)
	ci := [3]float64{c.X, c.Y, c.Z}
	for axis, x := range ci {
		if x < -0.5 || x > float64(v.dims[axis])-0.5 {
			return math.Inf(1)
		}
	}
	v.distOnce.Do(v.computeDistanceField)

	var lo [3]int
	var frac [3]float64
	for axis, x := range ci {
		x = math.Max(0, math.Min(x, float64(v.dims[axis]-1)))
		l := int(math.Floor(x))
		if l >= v.dims[axis]-1 {
			l = max(v.dims[axis]-2, 0)
		}
		lo[axis] = l
		frac[axis] = x - float64(l)
		if v.dims[axis] == 1 {
			frac[axis] = 0
		}
	}

	var sum float64
	for corner := 0; corner < 8; corner++ {
		w := 1.0
		var idx [3]int
		for axis := 0; axis < 3; axis++ {
			bit := (corner >> axis) & 1
			idx[axis] = min(lo[axis]+bit, v.dims[axis]-1)
			if bit == 1 {
				w *= frac[axis]
			} else {
				w *= 1 - frac[axis]
			}
		}
		if w == 0 {
			continue
		}
		sum += w * float64(v.dist[v.linear(idx[0], idx[1], idx[2])])
	}
	return sum
}

// computeDistanceField runs a separable exact Euclidean distance transform
// (lower envelope of parabolas, one pass per axis) over the occupied set.
func (v *Volume) computeDistanceField() {
	nx, ny, nz := v.dims[0], v.dims[1], v.dims[2]
	grid := make([]float32, len(v.labels))
	inf := float32(math.Inf(1))
	for i, l := range v.labels {
		if l != Occupied {
			grid[i] = inf
		}
	}

	longest := max(nx, ny, nz)
	line := make([]float64, longest)
	out := make([]float64, longest)
	hull := make([]int, longest)
	bounds := make([]float64, longest+1)

	pass := func(n, stride int, spacing float64, starts []int) {
		for _, start := range starts {
			for q := 0; q < n; q++ {
				line[q] = float64(grid[start+q*stride])
			}
			envelope1D(line[:n], spacing, out[:n], hull, bounds)
			for q := 0; q < n; q++ {
				grid[start+q*stride] = float32(out[q])
			}
		}
	}

	starts := make([]int, 0, ny*nz)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			starts = append(starts, v.linear(0, j, k))
		}
	}
	pass(nx, 1, v.step[0], starts)

	starts = starts[:0]
	for k := 0; k < nz; k++ {
		for i := 0; i < nx; i++ {
			starts = append(starts, v.linear(i, 0, k))
		}
	}
	pass(ny, nx, v.step[1], starts)

	starts = starts[:0]
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			starts = append(starts, v.linear(i, j, 0))
		}
	}
	pass(nz, nx*ny, v.step[2], starts)

	for i, d2 := range grid {
		grid[i] = float32(math.Sqrt(float64(d2)))
	}
	v.dist = grid
}

// envelope1D computes d[q] = min_p (spacing*(q-p))^2 + f[p] for one grid line.
// hull and bounds are scratch buffers of at least len(f) and len(f)+1.
func envelope1D(f []float64, spacing float64, d []float64, hull []int, bounds []float64) {
	n := len(f)
	k := -1
	for q := 0; q < n; q++ {
		if math.IsInf(f[q], 1) {
			continue
		}
		xq := float64(q) * spacing
		for {
			if k < 0 {
				k = 0
				hull[0] = q
				bounds[0] = math.Inf(-1)
				bounds[1] = math.Inf(1)
				break
			}
			xv := float64(hull[k]) * spacing
			s := ((f[q] + xq*xq) - (f[hull[k]] + xv*xv)) / (2 * (xq - xv))
			if s <= bounds[k] {
				k--
				continue
			}
			k++
			hull[k] = q
			bounds[k] = s
			bounds[k+1] = math.Inf(1)
			break
		}
	}

	if k < 0 {
		for q := range d {
			d[q] = math.Inf(1)
		}
		return
	}

	j := 0
	for q := 0; q < n; q++ {
		x := float64(q) * spacing
		for bounds[j+1] < x {
			j++
		}
		dx := x - float64(hull[j])*spacing
		d[q] = dx*dx + f[hull[j]]
	}
}
