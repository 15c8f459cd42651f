package mask

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
)

// SurfaceNormal estimates the outward unit normal of the structure's boundary near p.
//
// The estimate is the direction from the centroid of the occupied voxels inside a
// physical ball of the given radius (centred on the voxel nearest p) back towards that
// centre. For a locally planar boundary the centroid lies on the normal line, so the
// estimate is exact up to voxelisation. ok is false when the ball is entirely occupied,
// entirely background or outside the grid: there is no boundary to orient against.
func (v *Volume) SurfaceNormal(p geometry.Point, radius float64) (normal r3.Vec, ok bool) {
	c := v.ContinuousIndex(p)
	ci := int(math.Floor(c.X + 0.5))
	cj := int(math.Floor(c.Y + 0.5))
	ck := int(math.Floor(c.Z + 0.5))

	reach := [3]int{
		int(math.Ceil(radius / v.step[0])),
		int(math.Ceil(radius / v.step[1])),
		int(math.Ceil(radius / v.step[2])),
	}
	r2 := radius * radius

	var sum r3.Vec
	var total, occupied int
	for dk := -reach[2]; dk <= reach[2]; dk++ {
		k := ck + dk
		if k < 0 || k >= v.dims[2] {
			continue
		}
		for dj := -reach[1]; dj <= reach[1]; dj++ {
			j := cj + dj
			if j < 0 || j >= v.dims[1] {
				continue
			}
			for di := -reach[0]; di <= reach[0]; di++ {
				i := ci + di
				if i < 0 || i >= v.dims[0] {
					continue
				}
				off := v.offset(float64(di), float64(dj), float64(dk))
				if r3.Dot(off, off) > r2 {
					continue
				}
				total++
				if v.labels[v.linear(i, j, k)] == Occupied {
					occupied++
					sum = r3.Add(sum, off)
				}
			}
		}
	}

	if occupied == 0 || occupied == total {
		return r3.Vec{}, false
	}
	centroid := r3.Scale(1/float64(occupied), sum)
	if r3.Norm(centroid) < 1e-9 {
		return r3.Vec{}, false
	}
	return r3.Unit(r3.Scale(-1, centroid)), true
}
