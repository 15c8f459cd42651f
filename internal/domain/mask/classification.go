// Package mask implements binary-labelled voxel volumes and the spatial
// queries the planner runs against them: point classification, distance to
// the occupied region and local surface orientation.
package mask

import (
	"fmt"

	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
)

// Classification is the two-valued result of testing a point against a mask.
type Classification uint8

const (
	// Background means the point is outside the labelled structure (or outside the volume).
	Background Classification = iota
	// Occupied means the point lies in a labelled voxel.
	Occupied
)

func (c Classification) String() string {
	switch c {
	case Background:
		return "background"
	case Occupied:
		return "occupied"
	default:
		return fmt.Sprintf("classification(%d)", uint8(c))
	}
}

// Mask classifies physical points against a labelled structure.
type Mask interface {
	Classify(p geometry.Point) Classification
}

// LabelSet lists the scalar labels that count as Occupied.
// An empty set treats every non-zero label as Occupied.
type LabelSet []float64

// DefaultOccupiedLabels matches binary label maps, where the structure is labelled 1.
var DefaultOccupiedLabels = LabelSet{1}

// Contains reports whether v is an occupied label.
func (s LabelSet) Contains(v float64) bool {
	if len(s) == 0 {
		return v != 0
	}
	for _, l := range s {
		if l == v {
			return true
		}
	}
	return false
}

// DenseLabels classifies one scalar per voxel (x fastest, then y, then z).
func DenseLabels(values []float64, occupied LabelSet) []Classification {
	out := make([]Classification, len(values))
	for i, v := range values {
		if occupied.Contains(v) {
			out[i] = Occupied
		}
	}
	return out
}

// RunLengthLabels expands (value, count) pairs into n voxel classifications.
func RunLengthLabels(pairs []float64, n int, occupied LabelSet) ([]Classification, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("run-length labels must be (value, count) pairs, got %d numbers", len(pairs))
	}
	out := make([]Classification, 0, n)
	for i := 0; i < len(pairs); i += 2 {
		value, count := pairs[i], pairs[i+1]
		if count < 0 || count > float64(n) || count != float64(int(count)) {
			return nil, fmt.Errorf("run %d: count must be an integer in [0, %d], got %v", i/2, n, count)
		}
		if len(out)+int(count) > n {
			return nil, fmt.Errorf("run-length labels exceed volume size %d", n)
		}
		c := Background
		if occupied.Contains(value) {
			c = Occupied
		}
		for j := 0; j < int(count); j++ {
			out = append(out, c)
		}
	}
	if len(out) != n {
		return nil, fmt.Errorf("run-length labels cover %d voxels, volume has %d", len(out), n)
	}
	return out, nil
}

// IndexLabels marks the listed linear voxel indices Occupied in a volume of n voxels.
func IndexLabels(indices []int, n int) ([]Classification, error) {
	out := make([]Classification, n)
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("voxel index %d out of range [0, %d)", idx, n)
		}
		out[idx] = Occupied
	}
	return out, nil
}
