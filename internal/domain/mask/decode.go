package mask

import (
	"fmt"

	"github.com/kailas-cloud/trajplan/internal/domain"
)

// Encoding names a serialized label layout.
type Encoding string

// Supported label encodings.
const (
	EncodingDense   Encoding = "dense"   // one label per voxel
	EncodingRLE     Encoding = "rle"     // (label, count) pairs
	EncodingIndices Encoding = "indices" // linear indices of occupied voxels
)

// Decode builds a Volume from serialized labels. An empty encoding means dense.
// A nil occupied set means DefaultOccupiedLabels; a non-nil empty set accepts any
// non-zero label. Grids larger than maxVoxels are rejected before any allocation;
// maxVoxels <= 0 means DefaultMaxVoxels. Every failure wraps domain.ErrInvalidMask.
func Decode(g Geometry, enc Encoding, values []float64, occupied LabelSet, maxVoxels int) (*Volume, error) {
	if maxVoxels <= 0 {
		maxVoxels = DefaultMaxVoxels
	}
	n, err := g.Voxels(maxVoxels)
	if err != nil {
		return nil, err
	}
	if occupied == nil {
		occupied = DefaultOccupiedLabels
	}

	var labels []Classification
	switch enc {
	case "", EncodingDense:
		if len(values) != n {
			return nil, fmt.Errorf("%w: expected %d labels, got %d", domain.ErrInvalidMask, n, len(values))
		}
		labels = DenseLabels(values, occupied)
	case EncodingRLE:
		if labels, err = RunLengthLabels(values, n, occupied); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidMask, err)
		}
	case EncodingIndices:
		idx := make([]int, len(values))
		for i, v := range values {
			if v < 0 || v >= float64(n) {
				return nil, fmt.Errorf("%w: voxel index %v out of range [0, %d)", domain.ErrInvalidMask, v, n)
			}
			if v != float64(int(v)) {
				return nil, fmt.Errorf("%w: voxel index %v is not an integer", domain.ErrInvalidMask, v)
			}
			idx[i] = int(v)
		}
		if labels, err = IndexLabels(idx, n); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidMask, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown encoding %q", domain.ErrInvalidMask, enc)
	}
	return NewVolume(g, labels)
}
