package trajplan

import (
	"fmt"
	"io"
	"time"

	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
	"github.com/kailas-cloud/trajplan/internal/domain/mask"
	"github.com/kailas-cloud/trajplan/internal/domain/report"
	"github.com/kailas-cloud/trajplan/internal/usecase/planning"
)

// Geometry and point types.
type (
	// Point is a position in physical millimetres.
	Point = geometry.Point
	// ID identifies a point within its set.
	ID = geometry.ID
	// NamedPoint is a point with its identifier and optional label.
	NamedPoint = geometry.NamedPoint
	// PointSet is an ordered set of uniquely identified points.
	PointSet = geometry.PointSet
)

// Volume types.
type (
	// Volume is a labelled voxel grid with its physical transform.
	Volume = mask.Volume
	// Geometry maps voxel indices to physical space.
	Geometry = mask.Geometry
	// Classification is the state of one voxel.
	Classification = mask.Classification
	// LabelSet lists the label values that count as occupied.
	LabelSet = mask.LabelSet
	// Encoding names a serialized label layout.
	Encoding = mask.Encoding
)

// Voxel classifications.
const (
	Background = mask.Background
	Occupied   = mask.Occupied
)

// Label encodings accepted by DecodeVolume.
const (
	EncodingDense   = mask.EncodingDense
	EncodingRLE     = mask.EncodingRLE
	EncodingIndices = mask.EncodingIndices
)

// Params are the clinical planning parameters.
type Params = domain.Params

// Result types.
type (
	// Choice is the trajectory selected for one entry.
	Choice = report.Choice
	// Candidates lists the targets still valid for one entry.
	Candidates = report.Candidates
	// StageStat is the timing and counts of one pipeline stage.
	StageStat = planning.StageStat
)

// NewPoint creates a Point.
func NewPoint(x, y, z float64) Point { return geometry.NewPoint(x, y, z) }

// NewPointSet creates a PointSet. Identifiers must be unique.
func NewPointSet(points []NamedPoint) (PointSet, error) {
	ps, err := geometry.NewPointSet(points)
	if err != nil {
		return PointSet{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return ps, nil
}

// ReadFiducials reads a Slicer markups CSV (.fcsv) into a PointSet.
// Points are identified by their row position.
func ReadFiducials(r io.Reader) (PointSet, error) {
	fids, err := geometry.ReadFCSV(r)
	if err != nil {
		return PointSet{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return geometry.FromFiducials(fids), nil
}

// NewVolume creates a Volume from one classification per voxel, x fastest.
func NewVolume(g Geometry, labels []Classification) (*Volume, error) {
	return mask.NewVolume(g, labels)
}

// MaxVoxels is the largest grid DecodeVolume accepts.
const MaxVoxels = mask.DefaultMaxVoxels

// DecodeVolume creates a Volume from serialized label values.
// A nil occupied set treats label 1 as occupied; an empty one accepts any non-zero label.
// Grids larger than MaxVoxels are rejected with ErrInvalidMask.
func DecodeVolume(g Geometry, enc Encoding, values []float64, occupied LabelSet) (*Volume, error) {
	return mask.Decode(g, enc, values, occupied, MaxVoxels)
}

// DefaultParams returns a 55 degree angle limit, 0.01 mm precision and no length limit.
func DefaultParams() Params { return domain.DefaultParams() }

// Request is one planning run.
type Request struct {
	Entries    PointSet
	Targets    PointSet
	Target     *Volume // structure the target must lie in
	Ventricles *Volume
	Vessels    *Volume
	Cortex     *Volume
	Params     *Params // nil: client default
}

// Result is the outcome of a planning run.
type Result struct {
	Best        []Choice     // one per reachable entry, in entry order
	Unreachable []NamedPoint // entries with no safe trajectory
	Validated   []Candidates // targets that passed every constraint, per entry
	Stats       []StageStat
	Elapsed     time.Duration
}

// Choice returns the selection for an entry.
func (r Result) Choice(entry ID) (Choice, bool) {
	for _, c := range r.Best {
		if c.Entry.ID == entry {
			return c, true
		}
	}
	return Choice{}, false
}
