package planning

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
	"github.com/kailas-cloud/trajplan/internal/domain/mask"
)

// CriticalMask is a structure trajectories must avoid: it classifies sample points
// and measures clearance to its occupied region.
type CriticalMask interface {
	mask.Mask
	Distance(p geometry.Point) float64
}

// SurfaceMask is a structure whose boundary orientation can be estimated (the cortex).
type SurfaceMask interface {
	mask.Mask
	SurfaceNormal(p geometry.Point, radius float64) (r3.Vec, bool)
}

// spacedMask is implemented by masks that know their voxel size; sampling density
// adapts to it so a structure cannot fall between two samples.
type spacedMask interface {
	MinSpacing() float64
}

// Stage names one step of the planning pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageTargets    Stage = "target_filter"
	StagePairs      Stage = "pair_builder"
	StageVentricles Stage = "ventricle_filter"
	StageVessels    Stage = "vessel_filter"
	StageAngle      Stage = "angle_filter"
	StageOptimize   Stage = "optimizer"
)

// Observer receives timing and counts for every pipeline stage.
// before/after count points (target stage) or trajectories (all other stages);
// for the optimizer, after counts entries with a selected trajectory.
type Observer interface {
	ObserveStage(stage Stage, elapsed time.Duration, before, after int)
}
