package planning

import (
	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
	"github.com/kailas-cloud/trajplan/internal/domain/mask"
)

// FilterTargets keeps the targets that lie inside the target structure, in order.
func FilterTargets(targets geometry.PointSet, structure mask.Mask) geometry.PointSet {
	return targets.Filter(func(p geometry.NamedPoint) bool {
		return structure.Classify(p.Point) == mask.Occupied
	})
}
