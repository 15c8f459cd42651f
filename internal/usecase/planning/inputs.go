package planning

import (
	"reflect"

	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
	"github.com/kailas-cloud/trajplan/internal/domain/mask"
)

// Inputs are the structures and point sets one planning run works on.
// They are read-only for the duration of the run.
type Inputs struct {
	Entries    *geometry.PointSet
	Targets    *geometry.PointSet
	Target     mask.Mask // structure the target must lie in
	Ventricles CriticalMask
	Vessels    CriticalMask
	Cortex     SurfaceMask
}

// Validate fails with domain.ErrInvalidInput if any mask or point set is missing.
func (in Inputs) Validate() error {
	switch {
	case in.Entries == nil:
		return domain.NewInputError("entries", "is required")
	case in.Targets == nil:
		return domain.NewInputError("targets", "is required")
	case isNil(in.Target):
		return domain.NewInputError("target mask", "is required")
	case isNil(in.Ventricles):
		return domain.NewInputError("ventricles mask", "is required")
	case isNil(in.Vessels):
		return domain.NewInputError("vessels mask", "is required")
	case isNil(in.Cortex):
		return domain.NewInputError("cortex mask", "is required")
	}
	return nil
}

// critical returns the structures the optimizer keeps clear of.
func (in Inputs) critical() []CriticalMask {
	return []CriticalMask{in.Ventricles, in.Vessels}
}

// isNil also catches typed nil pointers stored in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}
