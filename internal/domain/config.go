package domain

import "math"

// Parameter bounds accepted by the planner.
const (
	MinAngleDeg  = 0.0
	MaxAngleDeg  = 90.0
	MinPrecision = 0.001
	MaxPrecision = 0.1
)

// Params holds the clinical planning parameters supplied per run.
type Params struct {
	MaxAngleDeg float64 // allowed deviation from perpendicular entry, degrees
	Precision   float64 // clearance tolerance, mm
	MaxLength   float64 // longest acceptable trajectory, mm
}

// DefaultParams returns the parameters used when a caller leaves them unset.
// MaxLength is effectively unbounded.
func DefaultParams() Params {
	return Params{
		MaxAngleDeg: 55,
		Precision:   0.01,
		MaxLength:   math.Inf(1),
	}
}

// Validate checks that every parameter lies in its accepted range.
func (p Params) Validate() error {
	if math.IsNaN(p.MaxAngleDeg) || p.MaxAngleDeg < MinAngleDeg || p.MaxAngleDeg > MaxAngleDeg {
		return NewInputError("max_angle_deg", "must be within [0, 90]")
	}
	if math.IsNaN(p.Precision) || p.Precision < MinPrecision || p.Precision > MaxPrecision {
		return NewInputError("precision", "must be within [0.001, 0.1]")
	}
	if math.IsNaN(p.MaxLength) || p.MaxLength <= 0 {
		return NewInputError("max_length_mm", "must be positive")
	}
	return nil
}
