package planning

import "runtime"

// Defaults for the sampling and estimation knobs.
const (
	DefaultSamplingStep = 0.01 // fraction of the segment between samples
	DefaultNormalRadius = 5.0  // mm
)

// Options tunes sampling density, surface estimation and parallelism.
type Options struct {
	// SamplingStep is the largest parametric step between segment samples. The effective
	// step shrinks further so samples are at most half a voxel apart.
	SamplingStep float64
	// NormalRadius is the neighbourhood radius, in mm, for cortical surface normals.
	NormalRadius float64
	// Workers bounds the number of entries processed concurrently.
	Workers int
}

// DefaultOptions returns the options used when none are set.
func DefaultOptions() Options {
	return Options{
		SamplingStep: DefaultSamplingStep,
		NormalRadius: DefaultNormalRadius,
		Workers:      runtime.GOMAXPROCS(0),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if !(o.SamplingStep > 0) || o.SamplingStep > 1 {
		o.SamplingStep = d.SamplingStep
	}
	if !(o.NormalRadius > 0) {
		o.NormalRadius = d.NormalRadius
	}
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	return o
}
