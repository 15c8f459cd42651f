package trajplan

import "github.com/kailas-cloud/trajplan/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput = domain.ErrInvalidInput
	ErrInvalidMask  = domain.ErrInvalidMask
)
