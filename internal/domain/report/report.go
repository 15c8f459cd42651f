// Package report holds the persisted outcome of a planning run.
package report

import (
	"time"

	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
)

// Choice is the trajectory selected for one entry.
type Choice struct {
	Entry     geometry.NamedPoint
	Target    geometry.NamedPoint
	Length    float64 // mm
	Clearance float64 // mm, +Inf when no critical structure is measurable
}

// Candidates lists the targets still valid for one entry after every constraint.
type Candidates struct {
	Entry   geometry.ID
	Targets []geometry.ID
}

// StageStat is the timing and counts of one pipeline stage.
type StageStat struct {
	Stage   string
	Elapsed time.Duration
	Before  int
	After   int
}

// Report is a stored planning result.
type Report struct {
	ID          string
	CreatedAt   time.Time
	Params      domain.Params
	Best        []Choice
	Unreachable []geometry.NamedPoint
	Validated   []Candidates
	Stats       []StageStat
	Elapsed     time.Duration
}

// Choice returns the selection for an entry.
func (r Report) Choice(entry geometry.ID) (Choice, bool) {
	for _, c := range r.Best {
		if c.Entry.ID == entry {
			return c, true
		}
	}
	return Choice{}, false
}
