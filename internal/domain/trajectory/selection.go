package trajectory

import "github.com/kailas-cloud/trajplan/internal/domain/geometry"

// Best is the trajectory chosen for one entry with its safety margin.
type Best struct {
	Trajectory Trajectory
	Clearance  float64 // minimum distance to any critical structure along the segment, mm
}

// Length returns the chosen trajectory's length.
func (b Best) Length() float64 { return b.Trajectory.Length() }

// Selection maps each entry to at most one chosen trajectory. Entries for which no
// trajectory qualified are listed separately as unreachable.
type Selection struct {
	best        []Best
	unreachable []geometry.NamedPoint
	index       map[geometry.ID]int
}

// NewSelection creates a Selection. best and unreachable are in entry order.
func NewSelection(best []Best, unreachable []geometry.NamedPoint) Selection {
	index := make(map[geometry.ID]int, len(best))
	for i, b := range best {
		index[b.Trajectory.entry.ID] = i
	}
	return Selection{best: best, unreachable: unreachable, index: index}
}

// Best returns the chosen trajectories in entry order.
func (s Selection) Best() []Best {
	out := make([]Best, len(s.best))
	copy(out, s.best)
	return out
}

// Unreachable returns the entries with no safe trajectory.
func (s Selection) Unreachable() []geometry.NamedPoint {
	out := make([]geometry.NamedPoint, len(s.unreachable))
	copy(out, s.unreachable)
	return out
}

// Get returns the chosen trajectory for an entry.
func (s Selection) Get(id geometry.ID) (Best, bool) {
	i, ok := s.index[id]
	if !ok {
		return Best{}, false
	}
	return s.best[i], true
}

// Len returns the number of entries with a chosen trajectory.
func (s Selection) Len() int { return len(s.best) }
