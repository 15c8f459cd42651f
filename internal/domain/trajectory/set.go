package trajectory

import (
	"fmt"

	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
)

// Candidates is the ordered list of trajectories still considered valid for one entry.
type Candidates struct {
	Entry        geometry.NamedPoint
	Trajectories []Trajectory
}

// Set maps each entry point to its candidate trajectories, in entry order.
// Every trajectory's entry equals the entry it is stored under. A Set is only
// ever narrowed: Filter returns a new Set holding a subsequence of each list.
type Set struct {
	entries []Candidates
	index   map[geometry.ID]int
}

// NewSet validates the entry invariant and creates a Set.
func NewSet(entries []Candidates) (Set, error) {
	index := make(map[geometry.ID]int, len(entries))
	cp := make([]Candidates, len(entries))
	for i, c := range entries {
		if _, dup := index[c.Entry.ID]; dup {
			return Set{}, fmt.Errorf("duplicate entry id %d", c.Entry.ID)
		}
		for _, t := range c.Trajectories {
			if t.entry.Point != c.Entry.Point {
				return Set{}, fmt.Errorf("trajectory from %v stored under entry %d at %v",
					t.entry.Point, c.Entry.ID, c.Entry.Point)
			}
		}
		index[c.Entry.ID] = i
		cp[i] = Candidates{Entry: c.Entry, Trajectories: append([]Trajectory(nil), c.Trajectories...)}
	}
	return Set{entries: cp, index: index}, nil
}

// Len returns the number of entries (including entries with no candidates left).
func (s Set) Len() int { return len(s.entries) }

// At returns the i-th entry's candidates. The returned slice must not be modified.
func (s Set) At(i int) Candidates { return s.entries[i] }

// Entries returns the entries in order. The trajectory slices must not be modified.
func (s Set) Entries() []Candidates {
	out := make([]Candidates, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the candidates stored for an entry.
func (s Set) Get(id geometry.ID) ([]Trajectory, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.entries[i].Trajectories, true
}

// Total returns the number of trajectories across all entries.
func (s Set) Total() int {
	n := 0
	for _, c := range s.entries {
		n += len(c.Trajectories)
	}
	return n
}

// Filter keeps trajectory j of entry i iff keep[i][j]. Entries whose lists become
// empty stay in the Set.
func (s Set) Filter(keep [][]bool) Set {
	if len(keep) != len(s.entries) {
		panic(fmt.Sprintf("trajectory: filter mask covers %d entries, set has %d", len(keep), len(s.entries)))
	}
	out := Set{entries: make([]Candidates, len(s.entries)), index: s.index}
	for i, c := range s.entries {
		if len(keep[i]) != len(c.Trajectories) {
			panic(fmt.Sprintf("trajectory: filter mask for entry %d has %d flags, list has %d",
				c.Entry.ID, len(keep[i]), len(c.Trajectories)))
		}
		kept := make([]Trajectory, 0, len(c.Trajectories))
		for j, t := range c.Trajectories {
			if keep[i][j] {
				kept = append(kept, t)
			}
		}
		out.entries[i] = Candidates{Entry: c.Entry, Trajectories: kept}
	}
	return out
}
