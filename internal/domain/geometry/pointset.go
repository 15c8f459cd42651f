package geometry

import "fmt"

// ID identifies a point within its set. Fiducial lists use the positional index.
type ID int

// NamedPoint is a point with its stable identifier and optional display label.
type NamedPoint struct {
	ID    ID
	Label string
	Point Point
}

// PointSet is an ordered sequence of identified points.
// Order is insertion order and survives filtering; identifiers are unique.
type PointSet struct {
	points []NamedPoint
	index  map[ID]int
}

// NewPointSet validates identifier uniqueness and creates a PointSet.
func NewPointSet(points []NamedPoint) (PointSet, error) {
	index := make(map[ID]int, len(points))
	for i, p := range points {
		if _, dup := index[p.ID]; dup {
			return PointSet{}, fmt.Errorf("duplicate point id %d", p.ID)
		}
		index[p.ID] = i
	}
	cp := make([]NamedPoint, len(points))
	copy(cp, points)
	return PointSet{points: cp, index: index}, nil
}

// Len returns the number of points.
func (s PointSet) Len() int { return len(s.points) }

// At returns the i-th point in set order.
func (s PointSet) At(i int) NamedPoint { return s.points[i] }

// Points returns a copy of the points in set order.
func (s PointSet) Points() []NamedPoint {
	out := make([]NamedPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Get looks a point up by identifier.
func (s PointSet) Get(id ID) (NamedPoint, bool) {
	i, ok := s.index[id]
	if !ok {
		return NamedPoint{}, false
	}
	return s.points[i], true
}

// Filter returns the subsequence of points for which keep returns true.
func (s PointSet) Filter(keep func(NamedPoint) bool) PointSet {
	kept := make([]NamedPoint, 0, len(s.points))
	index := make(map[ID]int)
	for _, p := range s.points {
		if keep(p) {
			index[p.ID] = len(kept)
			kept = append(kept, p)
		}
	}
	return PointSet{points: kept, index: index}
}

// Subset picks points by identifier, preserving set order.
func (s PointSet) Subset(ids []ID) (PointSet, error) {
	want := make(map[ID]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.index[id]; !ok {
			return PointSet{}, fmt.Errorf("unknown point id %d", id)
		}
		want[id] = true
	}
	return s.Filter(func(p NamedPoint) bool { return want[p.ID] }), nil
}
