package planning

import (
	"math"
	"testing"

	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
	"github.com/kailas-cloud/trajplan/internal/domain/mask"
	"github.com/kailas-cloud/trajplan/internal/domain/trajectory"
)

func TestClearance_RefinesBelowSampling(t *testing.T) {
	tr := trajectory.New(np(0, 0, 0, 0), np(1, 100, 0, 0))
	ball := sphere{c: geometry.NewPoint(37.3, 4, 0), r: 1}

	// The closest coarse sample (x=37) is ~0.011 mm further away than the true minimum.
	got := Clearance(tr, []CriticalMask{ball}, 0.01, 0.001)
	if math.Abs(got-3) > 0.001 {
		t.Errorf("Clearance = %v, want 3 within 0.001", got)
	}
}

func TestClearance_MinimumOverStructures(t *testing.T) {
	tr := trajectory.New(np(0, 0, 0, 0), np(1, 100, 0, 0))
	near := sphere{c: geometry.NewPoint(80, -2, 0), r: 0.5}
	far := sphere{c: geometry.NewPoint(20, 10, 0), r: 1}

	got := Clearance(tr, []CriticalMask{far, near}, 0.01, 0.001)
	if math.Abs(got-1.5) > 0.001 {
		t.Errorf("Clearance = %v, want 1.5", got)
	}
}

func selectFixture() (*geometry.PointSet, *geometry.PointSet, sphere) {
	entries := mustPointSet(np(0, 0, 0, 0))
	targets := mustPointSet(
		np(1, 100, 10, 0), // passes ~4 mm from the ball, length ~100.5
		np(3, 100, 40, 0), // ~17.6 mm, length ~107.7
		np(2, 100, -40, 0),
	)
	return entries, targets, sphere{c: geometry.NewPoint(50, 0, 0), r: 1}
}

func TestSelectBest(t *testing.T) {
	entries, targets, ball := selectFixture()
	set := BuildPairs(*entries, *targets)
	far := slab{lo: 5000, hi: 5001}

	tests := []struct {
		name      string
		maxLength float64
		want      geometry.ID // -1 means unreachable
	}{
		{"largest clearance, tie to lower id", math.Inf(1), 2},
		{"length bound excludes the safest", 105, 1},
		{"nothing short enough", 50, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sel := SelectBest(set, []CriticalMask{ball, far}, tc.maxLength, 0.01, Options{})
			b, ok := sel.Get(0)
			if tc.want < 0 {
				if ok || len(sel.Unreachable()) != 1 {
					t.Fatalf("expected entry to be unreachable, got %+v", b)
				}
				return
			}
			if !ok {
				t.Fatal("expected a selection for entry 0")
			}
			if b.Trajectory.Target().ID != tc.want {
				t.Errorf("selected target %d, want %d", b.Trajectory.Target().ID, tc.want)
			}
			if b.Length() > tc.maxLength {
				t.Errorf("selected length %v exceeds %v", b.Length(), tc.maxLength)
			}
		})
	}
}

func TestSelectBest_TieGoesToShorter(t *testing.T) {
	entries := mustPointSet(np(0, 0, 0, 0))
	targets := mustPointSet(np(5, 100, 0, 0), np(6, 50, 0, 0), np(7, 0, 80, 0))
	// Every segment's closest point to the slab is the shared entry.
	wall := slab{lo: -1000, hi: -999}

	sel := SelectBest(BuildPairs(*entries, *targets), []CriticalMask{wall, wall}, math.Inf(1), 0.01, Options{})

	b, ok := sel.Get(0)
	if !ok || b.Trajectory.Target().ID != 6 {
		t.Fatalf("selected %+v, want target 6", b)
	}
	if b.Clearance != 999 {
		t.Errorf("Clearance = %v, want 999", b.Clearance)
	}
}

func TestPick_NearTiesAreMeasuredFromTheBest(t *testing.T) {
	e := np(0, 0, 0, 0)
	a := scored{t: trajectory.New(e, np(1, 100, 0, 0)), clearance: 1.018}
	b := scored{t: trajectory.New(e, np(2, 0, 90, 0)), clearance: 1.009}
	c := scored{t: trajectory.New(e, np(3, 0, 0, 80)), clearance: 1.000}

	// c is within precision of b and b of a, but c is not within precision of a.
	orders := [][]scored{{a, b, c}, {c, b, a}, {b, c, a}, {c, a, b}}
	for _, cands := range orders {
		got := pick(cands, 0.01)
		if got == nil || got.t.Target().ID != 2 {
			t.Fatalf("pick(%v) = %+v, want target 2", cands, got)
		}
	}
}

func TestPick_Infinite(t *testing.T) {
	e := np(0, 0, 0, 0)
	inf := math.Inf(1)
	far := scored{t: trajectory.New(e, np(1, 50, 0, 0)), clearance: inf}
	near := scored{t: trajectory.New(e, np(2, 20, 0, 0)), clearance: inf}
	finite := scored{t: trajectory.New(e, np(3, 10, 0, 0)), clearance: 1e9}

	got := pick([]scored{far, finite, near}, 0.01)
	if got == nil || got.t.Target().ID != 2 {
		t.Fatalf("pick = %+v, want target 2", got)
	}
	if pick(nil, 0.01) != nil {
		t.Error("pick of no candidates must be nil")
	}
}

func TestSelectBest_NoMeasurableStructure(t *testing.T) {
	empty, err := mask.NewVolume(mask.Geometry{Dims: [3]int{2, 2, 2}, Spacing: [3]float64{1, 1, 1}},
		make([]mask.Classification, 8))
	if err != nil {
		t.Fatalf("NewVolume: %v", err)
	}
	entries := mustPointSet(np(0, 0, 0, 0))
	targets := mustPointSet(np(1, 30, 0, 0), np(2, 10, 0, 0))

	sel := SelectBest(BuildPairs(*entries, *targets), []CriticalMask{empty, empty}, math.Inf(1), 0.01, Options{})

	b, ok := sel.Get(0)
	if !ok || b.Trajectory.Target().ID != 2 || !math.IsInf(b.Clearance, 1) {
		t.Errorf("selected %+v (clearance %v), want shortest with infinite clearance", b.Trajectory.Target(), b.Clearance)
	}
}

func TestSelectBest_EmptyEntriesUnreachable(t *testing.T) {
	entries := mustPointSet(np(0, 0, 0, 0), np(1, 0, 10, 0))
	targets := mustPointSet(np(5, 100, 0, 0))
	set := BuildPairs(*entries, *targets).Filter([][]bool{{true}, {false}})

	sel := SelectBest(set, []CriticalMask{slab{lo: 500, hi: 501}}, math.Inf(1), 0.01, Options{})

	if sel.Len() != 1 {
		t.Fatalf("best = %d, want 1", sel.Len())
	}
	if u := sel.Unreachable(); len(u) != 1 || u[0].ID != 1 {
		t.Errorf("unreachable = %v, want entry 1", u)
	}
}

func TestGoldenMin(t *testing.T) {
	f := func(x float64) float64 { return (x - 0.3) * (x - 0.3) }
	if got := goldenMin(f, 0, 1, 1e-6); got > 1e-10 {
		t.Errorf("goldenMin = %v, want ~0", got)
	}
}
