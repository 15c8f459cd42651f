package trajplan

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

var phantom = Geometry{Dims: [3]int{30, 30, 24}, Spacing: [3]float64{1, 1, 1}}

func volume(t *testing.T, inside func(x, y, z int) bool) *Volume {
	t.Helper()
	d := phantom.Dims
	labels := make([]Classification, d[0]*d[1]*d[2])
	for k := 0; k < d[2]; k++ {
		for j := 0; j < d[1]; j++ {
			for i := 0; i < d[0]; i++ {
				if inside(i, j, k) {
					labels[i+d[0]*(j+d[1]*k)] = Occupied
				}
			}
		}
	}
	v, err := NewVolume(phantom, labels)
	if err != nil {
		t.Fatalf("NewVolume: %v", err)
	}
	return v
}

func points(t *testing.T, pts ...Point) PointSet {
	t.Helper()
	named := make([]NamedPoint, len(pts))
	for i, p := range pts {
		named[i] = NamedPoint{ID: ID(i), Point: p}
	}
	ps, err := NewPointSet(named)
	if err != nil {
		t.Fatalf("NewPointSet: %v", err)
	}
	return ps
}

// phantomRequest: cortex fills z <= 15, the target is a cube around (15,15,5)
// and a vessel sheet stands at y=12 for 6 <= z <= 14.
func phantomRequest(t *testing.T) Request {
	return Request{
		Entries: points(t,
			NewPoint(15, 15, 18),
			NewPoint(15, 9, 18),
		),
		Targets: points(t,
			NewPoint(15, 15, 5),
			NewPoint(15, 16, 5),
			NewPoint(2, 2, 2),
		),
		Target: volume(t, func(x, y, z int) bool {
			return x >= 14 && x <= 16 && y >= 14 && y <= 16 && z >= 4 && z <= 6
		}),
		Ventricles: volume(t, func(x, y, z int) bool { return x == 15 && y == 25 && z == 10 }),
		Vessels:    volume(t, func(_, y, z int) bool { return y == 12 && z >= 6 && z <= 14 }),
		Cortex:     volume(t, func(_, _, z int) bool { return z <= 15 }),
	}
}

func TestClient_Plan(t *testing.T) {
	client, err := New(WithWorkers(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := client.Plan(context.Background(), phantomRequest(t))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	// Entry 1 at y=9 must cross the vessel sheet to reach either target.
	if len(res.Best) != 1 || len(res.Unreachable) != 1 || res.Unreachable[0].ID != 1 {
		t.Fatalf("best=%+v unreachable=%+v", res.Best, res.Unreachable)
	}
	c, ok := res.Choice(0)
	if !ok {
		t.Fatal("entry 0 has no choice")
	}
	// Both trajectories pass the sheet's top edge at z=14; the one to target 1
	// has drifted 4/13 mm farther from it by then.
	if c.Target.ID != 1 {
		t.Errorf("target = %d, want 1", c.Target.ID)
	}
	if want := 3 + 4.0/13; math.Abs(c.Clearance-want) > 0.05 {
		t.Errorf("clearance = %v, want about %v", c.Clearance, want)
	}

	if len(res.Validated) != 2 || len(res.Validated[0].Targets) != 2 || len(res.Validated[1].Targets) != 0 {
		t.Errorf("validated = %+v", res.Validated)
	}
	if len(res.Stats) != 6 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestClient_Plan_MissingVolume(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req := phantomRequest(t)
	req.Vessels = nil

	_, err = client.Plan(context.Background(), req)
	if !errors.Is(err, ErrInvalidInput) || !strings.Contains(err.Error(), "vessels") {
		t.Fatalf("expected ErrInvalidInput naming vessels, got %v", err)
	}
}

func TestDecodeVolume_Invalid(t *testing.T) {
	_, err := DecodeVolume(phantom, EncodingDense, []float64{1, 0}, nil)
	if !errors.Is(err, ErrInvalidMask) {
		t.Fatalf("expected ErrInvalidMask, got %v", err)
	}

	huge := Geometry{Dims: [3]int{1 << 20, 1 << 20, 1 << 10}, Spacing: [3]float64{1, 1, 1}}
	_, err = DecodeVolume(huge, EncodingIndices, nil, nil)
	if !errors.Is(err, ErrInvalidMask) {
		t.Fatalf("expected ErrInvalidMask for an oversized grid, got %v", err)
	}
}

func TestReadFiducials(t *testing.T) {
	const fcsv = `# Markups fiducial file version = 4.11
# CoordinateSystem = RAS
# columns = id,x,y,z,ow,ox,oy,oz,vis,sel,lock,label,desc,associatedNodeID
vtkMRMLMarkupsFiducialNode_0,1.5,2,3,0,0,0,1,1,1,0,E-1,,
vtkMRMLMarkupsFiducialNode_1,4,5,6,0,0,0,1,1,1,0,E-2,,
`
	ps, err := ReadFiducials(strings.NewReader(fcsv))
	if err != nil {
		t.Fatalf("ReadFiducials: %v", err)
	}
	if ps.Len() != 2 || ps.At(1).Label != "E-2" || ps.At(0).Point.X() != 1.5 {
		t.Errorf("points = %+v", ps.Points())
	}

	if _, err := ReadFiducials(strings.NewReader("vtk,x,y\n")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a short record, got %v", err)
	}
}
