package plan

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/trajplan/internal/db"
	"github.com/kailas-cloud/trajplan/internal/db/memory"
	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
	"github.com/kailas-cloud/trajplan/internal/domain/report"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	delFn func(ctx context.Context, key string) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func sampleReport() report.Report {
	entry := geometry.NamedPoint{ID: 451, Label: "E1", Point: geometry.NewPoint(212.09, 147.385, 76.878)}
	target := geometry.NamedPoint{ID: 161, Point: geometry.NewPoint(162, 133, 90)}
	return report.Report{
		ID:        "7d5c",
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Params:    domain.Params{MaxAngleDeg: 55, Precision: 0.01, MaxLength: math.Inf(1)},
		Best: []report.Choice{
			{Entry: entry, Target: target, Length: 53.74, Clearance: 12.5},
			{Entry: entry, Target: target, Length: 53.74, Clearance: math.Inf(1)},
		},
		Unreachable: []geometry.NamedPoint{{ID: 452, Point: geometry.NewPoint(1, 2, 3)}},
		Validated:   []report.Candidates{{Entry: 451, Targets: []geometry.ID{161, 162}}, {Entry: 452, Targets: []geometry.ID{}}},
		Stats:       []report.StageStat{{Stage: "pair_builder", Elapsed: time.Millisecond, Before: 8, After: 8}},
		Elapsed:     3 * time.Millisecond,
	}
}

func TestRepo_RoundTripKeepsInfinities(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.NewStore(), "trajplan:")
	want := sampleReport()

	if err := repo.Save(ctx, want, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Get(ctx, want.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	opts := cmp.Comparer(func(a, b geometry.Point) bool { return a == b })
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestRepo_SaveUsesPrefixAndTTL(t *testing.T) {
	var gotKey string
	var gotTTL time.Duration
	ms := &mockStore{setFn: func(_ context.Context, key string, _ []byte, ttl time.Duration) error {
		gotKey, gotTTL = key, ttl
		return nil
	}}

	if err := New(ms, "tp:").Save(context.Background(), sampleReport(), 2*time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if gotKey != "tp:plan:7d5c" || gotTTL != 2*time.Hour {
		t.Errorf("SetWithTTL(%q, %v), want (tp:plan:7d5c, 2h)", gotKey, gotTTL)
	}
}

func TestRepo_GetNotFound(t *testing.T) {
	_, err := New(&mockStore{}, "tp:").Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestRepo_GetStoreError(t *testing.T) {
	ms := &mockStore{getFn: func(context.Context, string) ([]byte, error) {
		return nil, &db.Error{Op: db.OpGet, Err: context.DeadlineExceeded}
	}}
	_, err := New(ms, "tp:").Get(context.Background(), "x")
	if err == nil || errors.Is(err, domain.ErrPlanNotFound) {
		t.Fatalf("expected a storage error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.NewStore(), "tp:")
	if err := repo.Save(ctx, sampleReport(), 0); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := repo.Delete(ctx, "7d5c"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "7d5c"); !errors.Is(err, domain.ErrPlanNotFound) {
		t.Errorf("second Delete: expected ErrPlanNotFound, got %v", err)
	}
}
