package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/trajplan/internal/db/memory"
	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/metrics"
	planrepo "github.com/kailas-cloud/trajplan/internal/repository/plan"
	"github.com/kailas-cloud/trajplan/internal/repository/plancache"
	healthuc "github.com/kailas-cloud/trajplan/internal/usecase/health"
	"github.com/kailas-cloud/trajplan/internal/usecase/planning"
	plansuc "github.com/kailas-cloud/trajplan/internal/usecase/plans"
)

// Phantom grid: 30x30x24 voxels of 1 mm at the origin.
var phantomDims = [3]int{30, 30, 24}

func voxel(i, j, k int) float64 {
	return float64(i + phantomDims[0]*(j+phantomDims[1]*k))
}

func phantomMask(indices []float64) *MaskDTO {
	return &MaskDTO{
		Dims:     phantomDims,
		Spacing:  [3]float64{1, 1, 1},
		Encoding: "indices",
		Labels:   indices,
	}
}

func intp(v int) *int { return &v }

func f64p(v float64) *float64 { return &v }

// phantomRequest: cortex fills z <= 15, the target is a 3 mm cube around (15,15,5),
// a single ventricle voxel sits at (15,25,10) and there are no vessels.
func phantomRequest() PlanRequest {
	var target, cortex []float64
	for k := 4; k <= 6; k++ {
		for j := 14; j <= 16; j++ {
			for i := 14; i <= 16; i++ {
				target = append(target, voxel(i, j, k))
			}
		}
	}
	for k := 0; k <= 15; k++ {
		for j := 0; j < phantomDims[1]; j++ {
			for i := 0; i < phantomDims[0]; i++ {
				cortex = append(cortex, voxel(i, j, k))
			}
		}
	}
	n := float64(phantomDims[0] * phantomDims[1] * phantomDims[2])

	return PlanRequest{
		Masks: MasksDTO{
			Target:     phantomMask(target),
			Ventricles: phantomMask([]float64{voxel(15, 25, 10)}),
			Vessels: &MaskDTO{
				Dims: phantomDims, Spacing: [3]float64{1, 1, 1},
				Encoding: "rle", Labels: []float64{0, n},
			},
			Cortex: phantomMask(cortex),
		},
		Entries: []PointDTO{
			{X: 15, Y: 15, Z: 18}, // straight down: 0 degrees
			{X: 8, Y: 15, Z: 18},  // about 28 degrees
			{X: 24, Y: 15, Z: 18}, // about 35 degrees
		},
		Targets: []PointDTO{
			{ID: intp(10), Label: "core", X: 15, Y: 15, Z: 5},
			{ID: intp(11), Label: "outside", X: 3, Y: 3, Z: 3},
		},
		Params: ParamsDTO{MaxAngleDeg: f64p(30)},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	repo := planrepo.New(store, "test:")
	cache := plancache.New(store, "test:", time.Hour, metrics.PlanCacheTotal, logger)

	plans := plansuc.New(planning.New().WithWorkers(2), repo).WithCache(cache)
	srv := NewServer(plans, healthuc.New(store, "memory"), logger).WithMaxBodyBytes(4 << 20)

	r := chi.NewRouter()
	srv.Routes(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case []byte:
		rd = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestCreatePlan(t *testing.T) {
	ts := newTestServer(t)
	req := phantomRequest()
	req.IncludeValidated = true

	resp := do(t, http.MethodPost, ts.URL+"/plans", req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	plan := decode[PlanResponse](t, resp)

	if plan.ID == "" || plan.Cached {
		t.Errorf("unexpected id/cached: %q %v", plan.ID, plan.Cached)
	}
	if len(plan.Best) != 2 {
		t.Fatalf("best = %+v, want entries 0 and 1", plan.Best)
	}
	for i, c := range plan.Best {
		if c.Entry != i || c.Target != 10 || c.TargetLabel != "core" {
			t.Errorf("best[%d] = %+v", i, c)
		}
		if c.ClearanceMM == nil || *c.ClearanceMM < 9.9 {
			t.Errorf("best[%d] clearance = %v, want >= 10", i, c.ClearanceMM)
		}
	}
	if plan.Best[0].LengthMM != 13 {
		t.Errorf("vertical trajectory length = %v, want 13", plan.Best[0].LengthMM)
	}
	if len(plan.Unreachable) != 1 || plan.Unreachable[0] != 2 {
		t.Errorf("unreachable = %v, want [2]", plan.Unreachable)
	}
	if len(plan.Validated) != 3 || len(plan.Validated[2].Targets) != 0 {
		t.Errorf("validated = %+v", plan.Validated)
	}
	if len(plan.Stats) != 6 || plan.Stats[0].Stage != "target_filter" || plan.Stats[5].Stage != "optimizer" {
		t.Errorf("stats = %+v", plan.Stats)
	}
	if plan.Params.MaxAngleDeg != 30 || plan.Params.MaxLengthMM != nil {
		t.Errorf("params = %+v", plan.Params)
	}
}

func TestCreatePlan_CachedAndStored(t *testing.T) {
	ts := newTestServer(t)
	body, err := json.Marshal(phantomRequest())
	if err != nil {
		t.Fatal(err)
	}

	first := decode[PlanResponse](t, do(t, http.MethodPost, ts.URL+"/plans", body))

	resp := do(t, http.MethodPost, ts.URL+"/plans", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("repeat status = %d, want 200", resp.StatusCode)
	}
	again := decode[PlanResponse](t, resp)
	if !again.Cached || again.ID != first.ID {
		t.Errorf("repeat = id %q cached %v, want id %q cached", again.ID, again.Cached, first.ID)
	}

	resp = do(t, http.MethodGet, ts.URL+"/plans/"+first.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	got := decode[PlanResponse](t, resp)
	if len(got.Best) != len(first.Best) || got.Validated != nil {
		t.Errorf("stored plan = %+v", got)
	}

	resp = do(t, http.MethodGet, ts.URL+"/plans/"+first.ID+"?include_validated=true", nil)
	if got := decode[PlanResponse](t, resp); len(got.Validated) != 3 {
		t.Errorf("validated = %+v", got.Validated)
	}

	if resp := do(t, http.MethodDelete, ts.URL+"/plans/"+first.ID, nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, ts.URL+"/plans/"+first.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", resp.StatusCode)
	}
	if e := decode[ErrorResponse](t, resp); e.Code != ErrorCodePlanNotFound {
		t.Errorf("code = %s", e.Code)
	}
}

func TestCreatePlan_Errors(t *testing.T) {
	ts := newTestServer(t)

	missingCortex := phantomRequest()
	missingCortex.Masks.Cortex = nil

	badMask := phantomRequest()
	badMask.Masks.Ventricles.Dims = [3]int{0, 1, 1}

	hugeMask := phantomRequest()
	hugeMask.Masks.Ventricles.Dims = [3]int{4000, 4000, 4000}

	overflowMask := phantomRequest()
	overflowMask.Masks.Vessels.Dims = [3]int{1 << 30, 1 << 30, 1 << 30}

	dupTargets := phantomRequest()
	dupTargets.Targets[1].ID = intp(10)

	badAngle := phantomRequest()
	badAngle.Params.MaxAngleDeg = f64p(120)

	noEntries := phantomRequest()
	noEntries.Entries = nil

	tests := []struct {
		name    string
		body    any
		status  int
		code    ErrorCode
		message string
	}{
		{"malformed json", []byte(`{"masks":`), http.StatusBadRequest, ErrorCodeBadRequest, ""},
		{"unknown field", []byte(`{"mask":{}}`), http.StatusBadRequest, ErrorCodeBadRequest, ""},
		{"missing cortex", missingCortex, http.StatusBadRequest, ErrorCodeValidationFailed, "cortex"},
		{"invalid mask", badMask, http.StatusBadRequest, ErrorCodeValidationFailed, "ventricles"},
		{"oversized mask", hugeMask, http.StatusBadRequest, ErrorCodeValidationFailed, "ventricles"},
		{"overflowing mask dims", overflowMask, http.StatusBadRequest, ErrorCodeValidationFailed, "vessels"},
		{"duplicate target id", dupTargets, http.StatusBadRequest, ErrorCodeValidationFailed, "targets"},
		{"angle out of range", badAngle, http.StatusBadRequest, ErrorCodeValidationFailed, "max_angle_deg"},
		{"no entries", noEntries, http.StatusBadRequest, ErrorCodeValidationFailed, "entries"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/plans", tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.status)
			}
			e := decode[ErrorResponse](t, resp)
			if e.Code != tc.code {
				t.Errorf("code = %s, want %s", e.Code, tc.code)
			}
			if !strings.Contains(e.Message, tc.message) {
				t.Errorf("message %q does not mention %q", e.Message, tc.message)
			}
		})
	}
}

func TestCreatePlan_TooLarge(t *testing.T) {
	store := memory.NewStore()
	plans := plansuc.New(planning.New(), planrepo.New(store, ""))
	srv := NewServer(plans, healthuc.New(store, "memory"), zap.NewNop()).WithMaxBodyBytes(16)
	r := chi.NewRouter()
	srv.Routes(r)

	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(`{"entries":[{"x":1,"y":2,"z":3}]}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rr.Code)
	}
}

func TestCreatePlan_MaxVoxels(t *testing.T) {
	store := memory.NewStore()
	plans := plansuc.New(planning.New(), planrepo.New(store, ""))
	srv := NewServer(plans, healthuc.New(store, "memory"), zap.NewNop()).WithMaxVoxels(1000)
	r := chi.NewRouter()
	srv.Routes(r)

	body, err := json.Marshal(phantomRequest())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var e ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Code != ErrorCodeValidationFailed || !strings.Contains(e.Message, "1000 voxels") {
		t.Errorf("error = %+v", e)
	}
}

func TestHandleDomainError(t *testing.T) {
	srv := NewServer(nil, nil, zap.NewNop())
	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"invalid mask", fmt.Errorf("target mask: %w", domain.ErrInvalidMask), http.StatusBadRequest, ErrorCodeValidationFailed},
		{"invalid input", domain.NewInputError("entries", "is required"), http.StatusBadRequest, ErrorCodeValidationFailed},
		{"not found", fmt.Errorf("get plan: %w", domain.ErrPlanNotFound), http.StatusNotFound, ErrorCodePlanNotFound},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, ErrorCodeInternalError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			srv.handleDomainError(rr, tc.err)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			var e ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if e.Code != tc.code {
				t.Errorf("code = %s, want %s", e.Code, tc.code)
			}
			if tc.status == http.StatusInternalServerError && e.Message != "internal error" {
				t.Errorf("internal error leaked %q", e.Message)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	h := decode[HealthResponse](t, resp)
	if h.Status != "ok" || h.Checks["database:memory"] != "ok" {
		t.Errorf("health = %+v", h)
	}
}

func TestRoutes_UnknownPath(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/collections", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
