package chi

import (
	"fmt"
	"math"
	"time"

	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
	"github.com/kailas-cloud/trajplan/internal/domain/mask"
	"github.com/kailas-cloud/trajplan/internal/domain/report"
	"github.com/kailas-cloud/trajplan/internal/usecase/planning"
)

// ErrorCode is a machine-readable error classification.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodePlanNotFound     ErrorCode = "plan_not_found"
	ErrorCodePayloadTooLarge  ErrorCode = "payload_too_large"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// PointDTO is a point in RAS millimetres. A missing id defaults to the list position.
type PointDTO struct {
	ID    *int    `json:"id,omitempty"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

// MaskDTO is a serialized label volume.
type MaskDTO struct {
	Dims           [3]int      `json:"dims"`
	Origin         [3]float64  `json:"origin"`
	Spacing        [3]float64  `json:"spacing"`
	Direction      *[9]float64 `json:"direction,omitempty"`
	Encoding       string      `json:"encoding,omitempty"`
	Labels         []float64   `json:"labels"`
	OccupiedLabels []float64   `json:"occupied_labels,omitempty"`
}

// MasksDTO groups the four structures a plan needs.
type MasksDTO struct {
	Target     *MaskDTO `json:"target"`
	Ventricles *MaskDTO `json:"ventricles"`
	Vessels    *MaskDTO `json:"vessels"`
	Cortex     *MaskDTO `json:"cortex"`
}

// ParamsDTO holds optional planning parameters. Unset fields take server defaults.
type ParamsDTO struct {
	MaxAngleDeg *float64 `json:"max_angle_deg,omitempty"`
	Precision   *float64 `json:"precision,omitempty"`
	MaxLengthMM *float64 `json:"max_length_mm,omitempty"`
}

// PlanRequest is the body of POST /plans.
type PlanRequest struct {
	Masks            MasksDTO   `json:"masks"`
	Entries          []PointDTO `json:"entries"`
	Targets          []PointDTO `json:"targets"`
	Params           ParamsDTO  `json:"params"`
	IncludeValidated bool       `json:"include_validated,omitempty"`
}

// ChoiceDTO is the trajectory selected for one entry.
type ChoiceDTO struct {
	Entry       int      `json:"entry"`
	Target      int      `json:"target"`
	TargetLabel string   `json:"target_label,omitempty"`
	LengthMM    float64  `json:"length_mm"`
	ClearanceMM *float64 `json:"clearance_mm"` // null when no critical structure is measurable
}

// CandidatesDTO lists the targets still valid for one entry.
type CandidatesDTO struct {
	Entry   int   `json:"entry"`
	Targets []int `json:"targets"`
}

// StageDTO is the timing of one pipeline stage.
type StageDTO struct {
	Stage     string  `json:"stage"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Before    int     `json:"before"`
	After     int     `json:"after"`
}

// ParamsResponse echoes the parameters a plan was computed with.
type ParamsResponse struct {
	MaxAngleDeg float64  `json:"max_angle_deg"`
	Precision   float64  `json:"precision"`
	MaxLengthMM *float64 `json:"max_length_mm"` // null when unbounded
}

// PlanResponse is a computed or stored plan.
type PlanResponse struct {
	ID          string          `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	Cached      bool            `json:"cached"`
	Params      ParamsResponse  `json:"params"`
	Best        []ChoiceDTO     `json:"best"`
	Unreachable []int           `json:"unreachable"`
	Validated   []CandidatesDTO `json:"validated,omitempty"`
	Stats       []StageDTO      `json:"stats"`
	ElapsedMS   float64         `json:"elapsed_ms"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func inputsFromRequest(req *PlanRequest, maxVoxels int) (planning.Inputs, error) {
	var in planning.Inputs
	var err error
	if in.Entries, err = pointSetFromDTO("entries", req.Entries); err != nil {
		return in, err
	}
	if in.Targets, err = pointSetFromDTO("targets", req.Targets); err != nil {
		return in, err
	}

	target, err := maskFromDTO("target", req.Masks.Target, maxVoxels)
	if err != nil {
		return in, err
	}
	ventricles, err := maskFromDTO("ventricles", req.Masks.Ventricles, maxVoxels)
	if err != nil {
		return in, err
	}
	vessels, err := maskFromDTO("vessels", req.Masks.Vessels, maxVoxels)
	if err != nil {
		return in, err
	}
	cortex, err := maskFromDTO("cortex", req.Masks.Cortex, maxVoxels)
	if err != nil {
		return in, err
	}

	// Leave absent masks as untyped nils so validation reports them by name.
	if target != nil {
		in.Target = target
	}
	if ventricles != nil {
		in.Ventricles = ventricles
	}
	if vessels != nil {
		in.Vessels = vessels
	}
	if cortex != nil {
		in.Cortex = cortex
	}
	return in, nil
}

// pointSetFromDTO returns nil for an absent list.
func pointSetFromDTO(field string, pts []PointDTO) (*geometry.PointSet, error) {
	if pts == nil {
		return nil, nil
	}
	named := make([]geometry.NamedPoint, len(pts))
	for i, p := range pts {
		id := i
		if p.ID != nil {
			id = *p.ID
		}
		named[i] = geometry.NamedPoint{ID: geometry.ID(id), Label: p.Label, Point: geometry.NewPoint(p.X, p.Y, p.Z)}
	}
	ps, err := geometry.NewPointSet(named)
	if err != nil {
		return nil, domain.NewInputError(field, err.Error())
	}
	return &ps, nil
}

// maskFromDTO returns nil for an absent mask.
func maskFromDTO(name string, m *MaskDTO, maxVoxels int) (*mask.Volume, error) {
	if m == nil {
		return nil, nil
	}
	g := mask.Geometry{Dims: m.Dims, Origin: m.Origin, Spacing: m.Spacing}
	if m.Direction != nil {
		g.Direction = *m.Direction
	}
	var occupied mask.LabelSet
	if m.OccupiedLabels != nil {
		occupied = mask.LabelSet(m.OccupiedLabels)
	}
	v, err := mask.Decode(g, mask.Encoding(m.Encoding), m.Labels, occupied, maxVoxels)
	if err != nil {
		return nil, fmt.Errorf("%s mask: %w", name, err)
	}
	return v, nil
}

func paramsFromDTO(p ParamsDTO, defaults domain.Params) domain.Params {
	out := defaults
	if p.MaxAngleDeg != nil {
		out.MaxAngleDeg = *p.MaxAngleDeg
	}
	if p.Precision != nil {
		out.Precision = *p.Precision
	}
	if p.MaxLengthMM != nil {
		out.MaxLength = *p.MaxLengthMM
	}
	return out
}

func reportToResponse(r report.Report, cached, includeValidated bool) PlanResponse {
	resp := PlanResponse{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Cached:    cached,
		Params: ParamsResponse{
			MaxAngleDeg: r.Params.MaxAngleDeg,
			Precision:   r.Params.Precision,
			MaxLengthMM: finitePtr(r.Params.MaxLength),
		},
		Best:        make([]ChoiceDTO, len(r.Best)),
		Unreachable: make([]int, len(r.Unreachable)),
		Stats:       make([]StageDTO, len(r.Stats)),
		ElapsedMS:   millis(r.Elapsed),
	}
	for i, c := range r.Best {
		resp.Best[i] = ChoiceDTO{
			Entry:       int(c.Entry.ID),
			Target:      int(c.Target.ID),
			TargetLabel: c.Target.Label,
			LengthMM:    c.Length,
			ClearanceMM: finitePtr(c.Clearance),
		}
	}
	for i, e := range r.Unreachable {
		resp.Unreachable[i] = int(e.ID)
	}
	for i, s := range r.Stats {
		resp.Stats[i] = StageDTO{Stage: s.Stage, ElapsedMS: millis(s.Elapsed), Before: s.Before, After: s.After}
	}
	if includeValidated {
		resp.Validated = make([]CandidatesDTO, len(r.Validated))
		for i, c := range r.Validated {
			ids := make([]int, len(c.Targets))
			for j, id := range c.Targets {
				ids[j] = int(id)
			}
			resp.Validated[i] = CandidatesDTO{Entry: int(c.Entry), Targets: ids}
		}
	}
	return resp
}

func finitePtr(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
