package plan

import (
	"math"
	"time"

	"github.com/kailas-cloud/trajplan/internal/domain"
	"github.com/kailas-cloud/trajplan/internal/domain/geometry"
	"github.com/kailas-cloud/trajplan/internal/domain/report"
)

// record is the stored JSON form of a report. Infinite values are stored as null.
type record struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	Params      paramsRecord   `json:"params"`
	Best        []choiceRecord `json:"best"`
	Unreachable []pointRecord  `json:"unreachable"`
	Validated   []validRecord  `json:"validated"`
	Stats       []stageRecord  `json:"stats"`
	ElapsedNS   int64          `json:"elapsed_ns"`
}

type paramsRecord struct {
	MaxAngleDeg float64  `json:"max_angle_deg"`
	Precision   float64  `json:"precision"`
	MaxLength   *float64 `json:"max_length_mm"`
}

type pointRecord struct {
	ID    int     `json:"id"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

type choiceRecord struct {
	Entry     pointRecord `json:"entry"`
	Target    pointRecord `json:"target"`
	Length    float64     `json:"length_mm"`
	Clearance *float64    `json:"clearance_mm"`
}

type validRecord struct {
	Entry   int   `json:"entry"`
	Targets []int `json:"targets"`
}

type stageRecord struct {
	Stage     string `json:"stage"`
	ElapsedNS int64  `json:"elapsed_ns"`
	Before    int    `json:"before"`
	After     int    `json:"after"`
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func orInf(v *float64) float64 {
	if v == nil {
		return math.Inf(1)
	}
	return *v
}

func toPointRecord(p geometry.NamedPoint) pointRecord {
	return pointRecord{ID: int(p.ID), Label: p.Label, X: p.Point.X(), Y: p.Point.Y(), Z: p.Point.Z()}
}

func (p pointRecord) toDomain() geometry.NamedPoint {
	return geometry.NamedPoint{ID: geometry.ID(p.ID), Label: p.Label, Point: geometry.NewPoint(p.X, p.Y, p.Z)}
}

func toRecord(r report.Report) record {
	rec := record{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Params: paramsRecord{
			MaxAngleDeg: r.Params.MaxAngleDeg,
			Precision:   r.Params.Precision,
			MaxLength:   finite(r.Params.MaxLength),
		},
		Best:        make([]choiceRecord, len(r.Best)),
		Unreachable: make([]pointRecord, len(r.Unreachable)),
		Validated:   make([]validRecord, len(r.Validated)),
		Stats:       make([]stageRecord, len(r.Stats)),
		ElapsedNS:   int64(r.Elapsed),
	}
	for i, c := range r.Best {
		rec.Best[i] = choiceRecord{
			Entry:     toPointRecord(c.Entry),
			Target:    toPointRecord(c.Target),
			Length:    c.Length,
			Clearance: finite(c.Clearance),
		}
	}
	for i, p := range r.Unreachable {
		rec.Unreachable[i] = toPointRecord(p)
	}
	for i, v := range r.Validated {
		ids := make([]int, len(v.Targets))
		for j, id := range v.Targets {
			ids[j] = int(id)
		}
		rec.Validated[i] = validRecord{Entry: int(v.Entry), Targets: ids}
	}
	for i, s := range r.Stats {
		rec.Stats[i] = stageRecord{Stage: s.Stage, ElapsedNS: int64(s.Elapsed), Before: s.Before, After: s.After}
	}
	return rec
}

func (rec record) toDomain() report.Report {
	r := report.Report{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		Params: domain.Params{
			MaxAngleDeg: rec.Params.MaxAngleDeg,
			Precision:   rec.Params.Precision,
			MaxLength:   orInf(rec.Params.MaxLength),
		},
		Best:        make([]report.Choice, len(rec.Best)),
		Unreachable: make([]geometry.NamedPoint, len(rec.Unreachable)),
		Validated:   make([]report.Candidates, len(rec.Validated)),
		Stats:       make([]report.StageStat, len(rec.Stats)),
		Elapsed:     time.Duration(rec.ElapsedNS),
	}
	for i, c := range rec.Best {
		r.Best[i] = report.Choice{
			Entry:     c.Entry.toDomain(),
			Target:    c.Target.toDomain(),
			Length:    c.Length,
			Clearance: orInf(c.Clearance),
		}
	}
	for i, p := range rec.Unreachable {
		r.Unreachable[i] = p.toDomain()
	}
	for i, v := range rec.Validated {
		ids := make([]geometry.ID, len(v.Targets))
		for j, id := range v.Targets {
			ids[j] = geometry.ID(id)
		}
		r.Validated[i] = report.Candidates{Entry: geometry.ID(v.Entry), Targets: ids}
	}
	for i, s := range rec.Stats {
		r.Stats[i] = report.StageStat{Stage: s.Stage, Elapsed: time.Duration(s.ElapsedNS), Before: s.Before, After: s.After}
	}
	return r
}
