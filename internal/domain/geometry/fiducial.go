package geometry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fiducial is a named physical point as placed by a markups editor.
type Fiducial struct {
	Label   string
	X, Y, Z float64
}

// FromFiducials converts an ordered fiducial list into a PointSet keyed by positional index.
func FromFiducials(fids []Fiducial) PointSet {
	points := make([]NamedPoint, len(fids))
	index := make(map[ID]int, len(fids))
	for i, f := range fids {
		points[i] = NamedPoint{ID: ID(i), Label: f.Label, Point: NewPoint(f.X, f.Y, f.Z)}
		index[ID(i)] = i
	}
	return PointSet{points: points, index: index}
}

// defaultFCSVColumns is the column layout of markups fiducial files without a header.
var defaultFCSVColumns = []string{
	"id", "x", "y", "z", "ow", "ox", "oy", "oz", "vis", "sel", "lock", "label", "desc", "associatedNodeID",
}

// ReadFCSV parses a markups fiducial CSV (.fcsv) stream.
// LPS coordinates are converted to RAS so every point set shares one frame.
func ReadFCSV(r io.Reader) ([]Fiducial, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	columns := defaultFCSVColumns
	lps := false
	var out []Fiducial

	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read fcsv: %w", err)
		}
		if len(rec) == 0 {
			continue
		}
		if strings.HasPrefix(rec[0], "#") {
			key, val, ok := strings.Cut(strings.TrimPrefix(strings.Join(rec, ","), "#"), "=")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			val = strings.TrimSpace(val)
			switch key {
			case "columns":
				columns = strings.Split(val, ",")
			case "CoordinateSystem":
				lps = val == "1" || strings.EqualFold(val, "LPS")
			}
			continue
		}

		f, err := parseFCSVRecord(rec, columns)
		if err != nil {
			return nil, fmt.Errorf("fcsv line %d: %w", line, err)
		}
		if lps {
			f.X, f.Y = -f.X, -f.Y
		}
		out = append(out, f)
	}
	return out, nil
}

func parseFCSVRecord(rec, columns []string) (Fiducial, error) {
	var f Fiducial
	var seen int
	for i, col := range columns {
		if i >= len(rec) {
			break
		}
		field := strings.TrimSpace(rec[i])
		switch strings.TrimSpace(col) {
		case "x", "y", "z":
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Fiducial{}, fmt.Errorf("column %s: %w", col, err)
			}
			switch strings.TrimSpace(col) {
			case "x":
				f.X = v
			case "y":
				f.Y = v
			default:
				f.Z = v
			}
			seen++
		case "label":
			f.Label = field
		}
	}
	if seen != 3 {
		return Fiducial{}, fmt.Errorf("expected x, y and z columns, got %d of them", seen)
	}
	return f, nil
}
