package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Schema names the columns Prepare treats specially.
type Schema struct {
	IDColumn       string
	SeverityColumn string
}

// DefaultSchema matches the published cancer patient dataset.
func DefaultSchema() Schema {
	return Schema{IDColumn: "Patient Id", SeverityColumn: "Level"}
}

// Prepare drops the identifier column, encodes the severity column and
// converts every remaining cell to a number.
func Prepare(raw *Raw, s Schema) (*Frame, Encoding, error) {
	dropped, err := DropColumn(raw, s.IDColumn)
	if err != nil {
		return nil, Encoding{}, err
	}
	encoded, enc, err := EncodeLabels(dropped, s.SeverityColumn)
	if err != nil {
		return nil, Encoding{}, err
	}
	frame, err := toFrame(encoded)
	if err != nil {
		return nil, Encoding{}, err
	}
	return frame, enc, nil
}

func toFrame(raw *Raw) (*Frame, error) {
	f := &Frame{Columns: append([]string(nil), raw.Columns...), Data: make([][]float64, len(raw.Columns))}
	for j := range f.Data {
		f.Data[j] = make([]float64, len(raw.Rows))
	}
	for i, row := range raw.Rows {
		for j, cell := range row {
			x, ok := parseNumeric(cell)
			if !ok {
				return nil, &LoadError{Path: raw.Name, Err: fmt.Errorf("column %q row %d: %q is not numeric", raw.Columns[j], i+1, cell)}
			}
			f.Data[j][i] = x
		}
	}
	return f, nil
}

// parseNumeric accepts plain and locale-formatted numbers ("1,5", "1.000,5").
func parseNumeric(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00A0", " "))
	if raw == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, finite(f)
	}
	dec := '.'
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	if cpos > dpos {
		dec = ','
	}
	for _, sep := range []rune{',', '.', ' '} {
		if sep != dec {
			raw = strings.ReplaceAll(raw, string(sep), "")
		}
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, finite(f)
}

// finite rejects the NaN and Inf spellings strconv accepts.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
