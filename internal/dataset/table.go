package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Raw is a table as read from disk: header names and trimmed string cells.
type Raw struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Index returns the position of the named column, or -1.
func (r *Raw) Index(name string) int {
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// DropColumn returns a copy of raw without the named column.
func DropColumn(raw *Raw, name string) (*Raw, error) {
	idx := raw.Index(name)
	if idx < 0 {
		return nil, &SchemaError{Column: name, Available: append([]string(nil), raw.Columns...)}
	}
	out := &Raw{Name: raw.Name, Columns: make([]string, 0, len(raw.Columns)-1)}
	out.Columns = append(out.Columns, raw.Columns[:idx]...)
	out.Columns = append(out.Columns, raw.Columns[idx+1:]...)
	out.Rows = make([][]string, len(raw.Rows))
	for i, row := range raw.Rows {
		nr := make([]string, 0, len(out.Columns))
		nr = append(nr, row[:idx]...)
		nr = append(nr, row[idx+1:]...)
		out.Rows[i] = nr
	}
	return out, nil
}

// Encoding is the label to code assignment fixed by EncodeLabels.
// Labels[code] is the label text; codes follow ascending byte order of the
// labels, not any semantic ordering.
type Encoding struct {
	Column string
	Labels []string
}

// Code returns the integer assigned to label.
func (e Encoding) Code(label string) (int, bool) {
	i := sort.SearchStrings(e.Labels, label)
	if i < len(e.Labels) && e.Labels[i] == label {
		return i, true
	}
	return 0, false
}

// Label returns the label text for code.
func (e Encoding) Label(code int) (string, bool) {
	if code < 0 || code >= len(e.Labels) {
		return "", false
	}
	return e.Labels[code], true
}

// Mapping returns label → code.
func (e Encoding) Mapping() map[string]int {
	m := make(map[string]int, len(e.Labels))
	for i, l := range e.Labels {
		m[l] = i
	}
	return m
}

// EncodeLabels replaces the named categorical column with integer codes in
// place, keeping row order and every other column position.
func EncodeLabels(raw *Raw, name string) (*Raw, Encoding, error) {
	idx := raw.Index(name)
	if idx < 0 {
		return nil, Encoding{}, &SchemaError{Column: name, Available: append([]string(nil), raw.Columns...)}
	}
	seen := map[string]struct{}{}
	for i, row := range raw.Rows {
		if strings.TrimSpace(row[idx]) == "" {
			return nil, Encoding{}, &LoadError{Path: raw.Name, Err: fmt.Errorf("column %q row %d: empty label", name, i+1)}
		}
		seen[row[idx]] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	enc := Encoding{Column: name, Labels: labels}
	codes := enc.Mapping()

	out := &Raw{Name: raw.Name, Columns: append([]string(nil), raw.Columns...)}
	out.Rows = make([][]string, len(raw.Rows))
	for i, row := range raw.Rows {
		nr := append([]string(nil), row...)
		nr[idx] = strconv.Itoa(codes[row[idx]])
		out.Rows[i] = nr
	}
	return out, enc, nil
}
