package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadOptions controls how a dataset file is read.
type LoadOptions struct {
	// Sheet selects a worksheet for spreadsheet formats; empty means the first sheet.
	Sheet string
	// Delimiter for delimited text. If 0, ',' is used unless the file ends in .tsv.
	Delimiter rune
}

// Reader decodes one file format into a Raw table.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt LoadOptions) (*Raw, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(xlsxReader{})
	Register(csvReader{})
}

// Load reads the dataset at path with the reader registered for its extension.
// A path that does not resolve yields *NotFoundError; any other failure is a *LoadError.
func Load(path string, opt LoadOptions) (*Raw, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("is a directory")}
	}
	for _, r := range registry {
		if !r.CanRead(path) {
			continue
		}
		raw, err := r.Read(path, opt)
		if err != nil {
			var le *LoadError
			if errors.As(err, &le) {
				return nil, err
			}
			return nil, &LoadError{Path: path, Err: err}
		}
		raw.Name = filepath.Base(path)
		return raw, nil
	}
	return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %s", ErrUnsupported, strings.ToLower(filepath.Ext(path)))}
}

// rowsToRaw turns header + data rows into a Raw table, trimming cells and
// squaring every row to the header width.
func rowsToRaw(rows [][]string) (*Raw, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("no header row")
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	// Spreadsheets often carry trailing empty header cells.
	for len(header) > 0 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}
	if len(header) == 0 {
		return nil, errors.New("no header row")
	}
	raw := &Raw{Columns: header, Rows: make([][]string, 0, len(rows)-1)}
	for _, rec := range rows[1:] {
		if isBlank(rec) {
			continue
		}
		row := make([]string, len(header))
		for j := range row {
			if j < len(rec) {
				row[j] = strings.TrimSpace(rec[j])
			}
		}
		raw.Rows = append(raw.Rows, row)
	}
	return raw, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
