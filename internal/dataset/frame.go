package dataset

// Frame is a fully numeric table stored column-major.
type Frame struct {
	Columns []string
	Data    [][]float64 // Data[col][row]
}

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.Columns) }

// NumRows returns the number of rows.
func (f *Frame) NumRows() int {
	if len(f.Data) == 0 {
		return 0
	}
	return len(f.Data[0])
}

// Index returns the position of the named column, or -1.
func (f *Frame) Index(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the values of the named column.
func (f *Frame) Column(name string) ([]float64, error) {
	idx := f.Index(name)
	if idx < 0 {
		return nil, &SchemaError{Column: name, Available: append([]string(nil), f.Columns...)}
	}
	return f.Data[idx], nil
}

// Head returns the first n rows in row-major order.
func (f *Frame) Head(n int) [][]float64 {
	if n > f.NumRows() {
		n = f.NumRows()
	}
	if n < 0 {
		n = 0
	}
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, f.NumCols())
		for j := range f.Data {
			row[j] = f.Data[j][i]
		}
		out[i] = row
	}
	return out
}
