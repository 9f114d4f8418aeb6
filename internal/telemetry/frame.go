package telemetry

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Frame is a column-ordered table of raw telemetry cells. Cells are kept as
// strings until a caller asks for a typed channel; an empty cell is a null.
// Raw lap files are small (a few hundred rows) so no attempt is made to
// store channels columnar.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// NewFrame returns an empty frame with the given columns.
func NewFrame(columns []string) *Frame {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Frame{Columns: cols}
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// ColumnIndex returns the index of the named column, matching
// case-insensitively, or -1 if the column is absent.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column is present.
func (f *Frame) HasColumn(name string) bool { return f.ColumnIndex(name) >= 0 }

// Value returns the cell at (row, column name), or "" if the column is
// absent or the row is out of range.
func (f *Frame) Value(row int, name string) string {
	idx := f.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(f.Rows) || idx >= len(f.Rows[row]) {
		return ""
	}
	return f.Rows[row][idx]
}

// Set overwrites the cell at (row, column name). Setting a cell in an
// absent column is a no-op.
func (f *Frame) Set(row int, name, value string) {
	idx := f.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(f.Rows) || idx >= len(f.Rows[row]) {
		return
	}
	f.Rows[row][idx] = value
}

// AddColumn appends a new column with the given fill value in every row.
// If the column already exists the call is a no-op.
func (f *Frame) AddColumn(name, fill string) {
	if f.HasColumn(name) {
		return
	}
	f.Columns = append(f.Columns, name)
	for i := range f.Rows {
		f.Rows[i] = append(f.Rows[i], fill)
	}
}

// AppendRow adds a row. The row must have exactly one cell per column.
func (f *Frame) AppendRow(row []string) error {
	if len(row) != len(f.Columns) {
		return fmt.Errorf("row has %d cells, frame has %d columns", len(row), len(f.Columns))
	}
	f.Rows = append(f.Rows, row)
	return nil
}

// Floats extracts the named column as float64s. Empty cells become NaN;
// any other unparsable cell is an error. The boolean "True"/"False" cells
// the acquisition step writes for Brake are accepted as 1/0.
func (f *Frame) Floats(name string) ([]float64, error) {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not present", name)
	}
	out := make([]float64, len(f.Rows))
	for i, row := range f.Rows {
		cell := strings.TrimSpace(row[idx])
		switch {
		case cell == "":
			out[i] = math.NaN()
		case strings.EqualFold(cell, "true"):
			out[i] = 1
		case strings.EqualFold(cell, "false"):
			out[i] = 0
		default:
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
			}
			out[i] = v
		}
	}
	return out, nil
}

// NullCount returns the number of empty cells in the named column, or -1 if
// the column is absent.
func (f *Frame) NullCount(name string) int {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return -1
	}
	n := 0
	for _, row := range f.Rows {
		if strings.TrimSpace(row[idx]) == "" {
			n++
		}
	}
	return n
}

// NullRows returns the row indices whose cell in the named column is empty.
func (f *Frame) NullRows(name string) []int {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	var rows []int
	for i, row := range f.Rows {
		if strings.TrimSpace(row[idx]) == "" {
			rows = append(rows, i)
		}
	}
	return rows
}

// Append concatenates another frame onto this one. Columns are unioned:
// columns missing from either side are filled with empty (null) cells, and
// new columns keep the order in which they first appear.
func (f *Frame) Append(other *Frame) {
	for _, c := range other.Columns {
		f.AddColumn(c, "")
	}
	for _, row := range other.Rows {
		merged := make([]string, len(f.Columns))
		for i, c := range f.Columns {
			if idx := other.ColumnIndex(c); idx >= 0 && idx < len(row) {
				merged[i] = row[idx]
			}
		}
		f.Rows = append(f.Rows, merged)
	}
}

// SortStable sorts rows with a stable sort under the given comparison.
func (f *Frame) SortStable(less func(i, j int) bool) {
	sort.SliceStable(f.Rows, less)
}
