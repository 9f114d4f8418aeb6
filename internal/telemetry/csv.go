package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReadCSV parses one raw lap file into a Frame. Header cells are mapped onto
// the canonical vocabulary; unknown columns are kept verbatim. A ragged or
// otherwise malformed file returns an error so the normalizer can record it
// and move on to the next file. Fully blank lines are dropped by the CSV
// reader, not parsed as null rows; a null cell is an empty field within a
// row.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i], _ = CanonicalName(h)
	}
	frame := NewFrame(columns)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", frame.Len()+1, err)
		}
		if err := frame.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// WriteCSV writes the frame as CSV with a header row.
func WriteCSV(w io.Writer, f *Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range f.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
