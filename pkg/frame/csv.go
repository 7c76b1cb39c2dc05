package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/hack-pad/hackpadfs"
)

// ReadCSV loads a frame from CSV with a header row. Column kinds are
// inferred from the parsed cells.
func ReadCSV(r io.Reader) (*Frame, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: csv has no header", ErrShape)
	}
	header := records[0]
	rows := make([][]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]any, len(rec))
		for j, cell := range rec {
			row[j] = Parse(cell)
		}
		rows = append(rows, row)
	}
	return New(header, rows)
}

// ReadCSVString is ReadCSV over a string.
func ReadCSVString(s string) (*Frame, error) {
	return ReadCSV(strings.NewReader(s))
}

// ReadCSVFile loads a CSV file from fsys.
func ReadCSVFile(fsys hackpadfs.FS, name string) (*Frame, error) {
	data, err := hackpadfs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	f, err := ReadCSV(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// WriteCSV writes the frame with a header row.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns()); err != nil {
		return err
	}
	for i := 0; i < f.Len(); i++ {
		rec := make([]string, f.Width())
		for j := range rec {
			if v := f.At(i, j); v != nil {
				rec[j] = Format(v)
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Records returns the rows as column-keyed maps.
func (f *Frame) Records() []map[string]any {
	out := make([]map[string]any, f.Len())
	for i := range out {
		out[i] = f.Row(i)
	}
	return out
}

// FromRecords builds a frame from column-keyed rows, with columns in the
// given order.
func FromRecords(columns []string, records []map[string]any) (*Frame, error) {
	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(columns))
		for j, c := range columns {
			row[j] = rec[c]
		}
		rows[i] = row
	}
	return New(columns, rows)
}
