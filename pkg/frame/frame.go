// Package frame is a small column-typed table used as the data source of
// narratives. It supports positional access, CSV loading, rounding and the
// filter/sort/group parameters carried by a narrative (see Filter).
package frame

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// ErrColumnNotFound is returned for unknown column names.
	ErrColumnNotFound = errors.New("frame: column not found")
	// ErrIndexOutOfRange is returned for positional access past either end.
	ErrIndexOutOfRange = errors.New("frame: index out of range")
	// ErrShape is returned when rows and columns disagree in length.
	ErrShape = errors.New("frame: inconsistent shape")
)

// Kind is the storage type of a column.
type Kind int

const (
	String Kind = iota
	Int
	Float
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	}
	return "object"
}

// IsNumeric reports whether values of kind are numbers.
func (k Kind) IsNumeric() bool {
	return k == Int || k == Float
}

// Frame is an ordered set of equally long columns plus a row index.
type Frame struct {
	cols  []*Series
	index []string
}

// New builds a frame from row-major values. Column kinds are inferred.
func New(columns []string, rows [][]any) (*Frame, error) {
	values := make([][]any, len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShape, i, len(row), len(columns))
		}
		for j, v := range row {
			values[j] = append(values[j], v)
		}
	}
	cols := make([]*Series, len(columns))
	for j, name := range columns {
		cols[j] = NewSeries(name, values[j])
	}
	return FromSeries(cols...)
}

// FromSeries builds a frame from columns of equal length.
func FromSeries(cols ...*Series) (*Frame, error) {
	n := 0
	for j, c := range cols {
		if j == 0 {
			n = c.Len()
		} else if c.Len() != n {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrShape, c.Name, c.Len(), n)
		}
	}
	return &Frame{cols: cols, index: rangeIndex(n)}, nil
}

func rangeIndex(n int) []string {
	idx := make([]string, n)
	for i := range idx {
		idx[i] = strconv.Itoa(i)
	}
	return idx
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.index)
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	return len(f.cols)
}

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) {
	return f.Len(), f.Width()
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.cols))
	for j, c := range f.cols {
		names[j] = c.Name
	}
	return names
}

// Index returns the row labels.
func (f *Frame) Index() []string {
	return append([]string(nil), f.index...)
}

// ColIndex returns the position of the named column, or -1.
func (f *Frame) ColIndex(name string) int {
	for j, c := range f.cols {
		if c.Name == name {
			return j
		}
	}
	return -1
}

// Col returns the named column.
func (f *Frame) Col(name string) (*Series, error) {
	j := f.ColIndex(name)
	if j < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return f.cols[j], nil
}

// ColAt returns column j.
func (f *Frame) ColAt(j int) *Series {
	return f.cols[j]
}

// At returns the value at row i, column j.
func (f *Frame) At(i, j int) any {
	return f.cols[j].values[i]
}

// Row returns row i keyed by column name.
func (f *Frame) Row(i int) map[string]any {
	row := make(map[string]any, len(f.cols))
	for _, c := range f.cols {
		row[c.Name] = c.values[i]
	}
	return row
}

// Copy returns a deep copy.
func (f *Frame) Copy() *Frame {
	cols := make([]*Series, len(f.cols))
	for j, c := range f.cols {
		cols[j] = c.Copy()
	}
	return &Frame{cols: cols, index: f.Index()}
}

// Take returns the rows at the given positions, keeping their labels.
func (f *Frame) Take(rows []int) *Frame {
	cols := make([]*Series, len(f.cols))
	for j, c := range f.cols {
		cols[j] = c.take(rows)
	}
	index := make([]string, len(rows))
	for k, i := range rows {
		index[k] = f.index[i]
	}
	return &Frame{cols: cols, index: index}
}

// Select returns the named columns in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]*Series, 0, len(names))
	for _, name := range names {
		c, err := f.Col(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return &Frame{cols: cols, index: f.Index()}, nil
}

// WithColumn returns a copy with s replacing the column of the same name, or
// appended when no such column exists.
func (f *Frame) WithColumn(s *Series) (*Frame, error) {
	if s.Len() != f.Len() {
		return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrShape, s.Name, s.Len(), f.Len())
	}
	out := f.Copy()
	if j := out.ColIndex(s.Name); j >= 0 {
		out.cols[j] = s
	} else {
		out.cols = append(out.cols, s)
	}
	return out, nil
}

// Round returns a copy with float columns rounded half-to-even to n digits.
func (f *Frame) Round(n int) *Frame {
	out := f.Copy()
	for j, c := range out.cols {
		if c.Kind == Float {
			out.cols[j] = c.Round(n)
		}
	}
	return out
}

// MaxLen returns the length of the longest string among the column names,
// index labels and formatted values.
func (f *Frame) MaxLen() int {
	longest := 0
	grow := func(s string) {
		if n := utf8.RuneCountInString(s); n > longest {
			longest = n
		}
	}
	for _, c := range f.cols {
		grow(c.Name)
		for _, v := range c.values {
			grow(Format(v))
		}
	}
	for _, label := range f.index {
		grow(label)
	}
	return longest
}

// Clean drops rows with a missing value and then repeated rows, keeping the
// first occurrence.
func (f *Frame) Clean() *Frame {
	seen := make(map[string]bool)
	var keep []int
	for i := 0; i < f.Len(); i++ {
		var b strings.Builder
		missing := false
		for _, c := range f.cols {
			if c.values[i] == nil {
				missing = true
				break
			}
			b.WriteString(c.Kind.String())
			b.WriteByte(0)
			b.WriteString(Format(c.values[i]))
			b.WriteByte(0)
		}
		if missing || seen[b.String()] {
			continue
		}
		seen[b.String()] = true
		keep = append(keep, i)
	}
	return f.Take(keep)
}
