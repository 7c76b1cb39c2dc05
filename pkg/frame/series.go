package frame

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat"
)

// Series is a named, typed column. Missing values are nil.
type Series struct {
	Name   string
	Kind   Kind
	values []any
}

// NewSeries infers the kind of values and normalises them: integers become
// int, other numbers float64, everything else string.
func NewSeries(name string, values []any) *Series {
	kind := Int
	for _, v := range values {
		switch v.(type) {
		case nil:
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		case float32, float64:
			if kind == Int {
				kind = Float
			}
		default:
			kind = String
		}
		if kind == String {
			break
		}
	}
	if len(values) == 0 {
		kind = String
	}

	out := make([]any, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		switch kind {
		case Int:
			n, _ := toFloat(v)
			out[i] = int(n)
		case Float:
			n, _ := toFloat(v)
			out[i] = n
		default:
			if s, ok := v.(string); ok {
				out[i] = s
			} else {
				out[i] = Format(v)
			}
		}
	}
	return &Series{Name: name, Kind: kind, values: out}
}

// Len returns the number of values.
func (s *Series) Len() int {
	return len(s.values)
}

// At returns value i without bounds translation.
func (s *Series) At(i int) any {
	return s.values[i]
}

// Iloc returns value i; negative positions count from the end.
func (s *Series) Iloc(i int) (any, error) {
	n := len(s.values)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, fmt.Errorf("%w: %d in column %q of length %d", ErrIndexOutOfRange, i, s.Name, n)
	}
	return s.values[i], nil
}

// Values returns a copy of the values.
func (s *Series) Values() []any {
	return append([]any(nil), s.values...)
}

// Strings returns the formatted values.
func (s *Series) Strings() []string {
	out := make([]string, len(s.values))
	for i, v := range s.values {
		out[i] = Format(v)
	}
	return out
}

// Floats returns the numeric values, skipping missing ones.
func (s *Series) Floats() []float64 {
	out := make([]float64, 0, len(s.values))
	for _, v := range s.values {
		if f, ok := toFloat(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// Copy returns a copy of s.
func (s *Series) Copy() *Series {
	return &Series{Name: s.Name, Kind: s.Kind, values: s.Values()}
}

// Rename returns a copy of s under a new name.
func (s *Series) Rename(name string) *Series {
	c := s.Copy()
	c.Name = name
	return c
}

// Map applies fn to every value and re-infers the kind.
func (s *Series) Map(fn func(any) any) *Series {
	out := make([]any, len(s.values))
	for i, v := range s.values {
		out[i] = fn(v)
	}
	return NewSeries(s.Name, out)
}

// Round rounds float values half-to-even to n digits.
func (s *Series) Round(n int) *Series {
	if s.Kind != Float {
		return s.Copy()
	}
	out := s.Copy()
	for i, v := range out.values {
		if f, ok := v.(float64); ok {
			out.values[i] = scalar.RoundEven(f, n)
		}
	}
	return out
}

// Unique returns the distinct values in order of first appearance.
func (s *Series) Unique() []any {
	seen := make(map[any]bool)
	var out []any
	for _, v := range s.values {
		if v == nil || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func (s *Series) take(rows []int) *Series {
	out := make([]any, len(rows))
	for k, i := range rows {
		out[k] = s.values[i]
	}
	return &Series{Name: s.Name, Kind: s.Kind, values: out}
}

// ============================================================================
// Aggregations
// ============================================================================

// Sum adds the numeric values.
func (s *Series) Sum() float64 {
	return floats.Sum(s.Floats())
}

// Mean averages the numeric values; NaN when there are none.
func (s *Series) Mean() float64 {
	xs := s.Floats()
	if len(xs) == 0 {
		return nan()
	}
	return stat.Mean(xs, nil)
}

// Median returns the middle numeric value; NaN when there are none.
func (s *Series) Median() float64 {
	xs := s.Floats()
	if len(xs) == 0 {
		return nan()
	}
	sort.Float64s(xs)
	if len(xs)%2 == 1 {
		return xs[len(xs)/2]
	}
	return (xs[len(xs)/2-1] + xs[len(xs)/2]) / 2
}

// Count returns the number of non-missing values.
func (s *Series) Count() int {
	n := 0
	for _, v := range s.values {
		if v != nil {
			n++
		}
	}
	return n
}

// Min returns the smallest non-missing value.
func (s *Series) Min() any {
	return s.extreme(-1)
}

// Max returns the largest non-missing value.
func (s *Series) Max() any {
	return s.extreme(1)
}

// ArgMax returns the position of the first largest value, or -1.
func (s *Series) ArgMax() int {
	return s.argExtreme(1)
}

// ArgMin returns the position of the first smallest value, or -1.
func (s *Series) ArgMin() int {
	return s.argExtreme(-1)
}

// Mode returns the most frequent value, ties broken by first appearance.
func (s *Series) Mode() any {
	counts := make(map[any]int)
	var best any
	for _, v := range s.values {
		if v == nil {
			continue
		}
		counts[v]++
		if best == nil || counts[v] > counts[best] {
			best = v
		}
	}
	return best
}

func (s *Series) extreme(sign int) any {
	if i := s.argExtreme(sign); i >= 0 {
		return s.values[i]
	}
	return nil
}

func (s *Series) argExtreme(sign int) int {
	best := -1
	for i, v := range s.values {
		if v == nil {
			continue
		}
		if best < 0 || Compare(v, s.values[best])*sign > 0 {
			best = i
		}
	}
	return best
}

// Agg applies a named aggregation: sum, avg, mean, median, count, min, max,
// nunique, first, last.
func (s *Series) Agg(name string) (any, error) {
	switch name {
	case "sum":
		if s.Kind == Int {
			return int(s.Sum()), nil
		}
		return s.Sum(), nil
	case "avg", "mean":
		return s.Mean(), nil
	case "median":
		return s.Median(), nil
	case "count":
		return s.Count(), nil
	case "nunique":
		return len(s.Unique()), nil
	case "min":
		return s.Min(), nil
	case "max":
		return s.Max(), nil
	case "first":
		if s.Len() == 0 {
			return nil, nil
		}
		return s.values[0], nil
	case "last":
		if s.Len() == 0 {
			return nil, nil
		}
		return s.values[s.Len()-1], nil
	}
	return nil, fmt.Errorf("frame: unknown aggregation %q", name)
}

// ValueCounts returns the distinct values ordered by descending frequency,
// ties in order of first appearance, with their counts.
func (s *Series) ValueCounts() ([]any, []int) {
	counts := make(map[any]int)
	values := s.Unique()
	for _, v := range s.values {
		if v != nil {
			counts[v]++
		}
	}
	sort.SliceStable(values, func(i, j int) bool { return counts[values[i]] > counts[values[j]] })
	n := make([]int, len(values))
	for i, v := range values {
		n[i] = counts[v]
	}
	return values, n
}
