package frame

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// AggSep separates a column from its aggregation in "_c" entries, as in
// "votes|avg".
const AggSep = "|"

// Args are the data-transformation parameters of a narrative: row filters
// keyed by column, and the controls _sort, _by, _c, _offset and _limit.
type Args map[string][]string

// ParseQuery reads Args from a URL query string such as
// "_sort=-rating&category=Actors".
func ParseQuery(q string) (Args, error) {
	v, err := url.ParseQuery(q)
	if err != nil {
		return nil, fmt.Errorf("frame: invalid query: %w", err)
	}
	return Args(v), nil
}

// Copy returns a deep copy.
func (a Args) Copy() Args {
	if a == nil {
		return nil
	}
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Keys returns the keys in sorted order.
func (a Args) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dict converts to the generic form used inside templates.
func (a Args) Dict() map[string]any {
	out := make(map[string]any, len(a))
	for k, v := range a {
		list := make([]any, len(v))
		for i, s := range v {
			list[i] = s
		}
		out[k] = list
	}
	return out
}

// ArgsFrom converts a generic template value back to Args.
func ArgsFrom(v any) (Args, error) {
	switch x := v.(type) {
	case nil:
		return Args{}, nil
	case Args:
		return x.Copy(), nil
	case map[string][]string:
		return Args(x).Copy(), nil
	case map[string]any:
		out := make(Args, len(x))
		for k, raw := range x {
			switch vals := raw.(type) {
			case []any:
				for _, s := range vals {
					out[k] = append(out[k], Format(s))
				}
			case []string:
				out[k] = append([]string(nil), vals...)
			default:
				out[k] = []string{Format(vals)}
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("frame: cannot use %T as args", v)
}

// splitAgg splits "votes|avg" into ("votes", "avg").
func splitAgg(c string) (string, string) {
	if i := strings.LastIndex(c, AggSep); i >= 0 {
		return c[:i], c[i+len(AggSep):]
	}
	return c, ""
}

// SanitizeArgs reduces args to the column names they refer to in df, the
// form that reads naturally in a sentence: sort directions are dropped and
// "_c" aggregations are reduced to their column. Only _by, _c and _sort are
// kept.
func SanitizeArgs(args Args, df *Frame) Args {
	res := Args{}
	columns := df.Columns()
	has := func(cols []string, c string) bool {
		for _, x := range cols {
			if x == c {
				return true
			}
		}
		return false
	}

	if by, ok := args["_by"]; ok {
		res["_by"] = []string{}
		for _, c := range by {
			if has(columns, c) {
				res["_by"] = append(res["_by"], c)
			}
		}
		colList := args["_c"]
		if len(colList) == 0 {
			for _, c := range columns {
				s, _ := df.Col(c)
				if s.Kind.IsNumeric() && !has(by, c) {
					colList = append(colList, c+AggSep+"sum")
				}
			}
		}
		res["_c"] = []string{}
		for _, c := range colList {
			col, _ := splitAgg(c)
			res["_c"] = append(res["_c"], col)
		}
		columns = colList
	} else if sel, ok := args["_c"]; ok {
		res["_c"] = selectColumns(sel, columns)
	}

	if srt, ok := args["_sort"]; ok {
		res["_sort"] = []string{}
		for _, c := range srt {
			col := strings.TrimPrefix(c, "-")
			if has(columns, col) {
				res["_sort"] = append(res["_sort"], col)
			}
		}
	}
	return res
}

// selectColumns applies a "_c" selection: listed columns in order, or every
// column except the ones prefixed with "-".
func selectColumns(sel []string, columns []string) []string {
	var include []string
	exclude := make(map[string]bool)
	for _, c := range sel {
		if strings.HasPrefix(c, "-") {
			exclude[c[1:]] = true
		} else {
			include = append(include, c)
		}
	}
	var out []string
	if len(include) > 0 {
		for _, c := range include {
			for _, col := range columns {
				if c == col && !exclude[c] {
					out = append(out, c)
				}
			}
		}
		return out
	}
	for _, col := range columns {
		if !exclude[col] {
			out = append(out, col)
		}
	}
	return out
}
