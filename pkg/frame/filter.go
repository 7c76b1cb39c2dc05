package frame

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Filter operators, longest first so that "!~" wins over "~".
var filterOps = []string{"!~", ">~", "<~", "!", ">", "<", "~", ""}

// Filter applies args to the frame and returns a new frame:
//
//	col=v1&col=v2    rows where col is v1 or v2 ("col=" keeps non-missing)
//	col!=v           rows where col is not v ("col!=" keeps missing)
//	col>=v, col>~=v  greater than, greater or equal (likewise < and <~)
//	col~=v, col!~=v  col contains / does not contain v, ignoring case
//	_by=col&_c=x|agg group by col and aggregate x (default: sum of numbers)
//	_sort=col,-col   sort ascending / descending, stable
//	_offset, _limit  row window
//	_c=col, _c=-col  select / drop columns
//
// Keys naming unknown columns are ignored.
func (f *Frame) Filter(args Args) (*Frame, error) {
	out := f.filterRows(args)

	if by, ok := args["_by"]; ok && len(by) > 0 {
		grouped, err := out.groupBy(by, args["_c"])
		if err != nil {
			return nil, err
		}
		out = grouped
	}

	if srt := args["_sort"]; len(srt) > 0 {
		out = out.sortBy(srt)
	}

	if v := args["_offset"]; len(v) > 0 {
		n, err := strconv.Atoi(v[0])
		if err != nil {
			return nil, fmt.Errorf("frame: invalid _offset %q: %w", v[0], err)
		}
		out = out.window(n, out.Len())
	}
	if v := args["_limit"]; len(v) > 0 {
		n, err := strconv.Atoi(v[0])
		if err != nil {
			return nil, fmt.Errorf("frame: invalid _limit %q: %w", v[0], err)
		}
		out = out.window(0, n)
	}

	if _, grouped := args["_by"]; !grouped {
		if sel := args["_c"]; len(sel) > 0 {
			return out.Select(selectColumns(sel, out.Columns())...)
		}
	}
	return out, nil
}

func (f *Frame) window(offset, limit int) *Frame {
	if offset < 0 {
		offset = 0
	}
	if offset > f.Len() {
		offset = f.Len()
	}
	end := offset + limit
	if end > f.Len() || limit < 0 {
		end = f.Len()
	}
	rows := make([]int, 0, end-offset)
	for i := offset; i < end; i++ {
		rows = append(rows, i)
	}
	return f.Take(rows)
}

// parseFilterKey splits "rating>~" into ("rating", ">~").
func (f *Frame) parseFilterKey(key string) (int, string, bool) {
	for _, op := range filterOps {
		if !strings.HasSuffix(key, op) {
			continue
		}
		if j := f.ColIndex(strings.TrimSuffix(key, op)); j >= 0 {
			return j, op, true
		}
	}
	return 0, "", false
}

func (f *Frame) filterRows(args Args) *Frame {
	type cond struct {
		col  *Series
		op   string
		vals []string
	}
	var conds []cond
	for _, key := range args.Keys() {
		if strings.HasPrefix(key, "_") {
			continue
		}
		j, op, ok := f.parseFilterKey(key)
		if !ok {
			continue
		}
		conds = append(conds, cond{col: f.cols[j], op: op, vals: args[key]})
	}
	if len(conds) == 0 {
		return f.Copy()
	}

	var rows []int
	for i := 0; i < f.Len(); i++ {
		keep := true
		for _, c := range conds {
			if !matchCond(c.col.values[i], c.col.Kind, c.op, c.vals) {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, i)
		}
	}
	return f.Take(rows)
}

func matchCond(v any, kind Kind, op string, vals []string) bool {
	if len(vals) == 0 || (len(vals) == 1 && vals[0] == "") {
		switch op {
		case "":
			return v != nil
		case "!":
			return v == nil
		}
		return true
	}
	typed := func(s string) any {
		if kind.IsNumeric() {
			if n, ok := ToFloat(s); ok {
				return n
			}
		}
		return s
	}
	switch op {
	case "":
		for _, s := range vals {
			if Equal(v, typed(s)) {
				return true
			}
		}
		return false
	case "!":
		for _, s := range vals {
			if Equal(v, typed(s)) {
				return false
			}
		}
		return true
	case ">", ">~", "<", "<~":
		if v == nil {
			return false
		}
		for _, s := range vals {
			c := Compare(v, typed(s))
			ok := (op == ">" && c > 0) || (op == ">~" && c >= 0) ||
				(op == "<" && c < 0) || (op == "<~" && c <= 0)
			if !ok {
				return false
			}
		}
		return true
	case "~", "!~":
		text := strings.ToLower(Format(v))
		found := false
		for _, s := range vals {
			if strings.Contains(text, strings.ToLower(s)) {
				found = true
				break
			}
		}
		return found == (op == "~")
	}
	return true
}

func (f *Frame) sortBy(keys []string) *Frame {
	type sortKey struct {
		col  *Series
		desc bool
	}
	var sks []sortKey
	for _, k := range keys {
		desc := strings.HasPrefix(k, "-")
		if j := f.ColIndex(strings.TrimPrefix(k, "-")); j >= 0 {
			sks = append(sks, sortKey{col: f.cols[j], desc: desc})
		}
	}
	rows := make([]int, f.Len())
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(a, b int) bool {
		for _, sk := range sks {
			va, vb := sk.col.values[rows[a]], sk.col.values[rows[b]]
			c := Compare(va, vb)
			if c == 0 {
				continue
			}
			// missing values sort last in both directions
			if sk.desc && va != nil && vb != nil {
				c = -c
			}
			return c < 0
		}
		return false
	})
	return f.Take(rows)
}

func (f *Frame) groupBy(by []string, aggs []string) (*Frame, error) {
	var byCols []*Series
	for _, name := range by {
		if j := f.ColIndex(name); j >= 0 {
			byCols = append(byCols, f.cols[j])
		}
	}
	if len(byCols) == 0 {
		return f.Copy(), nil
	}

	if len(aggs) == 0 {
		for _, c := range f.cols {
			if c.Kind.IsNumeric() && !containsSeries(byCols, c) {
				aggs = append(aggs, c.Name+AggSep+"sum")
			}
		}
	}

	// Collect groups keyed by the joined group values
	type group struct {
		key  []any
		rows []int
	}
	groups := make(map[string]*group)
	var order []*group
	for i := 0; i < f.Len(); i++ {
		key := make([]any, len(byCols))
		parts := make([]string, len(byCols))
		for k, c := range byCols {
			key[k] = c.values[i]
			parts[k] = Format(c.values[i])
		}
		id := strings.Join(parts, "\x00")
		g, ok := groups[id]
		if !ok {
			g = &group{key: key}
			groups[id] = g
			order = append(order, g)
		}
		g.rows = append(g.rows, i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		for k := range byCols {
			if c := Compare(order[a].key[k], order[b].key[k]); c != 0 {
				return c < 0
			}
		}
		return false
	})

	cols := make([][]any, len(byCols)+len(aggs))
	for _, g := range order {
		for k := range byCols {
			cols[k] = append(cols[k], g.key[k])
		}
		for a, spec := range aggs {
			name, agg := splitAgg(spec)
			if agg == "" {
				agg = "sum"
			}
			src, err := f.Col(name)
			if err != nil {
				return nil, err
			}
			v, err := src.take(g.rows).Agg(agg)
			if err != nil {
				return nil, err
			}
			cols[len(byCols)+a] = append(cols[len(byCols)+a], v)
		}
	}

	series := make([]*Series, 0, len(cols))
	for k, c := range byCols {
		series = append(series, NewSeries(c.Name, cols[k]))
	}
	for a, spec := range aggs {
		series = append(series, NewSeries(spec, cols[len(byCols)+a]))
	}
	return FromSeries(series...)
}

func containsSeries(list []*Series, s *Series) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
