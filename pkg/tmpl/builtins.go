package tmpl

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kittclouds/nlgkit/pkg/frame"
)

// StringMethods are the case transformations available as str methods.
// Inflection detection tries them in this order.
var StringMethods = []string{"capitalize", "lower", "swapcase", "title", "upper"}

// ApplyStringMethod runs one of StringMethods on s.
func ApplyStringMethod(name, s string) (string, bool) {
	switch name {
	case "capitalize":
		return Capitalize(s), true
	case "lower":
		return strings.ToLower(s), true
	case "swapcase":
		return SwapCase(s), true
	case "title":
		return Title(s), true
	case "upper":
		return strings.ToUpper(s), true
	}
	return "", false
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// SwapCase inverts the case of every letter.
func SwapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		}
		return r
	}, s)
}

// Title upper-cases the first letter of every word.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

var builtins map[string]Func

func init() {
	builtins = map[string]Func{
		"len":    builtinLen,
		"str":    func(args ...any) (any, error) { return unary(args, func(v any) (any, error) { return Format(v), nil }) },
		"int":    builtinInt,
		"float":  builtinFloat,
		"bool":   func(args ...any) (any, error) { return unary(args, func(v any) (any, error) { return Truthy(v), nil }) },
		"abs":    builtinAbs,
		"round":  builtinRound,
		"min":    func(args ...any) (any, error) { return extreme(args, -1) },
		"max":    func(args ...any) (any, error) { return extreme(args, 1) },
		"sum":    builtinSum,
		"sorted": builtinSorted,
		"list":   func(args ...any) (any, error) { return unary(args, iterable) },
	}
}

func unary(args []any, fn func(any) (any, error)) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: expected 1 argument, got %d", ErrType, len(args))
	}
	return fn(args[0])
}

func builtinLen(args ...any) (any, error) {
	return unary(args, func(v any) (any, error) {
		switch x := v.(type) {
		case string:
			return utf8.RuneCountInString(x), nil
		case []any:
			return len(x), nil
		case map[string]any:
			return len(x), nil
		case *frame.Frame:
			return x.Len(), nil
		case *frame.Series:
			return x.Len(), nil
		}
		return nil, fmt.Errorf("%w: %s has no len()", ErrType, typeName(v))
	})
}

func builtinInt(args ...any) (any, error) {
	return unary(args, func(v any) (any, error) {
		switch x := v.(type) {
		case int:
			return x, nil
		case float64:
			return int(x), nil
		case bool:
			if x {
				return 1, nil
			}
			return 0, nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(x))
			if err != nil {
				return nil, fmt.Errorf("%w: invalid literal for int(): %q", ErrType, x)
			}
			return n, nil
		}
		return nil, fmt.Errorf("%w: cannot convert %s to int", ErrType, typeName(v))
	})
}

func builtinFloat(args ...any) (any, error) {
	return unary(args, func(v any) (any, error) {
		if f, ok := number(v); ok {
			return f, nil
		}
		if f, ok := frame.ToFloat(v); ok {
			return f, nil
		}
		return nil, fmt.Errorf("%w: cannot convert %s to float", ErrType, typeName(v))
	})
}

func builtinAbs(args ...any) (any, error) {
	return unary(args, func(v any) (any, error) {
		switch x := v.(type) {
		case int:
			if x < 0 {
				return -x, nil
			}
			return x, nil
		case float64:
			return math.Abs(x), nil
		}
		return nil, fmt.Errorf("%w: bad operand for abs(): %s", ErrType, typeName(v))
	})
}

func builtinRound(args ...any) (any, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, fmt.Errorf("%w: round() takes 1 or 2 arguments", ErrType)
	}
	f, ok := number(args[0])
	if !ok {
		return nil, fmt.Errorf("%w: bad operand for round(): %s", ErrType, typeName(args[0]))
	}
	if len(args) == 1 {
		return int(math.RoundToEven(f)), nil
	}
	n, ok := args[1].(int)
	if !ok {
		return nil, fmt.Errorf("%w: round() digits must be int", ErrType)
	}
	return frame.NewSeries("", []any{f}).Round(n).At(0), nil
}

func builtinSum(args ...any) (any, error) {
	return unary(args, func(v any) (any, error) {
		items, err := iterable(v)
		if err != nil {
			return nil, err
		}
		var total any = 0
		for _, x := range items.([]any) {
			if total, err = binary("+", total, x); err != nil {
				return nil, err
			}
		}
		return total, nil
	})
}

func builtinSorted(args ...any) (any, error) {
	return unary(args, func(v any) (any, error) {
		items, err := iterable(v)
		if err != nil {
			return nil, err
		}
		out := append([]any(nil), items.([]any)...)
		sort.SliceStable(out, func(i, j int) bool { return frame.Compare(out[i], out[j]) < 0 })
		return out, nil
	})
}

func extreme(args []any, sign int) (any, error) {
	items := args
	if len(args) == 1 {
		v, err := iterable(args[0])
		if err != nil {
			return nil, err
		}
		items = v.([]any)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty sequence", ErrType)
	}
	best := items[0]
	for _, x := range items[1:] {
		if frame.Compare(x, best)*sign > 0 {
			best = x
		}
	}
	return best, nil
}

func iterable(v any) (any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case string:
		out := make([]any, 0, len(x))
		for _, r := range x {
			out = append(out, string(r))
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return toList(keys), nil
	case *frame.Series:
		return x.Values(), nil
	case *frame.Frame:
		return toList(x.Columns()), nil
	}
	return nil, fmt.Errorf("%w: %s is not iterable", ErrType, typeName(v))
}

// ============================================================================
// Methods
// ============================================================================

var methods = map[string]map[string]bool{
	"str": {"capitalize": true, "lower": true, "swapcase": true, "title": true, "upper": true,
		"strip": true, "lstrip": true, "rstrip": true, "replace": true, "split": true,
		"startswith": true, "endswith": true, "join": true, "count": true, "find": true},
	"list":      {"copy": true, "index": true, "count": true},
	"dict":      {"copy": true, "get": true, "keys": true, "values": true},
	"DataFrame": {"copy": true},
	"Series": {"max": true, "min": true, "sum": true, "mean": true, "median": true, "count": true,
		"nunique": true, "unique": true, "tolist": true, "mode": true, "idxmax": true, "idxmin": true},
}

func hasMethod(recv any, name string) bool {
	return methods[typeName(recv)][name]
}

func callMethod(recv any, name string, args []any) (any, error) {
	switch r := recv.(type) {
	case string:
		return stringMethod(r, name, args)
	case []any:
		switch name {
		case "copy":
			return append([]any(nil), r...), nil
		case "index", "count":
			if len(args) != 1 {
				return nil, fmt.Errorf("%w: %s() takes 1 argument", ErrType, name)
			}
			n, first := 0, -1
			for i, x := range r {
				if equal(x, args[0]) {
					if first < 0 {
						first = i
					}
					n++
				}
			}
			if name == "count" {
				return n, nil
			}
			if first < 0 {
				return nil, fmt.Errorf("%w: %s is not in list", ErrIndex, Repr(args[0]))
			}
			return first, nil
		}
	case map[string]any:
		switch name {
		case "copy":
			return deepCopy(r), nil
		case "get":
			if len(args) == 0 {
				return nil, fmt.Errorf("%w: get() takes a key", ErrType)
			}
			if v, ok := r[Format(args[0])]; ok {
				return v, nil
			}
			if len(args) > 1 {
				return args[1], nil
			}
			return nil, nil
		case "keys":
			return iterable(r)
		case "values":
			keys, _ := iterable(r)
			var out []any
			for _, k := range keys.([]any) {
				out = append(out, r[k.(string)])
			}
			return out, nil
		}
	case *frame.Frame:
		return r.Copy(), nil
	case *frame.Series:
		return seriesMethod(r, name)
	}
	return nil, fmt.Errorf("%w: %s has no method %q", ErrUndefined, typeName(recv), name)
}

func seriesMethod(s *frame.Series, name string) (any, error) {
	switch name {
	case "max":
		return s.Max(), nil
	case "min":
		return s.Min(), nil
	case "sum", "mean", "median", "count", "nunique":
		return s.Agg(name)
	case "unique":
		return s.Unique(), nil
	case "tolist":
		return s.Values(), nil
	case "mode":
		return s.Mode(), nil
	case "idxmax":
		return s.ArgMax(), nil
	case "idxmin":
		return s.ArgMin(), nil
	}
	return nil, fmt.Errorf("%w: Series has no method %q", ErrUndefined, name)
}

func stringMethod(s, name string, args []any) (any, error) {
	if out, ok := ApplyStringMethod(name, s); ok {
		return out, nil
	}
	strArg := func(i int) (string, error) {
		if i >= len(args) {
			return "", fmt.Errorf("%w: %s() missing argument", ErrType, name)
		}
		a, ok := args[i].(string)
		if !ok {
			return "", fmt.Errorf("%w: %s() argument must be str, not %s", ErrType, name, typeName(args[i]))
		}
		return a, nil
	}
	switch name {
	case "strip", "lstrip", "rstrip":
		cut := " \t\n\r"
		if len(args) > 0 {
			c, err := strArg(0)
			if err != nil {
				return nil, err
			}
			cut = c
		}
		switch name {
		case "lstrip":
			return strings.TrimLeft(s, cut), nil
		case "rstrip":
			return strings.TrimRight(s, cut), nil
		}
		return strings.Trim(s, cut), nil
	case "replace":
		old, err := strArg(0)
		if err != nil {
			return nil, err
		}
		repl, err := strArg(1)
		if err != nil {
			return nil, err
		}
		return strings.ReplaceAll(s, old, repl), nil
	case "split":
		var parts []string
		if len(args) == 0 {
			parts = strings.Fields(s)
		} else {
			sep, err := strArg(0)
			if err != nil {
				return nil, err
			}
			parts = strings.Split(s, sep)
		}
		return toList(parts), nil
	case "startswith", "endswith", "count", "find":
		sub, err := strArg(0)
		if err != nil {
			return nil, err
		}
		switch name {
		case "startswith":
			return strings.HasPrefix(s, sub), nil
		case "endswith":
			return strings.HasSuffix(s, sub), nil
		case "count":
			return strings.Count(s, sub), nil
		}
		return strings.Index(s, sub), nil
	case "join":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: join() takes 1 argument", ErrType)
		}
		items, err := iterable(args[0])
		if err != nil {
			return nil, err
		}
		parts := make([]string, 0)
		for _, x := range items.([]any) {
			parts = append(parts, Format(x))
		}
		return strings.Join(parts, s), nil
	}
	return nil, fmt.Errorf("%w: str has no method %q", ErrUndefined, name)
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = deepCopy(val)
		}
		return out
	}
	return v
}

// ============================================================================
// Formatting
// ============================================================================

// Format converts a value to output text, as str() would.
func Format(v any) string {
	switch x := v.(type) {
	case []any, map[string]any:
		return Repr(x)
	case *frame.Series:
		return strings.Join(x.Strings(), ", ")
	case *frame.Frame:
		return strings.Join(x.Columns(), ", ")
	}
	return frame.Format(v)
}

// Repr converts a value to its literal form: strings are quoted.
func Repr(v any) string {
	switch x := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(x, "'", `\'`) + "'"
	case nil:
		return "None"
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = Repr(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = Repr(k) + ": " + Repr(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return Format(v)
}
