package insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrField is returned for metadata that does not describe a field.
var ErrField = errors.New("insight: invalid field")

// Field kinds, in the order they are recognised.
const (
	KindLiteral   = "literal"
	KindChoice    = "choice"
	KindTemplate  = "template"
	KindCell      = "cell"
	KindOperation = "operation"
)

// Filter picks the row a cell field reads from. Without By, Method
// aggregates the cell's own column (max, min, mode, mean...). With By, the
// row is the one where column By is at its Method extreme (max or min).
type Filter struct {
	Method string
	By     string
}

var filterExpr = regexp.MustCompile(`^\s*(\w+)\s*\(\s*([^()]+?)\s*\)\s*$`)

func filterFrom(v any) (Filter, error) {
	switch x := v.(type) {
	case nil:
		return Filter{}, nil
	case string:
		// "max(votes)" is shorthand for {"colname": "votes", "filter": "max"}
		if m := filterExpr.FindStringSubmatch(x); m != nil {
			return Filter{Method: m[1], By: m[2]}, nil
		}
		return Filter{Method: strings.TrimSpace(x)}, nil
	case map[string]any:
		method, _ := x["filter"].(string)
		by, _ := x["colname"].(string)
		if method == "" || by == "" {
			return Filter{}, fmt.Errorf("%w: filter needs colname and filter", ErrField)
		}
		return Filter{Method: method, By: by}, nil
	}
	return Filter{}, fmt.Errorf("%w: cannot use %T as a filter", ErrField, v)
}

// Field is one slot of an insight sentence. Metadata describes it as a
// string (literal), a list of strings (random choice) or an object: a
// template with sub-fields, a cell lookup or an operation.
type Field struct {
	Literal  string
	Choices  []string
	Template string
	Kwargs   map[string]Field
	Type     string
	Colname  string
	Filter   Filter
	Expr     string
}

// Kind reports how the field is evaluated.
func (f Field) Kind() string {
	switch {
	case f.Template != "":
		return KindTemplate
	case f.Type == KindCell:
		return KindCell
	case f.Type == KindOperation:
		return KindOperation
	case len(f.Choices) > 0:
		return KindChoice
	}
	return KindLiteral
}

var reserved = map[string]bool{"template": true, "kwargs": true, "_type": true, "colname": true, "_filter": true, "expr": true}

// FieldFrom converts decoded JSON or YAML into a Field.
func FieldFrom(v any) (Field, error) {
	switch x := v.(type) {
	case string:
		return Field{Literal: x}, nil
	case []any:
		f := Field{Choices: make([]string, 0, len(x))}
		for _, c := range x {
			s, ok := c.(string)
			if !ok {
				return Field{}, fmt.Errorf("%w: choice %v is not a string", ErrField, c)
			}
			f.Choices = append(f.Choices, s)
		}
		return f, nil
	case map[string]any:
		return objectField(x)
	}
	return Field{}, fmt.Errorf("%w: cannot use %T", ErrField, v)
}

func objectField(m map[string]any) (Field, error) {
	var f Field
	f.Template, _ = m["template"].(string)
	f.Type, _ = m["_type"].(string)
	f.Colname, _ = m["colname"].(string)
	f.Expr, _ = m["expr"].(string)

	filter, err := filterFrom(m["_filter"])
	if err != nil {
		return Field{}, err
	}
	f.Filter = filter

	sub := make(map[string]any)
	if kw, ok := m["kwargs"].(map[string]any); ok {
		for k, v := range kw {
			sub[k] = v
		}
	}
	// sub-fields may also sit next to the template
	for k, v := range m {
		if !reserved[k] {
			sub[k] = v
		}
	}
	if len(sub) > 0 {
		f.Kwargs = make(map[string]Field, len(sub))
		names := make([]string, 0, len(sub))
		for k := range sub {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			kf, err := FieldFrom(sub[k])
			if err != nil {
				return Field{}, fmt.Errorf("%s: %w", k, err)
			}
			f.Kwargs[k] = kf
		}
	}

	switch {
	case f.Template == "" && f.Type == "":
		return Field{}, fmt.Errorf("%w: object needs a template or a _type", ErrField)
	case f.Type == KindCell && f.Colname == "":
		return Field{}, fmt.Errorf("%w: cell without colname", ErrField)
	case f.Type == KindOperation && f.Expr == "":
		return Field{}, fmt.Errorf("%w: operation without expr", ErrField)
	case f.Type != "" && f.Type != KindCell && f.Type != KindOperation:
		return Field{}, fmt.Errorf("%w: unknown _type %q", ErrField, f.Type)
	}
	return f, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	out, err := FieldFrom(v)
	if err != nil {
		return err
	}
	*f = out
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	out, err := FieldFrom(v)
	if err != nil {
		return err
	}
	*f = out
	return nil
}
