package tmpl

import (
	"fmt"
	"math"
	"strings"

	"github.com/kittclouds/nlgkit/pkg/frame"
)

// Func is a callable exposed to templates, e.g. through a Namespace.
type Func func(args ...any) (any, error)

// Namespace groups functions under one name, as in G.plural(x).
type Namespace map[string]Func

// scope resolves names: locals set by the template first, then bindings.
type scope struct {
	locals   map[string]any
	bindings map[string]any
}

func newScope(bindings map[string]any) *scope {
	return &scope{locals: make(map[string]any), bindings: bindings}
}

func (s *scope) lookup(name string) (any, bool) {
	if v, ok := s.locals[name]; ok {
		return v, true
	}
	if v, ok := s.bindings[name]; ok {
		return v, true
	}
	if fn, ok := builtins[name]; ok {
		return fn, true
	}
	return nil, false
}

// iloc indexers, as returned by df.iloc and df["col"].iloc
type frameIloc struct{ f *frame.Frame }
type seriesIloc struct{ s *frame.Series }

// boundMethod is an attribute that is called later, as in x.lower()
type boundMethod struct {
	recv any
	name string
}

func (e *litExpr) eval(*scope) (any, error) {
	return e.val, nil
}

func (e *nameExpr) eval(s *scope) (any, error) {
	v, ok := s.lookup(e.name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUndefined, e.name)
	}
	return v, nil
}

func (e *listExpr) eval(s *scope) (any, error) {
	out := make([]any, len(e.items))
	for i, item := range e.items {
		v, err := item.eval(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *dictExpr) eval(s *scope) (any, error) {
	out := make(map[string]any, len(e.keys))
	for i := range e.keys {
		k, err := e.keys[i].eval(s)
		if err != nil {
			return nil, err
		}
		v, err := e.vals[i].eval(s)
		if err != nil {
			return nil, err
		}
		out[Format(k)] = v
	}
	return out, nil
}

func (e *attrExpr) eval(s *scope) (any, error) {
	recv, err := e.x.eval(s)
	if err != nil {
		return nil, err
	}
	return getAttr(recv, e.name)
}

func (e *indexExpr) eval(s *scope) (any, error) {
	x, err := e.x.eval(s)
	if err != nil {
		return nil, err
	}
	idx, err := e.idx.eval(s)
	if err != nil {
		return nil, err
	}
	return getItem(x, idx)
}

func (e *callExpr) eval(s *scope) (any, error) {
	fn, err := e.fn.eval(s)
	if err != nil {
		return nil, err
	}
	args := make([]any, len(e.args))
	for i, a := range e.args {
		if args[i], err = a.eval(s); err != nil {
			return nil, err
		}
	}
	switch f := fn.(type) {
	case Func:
		return f(args...)
	case func(args ...any) (any, error):
		return f(args...)
	case boundMethod:
		return callMethod(f.recv, f.name, args)
	}
	return nil, fmt.Errorf("%w: %s is not callable", ErrType, typeName(fn))
}

func (e *unaryExpr) eval(s *scope) (any, error) {
	x, err := e.x.eval(s)
	if err != nil {
		return nil, err
	}
	switch e.op {
	case "not":
		return !Truthy(x), nil
	case "+":
		if _, ok := number(x); ok {
			return x, nil
		}
	case "-":
		switch n := x.(type) {
		case int:
			return -n, nil
		case float64:
			return -n, nil
		}
	}
	return nil, fmt.Errorf("%w: bad operand %s for unary %s", ErrType, typeName(x), e.op)
}

func (e *condExpr) eval(s *scope) (any, error) {
	c, err := e.cond.eval(s)
	if err != nil {
		return nil, err
	}
	if Truthy(c) {
		return e.yes.eval(s)
	}
	return e.no.eval(s)
}

func (e *binaryExpr) eval(s *scope) (any, error) {
	l, err := e.l.eval(s)
	if err != nil {
		return nil, err
	}
	// short circuit
	switch e.op {
	case "and":
		if !Truthy(l) {
			return l, nil
		}
		return e.r.eval(s)
	case "or":
		if Truthy(l) {
			return l, nil
		}
		return e.r.eval(s)
	}
	r, err := e.r.eval(s)
	if err != nil {
		return nil, err
	}
	return binary(e.op, l, r)
}

func binary(op string, l, r any) (any, error) {
	switch op {
	case "==":
		return equal(l, r), nil
	case "!=":
		return !equal(l, r), nil
	case "<", "<=", ">", ">=":
		c := frame.Compare(l, r)
		switch op {
		case "<":
			return c < 0, nil
		case "<=":
			return c <= 0, nil
		case ">":
			return c > 0, nil
		}
		return c >= 0, nil
	case "in", "not in":
		ok, err := contains(r, l)
		if err != nil {
			return nil, err
		}
		return ok == (op == "in"), nil
	}

	// concatenation
	if op == "+" {
		switch a := l.(type) {
		case string:
			if b, ok := r.(string); ok {
				return a + b, nil
			}
		case []any:
			if b, ok := r.([]any); ok {
				return append(append([]any(nil), a...), b...), nil
			}
		}
	}

	a, aok := number(l)
	b, bok := number(r)
	if !aok || !bok {
		return nil, fmt.Errorf("%w: unsupported operands %s %s %s", ErrType, typeName(l), op, typeName(r))
	}
	li, lint := l.(int)
	ri, rint := r.(int)
	if lint && rint {
		switch op {
		case "+":
			return li + ri, nil
		case "-":
			return li - ri, nil
		case "*":
			return li * ri, nil
		case "%":
			if ri == 0 {
				return nil, fmt.Errorf("%w: modulo by zero", ErrType)
			}
			return ((li % ri) + ri) % ri, nil
		}
	}
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return nil, fmt.Errorf("%w: division by zero", ErrType)
		}
		return a / b, nil
	case "%":
		if b == 0 {
			return nil, fmt.Errorf("%w: modulo by zero", ErrType)
		}
		return a - b*math.Floor(a/b), nil
	}
	return nil, fmt.Errorf("%w: unknown operator %s", ErrSyntax, op)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func equal(a, b any) bool {
	switch x := a.(type) {
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			if w, ok := y[k]; !ok || !equal(v, w) {
				return false
			}
		}
		return true
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	}
	if _, ok := b.(bool); ok {
		return false
	}
	return frame.Equal(a, b)
}

func contains(container, item any) (bool, error) {
	switch c := container.(type) {
	case string:
		s, ok := item.(string)
		if !ok {
			return false, fmt.Errorf("%w: 'in <string>' requires string, got %s", ErrType, typeName(item))
		}
		return strings.Contains(c, s), nil
	case []any:
		for _, x := range c {
			if equal(x, item) {
				return true, nil
			}
		}
		return false, nil
	case map[string]any:
		_, ok := c[Format(item)]
		return ok, nil
	case *frame.Frame:
		return c.ColIndex(Format(item)) >= 0, nil
	}
	return false, fmt.Errorf("%w: %s is not a container", ErrType, typeName(container))
}

// Truthy applies Python truthiness.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	case *frame.Frame:
		return x.Len() > 0
	case *frame.Series:
		return x.Len() > 0
	}
	return true
}

// ============================================================================
// Attributes and items
// ============================================================================

func getAttr(recv any, name string) (any, error) {
	switch r := recv.(type) {
	case Namespace:
		fn, ok := r[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q has no member %q", ErrUndefined, "namespace", name)
		}
		return fn, nil
	case *frame.Frame:
		switch name {
		case "columns":
			return toList(r.Columns()), nil
		case "index":
			return toList(r.Index()), nil
		case "shape":
			n, m := r.Shape()
			return []any{n, m}, nil
		case "iloc":
			return frameIloc{r}, nil
		}
		if s, err := r.Col(name); err == nil {
			return s, nil
		}
	case *frame.Series:
		switch name {
		case "iloc":
			return seriesIloc{r}, nil
		case "name":
			return r.Name, nil
		case "values":
			return r.Values(), nil
		case "dtype":
			return r.Kind.String(), nil
		}
	case map[string]any:
		// rows from df.iloc[i] expose their cells as attributes
		if v, ok := r[name]; ok && !hasMethod(recv, name) {
			return v, nil
		}
	}
	if hasMethod(recv, name) {
		return boundMethod{recv: recv, name: name}, nil
	}
	return nil, fmt.Errorf("%w: %s has no attribute %q", ErrUndefined, typeName(recv), name)
}

func getItem(x, idx any) (any, error) {
	switch c := x.(type) {
	case []any:
		i, err := position(idx, len(c))
		if err != nil {
			return nil, err
		}
		return c[i], nil
	case string:
		runes := []rune(c)
		i, err := position(idx, len(runes))
		if err != nil {
			return nil, err
		}
		return string(runes[i]), nil
	case map[string]any:
		v, ok := c[Format(idx)]
		if !ok {
			return nil, fmt.Errorf("%w: key %q", ErrIndex, Format(idx))
		}
		return v, nil
	case *frame.Frame:
		switch k := idx.(type) {
		case string:
			s, err := c.Col(k)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrIndex, err)
			}
			return s, nil
		case []any:
			names := make([]string, len(k))
			for i, n := range k {
				names[i] = Format(n)
			}
			f, err := c.Select(names...)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrIndex, err)
			}
			return f, nil
		}
	case *frame.Series:
		i, err := position(idx, c.Len())
		if err != nil {
			return nil, err
		}
		return c.At(i), nil
	case seriesIloc:
		i, err := position(idx, c.s.Len())
		if err != nil {
			return nil, err
		}
		return c.s.At(i), nil
	case frameIloc:
		i, err := position(idx, c.f.Len())
		if err != nil {
			return nil, err
		}
		return c.f.Row(i), nil
	}
	return nil, fmt.Errorf("%w: %s is not subscriptable by %s", ErrType, typeName(x), typeName(idx))
}

// position resolves a possibly negative integer index against length n.
func position(idx any, n int) (int, error) {
	i, ok := idx.(int)
	if !ok {
		if f, isFloat := idx.(float64); isFloat && f == math.Trunc(f) {
			i, ok = int(f), true
		}
	}
	if !ok {
		return 0, fmt.Errorf("%w: index must be an integer, got %s", ErrType, typeName(idx))
	}
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %d out of range for length %d", ErrIndex, i, n)
	}
	return i, nil
}

func toList(xs []string) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "None"
	case string:
		return "str"
	case int:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case []any:
		return "list"
	case map[string]any:
		return "dict"
	case *frame.Frame:
		return "DataFrame"
	case *frame.Series:
		return "Series"
	case Namespace:
		return "namespace"
	case Func, boundMethod:
		return "function"
	}
	return fmt.Sprintf("%T", v)
}
