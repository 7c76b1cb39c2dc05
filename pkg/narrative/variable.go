package narrative

import (
	"fmt"

	"github.com/kittclouds/nlgkit/pkg/grammar"
	"github.com/kittclouds/nlgkit/pkg/nlp"
	"github.com/kittclouds/nlgkit/pkg/search"
)

// Variable is a piece of a sentence backed by data. Exactly one of its
// sources is enabled; the inflections are applied to it in order.
type Variable struct {
	Key         nlp.Key
	Text        string
	Sources     []search.Result
	Varname     string
	Inflections []grammar.Inflection
}

func (v *Variable) enabled() int {
	for i, s := range v.Sources {
		if s.Enabled {
			return i
		}
	}
	return -1
}

// EnabledSource returns the source in use.
func (v *Variable) EnabledSource() (search.Result, bool) {
	i := v.enabled()
	if i < 0 {
		return search.Result{}, false
	}
	return v.Sources[i], true
}

// Expr returns the enabled expression with the inflections applied.
func (v *Variable) Expr() string {
	src, _ := v.EnabledSource()
	expr := src.Tmpl
	for _, infl := range v.Inflections {
		expr = infl.Wrap(expr)
	}
	return expr
}

// Template returns the placeholder for the variable; a named variable
// yields its bare expression, bound once by the nugget.
func (v *Variable) Template() string {
	if v.Varname != "" {
		return v.Expr()
	}
	return "{{ " + v.Expr() + " }}"
}

// SetExpr overwrites the enabled expression.
func (v *Variable) SetExpr(expr string) {
	i := v.enabled()
	if i < 0 {
		v.Sources = append(v.Sources, search.Result{Type: search.TypeUser, Tmpl: expr, Enabled: true})
		return
	}
	v.Sources[i].Tmpl = expr
}

// EnableSource switches to the i-th source.
func (v *Variable) EnableSource(i int) error {
	if i < 0 || i >= len(v.Sources) {
		return fmt.Errorf("%w: %d of %d", ErrSourceNotFound, i, len(v.Sources))
	}
	for j := range v.Sources {
		v.Sources[j].Enabled = j == i
	}
	return nil
}

// EnableSourceExpr switches to the source with expression expr.
func (v *Variable) EnableSourceExpr(expr string) error {
	for i, s := range v.Sources {
		if s.Tmpl == expr {
			return v.EnableSource(i)
		}
	}
	return fmt.Errorf("%w: %q", ErrSourceNotFound, expr)
}
