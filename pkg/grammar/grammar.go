// Package grammar holds the English helpers templates call through the G
// namespace, and detects the inflections that turn a data value into the
// form a sentence used.
package grammar

import (
	"fmt"
	"strings"

	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/inflect"
	"github.com/kittclouds/nlgkit/pkg/nlp"
	"github.com/kittclouds/nlgkit/pkg/tmpl"
)

// Grammar answers number questions with an analyzer and changes number
// with an inflector.
type Grammar struct {
	infl inflect.Inflector
	an   nlp.Analyzer
}

// New creates a Grammar. A nil analyzer makes IsPluralNoun rely on the
// inflector alone.
func New(infl inflect.Inflector, an nlp.Analyzer) *Grammar {
	return &Grammar{infl: infl, an: an}
}

// IsPluralNoun reports whether the last word of text is a plural noun.
func (g *Grammar) IsPluralNoun(text string) bool {
	if g.an == nil {
		return g.infl.IsPlural(text)
	}
	doc, err := g.an.Analyze(text)
	if err != nil {
		return g.infl.IsPlural(text)
	}
	for i := len(doc.Tokens) - 1; i >= 0; i-- {
		t := doc.Tokens[i]
		if t.IsPunct || t.IsSpace {
			continue
		}
		return t.Tag == "NNS" || t.Tag == "NNPS"
	}
	return false
}

// IsSingularNoun is the negation of IsPluralNoun.
func (g *Grammar) IsSingularNoun(text string) bool {
	return !g.IsPluralNoun(text)
}

// Plural pluralizes word unless it already is plural.
func (g *Grammar) Plural(word string) string {
	if g.IsPluralNoun(word) {
		return word
	}
	return g.infl.Plural(word)
}

// Singular singularizes word if it is plural.
func (g *Grammar) Singular(word string) string {
	if !g.IsPluralNoun(word) {
		return word
	}
	return g.infl.Singular(word)
}

// PluralizeBy makes word plural when by is a number above one or a
// collection of more than one item, and singular otherwise.
func (g *Grammar) PluralizeBy(word string, by any) string {
	n := 0.0
	switch x := by.(type) {
	case []any:
		n = float64(len(x))
	case []string:
		n = float64(len(x))
	case string:
		n = float64(len([]rune(x)))
	case *frame.Series:
		n = float64(x.Len())
	case *frame.Frame:
		n = float64(x.Len())
	default:
		n, _ = frame.ToFloat(by)
	}
	if n > 1 {
		return g.Plural(word)
	}
	return g.Singular(word)
}

// PluralizeLike gives x the number of y.
func (g *Grammar) PluralizeLike(x, y string) string {
	if g.IsPluralNoun(y) {
		return g.Plural(x)
	}
	return g.Singular(x)
}

// ConcatenateItems joins items as English prose. With the default ", "
// separator the last item is joined by "and": "a, b and c".
func ConcatenateItems(items []string, sep string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	if sep != ", " {
		return strings.Join(items, sep)
	}
	return strings.Join(items[:len(items)-1], sep) + " and " + items[len(items)-1]
}

// Namespace exposes the grammar to templates as G.
func (g *Grammar) Namespace() tmpl.Namespace {
	ns := tmpl.Namespace{
		"plural":           g.wordFunc("plural", g.Plural),
		"singular":         g.wordFunc("singular", g.Singular),
		"is_plural_noun":   g.predicate("is_plural_noun", g.IsPluralNoun),
		"is_singular_noun": g.predicate("is_singular_noun", g.IsSingularNoun),
		"concatenate_items": func(args ...any) (any, error) {
			if len(args) == 0 || len(args) > 2 {
				return nil, fmt.Errorf("%w: concatenate_items() takes 1 or 2 arguments", tmpl.ErrType)
			}
			items, err := itemStrings(args[0])
			if err != nil {
				return nil, err
			}
			sep := ", "
			if len(args) == 2 {
				sep = tmpl.Format(args[1])
			}
			return ConcatenateItems(items, sep), nil
		},
		"pluralize_by": func(args ...any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("%w: pluralize_by() takes 2 arguments", tmpl.ErrType)
			}
			return g.PluralizeBy(tmpl.Format(args[0]), args[1]), nil
		},
		"pluralize_like": func(args ...any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("%w: pluralize_like() takes 2 arguments", tmpl.ErrType)
			}
			return g.PluralizeLike(tmpl.Format(args[0]), tmpl.Format(args[1])), nil
		},
	}
	for _, name := range tmpl.StringMethods {
		ns[name] = g.wordFunc(name, func(s string) string {
			out, _ := tmpl.ApplyStringMethod(name, s)
			return out
		})
	}
	return ns
}

func (g *Grammar) wordFunc(name string, fn func(string) string) tmpl.Func {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %s() takes 1 argument", tmpl.ErrType, name)
		}
		return fn(tmpl.Format(args[0])), nil
	}
}

func (g *Grammar) predicate(name string, fn func(string) bool) tmpl.Func {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %s() takes 1 argument", tmpl.ErrType, name)
		}
		return fn(tmpl.Format(args[0])), nil
	}
}

// itemStrings flattens a list or series into its formatted items.
func itemStrings(v any) ([]string, error) {
	switch x := v.(type) {
	case []any:
		out := make([]string, len(x))
		for i, item := range x {
			out[i] = tmpl.Format(item)
		}
		return out, nil
	case []string:
		return x, nil
	case *frame.Series:
		return x.Strings(), nil
	}
	return nil, fmt.Errorf("%w: expected a list, got %T", tmpl.ErrType, v)
}
