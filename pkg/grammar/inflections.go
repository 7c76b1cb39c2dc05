package grammar

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/nlp"
	"github.com/kittclouds/nlgkit/pkg/search"
	"github.com/kittclouds/nlgkit/pkg/tmpl"
)

// Sources of an inflection: a call in the grammar namespace, or a string
// method on the expression.
const (
	SourceGrammar = "G"
	SourceString  = "str"
)

// Inflection is one function applied to a looked-up value so that it reads
// like the sentence did.
type Inflection struct {
	Source   string `json:"source"`
	FEName   string `json:"fe_name"`
	FuncName string `json:"func_name"`
}

// Wrap applies the inflection to an expression.
func (i Inflection) Wrap(expr string) string {
	if i.Source == SourceString {
		return expr + "." + i.FuncName + "()"
	}
	return fmt.Sprintf("%s.%s(%s)", i.Source, i.FuncName, expr)
}

var (
	Singularize  = Inflection{Source: SourceGrammar, FEName: "Singularize", FuncName: "singular"}
	Pluralize    = Inflection{Source: SourceGrammar, FEName: "Pluralize", FuncName: "plural"}
	ConcateItems = Inflection{Source: SourceGrammar, FEName: "Concate Items", FuncName: "concatenate_items"}
)

var shapes = map[string]Inflection{
	"capitalize": {Source: SourceString, FEName: "Capitalize", FuncName: "capitalize"},
	"lower":      {Source: SourceString, FEName: "Lowercase", FuncName: "lower"},
	"swapcase":   {Source: SourceString, FEName: "Swapcase", FuncName: "swapcase"},
	"title":      {Source: SourceString, FEName: "Title", FuncName: "title"},
	"upper":      {Source: SourceString, FEName: "Uppercase", FuncName: "upper"},
}

// Options lists the inflections offered for editing templates, keyed by
// their display name.
func Options() map[string]Inflection {
	out := map[string]Inflection{
		Singularize.FEName:  Singularize,
		Pluralize.FEName:    Pluralize,
		ConcateItems.FEName: ConcateItems,
	}
	for _, s := range shapes {
		out[s.FEName] = s
	}
	return out
}

// OptionNames returns the keys of Options in sorted order.
func OptionNames() []string {
	opts := Options()
	names := make([]string, 0, len(opts))
	for n := range opts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Detector finds inflections between search results and the sentence.
type Detector struct {
	Grammar  *Grammar
	Analyzer nlp.Analyzer
	Renderer *tmpl.Renderer
	Log      zerolog.Logger
}

// FindInflections renders the enabled result of every key against df and
// args and, where the rendered value differs from the sentence but shares
// its lemma, returns the number and shape changes that reconcile them.
func (d *Detector) FindInflections(doc *nlp.Doc, res *search.Results, args frame.Args, df *frame.Frame) (map[nlp.Key][]Inflection, error) {
	vars := map[string]any{
		"df":      df,
		"fh_args": args.Dict(),
		"G":       d.Grammar.Namespace(),
	}
	out := make(map[nlp.Key][]Inflection)
	for _, k := range res.Keys() {
		r, ok := res.Enabled(k)
		if !ok {
			continue
		}
		rendered, err := d.Renderer.Render("{{ "+r.Tmpl+" }}", vars)
		if err != nil {
			return nil, fmt.Errorf("render %q: %w", r.Tmpl, err)
		}
		text := doc.KeyText(k)
		if rendered == text {
			continue
		}
		same, err := d.sameLemma(rendered, doc.KeyLemma(k))
		if err != nil {
			return nil, err
		}
		if !same {
			d.Log.Warn().Str("text", text).Str("value", rendered).Msg("lemmas differ, not inflecting")
			continue
		}
		if infl := d.between(rendered, text); len(infl) > 0 {
			out[k] = infl
		}
	}
	return out, nil
}

func (d *Detector) sameLemma(rendered, lemma string) (bool, error) {
	x, err := d.Analyzer.Analyze(rendered)
	if err != nil {
		return false, err
	}
	var lemmas []string
	for _, t := range x.Tokens {
		if !t.IsPunct && !t.IsSpace {
			lemmas = append(lemmas, t.Lemma)
		}
	}
	return strings.EqualFold(strings.Join(lemmas, " "), lemma), nil
}

// between returns the inflections turning x into y: at most one number
// change followed by at most one shape change.
func (d *Detector) between(x, y string) []Inflection {
	var out []Inflection
	g := d.Grammar

	base := x
	switch {
	case g.IsSingularNoun(y):
		if s := g.Singular(x); strings.EqualFold(s, y) {
			out = append(out, Singularize)
			base = s
		}
	default:
		if p := g.Plural(x); strings.EqualFold(p, y) {
			out = append(out, Pluralize)
			base = p
		}
	}

	if utf8.RuneCountInString(base) == utf8.RuneCountInString(y) {
		for _, name := range tmpl.StringMethods {
			if s, _ := tmpl.ApplyStringMethod(name, base); s == y {
				out = append(out, shapes[name])
				break
			}
		}
	}
	return out
}
