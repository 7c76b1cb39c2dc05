// Package narrative assembles search results into nuggets: sentences whose
// data-backed words are replaced by expressions, ready to be rendered
// against new data. Nuggets compose into a Narrative.
package narrative

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/grammar"
	"github.com/kittclouds/nlgkit/pkg/nlp"
	"github.com/kittclouds/nlgkit/pkg/search"
	"github.com/kittclouds/nlgkit/pkg/tmpl"
)

// Marker separates the generated preamble from the editable sentence.
const Marker = "{# Do not edit above this line. #}"

// Nugget is one templatized sentence.
type Nugget struct {
	Doc       *nlp.Doc
	Args      frame.Args
	Condition string
	Name      string

	vars []*Variable
	env  *Env
}

// New builds a nugget from resolved search results and the inflections
// found for them.
func New(doc *nlp.Doc, res *search.Results, infl map[nlp.Key][]grammar.Inflection, args frame.Args, env *Env) *Nugget {
	n := &Nugget{Doc: doc, Args: args, env: env}
	if res != nil {
		for _, k := range res.Keys() {
			n.vars = append(n.vars, &Variable{
				Key:         k,
				Text:        doc.KeyText(k),
				Sources:     append([]search.Result(nil), res.Get(k)...),
				Inflections: append([]grammar.Inflection(nil), infl[k]...),
			})
		}
	}
	n.sortVars()
	return n
}

func (n *Nugget) sortVars() {
	sort.SliceStable(n.vars, func(i, j int) bool {
		a, b := n.vars[i].Key, n.vars[j].Key
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End > b.End
	})
}

// Text returns the original sentence.
func (n *Nugget) Text() string {
	return n.Doc.Text
}

// Variables returns the variables in sentence order.
func (n *Nugget) Variables() []*Variable {
	return n.vars
}

// Template returns the renderable template of the nugget.
func (n *Nugget) Template() string {
	return n.build(func(s string) string { return s })
}

// build substitutes every variable by offset, passing each placeholder
// through wrap.
func (n *Nugget) build(wrap func(string) string) string {
	text := n.Doc.Text
	names := make(map[string]string)
	for _, v := range n.vars {
		if v.Varname != "" {
			names[v.Expr()] = v.Varname
		}
	}

	var body, sets strings.Builder
	bound := make(map[string]bool)
	pos := 0
	for _, v := range n.vars {
		if v.Key.Start < pos {
			continue
		}
		body.WriteString(text[pos:v.Key.Start])
		expr := v.Expr()
		var ph string
		switch name, ok := names[expr]; {
		case v.Varname != "":
			ph = "{{ " + v.Varname + " }}"
			if !bound[v.Varname] {
				bound[v.Varname] = true
				fmt.Fprintf(&sets, "{%% set %s = %s %%}\n", v.Varname, expr)
			}
		case ok:
			ph = "{{ " + name + " }}"
		default:
			ph = v.Template()
		}
		body.WriteString(wrap(ph))
		pos = v.Key.End
	}
	body.WriteString(text[pos:])

	sent := sets.String() + body.String()
	if n.Condition != "" {
		sent = "{% if " + n.Condition + " %}\n" + sent + "\n{% end %}"
	}
	return n.preamble() + sent
}

func (n *Nugget) preamble() string {
	if len(n.Args) == 0 {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Args is a map of string slices; encoding cannot fail
	_ = enc.Encode(n.Args)
	return "{% set fh_args = " + strings.TrimSpace(buf.String()) + " %}\n" +
		"{% set df = U.gfilter(orgdf, fh_args.copy()) %}\n" +
		"{% set fh_args = U.sanitize_fh_args(fh_args, df) %}\n" +
		Marker + "\n"
}

// Render renders the nugget against df with its own parameters.
func (n *Nugget) Render(df *frame.Frame) (string, error) {
	return n.render(n.Template(), df)
}

// RenderWith renders the nugget against df with other parameters, leaving
// the nugget unchanged.
func (n *Nugget) RenderWith(df *frame.Frame, args frame.Args) (string, error) {
	saved := n.Args
	n.Args = args
	src := n.Template()
	n.Args = saved
	return n.render(src, df)
}

func (n *Nugget) render(src string, df *frame.Frame) (string, error) {
	out, err := n.env.Renderer.Render(src, n.env.Bindings(df))
	if err != nil {
		return "", fmt.Errorf("render nugget %q: %w", n.Name, err)
	}
	return out, nil
}

// ============================================================================
// Editing
// ============================================================================

// AddVar turns the region k of the sentence into a user variable. Without
// an expression the variable binds the literal text.
func (n *Nugget) AddVar(k nlp.Key, varname, expr string) (*Variable, error) {
	if varname == "" && expr == "" {
		return nil, ErrVarSpec
	}
	for _, v := range n.vars {
		if v.Key.Overlaps(k) {
			return nil, fmt.Errorf("%w: %q overlaps %q", ErrOverlap, n.Doc.KeyText(k), v.Text)
		}
	}
	if expr == "" {
		expr = tmpl.Repr(n.Doc.KeyText(k))
	}
	v := &Variable{
		Key:     k,
		Text:    n.Doc.KeyText(k),
		Sources: []search.Result{{Type: search.TypeUser, Tmpl: expr, Enabled: true}},
		Varname: varname,
	}
	n.vars = append(n.vars, v)
	n.sortVars()
	return v, nil
}

// AddVarAt adds a variable over token i.
func (n *Nugget) AddVarAt(i int, varname, expr string) (*Variable, error) {
	if i < 0 || i >= n.Doc.Len() {
		return nil, fmt.Errorf("%w: token %d of %d", ErrVariableNotFound, i, n.Doc.Len())
	}
	return n.AddVar(n.Doc.TokenKey(i), varname, expr)
}

// AddVarRange adds a variable over tokens [start, end).
func (n *Nugget) AddVarRange(start, end int, varname, expr string) (*Variable, error) {
	if start < 0 || end > n.Doc.Len() || start >= end {
		return nil, fmt.Errorf("%w: tokens [%d, %d) of %d", ErrVariableNotFound, start, end, n.Doc.Len())
	}
	return n.AddVar(n.Doc.SpanKey(start, end), varname, expr)
}

// GetVar finds a variable by its text. Text occurring more than once in
// the sentence resolves to the first variable, with a warning.
func (n *Nugget) GetVar(text string) (*Variable, error) {
	if c := n.occurrences(text); c > 1 {
		n.env.Log.Warn().Str("text", text).Int("occurrences", c).Msg("ambiguous variable lookup, using the first")
	}
	for _, v := range n.vars {
		if v.Text == text {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrVariableNotFound, text)
}

// occurrences counts the token runs of the sentence that read exactly text.
func (n *Nugget) occurrences(text string) int {
	c := 0
	for i := 0; i < n.Doc.Len(); i++ {
		for j := i + 1; j <= n.Doc.Len(); j++ {
			s := n.Doc.KeyText(n.Doc.SpanKey(i, j))
			if len(s) >= len(text) {
				if s == text {
					c++
				}
				break
			}
		}
	}
	return c
}

// GetVarAt finds the variable covering token i.
func (n *Nugget) GetVarAt(i int) (*Variable, error) {
	if i >= 0 && i < n.Doc.Len() {
		tk := n.Doc.TokenKey(i)
		for _, v := range n.vars {
			if v.Key.Contains(tk) {
				return v, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: token %d", ErrVariableNotFound, i)
}

// GetVarKey finds the variable with key k.
func (n *Nugget) GetVarKey(k nlp.Key) (*Variable, error) {
	for _, v := range n.vars {
		if v.Key == k {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrVariableNotFound, k)
}

// GetVarRange finds the variable over tokens [start, end).
func (n *Nugget) GetVarRange(start, end int) (*Variable, error) {
	if start < 0 || end > n.Doc.Len() || start >= end {
		return nil, fmt.Errorf("%w: tokens [%d, %d)", ErrVariableNotFound, start, end)
	}
	return n.GetVarKey(n.Doc.SpanKey(start, end))
}

// RemoveVar drops the variable with key k.
func (n *Nugget) RemoveVar(k nlp.Key) error {
	for i, v := range n.vars {
		if v.Key == k {
			n.vars = append(n.vars[:i], n.vars[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrVariableNotFound, k)
}
