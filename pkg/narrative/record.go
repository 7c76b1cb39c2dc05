package narrative

import (
	"fmt"

	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/grammar"
	"github.com/kittclouds/nlgkit/pkg/nlp"
	"github.com/kittclouds/nlgkit/pkg/search"
)

// VariableRecord is the persisted form of a Variable. Idx is the byte
// offset of the text in the sentence, Index the token range it covers.
type VariableRecord struct {
	Text        string               `json:"text"`
	Kind        string               `json:"kind"`
	Index       [2]int               `json:"index"`
	Idx         int                  `json:"idx"`
	Sources     []search.Result      `json:"sources"`
	Varname     string               `json:"varname"`
	Inflections []grammar.Inflection `json:"inflections"`
}

// Record is the persisted form of a Nugget.
type Record struct {
	Text      string           `json:"text"`
	Tokenmap  []VariableRecord `json:"tokenmap"`
	Args      frame.Args       `json:"fh_args"`
	Condition string           `json:"condition,omitempty"`
	Name      string           `json:"name,omitempty"`
	Template  string           `json:"template"`
}

// Record captures the nugget for persistence.
func (n *Nugget) Record() Record {
	rec := Record{
		Text:      n.Doc.Text,
		Tokenmap:  make([]VariableRecord, 0, len(n.vars)),
		Args:      n.Args.Copy(),
		Condition: n.Condition,
		Name:      n.Name,
		Template:  n.Template(),
	}
	for _, v := range n.vars {
		start, end := n.Doc.TokenRange(v.Key)
		rec.Tokenmap = append(rec.Tokenmap, VariableRecord{
			Text:        v.Text,
			Kind:        v.Key.Kind.String(),
			Index:       [2]int{start, end},
			Idx:         v.Key.Start,
			Sources:     append([]search.Result(nil), v.Sources...),
			Varname:     v.Varname,
			Inflections: append([]grammar.Inflection{}, v.Inflections...),
		})
	}
	return rec
}

// NuggetFromRecord re-analyzes the sentence of rec and resolves every
// variable by offset against the fresh analysis.
func NuggetFromRecord(rec Record, env *Env) (*Nugget, error) {
	doc, err := env.Analyzer.Analyze(rec.Text)
	if err != nil {
		return nil, fmt.Errorf("analyze %q: %w", rec.Text, err)
	}
	n := &Nugget{Doc: doc, Args: rec.Args, Condition: rec.Condition, Name: rec.Name, env: env}
	if n.Args == nil {
		n.Args = frame.Args{}
	}
	for _, vr := range rec.Tokenmap {
		kind, err := nlp.ParseKind(vr.Kind)
		if err != nil {
			return nil, err
		}
		k, err := doc.ResolveKind(kind, vr.Idx, vr.Idx+len(vr.Text))
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", vr.Text, err)
		}
		if got := doc.KeyText(k); got != vr.Text {
			return nil, fmt.Errorf("variable %q: text at %d is %q: %w", vr.Text, vr.Idx, got, nlp.ErrUnaligned)
		}
		n.vars = append(n.vars, &Variable{
			Key:         k,
			Text:        vr.Text,
			Sources:     vr.Sources,
			Varname:     vr.Varname,
			Inflections: vr.Inflections,
		})
	}
	n.sortVars()
	return n, nil
}
