package insight

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/grammar"
)

// Description summarises a dataset in a few sentences: what it holds, the
// most common values of its text columns and the range of its numbers.
type Description struct {
	Rowname  string
	Prefixes []string
	TopN     int
	Digits   int

	df       *frame.Frame
	grammar  *grammar.Grammar
	chooser  Chooser
	indices  []string
	texts    []string
	numerics []string
}

// NewDescription cleans df and classifies its columns. Columns whose values
// are all distinct identify rows.
func NewDescription(df *frame.Frame, rowname string, g *grammar.Grammar, chooser Chooser) *Description {
	d := &Description{
		Rowname:  rowname,
		Prefixes: []string{"This dataset contains"},
		TopN:     5,
		Digits:   2,
		df:       df.Clean(),
		grammar:  g,
		chooser:  chooser,
	}
	for j, name := range d.df.Columns() {
		s := d.df.ColAt(j)
		if s.Kind.IsNumeric() {
			d.numerics = append(d.numerics, name)
			continue
		}
		d.texts = append(d.texts, name)
		if len(s.Unique()) == d.df.Len() {
			d.indices = append(d.indices, name)
		}
	}
	return d
}

// Indices returns the columns that identify rows.
func (d *Description) Indices() []string {
	return d.indices
}

// Sentences returns the description, one sentence per entry.
func (d *Description) Sentences() []string {
	out := []string{d.Metadata()}
	out = append(out, d.Categoricals()...)
	return append(out, d.Numericals()...)
}

// Render joins the sentences with sep.
func (d *Description) Render(sep string) string {
	return strings.Join(d.Sentences(), sep)
}

// Metadata says how many rows of what the dataset holds.
func (d *Description) Metadata() string {
	entity := "rows"
	if len(d.indices) > 0 {
		entity = d.grammar.Plural(d.indices[d.chooser.IntN(len(d.indices))])
	}
	prefix := d.Prefixes[d.chooser.IntN(len(d.Prefixes))]
	parts := []string{prefix}
	if d.Rowname != "" {
		parts = append(parts, d.Rowname, "for")
	}
	parts = append(parts, fmt.Sprint(d.df.Len()), entity+".")
	return strings.Join(parts, " ")
}

// Categoricals lists the most common values of every text column.
func (d *Description) Categoricals() []string {
	var out []string
	for _, name := range d.texts {
		s, _ := d.df.Col(name)
		values, _ := s.ValueCounts()
		if len(values) > d.TopN {
			values = values[:d.TopN]
		}
		if len(values) == 0 {
			continue
		}
		items := make([]string, len(values))
		for i, v := range values {
			items[i] = frame.Format(v)
		}
		col, verb := d.grammar.Plural(name), "are"
		if len(items) == 1 {
			col, verb = name, "is"
		}
		out = append(out, fmt.Sprintf("The top %d %s %s %s.", len(items), col, verb, grammar.ConcatenateItems(items, ", ")))
	}
	return out
}

// Numericals gives the range and average of every numeric column.
func (d *Description) Numericals() []string {
	var out []string
	for _, name := range d.numerics {
		s, _ := d.df.Col(name)
		if s.Count() == 0 {
			continue
		}
		mean := scalar.RoundEven(s.Mean(), d.Digits)
		out = append(out, fmt.Sprintf("%s vary from a minimum value of %s to a maximum of %s at an average of %s.",
			name, frame.Format(s.Min()), frame.Format(s.Max()), frame.FormatFloat(mean)))
	}
	return out
}
