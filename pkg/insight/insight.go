// Package insight writes sentences straight from data: an insight names an
// intent, whose sentence pattern is filled field by field from literals,
// random choices, cell lookups and computed quantities.
package insight

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/tmpl"
)

var (
	// ErrIntent is returned for an intent with no sentence pattern.
	ErrIntent = errors.New("insight: unknown intent")
	// ErrFilter is returned for a filter method that cannot pick a row.
	ErrFilter = errors.New("insight: unsupported filter")
)

// Templates maps intents to their sentence patterns.
var Templates = map[string]string{
	"extreme":    "{subject} {verb} the {adjective} {object}.",
	"comparison": "{subject} {verb} {quant} {adjective} than {object}.",
}

// Chooser picks an index in [0, n). *rand.Rand satisfies it.
type Chooser interface {
	IntN(n int) int
}

// NewRandom returns a seeded Chooser.
func NewRandom(seed uint64) Chooser {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Insight is the structure an insight is written from.
type Insight struct {
	Intent   string           `json:"intent" yaml:"intent"`
	Metadata map[string]Field `json:"metadata" yaml:"metadata"`
}

type handler func(g *Generator, f Field, df *frame.Frame) (string, error)

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		KindLiteral:   literal,
		KindChoice:    choice,
		KindTemplate:  template,
		KindCell:      cell,
		KindOperation: operation,
	}
}

// Generator renders insights.
type Generator struct {
	Chooser  Chooser
	Renderer *tmpl.Renderer
	Log      zerolog.Logger
}

// NewGenerator returns a generator using chooser for random picks.
func NewGenerator(chooser Chooser, log zerolog.Logger) *Generator {
	return &Generator{Chooser: chooser, Renderer: tmpl.New(), Log: log}
}

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// Render writes the sentence for in from df. Pattern slots with no
// metadata are left as they are.
func (g *Generator) Render(in Insight, df *frame.Frame) (string, error) {
	pattern, ok := Templates[in.Intent]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrIntent, in.Intent)
	}
	return g.fill(pattern, in.Metadata, df, true)
}

// Field evaluates a single field against df.
func (g *Generator) Field(f Field, df *frame.Frame) (string, error) {
	return handlers[f.Kind()](g, f, df)
}

func (g *Generator) fill(pattern string, fields map[string]Field, df *frame.Frame, lenient bool) (string, error) {
	var err error
	out := placeholder.ReplaceAllStringFunc(pattern, func(m string) string {
		if err != nil {
			return m
		}
		name := m[1 : len(m)-1]
		f, ok := fields[name]
		if !ok {
			if !lenient {
				err = fmt.Errorf("%w: no value for {%s}", ErrField, name)
			}
			return m
		}
		s, ferr := g.Field(f, df)
		if ferr != nil {
			err = fmt.Errorf("%s: %w", name, ferr)
			return m
		}
		return s
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

func literal(_ *Generator, f Field, _ *frame.Frame) (string, error) {
	return f.Literal, nil
}

func choice(g *Generator, f Field, _ *frame.Frame) (string, error) {
	return f.Choices[g.Chooser.IntN(len(f.Choices))], nil
}

func template(g *Generator, f Field, df *frame.Frame) (string, error) {
	return g.fill(f.Template, f.Kwargs, df, false)
}

func cell(g *Generator, f Field, df *frame.Frame) (string, error) {
	v, err := CellValue(df, f.Colname, f.Filter)
	if err != nil {
		return "", err
	}
	return frame.Format(v), nil
}

func operation(g *Generator, f Field, df *frame.Frame) (string, error) {
	v, err := g.Renderer.Eval(f.Expr, map[string]any{"data": df, "df": df})
	if err != nil {
		return "", fmt.Errorf("operation %q: %w", f.Expr, err)
	}
	g.Log.Debug().Str("expr", f.Expr).Interface("value", v).Msg("operation evaluated")
	return frame.Format(v), nil
}

// CellValue reads column col of df as selected by filter.
func CellValue(df *frame.Frame, col string, filter Filter) (any, error) {
	s, err := df.Col(col)
	if err != nil {
		return nil, err
	}
	if filter.By == "" {
		if filter.Method == "mode" {
			return s.Mode(), nil
		}
		return s.Agg(filter.Method)
	}

	by, err := df.Col(filter.By)
	if err != nil {
		return nil, err
	}
	var i int
	switch filter.Method {
	case "max":
		i = by.ArgMax()
	case "min":
		i = by.ArgMin()
	default:
		return nil, fmt.Errorf("%w: %s(%s)", ErrFilter, filter.Method, filter.By)
	}
	if i < 0 {
		return nil, fmt.Errorf("%w: %s has no values", ErrFilter, filter.By)
	}
	return s.At(i), nil
}
