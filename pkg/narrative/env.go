package narrative

import (
	"github.com/rs/zerolog"

	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/grammar"
	"github.com/kittclouds/nlgkit/pkg/inflect"
	"github.com/kittclouds/nlgkit/pkg/nlp"
	"github.com/kittclouds/nlgkit/pkg/tmpl"
)

// Renderer evaluates a template against named bindings.
type Renderer interface {
	Render(src string, vars map[string]any) (string, error)
}

// Env carries the collaborators nuggets need to render and to reload.
type Env struct {
	Renderer Renderer
	Analyzer nlp.Analyzer
	Grammar  *grammar.Grammar
	Log      zerolog.Logger
}

// DefaultEnv wires the English analyzer and inflector with the built-in
// renderer.
func DefaultEnv() *Env {
	an := nlp.NewEnglish()
	return &Env{
		Renderer: tmpl.New(),
		Analyzer: an,
		Grammar:  grammar.New(inflect.NewEnglish(), an),
		Log:      zerolog.Nop(),
	}
}

// Bindings returns the names a nugget template is rendered with.
func (e *Env) Bindings(df *frame.Frame) map[string]any {
	return map[string]any{
		"orgdf": df,
		"df":    df,
		"U":     tmpl.Utils(),
		"G":     e.Grammar.Namespace(),
	}
}
