package narrative

import (
	"fmt"
	"strings"

	"github.com/kittclouds/nlgkit/pkg/frame"
)

// Style controls how a narrative is laid out as HTML.
type Style struct {
	Style     string `json:"style" yaml:"style"`         // para or list
	ListStyle string `json:"liststyle" yaml:"liststyle"` // html or markdown
	Bold      bool   `json:"bold" yaml:"bold"`
	Italic    bool   `json:"italic" yaml:"italic"`
	Underline bool   `json:"underline" yaml:"underline"`
}

// DefaultStyle is a paragraph with bold variables.
func DefaultStyle() Style {
	return Style{Style: "para", ListStyle: "html", Bold: true}
}

// wrap highlights a placeholder with the enabled tags.
func (s Style) wrap(ph string) string {
	if s.Underline {
		ph = "<u>" + ph + "</u>"
	}
	if s.Italic {
		ph = "<em>" + ph + "</em>"
	}
	if s.Bold {
		ph = "<strong>" + ph + "</strong>"
	}
	return ph
}

// Narrative is an ordered list of nuggets.
type Narrative struct {
	ID      string
	Name    string
	Style   Style
	Nuggets []*Nugget
}

// NewNarrative creates a narrative with the default style.
func NewNarrative(nuggets ...*Nugget) *Narrative {
	return &Narrative{Style: DefaultStyle(), Nuggets: nuggets}
}

// Len returns the number of nuggets.
func (nr *Narrative) Len() int {
	return len(nr.Nuggets)
}

// Append adds n at the end.
func (nr *Narrative) Append(n *Nugget) {
	nr.Nuggets = append(nr.Nuggets, n)
}

// Prepend adds n at the start.
func (nr *Narrative) Prepend(n *Nugget) {
	nr.Nuggets = append([]*Nugget{n}, nr.Nuggets...)
}

// Insert places n at position i.
func (nr *Narrative) Insert(i int, n *Nugget) error {
	if i < 0 || i > len(nr.Nuggets) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	nr.Nuggets = append(nr.Nuggets, nil)
	copy(nr.Nuggets[i+1:], nr.Nuggets[i:])
	nr.Nuggets[i] = n
	return nil
}

// Pop removes and returns the nugget at i.
func (nr *Narrative) Pop(i int) (*Nugget, error) {
	if i < 0 || i >= len(nr.Nuggets) {
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	n := nr.Nuggets[i]
	nr.Nuggets = append(nr.Nuggets[:i], nr.Nuggets[i+1:]...)
	return n, nil
}

// Move moves the nugget at from to position to.
func (nr *Narrative) Move(from, to int) error {
	if to < 0 || to >= len(nr.Nuggets) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, to)
	}
	n, err := nr.Pop(from)
	if err != nil {
		return err
	}
	return nr.Insert(to, n)
}

// Render renders every nugget against df and joins them with sep.
func (nr *Narrative) Render(df *frame.Frame, sep string) (string, error) {
	parts, err := nr.renderAll(df, func(n *Nugget) string { return n.Template() })
	if err != nil {
		return "", err
	}
	return strings.Join(parts, sep), nil
}

// ToHTML renders the narrative with its style, highlighting variables.
func (nr *Narrative) ToHTML(df *frame.Frame) (string, error) {
	parts, err := nr.renderAll(df, func(n *Nugget) string { return n.build(nr.Style.wrap) })
	if err != nil {
		return "", err
	}
	if nr.Style.Style != "list" {
		return "<p>" + strings.Join(parts, " ") + "</p>", nil
	}
	var b strings.Builder
	if nr.Style.ListStyle == "markdown" {
		for _, p := range parts {
			b.WriteString("- " + p + "\n")
		}
		return b.String(), nil
	}
	b.WriteString("<ul>")
	for _, p := range parts {
		b.WriteString("<li>" + p + "</li>")
	}
	b.WriteString("</ul>")
	return b.String(), nil
}

// renderAll renders every nugget and drops the ones that come out empty,
// such as nuggets whose condition does not hold.
func (nr *Narrative) renderAll(df *frame.Frame, src func(*Nugget) string) ([]string, error) {
	parts := make([]string, 0, len(nr.Nuggets))
	for i, n := range nr.Nuggets {
		out, err := n.render(src(n), df)
		if err != nil {
			return nil, fmt.Errorf("nugget %d: %w", i, err)
		}
		if out = strings.TrimSpace(out); out != "" {
			parts = append(parts, out)
		}
	}
	return parts, nil
}

// NarrativeRecord is the persisted form of a Narrative.
type NarrativeRecord struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name,omitempty"`
	Style   Style    `json:"style"`
	Nuggets []Record `json:"nuggets"`
}

// Record captures the narrative for persistence.
func (nr *Narrative) Record() NarrativeRecord {
	rec := NarrativeRecord{ID: nr.ID, Name: nr.Name, Style: nr.Style, Nuggets: make([]Record, 0, len(nr.Nuggets))}
	for _, n := range nr.Nuggets {
		rec.Nuggets = append(rec.Nuggets, n.Record())
	}
	return rec
}

// NarrativeFromRecord restores a narrative, re-analyzing every nugget.
func NarrativeFromRecord(rec NarrativeRecord, env *Env) (*Narrative, error) {
	nr := &Narrative{ID: rec.ID, Name: rec.Name, Style: rec.Style}
	for i, r := range rec.Nuggets {
		n, err := NuggetFromRecord(r, env)
		if err != nil {
			return nil, fmt.Errorf("nugget %d: %w", i, err)
		}
		nr.Nuggets = append(nr.Nuggets, n)
	}
	return nr, nil
}
