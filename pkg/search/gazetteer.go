package search

import (
	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/nlp"
)

// Gazetteer scans text for the column names and string cells of a frame.
// Matching is case-sensitive, whole-word and leftmost-longest.
type Gazetteer struct {
	ac       ahocorasick.AhoCorasick
	patterns []string
}

// NewGazetteer builds the automaton over the names and string values of df.
func NewGazetteer(df *frame.Frame) *Gazetteer {
	g := &Gazetteer{}
	seen := make(map[string]bool)
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		g.patterns = append(g.patterns, s)
	}
	for _, c := range df.Columns() {
		add(c)
	}
	for j := 0; j < df.Width(); j++ {
		col := df.ColAt(j)
		if col.Kind != frame.String {
			continue
		}
		for _, v := range col.Values() {
			if s, ok := v.(string); ok {
				add(s)
			}
		}
	}
	if len(g.patterns) == 0 {
		return g
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: false,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	g.ac = builder.Build(g.patterns)
	return g
}

// Len returns the number of distinct patterns.
func (g *Gazetteer) Len() int {
	return len(g.patterns)
}

// Scan returns the keys of every match that lines up with token
// boundaries in doc.
func (g *Gazetteer) Scan(doc *nlp.Doc) []nlp.Key {
	if len(g.patterns) == 0 {
		return nil
	}
	var keys []nlp.Key
	for _, m := range g.ac.FindAll(doc.Text) {
		k, err := doc.Resolve(m.Start(), m.End())
		if err != nil {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// Merge adds the gazetteer keys to ents. Entities overlapping a gazetteer
// key are dropped in its favour.
func Merge(doc *nlp.Doc, ents, gaz []nlp.Key) []nlp.Key {
	if len(gaz) == 0 {
		return ents
	}
	out := append([]nlp.Key(nil), gaz...)
	for _, e := range ents {
		keep := true
		for _, g := range gaz {
			if e.Overlaps(g) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, e)
		}
	}
	out = nlp.Unoverlap(doc, uniqueKeys(out))
	nlp.SortKeys(out)
	return out
}
