// Package search finds where the words of a sentence come from: column
// names, cells and transformation parameters of a dataframe. Every match is
// recorded as a Result carrying the expression that reproduces the words.
package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/nlp"
)

// Options configures a DFSearch.
type Options struct {
	ColnameFmt   string // expression for column j
	CellFmt      string // expression for a column name and row
	NRound       int    // digits numbers are rounded to before comparison
	Gazetteer    bool   // scan the text for frame values as entities
	DerivedQuant bool   // match numbers against len(df)
	Args         ArgOpts
	Priorities   []Rule
}

// DefaultOptions returns the canonical accessor forms and default ranking.
func DefaultOptions() Options {
	return Options{
		ColnameFmt: "df.columns[%d]",
		CellFmt:    `df["%s"].iloc[%d]`,
		NRound:     2,
		Gazetteer:  true,
		Args:       DefaultArgOpts(),
		Priorities: DefaultPriorities(),
	}
}

// DFSearch searches one frame.
type DFSearch struct {
	df   *frame.Frame
	an   nlp.Analyzer
	loc  *Locator
	opts Options
	log  zerolog.Logger
	ents []nlp.Key
}

// New creates a search over df.
func New(df *frame.Frame, analyzer nlp.Analyzer, opts Options, log zerolog.Logger) *DFSearch {
	return &DFSearch{
		df:   df,
		an:   analyzer,
		loc:  NewLocator(analyzer, log),
		opts: opts,
		log:  log.With().Str("component", "dfsearch").Logger(),
	}
}

// Entities returns the entities found by the last Search.
func (s *DFSearch) Entities() []nlp.Key {
	return s.ents
}

func (s *DFSearch) colname(j int) string {
	_, w := s.df.Shape()
	return fmt.Sprintf(s.opts.ColnameFmt, SanitizeIndex(w, j))
}

func (s *DFSearch) cell(i, j int) string {
	n, _ := s.df.Shape()
	return fmt.Sprintf(s.opts.CellFmt, quoteName(s.df.Columns()[j]), SanitizeIndex(n, i))
}

func quoteName(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// Search finds the entities of doc, then either the whole text or its
// tokens and numbers, among the columns and cells of the frame.
func (s *DFSearch) Search(doc *nlp.Doc) (*Results, error) {
	res := NewResults()
	if err := s.searchEntities(doc, res); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(doc.Text) <= s.df.MaxLen() {
		if err := s.searchDoc(doc, res); err != nil {
			return nil, err
		}
		return res, nil
	}
	if err := s.searchTokens(doc, res); err != nil {
		return nil, err
	}
	s.searchQuant(doc, res)
	return res, nil
}

// Run searches doc and the parameters, then resolves the results.
func (s *DFSearch) Run(doc *nlp.Doc, args frame.Args) (*Results, error) {
	res, err := s.Search(doc)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		found, err := SearchArgs(doc, s.ents, args, s.opts.Args, s.an)
		if err != nil {
			return nil, err
		}
		res.Update(found)
	}
	res.Clean(doc, s.opts.Priorities)
	s.log.Debug().Int("keys", res.Len()).Msg("search complete")
	return res, nil
}

func (s *DFSearch) searchEntities(doc *nlp.Doc, res *Results) error {
	s.ents = nlp.Entities(doc)
	if s.opts.Gazetteer {
		s.ents = Merge(doc, s.ents, NewGazetteer(s.df).Scan(doc))
	}
	literal := ArrayOpts{Literal: true}

	cols, err := s.loc.SearchArray1D(doc, s.ents, s.df.Columns(), literal)
	if err != nil {
		return err
	}
	for _, h := range cols {
		res.Set(h.Key, Result{Location: LocColname, Type: TypeNE, Tmpl: s.colname(h.Index)})
	}
	cells, err := s.loc.SearchArray2D(doc, s.ents, s.df, literal)
	if err != nil {
		return err
	}
	for _, h := range cells {
		res.Set(h.Key, Result{Location: LocCell, Type: TypeNE, Tmpl: s.cell(h.Row, h.Col)})
	}
	return nil
}

func (s *DFSearch) searchDoc(doc *nlp.Doc, res *Results) error {
	key := doc.DocKey()
	opts := ArrayOpts{Literal: true}

	names := make([]any, s.df.Width())
	for j, c := range s.df.Columns() {
		names[j] = c
	}
	hits, err := s.loc.SearchValues(names, doc.Text, opts)
	if err != nil {
		return err
	}
	for _, j := range hits {
		res.Set(key, Result{Location: LocColname, Type: TypeDoc, Tmpl: s.colname(j)})
	}

	n, w := s.df.Shape()
	cells := make([]any, 0, n*w)
	for i := 0; i < n; i++ {
		for j := 0; j < w; j++ {
			cells = append(cells, literalValue(s.df.At(i, j)))
		}
	}
	hits, err = s.loc.SearchValues(cells, doc.Text, opts)
	if err != nil {
		return err
	}
	for _, p := range hits {
		res.Set(key, Result{Location: LocCell, Type: TypeDoc, Tmpl: s.cell(p/w, p%w)})
	}
	return nil
}

// literalValue maps cells onto the types a literal search accepts.
func literalValue(v any) any {
	switch v.(type) {
	case string, int, float64:
		return v
	case nil:
		return ""
	}
	return frame.Format(v)
}

func (s *DFSearch) searchTokens(doc *nlp.Doc, res *Results) error {
	var keys []nlp.Key
	for i, t := range doc.Tokens {
		if !t.IsPunct && !t.IsSpace {
			keys = append(keys, doc.TokenKey(i))
		}
	}
	opts := DefaultArrayOpts()

	cols, err := s.loc.SearchArray1D(doc, keys, s.df.Columns(), opts)
	if err != nil {
		return err
	}
	for _, h := range cols {
		res.Set(h.Key, Result{Location: LocColname, Type: TypeToken, Tmpl: s.colname(h.Index)})
	}
	cells, err := s.loc.SearchArray2D(doc, keys, s.df, opts)
	if err != nil {
		return err
	}
	for _, h := range cells {
		res.Set(h.Key, Result{Location: LocCell, Type: TypeToken, Tmpl: s.cell(h.Row, h.Col)})
	}
	return nil
}

func (s *DFSearch) searchQuant(doc *nlp.Doc, res *Results) {
	nums := NumKeys(doc)
	for _, h := range SearchQuant(doc, nums, s.df, s.opts.NRound) {
		res.Set(h.Key, Result{Location: LocCell, Type: TypeQuant, Tmpl: s.cell(h.Row, h.Col)})
	}
	if !s.opts.DerivedQuant {
		return
	}
	for _, k := range SearchDerivedQuant(doc, nums, s.df) {
		res.Set(k, Result{Location: LocCell, Type: TypeQuant, Tmpl: "len(df)"})
	}
}
