package search

import (
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/nlp"
)

// ArrayOpts controls how keys are compared with array values.
type ArrayOpts struct {
	Literal   bool // compare the exact text
	Case      bool // keep case when not literal
	Lemmatize bool // compare lemmas
	NRound    int  // round float values to this many digits first; 0 keeps them
}

// DefaultArrayOpts compares lemmas.
func DefaultArrayOpts() ArrayOpts {
	return ArrayOpts{Lemmatize: true}
}

// IndexHit is a key found at an index of a 1-D array.
type IndexHit struct {
	Key   nlp.Key
	Index int
}

// CellHit is a key found in a cell of a frame.
type CellHit struct {
	Key nlp.Key
	Row int
	Col int
}

type mode uint8

const (
	modeExact mode = iota
	modeLower
	modeLemma
)

// Locator finds the keys of a document in arrays and frames.
type Locator struct {
	analyzer nlp.Analyzer
	log      zerolog.Logger
}

// NewLocator creates a Locator that lemmatizes array values with analyzer.
func NewLocator(analyzer nlp.Analyzer, log zerolog.Logger) *Locator {
	return &Locator{analyzer: analyzer, log: log.With().Str("component", "locator").Logger()}
}

func (l *Locator) mode(opts ArrayOpts) (mode, error) {
	if opts.Case && opts.NRound > 0 {
		return 0, fmt.Errorf("%w: case-sensitive search over rounded values", ErrNotImplemented)
	}
	if opts.Literal {
		if opts.Lemmatize {
			l.log.Warn().Msg("literal search, ignoring lemmatization")
		}
		return modeExact, nil
	}
	if opts.Lemmatize {
		if opts.Case {
			l.log.Warn().Msg("case-sensitive search, skipping lemmatization")
			return modeExact, nil
		}
		return modeLemma, nil
	}
	if opts.Case {
		return modeExact, nil
	}
	return modeLower, nil
}

func keyNorm(doc *nlp.Doc, k nlp.Key, m mode) string {
	switch m {
	case modeLemma:
		return strings.ToLower(doc.KeyLemma(k))
	case modeLower:
		return strings.ToLower(norm.NFC.String(doc.KeyText(k)))
	}
	return norm.NFC.String(doc.KeyText(k))
}

// column normalises the formatted values of one column. In lemma mode a
// column holding a multi-word value falls back to lower case.
func (l *Locator) column(name string, values []string, m mode) ([]string, error) {
	out := make([]string, len(values))
	if m != modeLemma {
		for i, v := range values {
			out[i] = norm.NFC.String(v)
			if m == modeLower {
				out[i] = strings.ToLower(out[i])
			}
		}
		return out, nil
	}
	for i, v := range values {
		if v == "" {
			continue
		}
		doc, err := l.analyzer.Analyze(v)
		if err != nil {
			return nil, err
		}
		var words []nlp.Token
		for _, t := range doc.Tokens {
			if !t.IsSpace {
				words = append(words, t)
			}
		}
		if len(words) != 1 {
			l.log.Warn().Str("column", name).Msg("cannot lemmatize multi-word cells, comparing lower case")
			return l.column(name, values, modeLower)
		}
		out[i] = strings.ToLower(words[0].Lemma)
	}
	return out, nil
}

// lastPositions marks every position whose value is wanted and returns,
// per value, the last marked position.
func lastPositions(values []string, want map[string]bool) map[string]int {
	mask := roaring.New()
	for p, v := range values {
		if v != "" && want[v] {
			mask.Add(uint32(p))
		}
	}
	last := make(map[string]int)
	it := mask.Iterator()
	for it.HasNext() {
		p := int(it.Next())
		last[values[p]] = p
	}
	return last
}

func uniqueKeys(keys []nlp.Key) []nlp.Key {
	seen := make(map[nlp.Key]bool, len(keys))
	out := make([]nlp.Key, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// SearchArray1D finds keys among target, returning for each key found the
// index of the last equal value.
func (l *Locator) SearchArray1D(doc *nlp.Doc, keys []nlp.Key, target []string, opts ArrayOpts) ([]IndexHit, error) {
	m, err := l.mode(opts)
	if err != nil {
		return nil, err
	}
	values, err := l.column("columns", target, m)
	if err != nil {
		return nil, err
	}
	keys = uniqueKeys(keys)
	norms := make([]string, len(keys))
	want := make(map[string]bool)
	for i, k := range keys {
		norms[i] = keyNorm(doc, k, m)
		want[norms[i]] = true
	}
	last := lastPositions(values, want)
	var hits []IndexHit
	for i, k := range keys {
		if p, ok := last[norms[i]]; ok {
			hits = append(hits, IndexHit{Key: k, Index: p})
		}
	}
	return hits, nil
}

// SearchArray2D finds keys among the cells of df. When a value occurs in
// several cells the last one in row-major order is returned.
func (l *Locator) SearchArray2D(doc *nlp.Doc, keys []nlp.Key, df *frame.Frame, opts ArrayOpts) ([]CellHit, error) {
	m, err := l.mode(opts)
	if err != nil {
		return nil, err
	}
	if opts.NRound > 0 {
		df = df.Round(opts.NRound)
	}
	n, w := df.Shape()
	values := make([]string, n*w)
	for j := 0; j < w; j++ {
		col := df.ColAt(j)
		cm := m
		if cm == modeLemma && col.Kind != frame.String {
			cm = modeExact
		}
		norms, err := l.column(col.Name, cellStrings(col), cm)
		if err != nil {
			return nil, err
		}
		for i, v := range norms {
			values[i*w+j] = v
		}
	}

	keys = uniqueKeys(keys)
	kn := make([]string, len(keys))
	want := make(map[string]bool)
	for i, k := range keys {
		kn[i] = keyNorm(doc, k, m)
		want[kn[i]] = true
	}
	last := lastPositions(values, want)
	var hits []CellHit
	for i, k := range keys {
		if p, ok := last[kn[i]]; ok {
			hits = append(hits, CellHit{Key: k, Row: p / w, Col: p % w})
		}
	}
	return hits, nil
}

// cellStrings formats the values of s, leaving missing values empty.
func cellStrings(s *frame.Series) []string {
	out := make([]string, s.Len())
	for i, v := range s.Values() {
		if v != nil {
			out[i] = frame.Format(v)
		}
	}
	return out
}

// SearchValues returns every position of values equal to target, compared
// case-insensitively unless opts.Case is set.
func (l *Locator) SearchValues(values []any, target string, opts ArrayOpts) ([]int, error) {
	fold := func(s string) string {
		s = norm.NFC.String(s)
		if !opts.Case {
			s = strings.ToLower(s)
		}
		return s
	}
	target = fold(target)
	mask := roaring.New()
	for p, v := range values {
		switch v.(type) {
		case string, int, int64, int32, float64, float32:
		default:
			return nil, fmt.Errorf("%w: %T at %d", ErrLiteralType, v, p)
		}
		if fold(frame.Format(v)) == target {
			mask.Add(uint32(p))
		}
	}
	out := make([]int, 0, mask.GetCardinality())
	it := mask.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out, nil
}

// SanitizeIndex expresses i as an offset from the nearer end of an axis of
// length n: the first half counts from the start, the rest from the end.
func SanitizeIndex(n, i int) int {
	if i <= n/2 {
		return i
	}
	return -(n - i)
}

// SanitizeIndices is SanitizeIndex along axis of a frame shape.
func SanitizeIndices(shape [2]int, i, axis int) int {
	return SanitizeIndex(shape[axis], i)
}
