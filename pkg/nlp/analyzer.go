package nlp

import (
	"github.com/kittclouds/nlgkit/pkg/inflect"
	"github.com/kittclouds/nlgkit/pkg/scanner/chunker"
)

// Analyzer tokenizes, tags and lemmatizes text.
type Analyzer interface {
	Analyze(text string) (*Doc, error)
}

// English is the default rule-based Analyzer. It is stateless after
// construction and safe for concurrent use.
type English struct {
	chunker *chunker.Chunker
}

var _ Analyzer = (*English)(nil)

// NewEnglish creates an analyzer with the default inflector.
func NewEnglish() *English {
	return &English{chunker: chunker.New()}
}

// NewEnglishWithInflector creates an analyzer whose noun lemmas come from infl.
func NewEnglishWithInflector(infl inflect.Inflector) *English {
	return &English{chunker: chunker.NewWithInflector(infl)}
}

// Analyze implements Analyzer.
func (e *English) Analyze(text string) (*Doc, error) {
	res := e.chunker.Chunk(text)

	doc := &Doc{Text: text, Tokens: make([]Token, len(res.Tokens))}
	for i, t := range res.Tokens {
		doc.Tokens[i] = Token{
			I:       i,
			Text:    t.Text,
			Lemma:   t.Lemma,
			POS:     t.POS.Universal(),
			Tag:     t.Tag,
			Idx:     t.Range.Start,
			IsPunct: t.POS == chunker.Punctuation,
		}
	}

	for _, c := range res.Chunks {
		span := Span{Start: c.Start, End: c.End, Label: c.Kind.String()}
		if c.Kind == chunker.ProperPhrase {
			doc.Ents = append(doc.Ents, span)
			continue
		}
		doc.Phrases = append(doc.Phrases, span)
	}
	return doc, nil
}
