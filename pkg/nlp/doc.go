// Package nlp holds the analyzed-document model shared by the search and
// templating packages: tokens, spans, and the Key sum type that identifies a
// matched region of a sentence.
package nlp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnaligned is returned when offsets do not fall on token boundaries.
var ErrUnaligned = errors.New("nlp: offsets do not align with token boundaries")

// Token is a single analyzed word or punctuation mark.
type Token struct {
	I       int    `json:"index"`
	Text    string `json:"text"`
	Lemma   string `json:"lemma"`
	POS     string `json:"pos"`
	Tag     string `json:"tag"`
	Idx     int    `json:"idx"`
	IsPunct bool   `json:"is_punct"`
	IsSpace bool   `json:"is_space"`
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Idx + len(t.Text)
}

// Span is a run of tokens [Start, End).
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label,omitempty"`
}

// Doc is the result of analyzing one sentence or short paragraph.
type Doc struct {
	Text    string  `json:"text"`
	Tokens  []Token `json:"tokens"`
	Ents    []Span  `json:"ents"`
	Phrases []Span  `json:"phrases"`
}

// Len returns the number of tokens.
func (d *Doc) Len() int {
	return len(d.Tokens)
}

// TokenKey returns the key of token i.
func (d *Doc) TokenKey(i int) Key {
	t := d.Tokens[i]
	return Key{Kind: KindToken, Start: t.Idx, End: t.End()}
}

// SpanKey returns the key of tokens [start, end). Single-token spans become
// token keys.
func (d *Doc) SpanKey(start, end int) Key {
	if end-start == 1 {
		return d.TokenKey(start)
	}
	return Key{Kind: KindSpan, Start: d.Tokens[start].Idx, End: d.Tokens[end-1].End()}
}

// DocKey returns the key covering the whole document.
func (d *Doc) DocKey() Key {
	return Key{Kind: KindDoc, Start: 0, End: len(d.Text)}
}

// Resolve maps byte offsets onto a token or span key. The offsets must start
// at a token's first byte and end at a token's last byte.
func (d *Doc) Resolve(start, end int) (Key, error) {
	first, last := -1, -1
	for i, t := range d.Tokens {
		if t.Idx == start {
			first = i
		}
		if t.End() == end {
			last = i
			break
		}
	}
	if first < 0 || last < first {
		return Key{}, fmt.Errorf("%w: [%d, %d)", ErrUnaligned, start, end)
	}
	return d.SpanKey(first, last+1), nil
}

// ResolveKind is Resolve for a key of a known kind.
func (d *Doc) ResolveKind(kind Kind, start, end int) (Key, error) {
	if kind != KindDoc {
		return d.Resolve(start, end)
	}
	if start != 0 || end != len(d.Text) {
		return Key{}, fmt.Errorf("%w: doc key [%d, %d) on %d bytes", ErrUnaligned, start, end, len(d.Text))
	}
	return d.DocKey(), nil
}

// TokenRange returns the token indices [start, end) covered by k.
func (d *Doc) TokenRange(k Key) (int, int) {
	start, end := -1, -1
	for i, t := range d.Tokens {
		if start < 0 && t.Idx >= k.Start {
			start = i
		}
		if t.End() <= k.End {
			end = i + 1
		}
	}
	if start < 0 || end < start {
		return 0, 0
	}
	return start, end
}

// KeyTokens returns the tokens covered by k.
func (d *Doc) KeyTokens(k Key) []Token {
	start, end := d.TokenRange(k)
	return d.Tokens[start:end]
}

// KeyText returns the source text covered by k.
func (d *Doc) KeyText(k Key) string {
	if k.Start < 0 || k.End > len(d.Text) || k.Start > k.End {
		return ""
	}
	return d.Text[k.Start:k.End]
}

// KeyLemma returns the space-joined lemmas of the tokens covered by k.
func (d *Doc) KeyLemma(k Key) string {
	toks := d.KeyTokens(k)
	lemmas := make([]string, 0, len(toks))
	for _, t := range toks {
		lemmas = append(lemmas, t.Lemma)
	}
	return strings.Join(lemmas, " ")
}

// HasNum reports whether any token covered by k is a number.
func (d *Doc) HasNum(k Key) bool {
	for _, t := range d.KeyTokens(k) {
		if t.POS == "NUM" {
			return true
		}
	}
	return false
}

// Keys returns the keys of the given spans, in order.
func (d *Doc) Keys(spans []Span) []Key {
	keys := make([]Key, 0, len(spans))
	for _, s := range spans {
		keys = append(keys, d.SpanKey(s.Start, s.End))
	}
	return keys
}
