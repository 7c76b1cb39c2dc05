package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sentence = "James Stewart is the actor with the highest rating."

func analyze(t *testing.T, text string) *Doc {
	t.Helper()
	doc, err := NewEnglish().Analyze(text)
	require.NoError(t, err)
	return doc
}

func TestAnalyze(t *testing.T) {
	doc := analyze(t, sentence)

	require.Equal(t, 10, doc.Len())
	assert.Equal(t, "actor", doc.Tokens[4].Text)
	assert.Equal(t, 21, doc.Tokens[4].Idx)
	assert.Equal(t, "NOUN", doc.Tokens[4].POS)
	assert.True(t, doc.Tokens[9].IsPunct)
	require.Len(t, doc.Ents, 1)
	assert.Equal(t, Span{Start: 0, End: 2, Label: "NP1"}, doc.Ents[0])
}

func TestKeys(t *testing.T) {
	doc := analyze(t, sentence)

	span := doc.SpanKey(0, 2)
	assert.Equal(t, Key{Kind: KindSpan, Start: 0, End: 13}, span)
	assert.Equal(t, "James Stewart", doc.KeyText(span))
	assert.Equal(t, "james stewart", doc.KeyLemma(span))

	// single-token spans collapse to token keys
	assert.Equal(t, doc.TokenKey(4), doc.SpanKey(4, 5))
	assert.Equal(t, KindToken, doc.SpanKey(4, 5).Kind)

	start, end := doc.TokenRange(span)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)

	whole := doc.DocKey()
	assert.Equal(t, sentence, doc.KeyText(whole))
	assert.True(t, whole.Contains(span))
	assert.False(t, span.Overlaps(doc.TokenKey(4)))
}

func TestResolve(t *testing.T) {
	doc := analyze(t, sentence)

	k, err := doc.Resolve(0, 13)
	require.NoError(t, err)
	assert.Equal(t, doc.SpanKey(0, 2), k)

	k, err = doc.Resolve(21, 26)
	require.NoError(t, err)
	assert.Equal(t, doc.TokenKey(4), k)

	_, err = doc.Resolve(1, 13)
	assert.ErrorIs(t, err, ErrUnaligned)

	k, err = doc.ResolveKind(KindDoc, 0, len(sentence))
	require.NoError(t, err)
	assert.Equal(t, KindDoc, k.Kind)
}

func TestEntities(t *testing.T) {
	doc := analyze(t, sentence)

	var texts []string
	for _, k := range Entities(doc) {
		texts = append(texts, doc.KeyText(k))
	}
	assert.Equal(t, []string{"James Stewart", "actor", "rating"}, texts)
}

func TestIsOverlap(t *testing.T) {
	doc := analyze(t, "Cary Grant and Grant have 14 votes.")
	cary := doc.SpanKey(0, 2)
	grant := doc.TokenKey(3)
	num := doc.TokenKey(5)

	assert.True(t, IsOverlap(doc, grant, []Key{cary, grant}))
	assert.False(t, IsOverlap(doc, cary, []Key{cary, grant}))

	// numbers survive even inside the whole document
	assert.False(t, IsOverlap(doc, num, []Key{num, doc.DocKey()}))
	assert.True(t, IsOverlap(doc, cary, []Key{cary, doc.DocKey()}))

	assert.Equal(t, []Key{cary, num}, Unoverlap(doc, []Key{cary, grant, num}))
}

func TestHasNum(t *testing.T) {
	doc := analyze(t, "Bette Davis has 14 votes.")
	assert.True(t, doc.HasNum(doc.SpanKey(2, 5)))
	assert.False(t, doc.HasNum(doc.SpanKey(0, 2)))
}
