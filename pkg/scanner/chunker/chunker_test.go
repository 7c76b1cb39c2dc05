package chunker

import (
	"testing"

	"github.com/kittclouds/nlgkit/pkg/inflect"
)

func TestTokenize(t *testing.T) {
	c := New()
	text := "James Stewart is the actor with the highest rating."
	ranges := c.tokenize(text)

	// "James", "Stewart", "is", "the", "actor", "with", "the", "highest", "rating", "."
	if len(ranges) != 10 {
		t.Fatalf("Expected 10 tokens, got %d", len(ranges))
	}
	if ranges[0].Slice(text) != "James" {
		t.Errorf("First token should be 'James', got '%s'", ranges[0].Slice(text))
	}
	if ranges[9].Slice(text) != "." {
		t.Errorf("Last token should be '.', got '%s'", ranges[9].Slice(text))
	}
}

func TestTokenizeNumbers(t *testing.T) {
	c := New()
	text := "Ingrid Bergman has a rating of 0.29614, from 1,200 votes."
	var words []string
	for _, r := range c.tokenize(text) {
		words = append(words, r.Slice(text))
	}

	want := []string{"Ingrid", "Bergman", "has", "a", "rating", "of", "0.29614", ",", "from", "1,200", "votes", "."}
	if len(words) != len(want) {
		t.Fatalf("Expected %v, got %v", want, words)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("Token %d should be '%s', got '%s'", i, want[i], words[i])
		}
	}
}

func TestTagging(t *testing.T) {
	c := New()
	result := c.Chunk("James Stewart is the actor with the highest rating.")

	want := []string{"PROPN", "PROPN", "AUX", "DET", "NOUN", "ADP", "DET", "ADJ", "NOUN", "PUNCT"}
	for i, tok := range result.Tokens {
		if got := tok.POS.Universal(); got != want[i] {
			t.Errorf("Token '%s' should be %s, got %s", tok.Text, want[i], got)
		}
	}
}

func TestLemmas(t *testing.T) {
	c := New()
	result := c.Chunk("The votes, names and ratings of Actors are highest.")

	want := map[string]string{
		"The":     "the",
		"votes":   "vote",
		"names":   "name",
		"ratings": "rating",
		"Actors":  "actor",
		"are":     "be",
		"highest": "high",
	}
	for _, tok := range result.Tokens {
		if lemma, ok := want[tok.Text]; ok && tok.Lemma != lemma {
			t.Errorf("Lemma of '%s' should be '%s', got '%s'", tok.Text, lemma, tok.Lemma)
		}
	}
}

func TestStems(t *testing.T) {
	l := NewLemmatizer(inflect.NewEnglish())
	verbs := map[string]string{
		"rating":   "rate",
		"rated":    "rate",
		"hoping":   "hope",
		"baked":    "bake",
		"hopping":  "hop",
		"visiting": "visit",
		"opened":   "open",
		"rained":   "rain",
	}
	for word, want := range verbs {
		if got, _ := l.Lemmatize(word, Verb); got != want {
			t.Errorf("Lemma of verb '%s' should be '%s', got '%s'", word, want, got)
		}
	}
	adjs := map[string]string{"nicest": "nice", "highest": "high", "biggest": "big", "smallest": "small"}
	for word, want := range adjs {
		if got, _ := l.Lemmatize(word, Adjective); got != want {
			t.Errorf("Lemma of adjective '%s' should be '%s', got '%s'", word, want, got)
		}
	}
}

func TestStopwordModifiers(t *testing.T) {
	tagger := NewTagger()
	// "highest" and "quickly" are on the English stopword list
	tags := tagger.Tag([]string{"the", "highest", "rating"})
	want := []POS{Determiner, Adjective, Noun}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("Tag %d should be %s, got %s", i, want[i].Universal(), tags[i].Universal())
		}
	}
	if tags := tagger.Tag([]string{"sales", "quickly", "grew"}); tags[1] != Adverb {
		t.Errorf("'quickly' should be ADV, got %s", tags[1].Universal())
	}
}

func TestLoneWordIsNominal(t *testing.T) {
	c := New()
	for _, w := range []string{"rating", "votes", "category"} {
		result := c.Chunk(w)
		if len(result.Tokens) != 1 || result.Tokens[0].POS != Noun {
			t.Errorf("'%s' should tag as a single Noun", w)
		}
	}
}

func TestPhrases(t *testing.T) {
	c := New()
	text := "James Stewart is the actor with the highest rating."
	result := c.Chunk(text)

	propers := filterByKind(result.Chunks, ProperPhrase)
	if len(propers) != 1 || propers[0].Text(text) != "James Stewart" {
		t.Errorf("Expected proper phrase 'James Stewart', got %v", propers)
	}

	nouns := filterByKind(result.Chunks, NounPhrase)
	if len(nouns) != 2 {
		t.Fatalf("Expected 2 noun phrases, got %d", len(nouns))
	}
	if nouns[0].Text(text) != "actor" || nouns[1].Text(text) != "rating" {
		t.Errorf("Unexpected noun phrases '%s', '%s'", nouns[0].Text(text), nouns[1].Text(text))
	}
}

func TestQuantityPhrase(t *testing.T) {
	c := New()
	text := "Bette Davis has 14 votes."
	result := c.Chunk(text)

	quants := filterByKind(result.Chunks, Quantity)
	if len(quants) != 1 || quants[0].Text(text) != "14" {
		t.Errorf("Expected quantity '14', got %v", quants)
	}
	if quants[0].Start != 3 || quants[0].End != 4 {
		t.Errorf("Quantity should span token 3, got [%d,%d)", quants[0].Start, quants[0].End)
	}
}

func TestModifiedVerbPhrase(t *testing.T) {
	c := New()
	text := "sales quickly grew"
	result := c.Chunk(text)

	vps := filterByKind(result.Chunks, AdverbVerb)
	if len(vps) != 1 || vps[0].Text(text) != "quickly grew" {
		t.Errorf("Expected 'quickly grew', got %v", vps)
	}
}

func TestTextRange(t *testing.T) {
	r := NewRange(0, 5)
	if r.Len() != 5 {
		t.Errorf("Len should be 5, got %d", r.Len())
	}

	text := "hello world"
	if r.Slice(text) != "hello" {
		t.Errorf("Slice should be 'hello', got '%s'", r.Slice(text))
	}

	r2 := NewRange(6, 11)
	if r2.Slice(text) != "world" {
		t.Errorf("Slice should be 'world', got '%s'", r2.Slice(text))
	}
	if r.Overlaps(r2) || !NewRange(0, 11).Contains(r2) {
		t.Error("Range containment is wrong")
	}
}

// Helper
func filterByKind(chunks []Chunk, kind PhraseKind) []Chunk {
	var out []Chunk
	for _, c := range chunks {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
