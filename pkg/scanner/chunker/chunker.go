// Package chunker implements rule-based tokenization, POS tagging,
// lemmatization and phrase matching for English sentences.
package chunker

import (
	"unicode"
	"unicode/utf8"

	"github.com/kittclouds/nlgkit/pkg/inflect"
)

// ============================================================================
// TextRange
// ============================================================================

// TextRange represents a byte offset span in text
type TextRange struct {
	Start int
	End   int
}

// NewRange creates a new TextRange
func NewRange(start, end int) TextRange {
	return TextRange{Start: start, End: end}
}

// Len returns the length of the range
func (r TextRange) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range is empty
func (r TextRange) IsEmpty() bool {
	return r.Start >= r.End
}

// Slice extracts the text covered by this range
func (r TextRange) Slice(text string) string {
	if r.Start < 0 || r.End > len(text) || r.Start > r.End {
		return ""
	}
	return text[r.Start:r.End]
}

// Contains checks if this range contains another
func (r TextRange) Contains(other TextRange) bool {
	return r.Start <= other.Start && r.End >= other.End
}

// Overlaps checks if ranges overlap
func (r TextRange) Overlaps(other TextRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// ============================================================================
// POS (Part of Speech)
// ============================================================================

// POS represents a part-of-speech tag
type POS int

const (
	Noun POS = iota
	Pronoun
	ProperNoun
	Verb
	Auxiliary
	Modal
	Adjective
	Adverb
	Determiner
	Preposition
	Conjunction
	RelativePronoun
	Number
	Particle
	Punctuation
	Other
)

// IsNominal returns true if the POS is noun-like
func (p POS) IsNominal() bool {
	return p == Noun || p == Pronoun || p == ProperNoun
}

// IsVerbal returns true if the POS is verb-like
func (p POS) IsVerbal() bool {
	return p == Verb || p == Auxiliary || p == Modal
}

// IsModifier returns true if the POS is a modifier
func (p POS) IsModifier() bool {
	return p == Adjective || p == Adverb
}

// Universal returns the Universal Dependencies tag for the POS.
func (p POS) Universal() string {
	switch p {
	case Noun:
		return "NOUN"
	case Pronoun, RelativePronoun:
		return "PRON"
	case ProperNoun:
		return "PROPN"
	case Verb:
		return "VERB"
	case Auxiliary, Modal:
		return "AUX"
	case Adjective:
		return "ADJ"
	case Adverb:
		return "ADV"
	case Determiner:
		return "DET"
	case Preposition:
		return "ADP"
	case Conjunction:
		return "CCONJ"
	case Number:
		return "NUM"
	case Particle:
		return "PART"
	case Punctuation:
		return "PUNCT"
	default:
		return "X"
	}
}

// ============================================================================
// Token
// ============================================================================

// Token is a tagged, lemmatized word in text
type Token struct {
	Text  string
	POS   POS
	Tag   string // fine-grained Penn tag
	Lemma string
	Range TextRange
}

// ============================================================================
// PhraseKind
// ============================================================================

// PhraseKind identifies the rule that produced a phrase match
type PhraseKind int

const (
	ProperPhrase PhraseKind = iota // PROPN+
	NounPhrase                     // NOUN+
	AdverbVerb                     // ADV+ VERB+
	AdjectiveVerb                  // ADJ+ VERB+
	Quantity                       // NUM+
)

// String returns a readable name
func (k PhraseKind) String() string {
	switch k {
	case ProperPhrase:
		return "NP1"
	case NounPhrase:
		return "NP2"
	case AdverbVerb:
		return "NP3"
	case AdjectiveVerb:
		return "NP4"
	case Quantity:
		return "QUANT"
	default:
		return "UNKNOWN"
	}
}

// ============================================================================
// Chunk
// ============================================================================

// Chunk is a detected phrase. Start and End are token indices, End exclusive.
type Chunk struct {
	Kind  PhraseKind
	Range TextRange
	Start int
	End   int
}

// Text extracts the full chunk text
func (c *Chunk) Text(source string) string {
	return c.Range.Slice(source)
}

// ============================================================================
// ChunkResult
// ============================================================================

// ChunkResult holds the output of chunking
type ChunkResult struct {
	Chunks []Chunk
	Tokens []Token
}

// ============================================================================
// Chunker
// ============================================================================

// Chunker performs tokenization, tagging, lemmatization and phrase matching
type Chunker struct {
	tagger *Tagger
	lemmer *Lemmatizer
}

// New creates a Chunker with the default English lexicon and inflector
func New() *Chunker {
	return NewWithInflector(inflect.NewEnglish())
}

// NewWithInflector creates a Chunker that lemmatizes nouns with infl
func NewWithInflector(infl inflect.Inflector) *Chunker {
	return &Chunker{
		tagger: NewTagger(),
		lemmer: NewLemmatizer(infl),
	}
}

// Chunk processes text and returns tagged tokens and phrase matches
func (c *Chunker) Chunk(text string) ChunkResult {
	// Step 1: Tokenize
	ranges := c.tokenize(text)

	// Step 2: Tag POS and lemmatize
	tokens := c.tagTokens(ranges, text)

	// Step 3: Find phrases
	chunks := c.findChunks(tokens)

	return ChunkResult{Chunks: chunks, Tokens: tokens}
}

// ============================================================================
// Tokenization
// ============================================================================

func (c *Chunker) tokenize(text string) []TextRange {
	// Heuristic: Average word length 5 + punctuation. ~1/6 of text len.
	tokens := make([]TextRange, 0, len(text)/6)
	var start int = -1

	for i, ch := range text {
		if isWordRune(ch) || (start != -1 && isNumberJoiner(text, i, ch)) {
			// Inside a word
			if start == -1 {
				start = i
			}
		} else {
			// End of word
			if start != -1 {
				tokens = append(tokens, NewRange(start, i))
				start = -1
			}
			// Punctuation and symbols as separate tokens
			if unicode.IsPunct(ch) || unicode.IsSymbol(ch) {
				tokens = append(tokens, NewRange(i, i+utf8.RuneLen(ch)))
			}
		}
	}
	// Handle trailing word
	if start != -1 {
		tokens = append(tokens, NewRange(start, len(text)))
	}
	return tokens
}

func isWordRune(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '\'' || ch == '-' || ch == '_'
}

// isNumberJoiner keeps decimal points and thousands separators inside numbers.
func isNumberJoiner(text string, i int, ch rune) bool {
	if ch != '.' && ch != ',' {
		return false
	}
	if i == 0 || i+1 >= len(text) {
		return false
	}
	return isDigit(text[i-1]) && isDigit(text[i+1])
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// ============================================================================
// POS Tagging
// ============================================================================

func (c *Chunker) tagTokens(ranges []TextRange, text string) []Token {
	// Extract words
	words := make([]string, len(ranges))
	for i, r := range ranges {
		words[i] = r.Slice(text)
	}

	// Tag them using the Tagger (Baseline + Context)
	posTags := c.tagger.Tag(words)

	// Combine into Tokens
	tokens := make([]Token, len(ranges))
	for i := 0; i < len(ranges); i++ {
		lemma, tag := c.lemmer.Lemmatize(words[i], posTags[i])
		tokens[i] = Token{Text: words[i], POS: posTags[i], Tag: tag, Lemma: lemma, Range: ranges[i]}
	}

	return tokens
}

// ============================================================================
// Phrase Finding
// ============================================================================

func (c *Chunker) findChunks(tokens []Token) []Chunk {
	// Heuristic: Chunks are roughly 1/3 of tokens
	chunks := make([]Chunk, 0, len(tokens)/3)
	i := 0

	for i < len(tokens) {
		// Try patterns in priority order
		if chunk, consumed := c.tryRun(tokens, i, ProperPhrase, ProperNoun); consumed > 0 {
			chunks = append(chunks, chunk)
			i += consumed
		} else if chunk, consumed := c.tryRun(tokens, i, NounPhrase, Noun); consumed > 0 {
			chunks = append(chunks, chunk)
			i += consumed
		} else if chunk, consumed := c.tryModifiedVerb(tokens, i, AdverbVerb, Adverb); consumed > 0 {
			chunks = append(chunks, chunk)
			i += consumed
		} else if chunk, consumed := c.tryModifiedVerb(tokens, i, AdjectiveVerb, Adjective); consumed > 0 {
			chunks = append(chunks, chunk)
			i += consumed
		} else if chunk, consumed := c.tryRun(tokens, i, Quantity, Number); consumed > 0 {
			chunks = append(chunks, chunk)
			i += consumed
		} else {
			i++
		}
	}

	return chunks
}

// tryRun: POS+
func (c *Chunker) tryRun(tokens []Token, start int, kind PhraseKind, pos POS) (Chunk, int) {
	i := start
	for i < len(tokens) && tokens[i].POS == pos {
		i++
	}
	if i == start {
		return Chunk{}, 0
	}
	return newChunk(kind, tokens, start, i), i - start
}

// tryModifiedVerb: MOD+ VERB+
func (c *Chunker) tryModifiedVerb(tokens []Token, start int, kind PhraseKind, mod POS) (Chunk, int) {
	i := start
	for i < len(tokens) && tokens[i].POS == mod {
		i++
	}
	if i == start {
		return Chunk{}, 0
	}

	verbStart := i
	for i < len(tokens) && tokens[i].POS == Verb {
		i++
	}
	if i == verbStart {
		return Chunk{}, 0
	}
	return newChunk(kind, tokens, start, i), i - start
}

func newChunk(kind PhraseKind, tokens []Token, start, end int) Chunk {
	rng := NewRange(tokens[start].Range.Start, tokens[end-1].Range.End)
	return Chunk{Kind: kind, Range: rng, Start: start, End: end}
}
