package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/orsinium-labs/stopwords"
)

// Tagger performs Part-of-Speech tagging with context awareness
type Tagger struct {
	lexicon   map[string]POS
	stopwords interface{ Contains(string) bool }
}

// NewTagger creates a new Tagger with default lexicon
func NewTagger() *Tagger {
	t := &Tagger{
		lexicon:   make(map[string]POS),
		stopwords: stopwords.MustGet("en"),
	}
	t.loadDefaultLexicon()
	return t
}

// Tag processes a slice of words and returns their POS tags
// Uses a 2-pass approach:
// 1. Baseline: Dictionary lookup + Suffix Heuristics
// 2. Reinforcement: Contextual correction rules
func (t *Tagger) Tag(words []string) []POS {
	tags := make([]POS, len(words))

	// Pass 1: Baseline (Static)
	for i, word := range words {
		tags[i] = t.lookupBaseline(word)
	}

	// A lone word is a label: column header, cell value, parameter
	if len(words) == 1 && tags[0].IsVerbal() && tags[0] != Auxiliary {
		tags[0] = Noun
		return tags
	}

	// Pass 2: Context Reinforcement (Dynamic)
	for i := 0; i < len(tags); i++ {
		currentTag := tags[i]

		var prevTag POS = Other
		if i > 0 {
			prevTag = tags[i-1]
		}

		// Rule 1: Determiner/Adjective force Noun
		// "the [rating]", "highest [rating]"
		if (prevTag == Determiner || prevTag == Adjective) && currentTag == Verb {
			tags[i] = Noun
			continue
		}

		// Rule 2: Modal forces Verb
		// "can [run]", "will [attack]"
		if prevTag == Modal && currentTag == Noun {
			tags[i] = Verb
			continue
		}

		// Rule 3: "To" forces Verb (Infinitive marker)
		// "want to [run]"
		if i > 0 && isTo(words[i-1]) && currentTag == Noun && i+1 < len(words) && tags[i+1] != Noun {
			tags[i] = Verb
			continue
		}

		// Rule 4: "Of" forces Noun
		// "number of [ratings]"
		if i > 0 && isOf(words[i-1]) && currentTag == Verb {
			tags[i] = Noun
			continue
		}
	}

	return tags
}

func (t *Tagger) lookupBaseline(word string) POS {
	lower := fastLower(word)

	// Check lexicon
	if pos, ok := t.lexicon[lower]; ok {
		return pos
	}
	if isNumeric(word) {
		return Number
	}
	// Function words the lexicon does not cover. The stopword list also
	// holds modifiers such as "highest" and "quickly"; those keep their
	// suffix tag.
	if t.stopwords.Contains(lower) && !startsUpper(word) && !hasModifierSuffix(lower) {
		return Particle
	}

	// Infer from heuristics
	return t.inferPOS(word)
}

func (t *Tagger) inferPOS(word string) POS {
	lower := fastLower(word)

	// Single punctuation
	if utf8.RuneCountInString(word) == 1 {
		ch, _ := utf8.DecodeRuneInString(word)
		if unicode.IsPunct(ch) || unicode.IsSymbol(ch) {
			return Punctuation
		}
	}

	// Proper noun: starts with uppercase
	if startsUpper(word) {
		return ProperNoun
	}

	// Suffix heuristics
	if hasModifierSuffix(lower) {
		if strings.HasSuffix(lower, "ly") {
			return Adverb
		}
		return Adjective
	}
	if strings.HasSuffix(lower, "ing") || strings.HasSuffix(lower, "ed") {
		return Verb
	}
	if strings.HasSuffix(lower, "ness") || strings.HasSuffix(lower, "tion") ||
		strings.HasSuffix(lower, "ment") || strings.HasSuffix(lower, "ity") ||
		strings.HasSuffix(lower, "er") || strings.HasSuffix(lower, "or") {
		return Noun
	}
	if strings.HasSuffix(lower, "ful") || strings.HasSuffix(lower, "less") ||
		strings.HasSuffix(lower, "ous") || strings.HasSuffix(lower, "ive") ||
		strings.HasSuffix(lower, "able") || strings.HasSuffix(lower, "ible") ||
		strings.HasSuffix(lower, "al") || strings.HasSuffix(lower, "ic") {
		return Adjective
	}

	// Default: noun
	return Noun
}

// hasModifierSuffix matches adverbs in -ly and superlatives in -est
func hasModifierSuffix(lower string) bool {
	return strings.HasSuffix(lower, "ly") || (strings.HasSuffix(lower, "est") && len(lower) > 5)
}

// fastLower returns the string if it contains no uppercase characters,
// otherwise returns strings.ToLower(s). Avoids allocation for common case.
func fastLower(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' || c >= utf8.RuneSelf {
			return strings.ToLower(s)
		}
	}
	return s
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// isNumeric matches 14, -3, 0.29614 and 1,200
func isNumeric(s string) bool {
	digits := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isDigit(c):
			digits++
		case c == '-' && i == 0:
		case c == '.' || c == ',':
		default:
			return false
		}
	}
	return digits > 0
}

func isTo(s string) bool {
	return len(s) == 2 && (s[0] == 't' || s[0] == 'T') && (s[1] == 'o' || s[1] == 'O')
}

func isOf(s string) bool {
	return len(s) == 2 && (s[0] == 'o' || s[0] == 'O') && (s[1] == 'f' || s[1] == 'F')
}

func (t *Tagger) loadDefaultLexicon() {
	// Determiners
	for _, w := range []string{"the", "a", "an", "this", "that", "these", "those", "my", "your",
		"his", "her", "its", "our", "their", "some", "any", "no", "every", "each", "all", "both",
		"few", "many", "much", "most", "more", "less", "least", "other", "another"} {
		t.lexicon[w] = Determiner
	}

	// Prepositions
	for _, w := range []string{"in", "on", "at", "to", "for", "with", "by", "from", "of", "about",
		"into", "through", "during", "before", "after", "above", "below", "between", "under", "over",
		"against", "among", "around", "behind", "beside", "beyond", "near", "toward", "towards",
		"upon", "within", "without", "across", "along", "inside", "outside", "throughout", "than",
		"per", "versus", "vs"} {
		t.lexicon[w] = Preposition
	}

	// Auxiliaries
	for _, w := range []string{"is", "are", "was", "were", "be", "been", "being", "am",
		"have", "has", "had", "having", "do", "does", "did", "doing"} {
		t.lexicon[w] = Auxiliary
	}

	// Modals
	for _, w := range []string{"can", "could", "will", "would", "shall", "should", "may", "might", "must"} {
		t.lexicon[w] = Modal
	}

	// Conjunctions
	for _, w := range []string{"and", "or", "but", "nor", "yet", "so", "because", "although",
		"while", "if", "unless", "until", "since", "when", "where", "whether"} {
		t.lexicon[w] = Conjunction
	}

	// Pronouns
	for _, w := range []string{"i", "you", "he", "she", "it", "we", "they", "me", "him", "us", "them",
		"myself", "yourself", "himself", "herself", "itself", "ourselves", "themselves"} {
		t.lexicon[w] = Pronoun
	}

	// Relative pronouns
	for _, w := range []string{"who", "whom", "whose", "which"} {
		t.lexicon[w] = RelativePronoun
	}

	// Number words
	for _, w := range []string{"zero", "one", "two", "three", "four", "five", "six", "seven",
		"eight", "nine", "ten", "eleven", "twelve", "twenty", "thirty", "hundred", "thousand",
		"million", "billion"} {
		t.lexicon[w] = Number
	}

	// Common adjectives
	for _, w := range []string{"old", "new", "good", "bad", "great", "small", "large", "big", "little",
		"young", "long", "short", "high", "low", "early", "late", "first", "last", "second", "third",
		"best", "worst", "better", "worse", "higher", "lower", "larger", "smaller", "top", "bottom",
		"average", "total", "mean", "median", "maximum", "minimum", "popular", "same", "different",
		"black", "white", "red", "blue", "green"} {
		t.lexicon[w] = Adjective
	}

	// Common adverbs
	for _, w := range []string{"very", "quite", "rather", "really", "too", "just", "only",
		"now", "then", "here", "there", "always", "never", "often", "sometimes", "also",
		"not", "already", "still", "even", "almost", "nearly"} {
		t.lexicon[w] = Adverb
	}

	// Common verbs
	for _, w := range []string{"go", "went", "gone", "come", "came", "say", "said", "see", "saw",
		"seen", "know", "knew", "known", "take", "took", "taken", "get", "got", "make", "made",
		"win", "won", "lose", "lost", "lead", "led", "sell", "sold", "buy", "bought", "grow",
		"grew", "grown", "rise", "rose", "risen", "fall", "fell", "fallen", "earn", "earns",
		"score", "scores", "gets", "makes", "leads", "sells", "rises", "falls", "grows", "wins",
		"has", "shows", "show", "contains", "contain", "stands", "ranks"} {
		if _, ok := t.lexicon[w]; !ok {
			t.lexicon[w] = Verb
		}
	}
}
