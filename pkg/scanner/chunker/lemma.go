package chunker

import (
	"strings"

	"github.com/kittclouds/nlgkit/pkg/inflect"
)

// Lemmatizer reduces words to a lower-case dictionary form
type Lemmatizer struct {
	infl       inflect.Inflector
	irregVerbs map[string]string
	irregAdjs  map[string]string
}

// NewLemmatizer creates a Lemmatizer that singularizes nouns with infl
func NewLemmatizer(infl inflect.Inflector) *Lemmatizer {
	l := &Lemmatizer{
		infl:       infl,
		irregVerbs: make(map[string]string),
		irregAdjs:  make(map[string]string),
	}
	l.loadIrregulars()
	return l
}

// Lemmatize returns the lemma and the fine-grained tag of word
func (l *Lemmatizer) Lemmatize(word string, pos POS) (string, string) {
	lower := fastLower(word)

	switch pos {
	case Noun, ProperNoun:
		tag := "NN"
		if pos == ProperNoun {
			tag = "NNP"
		}
		if l.infl.IsPlural(word) {
			return fastLower(l.infl.Singular(word)), tag + "S"
		}
		return lower, tag
	case Verb, Auxiliary:
		return l.verb(lower)
	case Modal:
		return lower, "MD"
	case Adjective:
		return l.adjective(lower)
	case Adverb:
		return lower, "RB"
	case Determiner:
		return lower, "DT"
	case Preposition:
		return lower, "IN"
	case Conjunction:
		return lower, "CC"
	case Pronoun:
		return lower, "PRP"
	case RelativePronoun:
		return lower, "WP"
	case Number:
		return lower, "CD"
	case Particle:
		return lower, "RP"
	case Punctuation:
		return word, "."
	}
	return lower, "XX"
}

func (l *Lemmatizer) verb(w string) (string, string) {
	if base, ok := l.irregVerbs[w]; ok {
		tag := "VBD"
		switch {
		case base == w:
			tag = "VB"
		case strings.HasSuffix(w, "s"):
			tag = "VBZ"
		}
		return base, tag
	}
	n := len(w)
	switch {
	case strings.HasSuffix(w, "ing") && n > 5:
		return restoreStem(w[:n-3]), "VBG"
	case strings.HasSuffix(w, "ied") && n > 4:
		return w[:n-3] + "y", "VBD"
	case strings.HasSuffix(w, "ed") && n > 4:
		return restoreStem(w[:n-2]), "VBD"
	case strings.HasSuffix(w, "ies") && n > 4:
		return w[:n-3] + "y", "VBZ"
	case strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "shes"), strings.HasSuffix(w, "sses"),
		strings.HasSuffix(w, "xes"):
		return w[:n-2], "VBZ"
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && n > 3:
		return w[:n-1], "VBZ"
	}
	return w, "VB"
}

func (l *Lemmatizer) adjective(w string) (string, string) {
	if base, ok := l.irregAdjs[w]; ok {
		tag := "JJR"
		if strings.HasSuffix(w, "st") {
			tag = "JJS"
		}
		return base, tag
	}
	n := len(w)
	switch {
	case strings.HasSuffix(w, "iest") && n > 5:
		return w[:n-4] + "y", "JJS"
	case strings.HasSuffix(w, "est") && n > 5:
		return restoreStem(w[:n-3]), "JJS"
	}
	return w, "JJ"
}

// restoreStem rebuilds the base of a stripped -ing, -ed or -est form:
// "runn" -> "run", "rat" -> "rate", "visit" -> "visit"
func restoreStem(stem string) string {
	if u := undouble(stem); u != stem {
		return u
	}
	if measure(stem) == 1 && endsCVC(stem) {
		return stem + "e"
	}
	return stem
}

func isVowelAt(w string, i int) bool {
	switch w[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	case 'y':
		return i > 0 && !isVowelAt(w, i-1)
	}
	return false
}

// measure counts vowel-consonant sequences: "rat" 1, "visit" 2, "tree" 0
func measure(w string) int {
	m := 0
	for i := 1; i < len(w); i++ {
		if isVowelAt(w, i-1) && !isVowelAt(w, i) {
			m++
		}
	}
	return m
}

// endsCVC reports consonant-vowel-consonant endings where the last
// consonant is not w, x or y
func endsCVC(w string) bool {
	n := len(w)
	if n < 3 || strings.ContainsRune("wxy", rune(w[n-1])) {
		return false
	}
	return !isVowelAt(w, n-3) && isVowelAt(w, n-2) && !isVowelAt(w, n-1)
}

// undouble strips a doubled final consonant: "runn" -> "run", "bigg" -> "big"
func undouble(stem string) string {
	n := len(stem)
	if n >= 3 && stem[n-1] == stem[n-2] && !strings.ContainsRune("aeiouls", rune(stem[n-1])) {
		return stem[:n-1]
	}
	return stem
}

func (l *Lemmatizer) loadIrregulars() {
	for base, forms := range map[string][]string{
		"be":    {"be", "is", "are", "was", "were", "am", "been", "being"},
		"have":  {"have", "has", "had", "having"},
		"do":    {"do", "does", "did", "done", "doing"},
		"go":    {"go", "goes", "went", "gone"},
		"come":  {"come", "came"},
		"say":   {"say", "said"},
		"see":   {"see", "saw", "seen"},
		"know":  {"know", "knew", "known"},
		"take":  {"take", "took", "taken"},
		"get":   {"get", "got", "gotten"},
		"make":  {"make", "made"},
		"win":   {"win", "won"},
		"lose":  {"lose", "lost"},
		"lead":  {"lead", "led"},
		"sell":  {"sell", "sold"},
		"buy":   {"buy", "bought"},
		"grow":  {"grow", "grew", "grown"},
		"rise":  {"rise", "rose", "risen"},
		"fall":  {"fall", "fell", "fallen"},
		"score": {"score", "scored", "scoring"},
		"rate":  {"rated"},
		"rank":  {"ranked"},
	} {
		for _, f := range forms {
			l.irregVerbs[f] = base
		}
	}

	for base, forms := range map[string][]string{
		"good":   {"better", "best"},
		"bad":    {"worse", "worst"},
		"far":    {"farther", "farthest", "further", "furthest"},
		"large":  {"larger", "largest"},
		"little": {"less", "least"},
		"late":   {"later", "latest"},
		"close":  {"closer", "closest"},
		"wide":   {"wider", "widest"},
		"safe":   {"safer", "safest"},
		"high":   {"higher"},
		"low":    {"lower"},
	} {
		for _, f := range forms {
			l.irregAdjs[f] = base
		}
	}
}
