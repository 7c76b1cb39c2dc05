// Package inflect converts English nouns between singular and plural forms.
//
// The rules are table driven: irregular pairs and uncountable nouns are looked
// up first, then suffix rules apply. Only the last word of a phrase is
// inflected and the original letter case is carried over to the result.
package inflect

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Inflector pluralizes and singularizes nouns.
type Inflector interface {
	Plural(word string) string
	Singular(word string) string
	IsPlural(word string) bool
}

// English is the default rule-based Inflector.
type English struct {
	toPlural    map[string]string
	toSingular  map[string]string
	uncountable map[string]bool
	singularS   map[string]bool
}

var _ Inflector = (*English)(nil)

// NewEnglish creates an English inflector with the built-in tables.
func NewEnglish() *English {
	e := &English{
		toPlural:    make(map[string]string),
		toSingular:  make(map[string]string),
		uncountable: make(map[string]bool),
		singularS:   make(map[string]bool),
	}
	e.loadTables()
	return e
}

// Plural returns the plural form of word. It does not check whether word is
// already plural; callers guard with IsPlural.
func (e *English) Plural(word string) string {
	head, last, tail := splitLast(word)
	if last == "" {
		return word
	}
	return head + matchCase(last, e.plural(strings.ToLower(last))) + tail
}

// Singular returns the singular form of word, or word itself when it is not
// recognisably plural.
func (e *English) Singular(word string) string {
	head, last, tail := splitLast(word)
	if last == "" {
		return word
	}
	lower := strings.ToLower(last)
	if !e.isPlural(lower) {
		return word
	}
	return head + matchCase(last, e.singular(lower)) + tail
}

// IsPlural reports whether the last word of word looks like a plural noun.
func (e *English) IsPlural(word string) bool {
	_, last, _ := splitLast(word)
	if last == "" {
		return false
	}
	return e.isPlural(strings.ToLower(last))
}

func (e *English) isPlural(w string) bool {
	if e.uncountable[w] {
		return false
	}
	if _, ok := e.toSingular[w]; ok {
		return true
	}
	if _, ok := e.toPlural[w]; ok {
		return false
	}
	if e.singularS[w] || len(w) < 3 || !isAlpha(w) {
		return false
	}
	switch {
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"),
		strings.HasSuffix(w, "is"), strings.HasSuffix(w, "ous"):
		return false
	}
	return strings.HasSuffix(w, "s")
}

func (e *English) plural(w string) string {
	if e.uncountable[w] {
		return w
	}
	if p, ok := e.toPlural[w]; ok {
		return p
	}
	n := len(w)
	switch {
	case n == 0:
		return w
	case strings.HasSuffix(w, "y") && n > 1 && !isVowel(w[n-2]):
		return w[:n-1] + "ies"
	case strings.HasSuffix(w, "s"), strings.HasSuffix(w, "x"), strings.HasSuffix(w, "z"),
		strings.HasSuffix(w, "ch"), strings.HasSuffix(w, "sh"):
		return w + "es"
	}
	return w + "s"
}

func (e *English) singular(w string) string {
	if s, ok := e.toSingular[w]; ok {
		return s
	}
	n := len(w)
	switch {
	case strings.HasSuffix(w, "ies") && n > 4:
		return w[:n-3] + "y"
	case strings.HasSuffix(w, "sses"), strings.HasSuffix(w, "shes"), strings.HasSuffix(w, "ches"),
		strings.HasSuffix(w, "xes"), strings.HasSuffix(w, "zzes"):
		return w[:n-2]
	}
	return w[:n-1]
}

func (e *English) loadTables() {
	// Irregular singular/plural pairs
	for _, p := range [][2]string{
		{"man", "men"}, {"woman", "women"}, {"child", "children"}, {"person", "people"},
		{"goose", "geese"}, {"foot", "feet"}, {"tooth", "teeth"}, {"mouse", "mice"},
		{"louse", "lice"}, {"ox", "oxen"}, {"die", "dice"},
		{"bacterium", "bacteria"}, {"datum", "data"}, {"medium", "media"},
		{"curriculum", "curricula"}, {"memorandum", "memoranda"}, {"stratum", "strata"},
		{"criterion", "criteria"}, {"phenomenon", "phenomena"},
		{"cactus", "cacti"}, {"fungus", "fungi"}, {"nucleus", "nuclei"}, {"radius", "radii"},
		{"stimulus", "stimuli"}, {"alumnus", "alumni"}, {"syllabus", "syllabi"},
		{"analysis", "analyses"}, {"basis", "bases"}, {"crisis", "crises"},
		{"diagnosis", "diagnoses"}, {"hypothesis", "hypotheses"}, {"thesis", "theses"},
		{"axis", "axes"}, {"index", "indices"}, {"matrix", "matrices"}, {"vertex", "vertices"},
		{"appendix", "appendices"},
		{"wolf", "wolves"}, {"knife", "knives"}, {"life", "lives"}, {"leaf", "leaves"},
		{"half", "halves"}, {"shelf", "shelves"}, {"wife", "wives"}, {"calf", "calves"},
		{"loaf", "loaves"}, {"thief", "thieves"}, {"self", "selves"},
		{"hero", "heroes"}, {"potato", "potatoes"}, {"tomato", "tomatoes"}, {"echo", "echoes"},
		{"veto", "vetoes"}, {"torpedo", "torpedoes"},
		{"movie", "movies"}, {"cookie", "cookies"}, {"zombie", "zombies"}, {"calorie", "calories"},
		{"house", "houses"}, {"course", "courses"}, {"horse", "horses"}, {"case", "cases"},
		{"purchase", "purchases"}, {"expense", "expenses"}, {"license", "licenses"},
		{"response", "responses"}, {"release", "releases"}, {"phase", "phases"},
		{"shoe", "shoes"}, {"toe", "toes"}, {"canoe", "canoes"},
		{"bus", "buses"}, {"gas", "gases"}, {"lens", "lenses"}, {"virus", "viruses"},
		{"status", "statuses"}, {"campus", "campuses"}, {"bonus", "bonuses"},
		{"census", "censuses"}, {"actress", "actresses"},
	} {
		e.toPlural[p[0]] = p[1]
		e.toSingular[p[1]] = p[0]
	}

	for _, w := range []string{"sheep", "fish", "deer", "series", "species", "news", "information",
		"equipment", "rice", "money", "furniture", "advice", "software", "hardware", "luggage",
		"moose", "swine", "aircraft", "offspring", "salmon", "trout", "police", "traffic",
		"revenue", "feedback", "staff", "metadata"} {
		e.uncountable[w] = true
	}

	// Singular words that end in -s
	for _, w := range []string{"this", "his", "its", "yes", "was", "has", "is", "us", "as",
		"always", "perhaps", "whereas", "across", "besides", "sometimes", "afterwards",
		"physics", "mathematics", "economics", "statistics", "analytics", "politics",
		"athletics", "gymnastics", "ethics", "electronics", "logistics", "means",
		"chaos", "atlas", "canvas", "christmas", "texas", "kansas", "paris", "james",
		"davis", "thomas", "lewis", "jones", "wales", "dallas", "los", "angeles", "las", "vegas"} {
		e.singularS[w] = true
	}
}

// splitLast separates the last run of letters from the text before and after it.
func splitLast(s string) (head, last, tail string) {
	end := len(s)
	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:end])
		if unicode.IsLetter(r) {
			break
		}
		end -= size
	}
	start := end
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:start])
		if !unicode.IsLetter(r) && r != '\'' {
			break
		}
		start -= size
	}
	return s[:start], s[start:end], s[end:]
}

// matchCase copies the case pattern of src (lower, Title or UPPER) onto dst.
func matchCase(src, dst string) string {
	switch {
	case isUpper(src) && utf8.RuneCountInString(src) > 1:
		return strings.ToUpper(dst)
	case startsUpper(src):
		r, size := utf8.DecodeRuneInString(dst)
		return string(unicode.ToUpper(r)) + dst[size:]
	}
	return dst
}

func isUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
