package nlp

import (
	"sort"
	"strings"
)

// Entities returns the named entities and rule-matched phrases of doc as
// keys ordered by position, with keys subsumed by longer ones removed.
func Entities(doc *Doc) []Key {
	seen := make(map[Key]bool)
	var keys []Key
	for _, spans := range [][]Span{doc.Ents, doc.Phrases} {
		for _, k := range doc.Keys(spans) {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	keys = Unoverlap(doc, keys)
	SortKeys(keys)
	return keys
}

// IsOverlap reports whether x is subsumed by one of others. A key is
// subsumed when its text occurs inside the text of a longer key, or when a
// doc key is present. Numbers, and spans holding a number, are never
// subsumed.
func IsOverlap(doc *Doc, x Key, others []Key) bool {
	if doc.HasNum(x) {
		return false
	}
	xt := doc.KeyText(x)
	for _, o := range others {
		if o == x {
			continue
		}
		if o.Kind == KindDoc && x.Kind != KindDoc {
			return true
		}
		ot := doc.KeyText(o)
		if len(ot) > len(xt) && strings.Contains(ot, xt) {
			return true
		}
	}
	return false
}

// Unoverlap drops every key of keys that IsOverlap with the rest.
func Unoverlap(doc *Doc, keys []Key) []Key {
	out := make([]Key, 0, len(keys))
	for _, k := range keys {
		if !IsOverlap(doc, k, keys) {
			out = append(out, k)
		}
	}
	return out
}

// SortKeys orders keys by start offset, longer first on ties.
func SortKeys(keys []Key) {
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].Start != keys[j].Start {
			return keys[i].Start < keys[j].Start
		}
		return keys[i].End > keys[j].End
	})
}
