package search

import (
	"github.com/kittclouds/nlgkit/pkg/nlp"
)

// Location says where in the data a match was found.
type Location string

const (
	LocColname Location = "colname"
	LocCell    Location = "cell"
	LocArgs    Location = "fh_args"
	LocDoc     Location = "doc"
)

// Type says what kind of text matched.
type Type string

const (
	TypeDoc   Type = "doc"
	TypeToken Type = "token"
	TypeNE    Type = "ne"
	TypeQuant Type = "quant"
	TypeUser  Type = "user"
)

// Result is one place a piece of text was found. Tmpl is the expression
// that reproduces the text from the data.
type Result struct {
	Location Location `json:"location"`
	Type     Type     `json:"type"`
	Tmpl     string   `json:"tmpl"`
	Enabled  bool     `json:"enabled,omitempty"`
}

// Same reports whether two results point at the same thing, ignoring
// which one is enabled.
func (r Result) Same(o Result) bool {
	return r.Location == o.Location && r.Type == o.Type && r.Tmpl == o.Tmpl
}

// Results maps keys to their candidate results, in insertion order.
type Results struct {
	keys []nlp.Key
	m    map[nlp.Key][]Result
}

// NewResults creates an empty result set.
func NewResults() *Results {
	return &Results{m: make(map[nlp.Key][]Result)}
}

// Set appends res to the candidates of k unless an identical result is
// already there.
func (r *Results) Set(k nlp.Key, res Result) {
	list, ok := r.m[k]
	if !ok {
		r.keys = append(r.keys, k)
	}
	for _, x := range list {
		if x.Same(res) {
			return
		}
	}
	r.m[k] = append(list, res)
}

// Update sets every candidate of other.
func (r *Results) Update(other *Results) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		for _, res := range other.m[k] {
			r.Set(k, res)
		}
	}
}

// Get returns the candidates of k.
func (r *Results) Get(k nlp.Key) []Result {
	return r.m[k]
}

// Has reports whether k has any candidate.
func (r *Results) Has(k nlp.Key) bool {
	_, ok := r.m[k]
	return ok
}

// Enabled returns the enabled candidate of k.
func (r *Results) Enabled(k nlp.Key) (Result, bool) {
	for _, res := range r.m[k] {
		if res.Enabled {
			return res, true
		}
	}
	return Result{}, false
}

// Keys returns the keys in insertion order.
func (r *Results) Keys() []nlp.Key {
	return append([]nlp.Key(nil), r.keys...)
}

// Len returns the number of keys.
func (r *Results) Len() int {
	return len(r.keys)
}

// Delete removes k and its candidates.
func (r *Results) Delete(k nlp.Key) {
	if _, ok := r.m[k]; !ok {
		return
	}
	delete(r.m, k)
	for i, x := range r.keys {
		if x == k {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Clean enables one candidate per key by rules and then drops every key
// whose text is subsumed by another key.
func (r *Results) Clean(doc *nlp.Doc, rules []Rule) {
	for _, k := range r.keys {
		Resolve(r.m[k], rules)
	}
	var drop []nlp.Key
	for _, k := range r.keys {
		if nlp.IsOverlap(doc, k, r.keys) {
			drop = append(drop, k)
		}
	}
	for _, k := range drop {
		r.Delete(k)
	}
}
