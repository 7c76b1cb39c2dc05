package search

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/nlp"
)

// DefaultArgKeys are the parameters searched for entity text.
var DefaultArgKeys = []string{"_sort", "_by", "_c"}

// argOrder is the order keys are applied in; later keys override earlier
// ones for the same entity.
var argOrder = []string{"_by", "_sort", "_c"}

var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// ArgOpts controls SearchArgs.
type ArgOpts struct {
	Keys       []string // parameter keys to consider
	Lemmatized bool     // compare single words by lemma
	Fmt        string   // template for a hit, given the key and list position
}

// DefaultArgOpts searches DefaultArgKeys by lemma.
func DefaultArgOpts() ArgOpts {
	return ArgOpts{Keys: DefaultArgKeys, Lemmatized: true, Fmt: "fh_args['%s'][%d]"}
}

// SearchArgs finds parameter values among the entities of doc. A one-word
// value matches an entity token, a longer value matches an entity whose
// words are the same.
func SearchArgs(doc *nlp.Doc, ents []nlp.Key, args frame.Args, opts ArgOpts, analyzer nlp.Analyzer) (*Results, error) {
	allowed := make(map[string]bool, len(opts.Keys))
	for _, k := range opts.Keys {
		allowed[k] = true
	}
	order := make([]string, 0, len(opts.Keys))
	for _, k := range argOrder {
		if allowed[k] {
			order = append(order, k)
		}
	}
	for _, k := range opts.Keys {
		if !slices.Contains(argOrder, k) {
			order = append(order, k)
		}
	}

	found := make(map[nlp.Key]Result)
	var keys []nlp.Key
	put := func(k nlp.Key, res Result) {
		if _, ok := found[k]; !ok {
			keys = append(keys, k)
		}
		found[k] = res
	}

	for _, name := range order {
		for i, value := range args[name] {
			words := wordRe.FindAllString(strings.TrimPrefix(value, "-"), -1)
			if len(words) == 0 {
				continue
			}
			res := Result{Location: LocArgs, Type: TypeToken, Tmpl: fmt.Sprintf(opts.Fmt, name, i)}
			if len(words) > 1 {
				for _, e := range ents {
					if sameWords(doc, e, words) {
						put(e, res)
					}
				}
				continue
			}
			lemma := ""
			if opts.Lemmatized {
				l, err := wordLemma(analyzer, words[0])
				if err != nil {
					return nil, err
				}
				lemma = l
			}
			for _, e := range ents {
				start, end := doc.TokenRange(e)
				for t := start; t < end; t++ {
					tok := doc.Tokens[t]
					if tok.Text == words[0] || (lemma != "" && strings.ToLower(tok.Lemma) == lemma) {
						put(doc.TokenKey(t), res)
					}
				}
			}
		}
	}

	out := NewResults()
	for _, k := range keys {
		out.Set(k, found[k])
	}
	return out, nil
}

func wordLemma(analyzer nlp.Analyzer, word string) (string, error) {
	doc, err := analyzer.Analyze(word)
	if err != nil {
		return "", err
	}
	if len(doc.Tokens) == 0 {
		return strings.ToLower(word), nil
	}
	return strings.ToLower(doc.Tokens[0].Lemma), nil
}

func sameWords(doc *nlp.Doc, k nlp.Key, words []string) bool {
	var got []string
	for _, t := range doc.KeyTokens(k) {
		if !t.IsPunct && !t.IsSpace {
			got = append(got, strings.ToLower(t.Text))
		}
	}
	if len(got) != len(words) {
		return false
	}
	for i := range got {
		if got[i] != strings.ToLower(words[i]) {
			return false
		}
	}
	return true
}
