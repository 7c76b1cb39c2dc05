package search

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/nlp"
)

// parseNumber reads the text of a NUM token, allowing thousands separators.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return f, err == nil
}

// NumKeys returns the keys of the number tokens of doc.
func NumKeys(doc *nlp.Doc) []nlp.Key {
	var keys []nlp.Key
	for i, t := range doc.Tokens {
		if t.POS == "NUM" {
			keys = append(keys, doc.TokenKey(i))
		}
	}
	return keys
}

// SearchQuant compares number keys with the numeric cells of df after
// rounding both half-to-even to nround digits. Every matching cell is
// returned in row-major order, attributed to the first key of equal value.
// Keys that do not parse as numbers are skipped.
func SearchQuant(doc *nlp.Doc, keys []nlp.Key, df *frame.Frame, nround int) []CellHit {
	type quant struct {
		key nlp.Key
		val float64
	}
	var qs []quant
	for _, k := range keys {
		f, ok := parseNumber(doc.KeyText(k))
		if !ok {
			continue
		}
		qs = append(qs, quant{k, scalar.RoundEven(f, nround)})
	}
	if len(qs) == 0 {
		return nil
	}

	var hits []CellHit
	n, w := df.Shape()
	for i := 0; i < n; i++ {
		for j := 0; j < w; j++ {
			v, ok := frame.ToFloat(df.At(i, j))
			if !ok || df.ColAt(j).Kind == frame.String {
				continue
			}
			v = scalar.RoundEven(v, nround)
			for _, q := range qs {
				if q.val == v {
					hits = append(hits, CellHit{Key: q.key, Row: i, Col: j})
					break
				}
			}
		}
	}
	return hits
}

// SearchDerivedQuant returns the number keys equal to the row count of df.
func SearchDerivedQuant(doc *nlp.Doc, keys []nlp.Key, df *frame.Frame) []nlp.Key {
	var out []nlp.Key
	for _, k := range keys {
		f, ok := parseNumber(doc.KeyText(k))
		if ok && f == float64(int(f)) && int(f) == df.Len() {
			out = append(out, k)
		}
	}
	return out
}
