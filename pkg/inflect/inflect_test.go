package inflect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlural(t *testing.T) {
	e := NewEnglish()
	cases := map[string]string{
		"actor":         "actors",
		"Actor":         "Actors",
		"goose":         "geese",
		"bacterium":     "bacteria",
		"city":          "cities",
		"day":           "days",
		"box":           "boxes",
		"match":         "matches",
		"wolf":          "wolves",
		"sheep":         "sheep",
		"Office supply": "Office supplies",
		"VOTE":          "VOTES",
	}
	for in, want := range cases {
		assert.Equal(t, want, e.Plural(in), in)
	}
}

func TestSingular(t *testing.T) {
	e := NewEnglish()
	cases := map[string]string{
		"actors":              "actor",
		"Actors":              "Actor",
		"Actresses":           "Actress",
		"geese":               "goose",
		"bacteria":            "bacterium",
		"supplies":            "supply",
		"boxes":               "box",
		"votes":               "vote",
		"pies":                "pie",
		"houses":              "house",
		"actor":               "actor",
		"bus":                 "bus",
		"analysis":            "analysis",
		"species":             "species",
		"Technology products": "Technology product",
	}
	for in, want := range cases {
		assert.Equal(t, want, e.Singular(in), in)
	}
}

func TestIsPlural(t *testing.T) {
	e := NewEnglish()
	for _, w := range []string{"actors", "geese", "bacteria", "ratings", "Actresses", "children"} {
		assert.True(t, e.IsPlural(w), w)
	}
	for _, w := range []string{"actor", "goose", "bacterium", "rating", "actress", "status", "news", "a", "42", "actor's"} {
		assert.False(t, e.IsPlural(w), w)
	}
}

func TestRoundTrip(t *testing.T) {
	e := NewEnglish()
	for _, w := range []string{"actor", "goose", "city", "box", "criterion", "knife", "movie"} {
		p := e.Plural(w)
		assert.True(t, e.IsPlural(p), p)
		assert.Equal(t, w, e.Singular(p))
	}
}
