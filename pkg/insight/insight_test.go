package insight_test

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kittclouds/nlgkit/internal/fixtures"
	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/grammar"
	"github.com/kittclouds/nlgkit/pkg/inflect"
	"github.com/kittclouds/nlgkit/pkg/insight"
	"github.com/kittclouds/nlgkit/pkg/nlp"
)

// fixed always picks the same index, clamped to the range.
type fixed int

func (f fixed) IntN(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func generator(pick int) *insight.Generator {
	return insight.NewGenerator(fixed(pick), zerolog.Nop())
}

func decode(t *testing.T, src string) insight.Insight {
	t.Helper()
	var in insight.Insight
	require.NoError(t, json.Unmarshal([]byte(src), &in))
	return in
}

func TestExtreme(t *testing.T) {
	in := decode(t, `{
		"intent": "extreme",
		"metadata": {
			"subject": {"_type": "cell", "colname": "name", "_filter": "max(rating)"},
			"verb": ["has", "earned"],
			"adjective": "highest",
			"object": {
				"template": "rating of {value}",
				"kwargs": {"value": {"_type": "cell", "colname": "rating", "_filter": "max"}}
			}
		}
	}`)

	got, err := generator(1).Render(in, fixtures.Actors())
	require.NoError(t, err)
	assert.Equal(t, "James Stewart earned the highest rating of 0.95.", got)

	got, err = generator(0).Render(in, fixtures.InvertedActors())
	require.NoError(t, err)
	assert.Equal(t, "Marlon Brando has the highest rating of 0.88.", got)
}

func TestInlineKwargsAndMode(t *testing.T) {
	df, err := frame.New([]string{"singer", "partner", "n_songs"}, [][]any{
		{"Kishore", "Lata", 20},
		{"Kishore", "Asha", 5},
		{"Kishore", "Rafi", 15},
	})
	require.NoError(t, err)

	in := decode(t, `{
		"intent": "extreme",
		"metadata": {
			"subject": {"_type": "cell", "colname": "singer", "_filter": "mode"},
			"verb": "sang",
			"adjective": "most",
			"object": {
				"template": "duets with {partner}",
				"partner": {"_type": "cell", "colname": "partner", "_filter": {"colname": "n_songs", "filter": "max"}}
			}
		}
	}`)
	assert.Equal(t, insight.KindCell, in.Metadata["subject"].Kind())
	assert.Equal(t, insight.Filter{Method: "max", By: "n_songs"}, in.Metadata["object"].Kwargs["partner"].Filter)

	got, err := generator(0).Render(in, df)
	require.NoError(t, err)
	assert.Equal(t, "Kishore sang the most duets with Lata.", got)
}

func TestComparison(t *testing.T) {
	df, err := frame.New([]string{"character", "n_episodes", "time_per_episode"}, [][]any{
		{"Ned Stark", 10, 6.2},
		{"Jon Snow", 56, 5.5},
	})
	require.NoError(t, err)

	src := `
intent: comparison
metadata:
  subject:
    template: "{character}'s screen time per episode"
    character: {_type: cell, colname: character, _filter: max(time_per_episode)}
  verb: is
  quant:
    template: "{q} minutes"
    kwargs:
      q:
        _type: operation
        expr: round(data.iloc[0].time_per_episode - data.iloc[1].time_per_episode, 1)
  adjective: [more, longer]
  object:
    template: that of {character}
    character: {_type: cell, colname: character, _filter: min(time_per_episode)}
`
	var in insight.Insight
	require.NoError(t, yaml.Unmarshal([]byte(src), &in))
	assert.Equal(t, insight.KindOperation, in.Metadata["quant"].Kwargs["q"].Kind())
	assert.Equal(t, insight.KindChoice, in.Metadata["adjective"].Kind())

	got, err := generator(0).Render(in, df)
	require.NoError(t, err)
	assert.Equal(t, "Ned Stark's screen time per episode is 0.7 minutes more than that of Jon Snow.", got)
}

func TestMissingSlotsStay(t *testing.T) {
	in := insight.Insight{Intent: "extreme", Metadata: map[string]insight.Field{
		"subject": {Literal: "Bette Davis"},
		"verb":    {Literal: "has"},
	}}
	got, err := generator(0).Render(in, fixtures.Actors())
	require.NoError(t, err)
	assert.Equal(t, "Bette Davis has the {adjective} {object}.", got)
}

func TestErrors(t *testing.T) {
	g := generator(0)
	df := fixtures.Actors()

	_, err := g.Render(insight.Insight{Intent: "trend"}, df)
	assert.ErrorIs(t, err, insight.ErrIntent)

	_, err = g.Field(insight.Field{Type: insight.KindCell, Colname: "name", Filter: insight.Filter{Method: "mean", By: "votes"}}, df)
	assert.ErrorIs(t, err, insight.ErrFilter)

	_, err = g.Field(insight.Field{Type: insight.KindCell, Colname: "age", Filter: insight.Filter{Method: "max"}}, df)
	assert.ErrorIs(t, err, frame.ErrColumnNotFound)

	_, err = g.Field(insight.Field{Template: "{who} won"}, df)
	assert.ErrorIs(t, err, insight.ErrField)

	for _, src := range []string{
		`{"_type": "pivot", "colname": "x"}`,
		`{"_type": "cell"}`,
		`{"_type": "operation"}`,
		`{"colname": "x"}`,
		`["a", 1]`,
		`42`,
		`{"_type": "cell", "colname": "x", "_filter": {"filter": "max"}}`,
	} {
		var f insight.Field
		assert.ErrorIs(t, json.Unmarshal([]byte(src), &f), insight.ErrField, src)
	}
}

func TestCellValue(t *testing.T) {
	df := fixtures.Actors()
	for _, tc := range []struct {
		col    string
		filter insight.Filter
		want   any
	}{
		{"votes", insight.Filter{Method: "max"}, 187},
		{"votes", insight.Filter{Method: "sum"}, 946},
		{"category", insight.Filter{Method: "mode"}, "Actors"},
		{"name", insight.Filter{Method: "min", By: "votes"}, "Bette Davis"},
		{"name", insight.Filter{Method: "first"}, "Humphrey Bogart"},
	} {
		got, err := insight.CellValue(df, tc.col, tc.filter)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %+v", tc.col, tc.filter)
	}
}

func TestNewRandom(t *testing.T) {
	f := insight.Field{Choices: []string{"a", "b", "c", "d", "e"}}
	pick := func(seed uint64) []string {
		g := insight.NewGenerator(insight.NewRandom(seed), zerolog.Nop())
		var out []string
		for range 20 {
			s, err := g.Field(f, nil)
			require.NoError(t, err)
			out = append(out, s)
		}
		return out
	}
	assert.Equal(t, pick(7), pick(7))
	for _, s := range pick(7) {
		assert.Contains(t, f.Choices, s)
	}
}

func TestDescription(t *testing.T) {
	g := grammar.New(inflect.NewEnglish(), nlp.NewEnglish())
	d := insight.NewDescription(fixtures.Actors(), "film stars", g, fixed(0))

	assert.Equal(t, []string{"name"}, d.Indices())
	assert.Equal(t, []string{
		"This dataset contains film stars for 9 names.",
		"The top 2 categories are Actors and Actresses.",
		"The top 5 names are Humphrey Bogart, Cary Grant, James Stewart, Marlon Brando and Spencer Tracy.",
		"rating vary from a minimum value of 0.12 to a maximum of 0.95 at an average of 0.42.",
		"votes vary from a minimum value of 14 to a maximum of 187 at an average of 105.11.",
	}, d.Sentences())

	d.TopN = 1
	assert.Contains(t, d.Render("\n"), "\nThe top 1 category is Actors.\n")
}
