package grammar_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/nlgkit/internal/fixtures"
	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/grammar"
	"github.com/kittclouds/nlgkit/pkg/inflect"
	"github.com/kittclouds/nlgkit/pkg/nlp"
	"github.com/kittclouds/nlgkit/pkg/search"
	"github.com/kittclouds/nlgkit/pkg/tmpl"
)

var (
	analyzer = nlp.NewEnglish()
	g        = grammar.New(inflect.NewEnglish(), analyzer)
)

func TestNumber(t *testing.T) {
	assert.True(t, g.IsPluralNoun("actors"))
	assert.True(t, g.IsPluralNoun("Actors"))
	assert.False(t, g.IsPluralNoun("actor"))
	assert.True(t, g.IsSingularNoun("James"))

	assert.Equal(t, "actors", g.Plural("actor"))
	assert.Equal(t, "actors", g.Plural("actors"))
	assert.Equal(t, "Actor", g.Singular("Actors"))
	assert.Equal(t, "actor", g.Singular("actor"))

	assert.Equal(t, "votes", g.PluralizeBy("vote", 14))
	assert.Equal(t, "vote", g.PluralizeBy("votes", 1))
	assert.Equal(t, "votes", g.PluralizeBy("vote", []any{"a", "b"}))
	assert.Equal(t, "actresses", g.PluralizeLike("actress", "actors"))
	assert.Equal(t, "actor", g.PluralizeLike("actors", "film"))
}

func TestConcatenateItems(t *testing.T) {
	assert.Equal(t, "", grammar.ConcatenateItems(nil, ", "))
	assert.Equal(t, "a", grammar.ConcatenateItems([]string{"a"}, ", "))
	assert.Equal(t, "a and b", grammar.ConcatenateItems([]string{"a", "b"}, ", "))
	assert.Equal(t, "a, b and c", grammar.ConcatenateItems([]string{"a", "b", "c"}, ", "))
	assert.Equal(t, "a; b; c", grammar.ConcatenateItems([]string{"a", "b", "c"}, "; "))
}

func TestNamespace(t *testing.T) {
	vars := map[string]any{"G": g.Namespace(), "df": fixtures.Actors()}
	r := tmpl.New()

	cases := map[string]string{
		`{{ G.concatenate_items(["x", "y", "z"]) }}`:              "x, y and z",
		`{{ G.concatenate_items(df["category"].unique(), "/") }}`: "Actors/Actresses",
		`{{ G.singular(df["category"].iloc[0]).lower() }}`:        "actor",
		`{{ G.plural("movie") }}`:                                 "movies",
		`{{ G.pluralize_by("star", len(df)) }}`:                   "stars",
		`{{ G.upper("abc") }}`:                                    "ABC",
	}
	for src, want := range cases {
		got, err := r.Render(src, vars)
		require.NoError(t, err, src)
		assert.Equal(t, want, got, src)
	}
}

func TestOptions(t *testing.T) {
	opts := grammar.Options()
	assert.Len(t, opts, 8)
	assert.Equal(t, grammar.Inflection{Source: "G", FEName: "Singularize", FuncName: "singular"}, opts["Singularize"])
	assert.Equal(t, "str", opts["Lowercase"].Source)
	assert.Equal(t, "lower", opts["Lowercase"].FuncName)
	assert.Equal(t, "Capitalize", grammar.OptionNames()[0])
}

func TestWrap(t *testing.T) {
	expr := `df["category"].iloc[-1]`
	assert.Equal(t, `G.singular(df["category"].iloc[-1])`, grammar.Singularize.Wrap(expr))
	assert.Equal(t, `df["category"].iloc[-1].lower()`, grammar.Options()["Lowercase"].Wrap(expr))
}

func detector() *grammar.Detector {
	return &grammar.Detector{Grammar: g, Analyzer: analyzer, Renderer: tmpl.New(), Log: zerolog.Nop()}
}

func TestFindInflections(t *testing.T) {
	df, err := fixtures.Actors().Filter(frame.Args{"_sort": {"-rating"}})
	require.NoError(t, err)
	args := frame.SanitizeArgs(frame.Args{"_sort": {"-rating"}}, df)
	doc, err := analyzer.Analyze("James Stewart is the actor with the highest rating.")
	require.NoError(t, err)

	res, err := search.New(df, analyzer, search.DefaultOptions(), zerolog.Nop()).Run(doc, args)
	require.NoError(t, err)

	infl, err := detector().FindInflections(doc, res, args, df)
	require.NoError(t, err)
	require.Len(t, infl, 1)

	got := infl[doc.TokenKey(4)]
	require.Len(t, got, 2)
	assert.Equal(t, grammar.Singularize, got[0])
	assert.Equal(t, "lower", got[1].FuncName)
	assert.Equal(t, "str", got[1].Source)
}

func TestFindInflectionsShapeAndPlural(t *testing.T) {
	df := fixtures.Actors()
	cases := []struct {
		text string
		want []string
	}{
		{"ACTORS", []string{"plural", "upper"}},
		{"actors", []string{"plural", "lower"}},
		{"Actors", nil},
	}
	for _, c := range cases {
		doc, err := analyzer.Analyze(c.text + " won.")
		require.NoError(t, err)
		key := doc.TokenKey(0)
		res := search.NewResults()
		res.Set(key, search.Result{Location: search.LocCell, Type: search.TypeToken, Tmpl: `df["category"].iloc[0]`, Enabled: true})

		infl, err := detector().FindInflections(doc, res, frame.Args{}, df)
		require.NoError(t, err)
		var names []string
		for _, i := range infl[key] {
			names = append(names, i.FuncName)
		}
		assert.Equal(t, c.want, names, c.text)
	}

	// a plural in the text over a singular value
	one, err := frame.New([]string{"kind"}, [][]any{{"Actor"}})
	require.NoError(t, err)
	doc, err := analyzer.Analyze("The actors won.")
	require.NoError(t, err)
	key := doc.TokenKey(1)
	res := search.NewResults()
	res.Set(key, search.Result{Location: search.LocCell, Type: search.TypeToken, Tmpl: `df["kind"].iloc[0]`, Enabled: true})
	infl, err := detector().FindInflections(doc, res, frame.Args{}, one)
	require.NoError(t, err)
	require.Len(t, infl[key], 2)
	assert.Equal(t, grammar.Pluralize, infl[key][0])
	assert.Equal(t, "lower", infl[key][1].FuncName)
}

func TestFindInflectionsLemmaMismatch(t *testing.T) {
	doc, err := analyzer.Analyze("The films won.")
	require.NoError(t, err)
	key := doc.TokenKey(1)
	res := search.NewResults()
	res.Set(key, search.Result{Location: search.LocColname, Type: search.TypeToken, Tmpl: "df.columns[0]", Enabled: true})

	var logs bytes.Buffer
	det := detector()
	det.Log = zerolog.New(&logs)

	infl, err := det.FindInflections(doc, res, frame.Args{}, fixtures.Actors())
	require.NoError(t, err)
	assert.Empty(t, infl)
	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "lemmas differ")
}
