package tmpl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/nlgkit/internal/fixtures"
	"github.com/kittclouds/nlgkit/pkg/tmpl"
)

func vars() map[string]any {
	df := fixtures.Actors()
	return map[string]any{
		"df":      df,
		"orgdf":   df,
		"fh_args": map[string]any{"_sort": []any{"rating"}},
		"U":       tmpl.Utils(),
	}
}

func TestRenderAccessors(t *testing.T) {
	r := tmpl.New()
	cases := map[string]string{
		`{{ df.columns[2] }}`:                  "rating",
		`{{ df.columns[-1] }}`:                 "votes",
		`{{ df["name"].iloc[0] }}`:             "Humphrey Bogart",
		`{{ df["name"].iloc[-2] }}`:            "Audrey Hepburn",
		`{{ df.iloc[2]["name"] }}`:             "James Stewart",
		`{{ df["rating"].iloc[2] }}`:           "0.95",
		`{{ fh_args['_sort'][0] }}`:            "rating",
		`{{ len(df) }}`:                        "9",
		`{{ len(df) - 1 }}`:                    "8",
		`{{ df["votes"].max() / 2 }}`:          "93.5",
		`{{ df["votes"].sum() }}`:              "946",
		`{{ df.shape[1] * 10 }}`:               "40",
		`{{ df["category"].iloc[0].lower() }}`: "actors",
	}
	for src, want := range cases {
		got, err := r.Render(src, vars())
		require.NoError(t, err, src)
		assert.Equal(t, want, got, src)
	}
}

func TestRenderStringMethods(t *testing.T) {
	r := tmpl.New()
	got, err := r.Render(`{{ x.capitalize() }}|{{ x.upper() }}|{{ x.swapcase() }}|{{ x.title() }}|{{ x.strip("a") }}`,
		map[string]any{"x": "aCTOR of note"})
	require.NoError(t, err)
	assert.Equal(t, "Actor of note|ACTOR OF NOTE|Actor OF NOTE|Actor Of Note|CTOR of note", got)
}

func TestRenderPreamble(t *testing.T) {
	src := `{% set fh_args = {"_sort": ["-rating"]} %}
{% set df = U.gfilter(orgdf, fh_args.copy()) %}
{% set fh_args = U.sanitize_fh_args(fh_args, df) %}
{# Do not edit above this line. #}
{{ df["name"].iloc[0] }} has the highest {{ fh_args['_sort'][0] }}.`

	got, err := tmpl.New().Render(src, vars())
	require.NoError(t, err)
	assert.Equal(t, "James Stewart has the highest rating.", got)

	// KeepNewlines leaves the statement lines in place
	got, err = (&tmpl.Renderer{KeepNewlines: true}).Render(src, vars())
	require.NoError(t, err)
	assert.Equal(t, "\n\n\n\nJames Stewart has the highest rating.", got)
}

func TestRenderConditions(t *testing.T) {
	r := tmpl.New()
	src := "{% if len(df) > n %}\nbig\n{% else %}\nsmall\n{% end %}"

	v := vars()
	v["n"] = 5
	got, err := r.Render(src, v)
	require.NoError(t, err)
	assert.Equal(t, "big", got)

	v["n"] = 50
	got, err = r.Render(src, v)
	require.NoError(t, err)
	assert.Equal(t, "small", got)

	got, err = r.Render(`{% if "rating" in df and not False %}yes{% end %}`, vars())
	require.NoError(t, err)
	assert.Equal(t, "yes", got)
}

func TestRenderSetName(t *testing.T) {
	src := "{% set actor = df[\"name\"].iloc[2] %}\n{{ actor }} is {{ actor }}."
	got, err := tmpl.New().Render(src, vars())
	require.NoError(t, err)
	assert.Equal(t, "James Stewart is James Stewart.", got)
}

func TestEval(t *testing.T) {
	r := tmpl.New()
	v, err := r.Eval(`[1, 2.5, "x"]`, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2.5, "x"}, v)

	v, err = r.Eval(`"a" if 1 > 2 else "b"`, nil)
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	v, err = r.Eval(`round(0.29614, 2)`, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.3, v)

	v, err = r.Eval(`{"a": [1, 2]}.copy()["a"][-1]`, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestErrors(t *testing.T) {
	r := tmpl.New()

	_, err := r.Render(`{{ nope }}`, nil)
	assert.ErrorIs(t, err, tmpl.ErrUndefined)

	_, err = r.Render(`{{ df.columns[10] }}`, vars())
	assert.ErrorIs(t, err, tmpl.ErrIndex)

	_, err = r.Render(`{{ df["name"].iloc[0] `, vars())
	assert.ErrorIs(t, err, tmpl.ErrSyntax)

	_, err = r.Render(`{% if True %}open`, nil)
	assert.ErrorIs(t, err, tmpl.ErrSyntax)

	_, err = r.Render(`{{ 1 + "a" }}`, nil)
	assert.ErrorIs(t, err, tmpl.ErrType)

	_, err = r.Render(`{% end %}`, nil)
	assert.ErrorIs(t, err, tmpl.ErrSyntax)
}

func TestApplyStringMethod(t *testing.T) {
	for _, name := range tmpl.StringMethods {
		_, ok := tmpl.ApplyStringMethod(name, "x")
		assert.True(t, ok, name)
	}
	_, ok := tmpl.ApplyStringMethod("reverse", "x")
	assert.False(t, ok)
}
