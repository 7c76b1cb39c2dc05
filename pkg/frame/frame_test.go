package frame_test

import (
	"bytes"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/nlgkit/internal/fixtures"
	"github.com/kittclouds/nlgkit/pkg/frame"
)

func names(t *testing.T, df *frame.Frame) []string {
	t.Helper()
	col, err := df.Col("name")
	require.NoError(t, err)
	return col.Strings()
}

func TestReadCSV(t *testing.T) {
	df := fixtures.Actors()

	rows, cols := df.Shape()
	assert.Equal(t, 9, rows)
	assert.Equal(t, 4, cols)
	assert.Equal(t, []string{"category", "name", "rating", "votes"}, df.Columns())

	rating, err := df.Col("rating")
	require.NoError(t, err)
	assert.Equal(t, frame.Float, rating.Kind)
	votes, err := df.Col("votes")
	require.NoError(t, err)
	assert.Equal(t, frame.Int, votes.Kind)
	assert.Equal(t, frame.String, df.ColAt(0).Kind)

	v, err := votes.Iloc(-1)
	require.NoError(t, err)
	assert.Equal(t, 54, v)
	_, err = votes.Iloc(9)
	assert.ErrorIs(t, err, frame.ErrIndexOutOfRange)

	_, err = df.Col("missing")
	assert.ErrorIs(t, err, frame.ErrColumnNotFound)
}

func TestReadCSVFile(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	require.NoError(t, hackpadfs.WriteFullFile(fs, "actors.csv", []byte(fixtures.ActorsCSV()), 0644))

	df, err := frame.ReadCSVFile(fs, "actors.csv")
	require.NoError(t, err)
	assert.Equal(t, 9, df.Len())

	_, err = frame.ReadCSVFile(fs, "nope.csv")
	assert.Error(t, err)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, fixtures.Actors().WriteCSV(&buf))
	assert.Equal(t, fixtures.ActorsCSV(), buf.String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0.95", frame.Format(0.95))
	assert.Equal(t, "1.0", frame.Format(1.0))
	assert.Equal(t, "14", frame.Format(14))
	assert.Equal(t, "nan", frame.Format(nil))
	assert.Equal(t, "1e-05", frame.Format(0.00001))
	assert.Equal(t, "True", frame.Format(true))
}

func TestMaxLen(t *testing.T) {
	assert.Equal(t, len("Katharine Hepburn"), fixtures.Actors().MaxLen())
}

func TestRound(t *testing.T) {
	df := fixtures.Actors().Round(2)
	rating, err := df.Col("rating")
	require.NoError(t, err)
	v, err := rating.Iloc(-1)
	require.NoError(t, err)
	assert.Equal(t, 0.3, v)

	// the source is untouched
	orig, _ := fixtures.Actors().Col("rating")
	v, _ = orig.Iloc(-1)
	assert.Equal(t, 0.29614, v)
}

func TestFilterSort(t *testing.T) {
	df, err := fixtures.Actors().Filter(frame.Args{"_sort": {"-rating"}})
	require.NoError(t, err)
	got := names(t, df)
	assert.Equal(t, "James Stewart", got[0])
	assert.Equal(t, "Marlon Brando", got[len(got)-1])

	df, err = fixtures.Actors().Filter(frame.Args{"_sort": {"category", "-votes"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Spencer Tracy", "Cary Grant", "James Stewart", "Humphrey Bogart",
		"Marlon Brando", "Audrey Hepburn", "Katharine Hepburn", "Ingrid Bergman", "Bette Davis"}, names(t, df))
}

func TestFilterRows(t *testing.T) {
	df, err := fixtures.Actors().Filter(frame.Args{"category": {"Actresses"}, "votes>": {"60"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Katharine Hepburn", "Audrey Hepburn"}, names(t, df))

	df, err = fixtures.Actors().Filter(frame.Args{"name~": {"hepburn"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Katharine Hepburn", "Audrey Hepburn"}, names(t, df))

	df, err = fixtures.Actors().Filter(frame.Args{"category!": {"Actors"}, "rating<~": {"0.35"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Katharine Hepburn", "Bette Davis", "Ingrid Bergman"}, names(t, df))

	// row labels survive filtering
	assert.Equal(t, []string{"5", "6", "8"}, df.Index())

	df, err = fixtures.Actors().Filter(frame.Args{"unknown": {"x"}, "_limit": {"2"}, "_offset": {"1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cary Grant", "James Stewart"}, names(t, df))
}

func TestFilterGroupBy(t *testing.T) {
	df, err := fixtures.Actors().Filter(frame.Args{
		"_by":   {"category"},
		"_c":    {"votes|avg", "name|count"},
		"_sort": {"-votes|avg"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"category", "votes|avg", "name|count"}, df.Columns())
	assert.Equal(t, 2, df.Len())
	assert.Equal(t, "Actors", df.At(0, 0))
	assert.InDelta(t, 133.2, df.At(0, 1), 1e-9)
	assert.Equal(t, 4, df.At(1, 2))

	df, err = fixtures.Actors().Filter(frame.Args{"_by": {"category"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"category", "rating|sum", "votes|sum"}, df.Columns())
	assert.Equal(t, 666, df.At(0, 2))
}

func TestFilterSelect(t *testing.T) {
	df, err := fixtures.Actors().Filter(frame.Args{"_c": {"name", "votes"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "votes"}, df.Columns())

	df, err = fixtures.Actors().Filter(frame.Args{"_c": {"-rating"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"category", "name", "votes"}, df.Columns())
}

func TestSanitizeArgs(t *testing.T) {
	df := fixtures.Actors()

	got := frame.SanitizeArgs(frame.Args{
		"_by":   {"category"},
		"_c":    {"votes|avg"},
		"_sort": {"-votes|avg"},
	}, df)
	assert.Equal(t, frame.Args{"_by": {"category"}, "_c": {"votes"}, "_sort": {"votes|avg"}}, got)

	got = frame.SanitizeArgs(frame.Args{"_sort": {"-rating"}, "category": {"Actors"}}, df)
	assert.Equal(t, frame.Args{"_sort": {"rating"}}, got)

	got = frame.SanitizeArgs(frame.Args{"_c": {"-rating"}, "_sort": {"bogus"}}, df)
	assert.Equal(t, frame.Args{"_c": {"category", "name", "votes"}, "_sort": {}}, got)
}

func TestArgsConversion(t *testing.T) {
	args, err := frame.ParseQuery("_sort=-rating&category=Actors&category=Actresses")
	require.NoError(t, err)
	assert.Equal(t, frame.Args{"_sort": {"-rating"}, "category": {"Actors", "Actresses"}}, args)

	back, err := frame.ArgsFrom(args.Dict())
	require.NoError(t, err)
	assert.Equal(t, args, back)

	_, err = frame.ArgsFrom(42)
	assert.Error(t, err)
}

func TestAggregations(t *testing.T) {
	votes, err := fixtures.Actors().Col("votes")
	require.NoError(t, err)
	assert.Equal(t, 946.0, votes.Sum())
	assert.Equal(t, 187, votes.Max())
	assert.Equal(t, 14, votes.Min())
	assert.Equal(t, 4, votes.ArgMax())
	assert.Equal(t, 109.0, votes.Median())

	cat := fixtures.Actors().ColAt(0)
	assert.Equal(t, "Actors", cat.Mode())
	assert.Equal(t, []any{"Actors", "Actresses"}, cat.Unique())
}

func TestValueCounts(t *testing.T) {
	values, counts := fixtures.Actors().ColAt(0).ValueCounts()
	assert.Equal(t, []any{"Actors", "Actresses"}, values)
	assert.Equal(t, []int{5, 4}, counts)

	s := frame.NewSeries("x", []any{"b", "a", nil, "a", "c"})
	values, counts = s.ValueCounts()
	assert.Equal(t, []any{"a", "b", "c"}, values)
	assert.Equal(t, []int{2, 1, 1}, counts)
}

func TestClean(t *testing.T) {
	df, err := frame.New([]string{"k", "v"}, [][]any{
		{"a", 1},
		{"b", nil},
		{"a", 1},
		{"c", 2},
	})
	require.NoError(t, err)

	out := df.Clean()
	assert.Equal(t, 2, out.Len())
	k, err := out.Col("k")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, k.Strings())
}
