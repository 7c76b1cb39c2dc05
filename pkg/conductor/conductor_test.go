package conductor

import (
	"testing"

	"github.com/hack-pad/hackpadfs/mem"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/nlgkit/internal/config"
	"github.com/kittclouds/nlgkit/internal/fixtures"
	"github.com/kittclouds/nlgkit/internal/logger"
	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/insight"
	"github.com/kittclouds/nlgkit/pkg/narrative"
)

const sentence = "James Stewart is the actor with the highest rating."

type first struct{}

func (first) IntN(int) int { return 0 }

func newConductor(t *testing.T, cfg config.Config, opts ...Option) *Conductor {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	c, err := New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestConductorFullPipeline(t *testing.T) {
	c := newConductor(t, config.Default())

	n, err := c.Templatize(sentence, frame.Args{"_sort": {"-rating"}}, fixtures.Actors())
	require.NoError(t, err)
	assert.Contains(t, n.Template(), `{{ df["name"].iloc[0] }} is the {{ G.singular(df["category"].iloc[-1]).lower() }} with the highest {{ df.columns[2] }}.`)

	got, err := c.Render(n, fixtures.Actors())
	require.NoError(t, err)
	assert.Equal(t, sentence, got)

	got, err = c.Render(n, fixtures.InvertedActors())
	require.NoError(t, err)
	assert.Equal(t, "Marlon Brando is the actor with the highest rating.", got)

	m := c.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TemplatizeTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchMatchesTotal.WithLabelValues("ne", "cell")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchMatchesTotal.WithLabelValues("token", "cell")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchMatchesTotal.WithLabelValues("ne", "colname")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InflectionsTotal.WithLabelValues("singular")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InflectionsTotal.WithLabelValues("lower")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RendersTotal.WithLabelValues("ok")))
}

func TestTemplatizeWithoutArgs(t *testing.T) {
	c := newConductor(t, config.Default())

	n, err := c.Templatize("Bette Davis has 14 votes.", nil, fixtures.Actors())
	require.NoError(t, err)
	assert.NotContains(t, n.Template(), narrative.Marker)
	assert.Len(t, n.Variables(), 3)
}

func TestSearch(t *testing.T) {
	c := newConductor(t, config.Default())

	doc, res, err := c.Search("Bette Davis has 14 votes.", fixtures.Actors())
	require.NoError(t, err)
	got := map[string]string{}
	for _, k := range res.Keys() {
		r, ok := res.Enabled(k)
		require.True(t, ok)
		got[doc.KeyText(k)] = r.Tmpl
	}
	assert.Equal(t, map[string]string{
		"Bette Davis": `df["name"].iloc[-3]`,
		"14":          `df["votes"].iloc[-3]`,
		"votes":       "df.columns[-1]",
	}, got)
}

func TestRenderStored(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)

	sqlite := config.Default()
	sqlite.Store.Driver = "sqlite"
	onFS := config.Default()
	onFS.Store.Driver = "fs"

	for name, c := range map[string]*Conductor{
		"memory": newConductor(t, config.Default()),
		"sqlite": newConductor(t, sqlite),
		"fs":     newConductor(t, onFS, WithFS(fs)),
	} {
		t.Run(name, func(t *testing.T) {
			datasetID, err := c.SaveDataset("actors", fixtures.Actors())
			require.NoError(t, err)

			n, err := c.Templatize(sentence, frame.Args{"_sort": {"-rating"}}, fixtures.Actors())
			require.NoError(t, err)
			nr := c.Narrative(n)
			nr.Name = "top actor"

			sn, err := c.SaveNarrative(nr, datasetID, "created")
			require.NoError(t, err)
			assert.Equal(t, sn.ID, nr.ID)
			assert.Equal(t, 1, sn.Version)

			got, err := c.RenderStored(nr.ID, nil, " ")
			require.NoError(t, err)
			assert.Equal(t, sentence, got)

			got, err = c.RenderStored(nr.ID, fixtures.InvertedActors(), " ")
			require.NoError(t, err)
			assert.Equal(t, "Marlon Brando is the actor with the highest rating.", got)

			// a second version with a condition that fails on the inverted data
			n.Condition = `df["rating"].iloc[0] > 0.9`
			sn, err = c.SaveNarrative(nr, datasetID, "conditioned")
			require.NoError(t, err)
			assert.Equal(t, 2, sn.Version)

			got, err = c.RenderStored(nr.ID, fixtures.InvertedActors(), " ")
			require.NoError(t, err)
			assert.Empty(t, got)

			loaded, _, err := c.LoadNarrative(nr.ID)
			require.NoError(t, err)
			assert.Equal(t, n.Template(), loaded.Nuggets[0].Template())
		})
	}
}

func TestRenderStoredWithoutData(t *testing.T) {
	c := newConductor(t, config.Default())

	n, err := c.Templatize(sentence, nil, fixtures.Actors())
	require.NoError(t, err)
	nr := c.Narrative(n)
	_, err = c.SaveNarrative(nr, "", "")
	require.NoError(t, err)

	_, err = c.RenderStored(nr.ID, nil, " ")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestNarrativeStyle(t *testing.T) {
	cfg := config.Default()
	cfg.Style = narrative.Style{Style: "list", ListStyle: "markdown"}
	c := newConductor(t, cfg)

	n, err := c.Templatize(sentence, frame.Args{"_sort": {"-rating"}}, fixtures.Actors())
	require.NoError(t, err)
	html, err := c.Narrative(n).ToHTML(fixtures.InvertedActors())
	require.NoError(t, err)
	assert.Equal(t, "- Marlon Brando is the actor with the highest rating.\n", html)
}

func TestNewErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = "fs"
	_, err := New(cfg, WithLogger(logger.Nop()))
	assert.ErrorIs(t, err, config.ErrInvalid)

	cfg = config.Default()
	cfg.Store.Driver = "cassandra"
	_, err = New(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestMetricsRegistered(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics = true
	reg := prometheus.NewRegistry()
	c := newConductor(t, cfg, WithRegisterer(reg))

	_, err := c.Templatize(sentence, nil, fixtures.Actors())
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "nlgkit_templatize_total")
	assert.Contains(t, names, "nlgkit_search_matches_total")
}

func TestInsightAndDescribe(t *testing.T) {
	c := newConductor(t, config.Default(), WithChooser(first{}))

	got, err := c.Insight(insight.Insight{Intent: "extreme", Metadata: map[string]insight.Field{
		"subject":   {Type: insight.KindCell, Colname: "name", Filter: insight.Filter{Method: "max", By: "votes"}},
		"verb":      {Choices: []string{"has", "holds"}},
		"adjective": {Literal: "most"},
		"object":    {Literal: "votes"},
	}}, fixtures.Actors())
	require.NoError(t, err)
	assert.Equal(t, "Spencer Tracy has the most votes.", got)

	desc := c.Describe(fixtures.Actors(), "film stars")
	require.NotEmpty(t, desc)
	assert.Equal(t, "This dataset contains film stars for 9 names.", desc[0])
}
