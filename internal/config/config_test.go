package config

import (
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/nlgkit/pkg/search"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, search.DefaultOptions(), cfg.Search.Options())
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.True(t, cfg.Style.Bold)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
logger:
  level: debug
  pretty: true
search:
  nround: 3
  derived_quant: true
  priorities:
    - {location: cell, type: quant}
    - {type: ne}
style:
  style: list
  liststyle: markdown
store:
  driver: sqlite
  dsn: narratives.db
metrics: true
seed: 42
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Logger.Pretty)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "narratives.db", cfg.Store.DSN)

	opts := cfg.Search.Options()
	assert.Equal(t, 3, opts.NRound)
	assert.True(t, opts.DerivedQuant)
	// untouched sections keep their defaults
	assert.True(t, opts.Gazetteer)
	assert.Equal(t, search.DefaultArgKeys, opts.Args.Keys)
	assert.Equal(t, []search.Rule{
		{Location: search.LocCell, Type: search.TypeQuant},
		{Type: search.TypeNE},
	}, opts.Priorities)

	assert.Equal(t, "list", cfg.Style.Style)
	assert.True(t, cfg.Style.Bold)
}

func TestParseInvalid(t *testing.T) {
	for _, src := range []string{
		"search: {nround: -1}",
		"store: {driver: redis}",
		"style: {style: table}",
		"style: {liststyle: rst}",
	} {
		_, err := Parse([]byte(src))
		assert.ErrorIs(t, err, ErrInvalid, src)
	}

	_, err := Parse([]byte("search: [1, 2"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	require.NoError(t, hackpadfs.WriteFullFile(fs, "nlg.yaml", []byte("render: {keep_newlines: true}\n"), 0644))

	cfg, err := Load(fs, "nlg.yaml")
	require.NoError(t, err)
	assert.True(t, cfg.Render.KeepNewlines)

	_, err = Load(fs, "missing.yaml")
	assert.ErrorIs(t, err, hackpadfs.ErrNotExist)
}
