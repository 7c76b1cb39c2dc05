// Package config loads the YAML configuration of the templating pipeline.
package config

import (
	"errors"
	"fmt"

	"github.com/hack-pad/hackpadfs"
	"gopkg.in/yaml.v3"

	"github.com/kittclouds/nlgkit/internal/logger"
	"github.com/kittclouds/nlgkit/pkg/narrative"
	"github.com/kittclouds/nlgkit/pkg/search"
)

// ErrInvalid is returned for configuration that cannot be used.
var ErrInvalid = errors.New("config: invalid")

// Config is the full pipeline configuration.
type Config struct {
	Logger  logger.Config   `yaml:"logger"`
	Search  SearchConfig    `yaml:"search"`
	Render  RenderConfig    `yaml:"render"`
	Style   narrative.Style `yaml:"style"`
	Store   StoreConfig     `yaml:"store"`
	Metrics bool            `yaml:"metrics"`
	Seed    uint64          `yaml:"seed"` // random choices in insights
}

// SearchConfig tunes the dataframe search.
type SearchConfig struct {
	NRound        int           `yaml:"nround"`
	Gazetteer     bool          `yaml:"gazetteer"`
	DerivedQuant  bool          `yaml:"derived_quant"`
	LemmatizeArgs bool          `yaml:"lemmatize_args"`
	ArgKeys       []string      `yaml:"arg_keys"`
	Priorities    []search.Rule `yaml:"priorities"`
}

// RenderConfig tunes the template renderer.
type RenderConfig struct {
	KeepNewlines bool `yaml:"keep_newlines"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // memory, sqlite or fs
	DSN    string `yaml:"dsn"`    // sqlite data source
	Dir    string `yaml:"dir"`    // fs root directory
}

// Default returns the built-in configuration.
func Default() Config {
	opts := search.DefaultOptions()
	return Config{
		Logger: logger.Config{Level: "info"},
		Search: SearchConfig{
			NRound:        opts.NRound,
			Gazetteer:     opts.Gazetteer,
			DerivedQuant:  opts.DerivedQuant,
			LemmatizeArgs: opts.Args.Lemmatized,
			ArgKeys:       opts.Args.Keys,
			Priorities:    opts.Priorities,
		},
		Style: narrative.DefaultStyle(),
		Store: StoreConfig{Driver: "memory", DSN: ":memory:", Dir: "narratives"},
	}
}

// Options converts the search section into search options.
func (s SearchConfig) Options() search.Options {
	opts := search.DefaultOptions()
	opts.NRound = s.NRound
	opts.Gazetteer = s.Gazetteer
	opts.DerivedQuant = s.DerivedQuant
	opts.Args.Lemmatized = s.LemmatizeArgs
	if len(s.ArgKeys) > 0 {
		opts.Args.Keys = s.ArgKeys
	}
	if len(s.Priorities) > 0 {
		opts.Priorities = s.Priorities
	}
	return opts
}

// Parse reads YAML over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the named YAML file from fsys.
func Load(fsys hackpadfs.FS, name string) (Config, error) {
	data, err := hackpadfs.ReadFile(fsys, name)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", name, err)
	}
	return Parse(data)
}

// Validate checks the values a pipeline cannot start with.
func (c Config) Validate() error {
	if c.Search.NRound < 0 {
		return fmt.Errorf("%w: search.nround must not be negative", ErrInvalid)
	}
	switch c.Store.Driver {
	case "memory", "sqlite", "fs":
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalid, c.Store.Driver)
	}
	switch c.Style.Style {
	case "para", "list":
	default:
		return fmt.Errorf("%w: unknown style %q", ErrInvalid, c.Style.Style)
	}
	switch c.Style.ListStyle {
	case "html", "markdown":
	default:
		return fmt.Errorf("%w: unknown list style %q", ErrInvalid, c.Style.ListStyle)
	}
	return nil
}
