// Package conductor wires the analyzer, search, inflection detection and
// templating into one handle: templatize a sentence against a frame, render
// the result against new data, and keep narratives in a store.
package conductor

import (
	"errors"
	"fmt"
	"time"

	"github.com/hack-pad/hackpadfs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/kittclouds/nlgkit/internal/config"
	"github.com/kittclouds/nlgkit/internal/logger"
	"github.com/kittclouds/nlgkit/internal/metrics"
	"github.com/kittclouds/nlgkit/internal/store"
	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/grammar"
	"github.com/kittclouds/nlgkit/pkg/inflect"
	"github.com/kittclouds/nlgkit/pkg/insight"
	"github.com/kittclouds/nlgkit/pkg/narrative"
	"github.com/kittclouds/nlgkit/pkg/nlp"
	"github.com/kittclouds/nlgkit/pkg/search"
	"github.com/kittclouds/nlgkit/pkg/tmpl"
)

// ErrNoData is returned when a stored narrative is rendered without a
// frame and has no stored dataset.
var ErrNoData = errors.New("conductor: no data to render against")

// Conductor is the process-wide pipeline handle. It is safe for concurrent
// use once built; nuggets and narratives it returns are not.
type Conductor struct {
	cfg      config.Config
	env      *narrative.Env
	detector *grammar.Detector
	insights *insight.Generator
	store    store.Storer
	owned    bool
	metrics  *metrics.Metrics
	log      *logger.Logger
	clog     zerolog.Logger
}

type options struct {
	analyzer nlp.Analyzer
	reg      prometheus.Registerer
	store    store.Storer
	fs       hackpadfs.FS
	log      *logger.Logger
	chooser  insight.Chooser
}

// Option customises New.
type Option func(*options)

// WithAnalyzer replaces the English analyzer.
func WithAnalyzer(an nlp.Analyzer) Option {
	return func(o *options) { o.analyzer = an }
}

// WithRegisterer registers metrics on reg when metrics are enabled.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.reg = reg }
}

// WithStore uses s instead of opening the configured store. The caller
// keeps ownership of s.
func WithStore(s store.Storer) Option {
	return func(o *options) { o.store = s }
}

// WithFS gives the "fs" store driver its filesystem.
func WithFS(fs hackpadfs.FS) Option {
	return func(o *options) { o.fs = fs }
}

// WithLogger replaces the configured logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithChooser replaces the seeded random chooser used by insights.
func WithChooser(c insight.Chooser) Option {
	return func(o *options) { o.chooser = c }
}

// New builds a conductor from cfg.
func New(cfg config.Config, opts ...Option) (*Conductor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	log := o.log
	if log == nil {
		log = logger.New(cfg.Logger)
	}
	an := o.analyzer
	if an == nil {
		an = nlp.NewEnglish()
	}
	reg := o.reg
	if !cfg.Metrics {
		reg = nil
	} else if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	chooser := o.chooser
	if chooser == nil {
		chooser = insight.NewRandom(cfg.Seed)
	}

	renderer := &tmpl.Renderer{KeepNewlines: cfg.Render.KeepNewlines}
	g := grammar.New(inflect.NewEnglish(), an)
	c := &Conductor{
		cfg: cfg,
		env: &narrative.Env{
			Renderer: renderer,
			Analyzer: an,
			Grammar:  g,
			Log:      log.Component("narrative"),
		},
		detector: &grammar.Detector{
			Grammar:  g,
			Analyzer: an,
			Renderer: renderer,
			Log:      log.Component("grammar"),
		},
		insights: &insight.Generator{Chooser: chooser, Renderer: renderer, Log: log.Component("insight")},
		metrics:  metrics.New(reg),
		log:      log,
		clog:     log.Component("conductor"),
	}

	c.store = o.store
	if c.store == nil {
		s, err := openStore(cfg.Store, o.fs)
		if err != nil {
			return nil, err
		}
		c.store, c.owned = s, true
	}
	return c, nil
}

func openStore(cfg config.StoreConfig, fs hackpadfs.FS) (store.Storer, error) {
	switch cfg.Driver {
	case "sqlite":
		return store.NewSQLiteStoreWithDSN(cfg.DSN)
	case "fs":
		if fs == nil {
			return nil, fmt.Errorf("%w: the fs store needs a filesystem", config.ErrInvalid)
		}
		return store.NewFSStore(fs, cfg.Dir)
	}
	return store.NewMemStore(), nil
}

// Close releases the store when the conductor opened it.
func (c *Conductor) Close() error {
	if c.owned {
		return c.store.Close()
	}
	return nil
}

// Env returns the environment nuggets render with.
func (c *Conductor) Env() *narrative.Env {
	return c.env
}

// Store returns the narrative store.
func (c *Conductor) Store() store.Storer {
	return c.store
}

// Metrics returns the pipeline collectors.
func (c *Conductor) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *Conductor) searcher(df *frame.Frame) *search.DFSearch {
	return search.New(df, c.env.Analyzer, c.cfg.Search.Options(), c.log.Component("search"))
}

// Search finds the parts of text that come from df.
func (c *Conductor) Search(text string, df *frame.Frame) (*nlp.Doc, *search.Results, error) {
	doc, err := c.env.Analyzer.Analyze(text)
	if err != nil {
		return nil, nil, fmt.Errorf("analyze: %w", err)
	}
	res, err := c.searcher(df).Run(doc, nil)
	if err != nil {
		return nil, nil, err
	}
	return doc, res, nil
}

// Templatize turns text, written about df transformed by args, into a
// nugget that renders the same sentence against other data.
func (c *Conductor) Templatize(text string, args frame.Args, df *frame.Frame) (*narrative.Nugget, error) {
	start := time.Now()
	n, err := c.templatize(text, args, df)
	d := time.Since(start)

	c.metrics.RecordTemplatize(d, err)
	vars := 0
	if n != nil {
		vars = len(n.Variables())
	}
	c.log.LogTemplatize(text, vars, d, err)
	return n, err
}

func (c *Conductor) templatize(text string, args frame.Args, df *frame.Frame) (*narrative.Nugget, error) {
	if args == nil {
		args = frame.Args{}
	}
	filtered, err := df.Filter(args)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	fhArgs := frame.SanitizeArgs(args, filtered)

	doc, err := c.env.Analyzer.Analyze(text)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	res, err := c.searcher(filtered).Run(doc, fhArgs)
	if err != nil {
		return nil, err
	}
	for _, k := range res.Keys() {
		if r, ok := res.Enabled(k); ok {
			c.metrics.RecordMatch(string(r.Type), string(r.Location))
		}
	}

	infl, err := c.detector.FindInflections(doc, res, fhArgs, filtered)
	if err != nil {
		return nil, err
	}
	for _, list := range infl {
		for _, f := range list {
			c.metrics.RecordInflection(f.FuncName)
		}
	}
	return narrative.New(doc, res, infl, args.Copy(), c.env), nil
}

// Render renders a nugget against df.
func (c *Conductor) Render(n *narrative.Nugget, df *frame.Frame) (string, error) {
	out, err := n.Render(df)
	c.metrics.RecordRender(err)
	return out, err
}

// Narrative groups nuggets under the configured style.
func (c *Conductor) Narrative(nuggets ...*narrative.Nugget) *narrative.Narrative {
	nr := narrative.NewNarrative(nuggets...)
	nr.Style = c.cfg.Style
	return nr
}

// RenderNarrative renders every nugget of nr against df, joined by sep.
func (c *Conductor) RenderNarrative(nr *narrative.Narrative, df *frame.Frame, sep string) (string, error) {
	out, err := nr.Render(df, sep)
	c.metrics.RecordRender(err)
	return out, err
}

// Insight writes a sentence for in from df.
func (c *Conductor) Insight(in insight.Insight, df *frame.Frame) (string, error) {
	return c.insights.Render(in, df)
}

// Describe summarises df.
func (c *Conductor) Describe(df *frame.Frame, rowname string) []string {
	return insight.NewDescription(df, rowname, c.env.Grammar, c.insights.Chooser).Sentences()
}
