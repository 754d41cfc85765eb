// Package orchestrator coordinates the full pipeline: collect metadata,
// derive the UI contract, memoize it, generate source files, and optionally
// sync them to disk. It applies sensible defaults while remaining open to
// dependency injection for advanced callers.
package orchestrator

import (
	"context"
	"errors"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-uigen/pkg/contract"
	"github.com/goliatone/go-uigen/pkg/emit"
	"github.com/goliatone/go-uigen/pkg/generate"
	"github.com/goliatone/go-uigen/pkg/metadata"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithFetcher supplies the metadata source. Required unless a full Collector
// is injected instead.
func WithFetcher(fetcher metadata.Fetcher) Option {
	return func(o *Orchestrator) {
		o.fetcher = fetcher
	}
}

// WithCollector injects a pre-built metadata collector, bypassing the
// fetcher-based default.
func WithCollector(collector *metadata.Collector) Option {
	return func(o *Orchestrator) {
		o.collector = collector
	}
}

// WithLimits overrides the derivation caps applied by the contract builder.
func WithLimits(limits contract.Limits) Option {
	return func(o *Orchestrator) {
		o.limits = limits
		o.limitsSet = true
	}
}

// WithCache injects a shared contract cache, e.g. one owned by a server
// embedding several orchestrators.
func WithCache(cache *contract.Cache) Option {
	return func(o *Orchestrator) {
		o.cache = cache
	}
}

// WithCacheSize bounds the default cache. Ignored when WithCache is used.
func WithCacheSize(size int) Option {
	return func(o *Orchestrator) {
		o.cacheSize = size
	}
}

// WithGenerator injects a custom file generator.
func WithGenerator(generator *generate.Generator) Option {
	return func(o *Orchestrator) {
		o.generator = generator
	}
}

// WithThemeSelector passes a go-theme selector through to the default
// generator so preset styling resolves against an external theme catalog.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.selector = selector
	}
}

// WithWriter injects a custom sync writer.
func WithWriter(writer *emit.Writer) Option {
	return func(o *Orchestrator) {
		o.writer = writer
	}
}

// WithLogger attaches a logger shared by every default component. The
// default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator wires the pipeline stages together.
type Orchestrator struct {
	fetcher   metadata.Fetcher
	collector *metadata.Collector
	builder   *contract.Builder
	cache     *contract.Cache
	cacheSize int
	generator *generate.Generator
	writer    *emit.Writer
	selector  theme.ThemeSelector
	limits    contract.Limits
	limitsSet bool
	logger    *zap.Logger

	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		cacheSize: contract.DefaultCacheSize,
		limits:    contract.DefaultLimits(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	o.defaultsApplied = true
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	if o.collector == nil {
		if o.fetcher == nil {
			o.initialiseErr = errors.New("orchestrator: a metadata fetcher is required")
			return
		}
		o.collector = metadata.NewCollector(o.fetcher, metadata.WithLogger(o.logger))
	}

	if o.builder == nil {
		opts := []contract.BuilderOption{
			contract.WithChildResolver(o.collector.ChildDescriptor),
			contract.WithLogger(o.logger),
		}
		if o.limitsSet {
			opts = append(opts, contract.WithLimits(o.limits))
		}
		o.builder = contract.NewBuilder(opts...)
	}

	if o.cache == nil {
		cache, err := contract.NewCache(o.cacheSize)
		if err != nil {
			o.initialiseErr = err
			return
		}
		o.cache = cache
	}

	if o.generator == nil {
		opts := []generate.Option{generate.WithLogger(o.logger)}
		if o.selector != nil {
			opts = append(opts, generate.WithThemeSelector(o.selector))
		}
		generator, err := generate.New(opts...)
		if err != nil {
			o.initialiseErr = err
			return
		}
		o.generator = generator
	}

	if o.writer == nil {
		o.writer = emit.New(emit.WithLogger(o.logger))
	}
}

func (o *Orchestrator) ready(ctx context.Context, docType string) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(docType) == "" {
		return errors.New("orchestrator: doctype name is required")
	}
	if !o.defaultsApplied {
		o.applyDefaults()
	}
	return o.initialiseErr
}

// BuildContract derives (or returns the memoized) UI contract for a doctype
// and preset. The returned contract is shared between callers and must be
// treated as immutable.
func (o *Orchestrator) BuildContract(ctx context.Context, docType, preset string) (*contract.UIContract, error) {
	if err := o.ready(ctx, docType); err != nil {
		return nil, err
	}
	resolved, err := generate.ParsePreset(preset)
	if err != nil {
		return nil, err
	}

	key := contract.Key{DocType: docType, Preset: string(resolved)}
	return o.cache.GetOrBuild(key, func() (*contract.UIContract, error) {
		bundle, err := o.collector.Collect(ctx, docType)
		if err != nil {
			return nil, err
		}
		built := o.builder.Build(ctx, bundle)
		o.logger.Info("built ui contract",
			zap.String("doctype", docType),
			zap.String("preset", string(resolved)))
		return &built, nil
	})
}

// GenerateFiles derives the contract and renders the full generated file set
// without touching disk.
func (o *Orchestrator) GenerateFiles(ctx context.Context, docType, preset string) ([]generate.File, error) {
	resolved, err := generate.ParsePreset(preset)
	if err != nil {
		return nil, err
	}
	uic, err := o.BuildContract(ctx, docType, preset)
	if err != nil {
		return nil, err
	}
	return o.generator.Generate(*uic, resolved)
}

// SyncResult reports the outcome of a sync: the generated file set, and the
// absolute paths written when a destination was given.
type SyncResult struct {
	DocType   string
	Preset    string
	Dest      string
	Generated []generate.File
	Files     []string
}

// SyncFiles generates the file set and, when dest is non-empty, writes it
// beneath dest. An empty dest skips the disk phase and hands the generated
// set back in memory. Unlike the soft-failing fetch phase, a write failure
// aborts the sync.
func (o *Orchestrator) SyncFiles(ctx context.Context, docType, preset, dest string) (SyncResult, error) {
	files, err := o.GenerateFiles(ctx, docType, preset)
	if err != nil {
		return SyncResult{}, err
	}
	resolved, _ := generate.ParsePreset(preset)
	result := SyncResult{
		DocType:   docType,
		Preset:    string(resolved),
		Dest:      dest,
		Generated: files,
	}

	if strings.TrimSpace(dest) == "" {
		return result, nil
	}

	written, err := o.writer.Sync(dest, files)
	if err != nil {
		return SyncResult{}, err
	}
	result.Files = written
	o.logger.Info("synced generated files",
		zap.String("doctype", docType),
		zap.String("dest", dest),
		zap.Int("files", len(written)))
	return result, nil
}

// Invalidate drops every cached contract for a doctype, forcing the next
// BuildContract to re-run the pipeline. Call it when the doctype's metadata
// changes.
func (o *Orchestrator) Invalidate(docType string) {
	if o.cache != nil {
		o.cache.InvalidateDocType(docType)
	}
}

// Contract returns the cached contract without building, for introspection.
func (o *Orchestrator) Contract(docType, preset string) (*contract.UIContract, bool) {
	if o.cache == nil {
		return nil, false
	}
	resolved, err := generate.ParsePreset(preset)
	if err != nil {
		return nil, false
	}
	return o.cache.Get(contract.Key{DocType: docType, Preset: string(resolved)})
}
