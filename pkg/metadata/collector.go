package metadata

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-uigen/pkg/doctype"
)

// Option customises the collector configuration.
type Option func(*Collector)

// WithLogger injects the logger used for soft-failure warnings. The default
// is a nop logger so library consumers opt in to output.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Collector fetches every metadata resource a contract build needs. The five
// fetches have no data dependencies on each other, so they are issued
// concurrently; each failure is caught locally and substituted with an empty
// default without cancelling the sibling fetches.
type Collector struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewCollector constructs a Collector around a Fetcher.
func NewCollector(fetcher Fetcher, options ...Option) *Collector {
	c := &Collector{
		fetcher: fetcher,
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Collect gathers the metadata bundle for a doctype. Only a failed descriptor
// fetch is a hard error; overrides, scripts, workflow, and methods degrade to
// empty results with a logged warning.
func (c *Collector) Collect(ctx context.Context, name string) (Bundle, error) {
	if c.fetcher == nil {
		return Bundle{}, fmt.Errorf("metadata: fetcher is required")
	}

	var (
		bundle  Bundle
		descErr error
		wg      sync.WaitGroup
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		bundle.Descriptor, descErr = c.fetcher.Descriptor(ctx, name)
	}()
	go func() {
		defer wg.Done()
		overrides, err := c.fetcher.Overrides(ctx, name)
		if err != nil {
			c.warn("fetch overrides", name, err)
			return
		}
		bundle.Overrides = overrides
	}()
	go func() {
		defer wg.Done()
		scripts, err := c.fetcher.Scripts(ctx, name)
		if err != nil {
			c.warn("fetch scripts", name, err)
			return
		}
		bundle.Scripts = scripts
	}()
	go func() {
		defer wg.Done()
		workflow, err := c.fetcher.Workflow(ctx, name)
		if err != nil {
			c.warn("fetch workflow", name, err)
			return
		}
		bundle.Workflow = workflow
	}()
	go func() {
		defer wg.Done()
		methods, err := c.fetcher.Methods(ctx, name)
		if err != nil {
			c.warn("fetch methods", name, err)
			return
		}
		bundle.Methods = methods
	}()
	wg.Wait()

	if descErr != nil {
		return Bundle{}, fmt.Errorf("metadata: fetch descriptor %q: %w", name, descErr)
	}
	return bundle, nil
}

// ChildDescriptor resolves a child-table doctype's descriptor. Failures are
// soft at the call site: the contract builder substitutes a default column
// set, so this helper only decorates the error.
func (c *Collector) ChildDescriptor(ctx context.Context, name string) (doctype.Descriptor, error) {
	desc, err := c.fetcher.Descriptor(ctx, name)
	if err != nil {
		c.warn("fetch child descriptor", name, err)
		return doctype.Descriptor{}, fmt.Errorf("metadata: fetch child descriptor %q: %w", name, err)
	}
	return desc, nil
}

func (c *Collector) warn(op, name string, err error) {
	c.logger.Warn("metadata fetch degraded",
		zap.String("op", op),
		zap.String("doctype", name),
		zap.Error(err),
	)
}
