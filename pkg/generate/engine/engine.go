// Package engine wraps pongo2 behind the narrow template contract the code
// generator needs: load a bundle from an fs.FS, render named templates with a
// context map, cache parsed templates between renders.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	templates fs.FS
	extension string
	globals   map[string]any
}

// WithFS supplies the template bundle.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default ".tmpl" template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobals seeds context values available to every template.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[key] = value
		}
	}
}

// Engine renders pongo2 templates from a filesystem bundle.
type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	extension string
}

// New constructs an Engine from the provided options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tmpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.templates == nil {
		return nil, errors.New("engine: template filesystem is required")
	}

	set := pongo2.NewSet("uigen", pongo2.NewFSLoader(cfg.templates))
	if len(cfg.globals) > 0 {
		set.Globals = pongo2.Context(cfg.globals)
	}

	return &Engine{
		set:       set,
		templates: make(map[string]*pongo2.Template),
		extension: cfg.extension,
	}, nil
}

// Render executes the named template with the given context. The template
// extension is appended when missing.
func (e *Engine) Render(name string, data map[string]any) ([]byte, error) {
	if e == nil || e.set == nil {
		return nil, errors.New("engine: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.extension) {
		path += e.extension
	}

	tmpl, err := e.template(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context(data), &buf); err != nil {
		return nil, fmt.Errorf("engine: execute template %q: %w", path, err)
	}
	return buf.Bytes(), nil
}

func (e *Engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	cached, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("engine: load template %q: %w", path, err)
	}

	e.mu.Lock()
	e.templates[path] = tmpl
	e.mu.Unlock()
	return tmpl, nil
}
