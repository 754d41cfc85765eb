// Package fsfetch serves doctype metadata from an fs.FS of YAML or JSON
// bundle files. It is the offline counterpart of a live REST fetcher and the
// default source for fixtures and tests: one file per doctype, carrying the
// descriptor plus its optional overrides, scripts, workflow, and methods.
package fsfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-uigen/pkg/doctype"
	"github.com/goliatone/go-uigen/pkg/metadata"
)

// document is the on-disk bundle shape.
type document struct {
	DocType   doctype.Descriptor       `json:"doctype" yaml:"doctype"`
	Overrides []doctype.OverrideRecord `json:"overrides,omitempty" yaml:"overrides,omitempty"`
	Scripts   []doctype.ScriptSource   `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	Workflow  *doctype.Workflow        `json:"workflow,omitempty" yaml:"workflow,omitempty"`
	Methods   []string                 `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// Store holds parsed bundles keyed by doctype name. Safe for concurrent
// readers once constructed.
type Store struct {
	bundles         map[string]document
	wildcardScripts []doctype.ScriptSource
}

// Ensure the store satisfies the fetch boundary.
var _ metadata.Fetcher = (*Store)(nil)

// New walks the filesystem and parses every .yaml/.yml/.json bundle file.
// A nil filesystem yields an empty store.
func New(fsys fs.FS) (*Store, error) {
	store := &Store{bundles: make(map[string]document)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isBundleFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("fsfetch: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		name := strings.TrimSpace(doc.DocType.Name)
		if name == "" {
			return fmt.Errorf("fsfetch: file %s does not name a doctype", path)
		}
		if _, exists := store.bundles[name]; exists {
			return fmt.Errorf("fsfetch: duplicate doctype %q (file %s)", name, path)
		}
		store.bundles[name] = doc

		for _, source := range doc.Scripts {
			if source.DocType == "*" {
				store.wildcardScripts = append(store.wildcardScripts, source)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Names lists every doctype the store can serve, in parse order of the map
// (callers needing stable order should sort).
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.bundles))
	for name := range s.bundles {
		names = append(names, name)
	}
	return names
}

// Descriptor implements metadata.Fetcher.
func (s *Store) Descriptor(_ context.Context, name string) (doctype.Descriptor, error) {
	doc, ok := s.bundles[name]
	if !ok {
		return doctype.Descriptor{}, fmt.Errorf("fsfetch: descriptor %q: %w", name, metadata.ErrNotFound)
	}
	return doc.DocType.Clone(), nil
}

// Overrides implements metadata.Fetcher.
func (s *Store) Overrides(_ context.Context, name string) ([]doctype.OverrideRecord, error) {
	return s.bundles[name].Overrides, nil
}

// Scripts implements metadata.Fetcher. Wildcard scripts registered by any
// bundle are served alongside the doctype's own.
func (s *Store) Scripts(_ context.Context, name string) ([]doctype.ScriptSource, error) {
	own := s.bundles[name].Scripts
	if len(s.wildcardScripts) == 0 {
		return own, nil
	}
	out := make([]doctype.ScriptSource, 0, len(own)+len(s.wildcardScripts))
	out = append(out, own...)
	for _, source := range s.wildcardScripts {
		if source.DocType == "*" && !containsScript(own, source) {
			out = append(out, source)
		}
	}
	return out, nil
}

// Workflow implements metadata.Fetcher.
func (s *Store) Workflow(_ context.Context, name string) (*doctype.Workflow, error) {
	return s.bundles[name].Workflow, nil
}

// Methods implements metadata.Fetcher.
func (s *Store) Methods(_ context.Context, name string) ([]string, error) {
	return s.bundles[name].Methods, nil
}

func containsScript(sources []doctype.ScriptSource, candidate doctype.ScriptSource) bool {
	for _, source := range sources {
		if source.Name == candidate.Name && source.Code == candidate.Code {
			return true
		}
	}
	return false
}

func isBundleFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func parseDocument(data []byte, path string) (document, error) {
	var doc document
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return document{}, fmt.Errorf("fsfetch: parse %s: %w", path, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("fsfetch: parse %s: %w", path, err)
	}
	return doc, nil
}
