// Package metadata defines the fetch boundary between the pipeline and the
// remote document-management system, and the collector that aggregates the
// independent metadata resources for a doctype.
package metadata

import (
	"context"
	"errors"

	"github.com/goliatone/go-uigen/pkg/doctype"
)

// ErrNotFound reports that a doctype has no descriptor at the source.
var ErrNotFound = errors.New("metadata: doctype not found")

// Fetcher retrieves the independent metadata resources for a doctype. The
// wire-level client, its auth, and its retry policy live behind this
// interface; the pipeline only consumes the results.
//
// Descriptor is the sole hard dependency of a contract build. Every other
// fetch may fail or return empty independently and the pipeline degrades.
type Fetcher interface {
	// Descriptor returns the base document-type descriptor. It is also used
	// reentrantly to resolve child-table descriptors.
	Descriptor(ctx context.Context, name string) (doctype.Descriptor, error)

	// Overrides returns the property override records for the doctype.
	Overrides(ctx context.Context, name string) ([]doctype.OverrideRecord, error)

	// Scripts returns the embedded automation scripts attached to the
	// doctype, including wildcard scripts when the source supports them.
	Scripts(ctx context.Context, name string) ([]doctype.ScriptSource, error)

	// Workflow returns the doctype's workflow, or nil when none is attached.
	Workflow(ctx context.Context, name string) (*doctype.Workflow, error)

	// Methods returns the ids of server methods callable on the doctype.
	Methods(ctx context.Context, name string) ([]string, error)
}

// Bundle aggregates one doctype's fetched metadata. Optional resources hold
// their zero value when the source had nothing or the fetch failed soft.
type Bundle struct {
	Descriptor doctype.Descriptor
	Overrides  []doctype.OverrideRecord
	Scripts    []doctype.ScriptSource
	Workflow   *doctype.Workflow
	Methods    []string
}

// Normalized returns the descriptor with all override records folded in.
func (b Bundle) Normalized() doctype.Descriptor {
	return doctype.ApplyOverrides(b.Descriptor, b.Overrides)
}
