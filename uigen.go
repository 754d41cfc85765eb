package uigen

import (
	"context"

	"github.com/goliatone/go-uigen/pkg/contract"
	"github.com/goliatone/go-uigen/pkg/generate"
	"github.com/goliatone/go-uigen/pkg/metadata"
	"github.com/goliatone/go-uigen/pkg/orchestrator"
)

// UIContract aliases the derived contract type exported via the root package
// for convenience.
type UIContract = contract.UIContract

// Limits aliases the derivation caps applied while building contracts.
type Limits = contract.Limits

// File is one generated artifact.
type File = generate.File

// SyncResult reports what a sync wrote.
type SyncResult = orchestrator.SyncResult

// Fetcher is the metadata source the pipeline pulls from.
type Fetcher = metadata.Fetcher

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module so callers can start with a single import.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// BuildContract derives the UI contract for a doctype using a one-shot
// orchestrator. Callers that build repeatedly should hold an Orchestrator so
// the contract cache survives between calls.
func BuildContract(ctx context.Context, docType, preset string, options ...orchestrator.Option) (*UIContract, error) {
	return orchestrator.New(options...).BuildContract(ctx, docType, preset)
}

// GenerateFiles derives the contract and renders the generated file set
// without touching disk.
func GenerateFiles(ctx context.Context, docType, preset string, options ...orchestrator.Option) ([]File, error) {
	return orchestrator.New(options...).GenerateFiles(ctx, docType, preset)
}

// SyncFiles generates the file set for a doctype and writes it beneath dest.
// An empty dest skips the disk phase and returns the generated set in memory.
func SyncFiles(ctx context.Context, docType, preset, dest string, options ...orchestrator.Option) (SyncResult, error) {
	return orchestrator.New(options...).SyncFiles(ctx, docType, preset, dest)
}
