// Package sandbox is the capability-restricted evaluation boundary for
// author-written conditions and handlers. The contract pipeline stores
// depends_on expressions verbatim; consumers that need an answer at render
// time evaluate them here against a live document, never against ambient
// state. Two evaluators ship: a dependency-free expression evaluator for the
// common comparison dialect, and a yaegi-backed interpreter for callers that
// want full expression semantics inside an isolated interpreter.
package sandbox

import "context"

// Document is the explicit context object exposed to evaluated expressions.
// It is the only state an expression can observe.
type Document map[string]any

// Evaluator decides whether a condition holds for a document.
type Evaluator interface {
	Eval(ctx context.Context, rule string, doc Document) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(ctx context.Context, rule string, doc Document) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(ctx context.Context, rule string, doc Document) (bool, error) {
	return fn(ctx, rule, doc)
}
