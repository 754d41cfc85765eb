package sandbox

import (
	"context"
	"fmt"
	"strings"

	"github.com/traefik/yaegi/interp"
)

// InterpEvaluator runs rules inside a yaegi interpreter. Rules are Go boolean
// expressions over `doc map[string]interface{}`, which buys the operators the
// expression dialect lacks (ordering, arithmetic, type assertions):
//
//	doc["status"] == "Open" && doc["progress"].(float64) > 0.5
//
// Each evaluation runs in a fresh interpreter with no imports loaded, so an
// expression can observe nothing but the document it is handed. The work runs
// on its own goroutine and honours context cancellation.
type InterpEvaluator struct{}

// NewInterpEvaluator constructs the interpreter-backed evaluator.
func NewInterpEvaluator() *InterpEvaluator { return &InterpEvaluator{} }

var _ Evaluator = (*InterpEvaluator)(nil)

// Eval implements Evaluator.
func (e *InterpEvaluator) Eval(ctx context.Context, rule string, doc Document) (bool, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}
	if strings.Contains(trimmed, "import") {
		return false, fmt.Errorf("sandbox: imports are not permitted in rules")
	}

	type outcome struct {
		value bool
		err   error
	}
	results := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				results <- outcome{err: fmt.Errorf("sandbox: rule panicked: %v", r)}
			}
		}()
		value, err := evalRule(trimmed, doc)
		results <- outcome{value: value, err: err}
	}()

	select {
	case result := <-results:
		return result.value, result.err
	case <-ctx.Done():
		return false, fmt.Errorf("sandbox: rule evaluation cancelled: %w", ctx.Err())
	}
}

func evalRule(rule string, doc Document) (bool, error) {
	i := interp.New(interp.Options{})

	program := "package main\n\nfunc Rule(doc map[string]interface{}) bool {\n\treturn " + rule + "\n}\n"
	if _, err := i.Eval(program); err != nil {
		return false, fmt.Errorf("sandbox: compile rule: %w", err)
	}

	v, err := i.Eval("main.Rule")
	if err != nil {
		return false, fmt.Errorf("sandbox: resolve rule: %w", err)
	}
	fn, ok := v.Interface().(func(map[string]interface{}) bool)
	if !ok {
		return false, fmt.Errorf("sandbox: rule is not a boolean expression")
	}
	return fn(map[string]interface{}(doc)), nil
}
