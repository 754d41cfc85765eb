package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ExprEvaluator is a small, dependency-free condition evaluator covering the
// dialect depends_on expressions actually use:
//
//   - truthiness: `is_urgent`, `doc.is_urgent`
//   - comparisons: `status == "Open"`, `doc.priority != 1`
//   - composition: `a && b`, `a || !b`, parentheses
//
// Identifiers resolve against the document; the conventional `doc.` prefix is
// accepted and stripped. An empty rule evaluates to true.
type ExprEvaluator struct{}

// NewExprEvaluator returns the default evaluator.
func NewExprEvaluator() *ExprEvaluator { return &ExprEvaluator{} }

var _ Evaluator = (*ExprEvaluator)(nil)

// Eval implements Evaluator.
func (e *ExprEvaluator) Eval(_ context.Context, rule string, doc Document) (bool, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}
	tokens, err := scanRule(trimmed)
	if err != nil {
		return false, err
	}
	p := &ruleParser{tokens: tokens}
	node, err := p.parseOr()
	if err != nil {
		return false, err
	}
	if p.pos < len(p.tokens) {
		return false, fmt.Errorf("sandbox: trailing input at %q", p.tokens[p.pos].text)
	}
	return node.eval(doc)
}

type tokKind int

const (
	tokIdent tokKind = iota
	tokString
	tokNumber
	tokBool
	tokNull
	tokEq
	tokNeq
	tokNot
	tokAnd
	tokOr
	tokLParen
	tokRParen
)

type tok struct {
	kind tokKind
	text string
}

func scanRule(input string) ([]tok, error) {
	var tokens []tok
	i := 0
	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			tokens = append(tokens, tok{kind: tokLParen, text: "("})
			i++
		case ch == ')':
			tokens = append(tokens, tok{kind: tokRParen, text: ")"})
			i++
		case ch == '=':
			// Accept both == and the scripting dialect's ===.
			if !strings.HasPrefix(input[i:], "==") {
				return nil, errors.New("sandbox: single '=' is not a comparison")
			}
			tokens = append(tokens, tok{kind: tokEq, text: "=="})
			i += comparisonWidth(input[i:])
		case ch == '!':
			if strings.HasPrefix(input[i:], "!=") {
				tokens = append(tokens, tok{kind: tokNeq, text: "!="})
				i += comparisonWidth(input[i:])
				break
			}
			tokens = append(tokens, tok{kind: tokNot, text: "!"})
			i++
		case ch == '&':
			if !strings.HasPrefix(input[i:], "&&") {
				return nil, errors.New("sandbox: single '&' is not a conjunction")
			}
			tokens = append(tokens, tok{kind: tokAnd, text: "&&"})
			i += 2
		case ch == '|':
			if !strings.HasPrefix(input[i:], "||") {
				return nil, errors.New("sandbox: single '|' is not a disjunction")
			}
			tokens = append(tokens, tok{kind: tokOr, text: "||"})
			i += 2
		case ch == '"' || ch == '\'':
			value, width, err := scanQuoted(input[i:])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok{kind: tokString, text: value})
			i += width
		default:
			start := i
			for i < len(input) && !strings.ContainsRune(" \t\n\r()!=&|'\"", rune(input[i])) {
				i++
			}
			word := input[start:i]
			switch strings.ToLower(word) {
			case "true", "false":
				tokens = append(tokens, tok{kind: tokBool, text: strings.ToLower(word)})
			case "null", "undefined", "nil":
				tokens = append(tokens, tok{kind: tokNull, text: "null"})
			default:
				if _, err := strconv.ParseFloat(word, 64); err == nil {
					tokens = append(tokens, tok{kind: tokNumber, text: word})
				} else {
					tokens = append(tokens, tok{kind: tokIdent, text: word})
				}
			}
		}
	}
	return tokens, nil
}

// comparisonWidth covers ==, ===, != and !== in one place.
func comparisonWidth(rest string) int {
	if strings.HasPrefix(rest, "===") || strings.HasPrefix(rest, "!==") {
		return 3
	}
	return 2
}

func scanQuoted(rest string) (value string, width int, err error) {
	quote := rest[0]
	var b strings.Builder
	for i := 1; i < len(rest); i++ {
		ch := rest[i]
		if ch == '\\' && i+1 < len(rest) {
			i++
			b.WriteByte(rest[i])
			continue
		}
		if ch == quote {
			return b.String(), i + 1, nil
		}
		b.WriteByte(ch)
	}
	return "", 0, errors.New("sandbox: unterminated string literal")
}

type ruleNode interface {
	eval(doc Document) (bool, error)
}

type binaryNode struct {
	and         bool
	left, right ruleNode
}

func (n binaryNode) eval(doc Document) (bool, error) {
	left, err := n.left.eval(doc)
	if err != nil {
		return false, err
	}
	if n.and && !left {
		return false, nil
	}
	if !n.and && left {
		return true, nil
	}
	return n.right.eval(doc)
}

type notNode struct {
	inner ruleNode
}

func (n notNode) eval(doc Document) (bool, error) {
	ok, err := n.inner.eval(doc)
	return !ok, err
}

type truthyNode struct {
	ident string
}

func (n truthyNode) eval(doc Document) (bool, error) {
	return truthy(lookupField(doc, n.ident)), nil
}

type compareNode struct {
	ident  string
	negate bool
	want   tok
}

func (n compareNode) eval(doc Document) (bool, error) {
	got := lookupField(doc, n.ident)
	var equal bool
	switch n.want.kind {
	case tokNull:
		equal = got == nil
	case tokBool:
		equal = truthy(got) == (n.want.text == "true")
	case tokNumber:
		want, _ := strconv.ParseFloat(n.want.text, 64)
		num, ok := asNumber(got)
		equal = ok && num == want
	default:
		equal = asString(got) == n.want.text
	}
	if n.negate {
		return !equal, nil
	}
	return equal, nil
}

type ruleParser struct {
	tokens []tok
	pos    int
}

func (p *ruleParser) parseOr() (ruleNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(tokOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = binaryNode{left: left, right: right}
	}
	return left, nil
}

func (p *ruleParser) parseAnd() (ruleNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match(tokAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{and: true, left: left, right: right}
	}
	return left, nil
}

func (p *ruleParser) parseUnary() (ruleNode, error) {
	if p.match(tokNot) {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *ruleParser) parsePrimary() (ruleNode, error) {
	if p.match(tokLParen) {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.match(tokRParen) {
			return nil, errors.New("sandbox: missing ')'")
		}
		return inner, nil
	}

	if p.pos >= len(p.tokens) {
		return nil, errors.New("sandbox: unexpected end of expression")
	}
	current := p.tokens[p.pos]
	if current.kind != tokIdent {
		return nil, fmt.Errorf("sandbox: expected identifier, got %q", current.text)
	}
	p.pos++

	if p.match(tokEq) {
		return p.comparison(current.text, false)
	}
	if p.match(tokNeq) {
		return p.comparison(current.text, true)
	}
	return truthyNode{ident: current.text}, nil
}

func (p *ruleParser) comparison(ident string, negate bool) (ruleNode, error) {
	if p.pos >= len(p.tokens) {
		return nil, errors.New("sandbox: comparison is missing its literal")
	}
	want := p.tokens[p.pos]
	switch want.kind {
	case tokString, tokNumber, tokBool, tokNull, tokIdent:
		p.pos++
		return compareNode{ident: ident, negate: negate, want: want}, nil
	}
	return nil, fmt.Errorf("sandbox: expected literal, got %q", want.text)
}

func (p *ruleParser) match(kind tokKind) bool {
	if p.pos < len(p.tokens) && p.tokens[p.pos].kind == kind {
		p.pos++
		return true
	}
	return false
}

// lookupField resolves an identifier against the document, stripping the
// conventional `doc.` prefix and traversing dotted paths through nested maps.
func lookupField(doc Document, ident string) any {
	path := strings.TrimPrefix(strings.TrimSpace(ident), "doc.")
	if path == "" {
		return nil
	}
	if value, ok := doc[path]; ok {
		return value
	}
	var current any = map[string]any(doc)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[part]
		if !ok {
			return nil
		}
	}
	return current
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	return true
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	return fmt.Sprint(value)
}
