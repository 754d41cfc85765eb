// Package script extracts structured fragments from the free-text automation
// scripts attached to a doctype. It recognises a handful of known call-site
// shapes with regular expressions and a brace-balanced block scanner; it is
// deliberately not a parser for the full scripting language. Text that does
// not match degrades to "no fragment found", never to an error.
package script

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-uigen/pkg/doctype"
)

// Kind labels what a fragment was extracted from.
type Kind string

const (
	// KindEventHandler is a named handler inside a form registration block.
	KindEventHandler Kind = "event_handler"
	// KindQueryCallback is a link-field query filter keyed by field name.
	KindQueryCallback Kind = "query_callback"
	// KindButton is a custom button registration keyed by its label.
	KindButton Kind = "button"
)

// WildcardTarget registers a script block against every doctype.
const WildcardTarget = "*"

// Fragment is one extracted unit of embedded script. Body holds the verbatim
// source between the matched braces, trimmed of surrounding whitespace.
type Fragment struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
	Body string `json:"body"`
}

var (
	formOnPattern = regexp.MustCompile(`frappe\.ui\.form\.on\(\s*['"]([^'"]+)['"]\s*,`)

	// Handler headers come in three shapes: classic property functions,
	// shorthand methods, and arrow properties. Each must end with the opening
	// brace of its body on the same line.
	handlerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*([A-Za-z_$][\w$]*)\s*:\s*(?:async\s+)?function\s*\([^)]*\)\s*\{`),
		regexp.MustCompile(`(?m)^\s*(?:async\s+)?([A-Za-z_$][\w$]*)\s*\([^)]*\)\s*\{`),
		regexp.MustCompile(`(?m)^\s*([A-Za-z_$][\w$]*)\s*:\s*(?:async\s*)?\([^)]*\)\s*=>\s*\{`),
	}

	setQueryPattern = regexp.MustCompile(`frm\.set_query\(\s*['"]([\w-]+)['"]`)
	buttonPattern   = regexp.MustCompile(`frm\.add_custom_button\(\s*(?:__\(\s*)?['"]([^'"]+)['"]\s*\)?\s*,`)
)

// Extract pulls every recognisable fragment for docType out of the supplied
// script sources. Disabled and empty sources contribute nothing; syntactic
// irregularities degrade to missing fragments rather than failures.
func Extract(docType string, sources []doctype.ScriptSource) []Fragment {
	var fragments []Fragment
	for _, source := range sources {
		if !source.Enabled || strings.TrimSpace(source.Code) == "" {
			continue
		}
		fragments = append(fragments, extractHandlers(docType, source.Code)...)
		fragments = append(fragments, extractCallSites(source.Code, setQueryPattern, KindQueryCallback)...)
		fragments = append(fragments, extractCallSites(source.Code, buttonPattern, KindButton)...)
	}
	return fragments
}

// extractHandlers finds frappe.ui.form.on registration blocks targeting
// docType (or the wildcard) and splits each block into named handlers.
func extractHandlers(docType, code string) []Fragment {
	var fragments []Fragment
	offset := 0
	for {
		loc := formOnPattern.FindStringSubmatchIndex(code[offset:])
		if loc == nil {
			break
		}
		target := code[offset+loc[2] : offset+loc[3]]
		block, next, ok := balancedBlock(code, offset+loc[1])
		if !ok {
			break
		}
		if target == docType || target == WildcardTarget {
			fragments = append(fragments, handlersInBlock(block)...)
		}
		offset = next
	}
	return fragments
}

// handlersInBlock scans a registration object literal for handler headers.
// After each match the cursor jumps past the handler body so headers inside
// nested bodies are not matched twice.
func handlersInBlock(block string) []Fragment {
	var fragments []Fragment
	pos := 0
	for pos < len(block) {
		name, headerEnd, ok := nextHandlerHeader(block, pos)
		if !ok {
			break
		}
		// The header's trailing '{' opens the body; the scanner starts
		// counting from the header line itself, which compensates for a line
		// that both opens the body and is its first statement.
		body, next, ok := balancedBlock(block, headerEnd-1)
		if !ok {
			break
		}
		if trimmed := strings.TrimSpace(body); trimmed != "" {
			fragments = append(fragments, Fragment{Kind: KindEventHandler, Name: name, Body: trimmed})
		}
		pos = next
	}
	return fragments
}

// nextHandlerHeader finds the earliest handler header at or after pos and
// returns its name and the index one past the header's opening brace.
func nextHandlerHeader(block string, pos int) (name string, headerEnd int, ok bool) {
	best := -1
	for _, pattern := range handlerPatterns {
		loc := pattern.FindStringSubmatchIndex(block[pos:])
		if loc == nil {
			continue
		}
		if best == -1 || loc[0] < best {
			best = loc[0]
			name = block[pos+loc[2] : pos+loc[3]]
			headerEnd = pos + loc[1]
			ok = true
		}
	}
	return name, headerEnd, ok
}

// extractCallSites handles the standalone shapes (set_query, custom buttons)
// whose callback body is the first balanced block inside the argument list.
func extractCallSites(code string, pattern *regexp.Regexp, kind Kind) []Fragment {
	var fragments []Fragment
	offset := 0
	for {
		loc := pattern.FindStringSubmatchIndex(code[offset:])
		if loc == nil {
			break
		}
		key := code[offset+loc[2] : offset+loc[3]]
		body, next, ok := balancedBlock(code, offset+loc[1])
		if !ok {
			break
		}
		if trimmed := strings.TrimSpace(body); trimmed != "" {
			fragments = append(fragments, Fragment{Kind: kind, Name: key, Body: trimmed})
		}
		offset = next
	}
	return fragments
}

// Handlers filters fragments down to event handlers keyed by name.
func Handlers(fragments []Fragment) map[string]string {
	return byKind(fragments, KindEventHandler)
}

// QueryCallbacks filters fragments down to query callbacks keyed by field.
func QueryCallbacks(fragments []Fragment) map[string]string {
	return byKind(fragments, KindQueryCallback)
}

// Buttons filters fragments down to button registrations keyed by label.
func Buttons(fragments []Fragment) map[string]string {
	return byKind(fragments, KindButton)
}

func byKind(fragments []Fragment, kind Kind) map[string]string {
	out := make(map[string]string)
	for _, fragment := range fragments {
		if fragment.Kind == kind {
			out[fragment.Name] = fragment.Body
		}
	}
	return out
}
