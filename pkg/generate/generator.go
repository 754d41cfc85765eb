// Package generate turns a built UI contract into a fixed set of source
// files: list view, form view, actions module, route registration, a preset
// stylesheet, and the shared runtime helper modules. Generation is a pure
// function of the contract and the preset; the same inputs always produce
// byte-identical output.
package generate

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-uigen/pkg/contract"
	"github.com/goliatone/go-uigen/pkg/generate/engine"
)

// Option configures a Generator.
type Option func(*Generator)

// WithEngine replaces the default template engine, e.g. to point at an
// on-disk template directory during template development.
func WithEngine(eng *engine.Engine) Option {
	return func(g *Generator) {
		if eng != nil {
			g.engine = eng
		}
	}
}

// WithThemeSelector replaces the bundled theme catalog.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(g *Generator) {
		if selector != nil {
			g.selector = selector
		}
	}
}

// WithLogger attaches a logger. The default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator renders the generated file set for one contract and preset.
type Generator struct {
	engine   *engine.Engine
	selector theme.ThemeSelector
	logger   *zap.Logger
}

// New constructs a Generator with the embedded templates and bundled themes.
func New(options ...Option) (*Generator, error) {
	g := &Generator{
		selector: newManifestSelector(defaultManifest()),
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(g)
		}
	}
	if g.engine == nil {
		templates, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("generate: embedded templates: %w", err)
		}
		eng, err := engine.New(engine.WithFS(templates))
		if err != nil {
			return nil, err
		}
		g.engine = eng
	}
	return g, nil
}

// templateFiles maps template names onto output paths relative to the
// doctype's directory. Order is emission order.
var templateFiles = []struct {
	template string
	path     string
}{
	{template: "list.js", path: "list.js"},
	{template: "form.js", path: "form.js"},
	{template: "actions.js", path: "actions.js"},
	{template: "routes.js", path: "routes.js"},
	{template: "theme.css", path: "theme.css"},
}

// runtimeAssets are emitted verbatim alongside every generated doctype.
var runtimeAssets = []string{
	"runtime/client.js",
	"runtime/events.js",
	"runtime/realtime.js",
}

// Generate renders the full file set for one contract. Paths are relative:
// per-doctype files live under the doctype's route slug, shared runtime
// modules under runtime/.
func (g *Generator) Generate(uic contract.UIContract, preset Preset) ([]File, error) {
	if uic.DocType == "" {
		return nil, fmt.Errorf("generate: contract has no doctype")
	}
	preset, err := ParsePreset(string(preset))
	if err != nil {
		return nil, err
	}

	themeCfg, err := resolveTheme(g.selector, preset)
	if err != nil {
		return nil, err
	}

	data, err := templateContext(uic, preset, themeCfg)
	if err != nil {
		return nil, err
	}

	slug := routeSlug(uic)
	files := make([]File, 0, len(templateFiles)+len(runtimeAssets))
	for _, tf := range templateFiles {
		rendered, err := g.engine.Render(tf.template, data)
		if err != nil {
			return nil, fmt.Errorf("generate: render %s for %q: %w", tf.template, uic.DocType, err)
		}
		files = append(files, File{Path: slug + "/" + tf.path, Contents: rendered})
	}

	for _, name := range runtimeAssets {
		contents, err := fs.ReadFile(embeddedAssets, "assets/"+name)
		if err != nil {
			return nil, fmt.Errorf("generate: runtime asset %s: %w", name, err)
		}
		files = append(files, File{Path: name, Contents: contents})
	}

	g.logger.Debug("generated file set",
		zap.String("doctype", uic.DocType),
		zap.String("preset", string(preset)),
		zap.Int("files", len(files)))
	return files, nil
}

// templateContext assembles the pongo2 context shared by every template.
// Contract fragments are pre-serialized so templates interpolate finished
// JSON instead of walking Go structs.
func templateContext(uic contract.UIContract, preset Preset, themeCfg *theme.RendererConfig) (map[string]any, error) {
	cleaned := sanitizeContract(uic)

	contractJSON, err := marshalJS(cleaned)
	if err != nil {
		return nil, err
	}
	listJSON, err := marshalJS(cleaned.List)
	if err != nil {
		return nil, err
	}
	formJSON, err := marshalJS(cleaned.Form)
	if err != nil {
		return nil, err
	}
	scriptsJSON, err := marshalJS(cleaned.Scripts)
	if err != nil {
		return nil, err
	}
	methodsJSON, err := marshalJS(cleaned.Actions.Methods)
	if err != nil {
		return nil, err
	}

	methods := make([]map[string]any, 0, len(cleaned.Actions.Methods))
	for _, m := range cleaned.Actions.Methods {
		methods = append(methods, map[string]any{
			"fn":    jsIdentifier(m.ID),
			"id_js": jsString(m.ID),
			"label": m.Label,
		})
	}

	return map[string]any{
		"doctype":         cleaned.DocType,
		"doctype_js":      jsString(cleaned.DocType),
		"preset":          string(preset),
		"slug":            routeSlug(uic),
		"contract_json":   contractJSON,
		"list_json":       listJSON,
		"form_json":       formJSON,
		"scripts_json":    scriptsJSON,
		"methods_json":    methodsJSON,
		"methods":         methods,
		"route_list_js":   jsString(cleaned.Routes.List),
		"route_detail_js": jsString(cleaned.Routes.Detail),
		"route_new_js":    jsString(cleaned.Routes.New),
		"topic_doc_js":    jsString(topicWithPrefix(cleaned.Realtime, "doc_update:")),
		"topic_list_js":   jsString(topicWithPrefix(cleaned.Realtime, "list_update:")),
		"submit":          cleaned.Actions.Submit,
		"cancel":          cleaned.Actions.Cancel,
		"amend":           cleaned.Actions.Amend,
		"has_workflow":    cleaned.Actions.HasWorkflow,
		"css_vars":        cssVarBlock(themeCfg.CSSVars),
		"theme":           themeCfg.Theme,
		"theme_variant":   themeCfg.Variant,
	}, nil
}

// sanitizeContract strips markup from the human-readable surfaces of a
// contract copy. Field names, options, and script bodies pass through
// untouched; only labels and titles are display text.
func sanitizeContract(uic contract.UIContract) contract.UIContract {
	cleaned := uic

	cleaned.Form.Labels = sanitizeLabels(uic.Form.Labels)
	if len(uic.Form.Sections) > 0 {
		sections := make([]contract.SectionSpec, len(uic.Form.Sections))
		copy(sections, uic.Form.Sections)
		for i := range sections {
			sections[i].Title = sanitizeLabel(sections[i].Title)
		}
		cleaned.Form.Sections = sections
	}

	if len(uic.List.Filters) > 0 {
		filters := make([]contract.FilterSpec, len(uic.List.Filters))
		copy(filters, uic.List.Filters)
		for i := range filters {
			filters[i].Label = sanitizeLabel(filters[i].Label)
		}
		cleaned.List.Filters = filters
	}

	if len(uic.Actions.Methods) > 0 {
		methods := make([]contract.MethodSpec, len(uic.Actions.Methods))
		copy(methods, uic.Actions.Methods)
		for i := range methods {
			methods[i].Label = sanitizeLabel(methods[i].Label)
		}
		cleaned.Actions.Methods = methods
	}

	if len(uic.Scripts.Buttons) > 0 {
		buttons := make(map[string]string, len(uic.Scripts.Buttons))
		for label, body := range uic.Scripts.Buttons {
			buttons[sanitizeLabel(label)] = body
		}
		cleaned.Scripts.Buttons = buttons
	}

	return cleaned
}

func marshalJS(value any) (string, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("generate: encode contract fragment: %w", err)
	}
	return string(data), nil
}

func jsString(value string) string {
	data, err := json.Marshal(value)
	if err != nil {
		return `""`
	}
	return string(data)
}

// jsIdentifier converts a snake_case method id into a camelCase function
// name, dropping characters that cannot appear in an identifier.
func jsIdentifier(id string) string {
	var b strings.Builder
	upper := false
	for i, r := range id {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			upper = b.Len() > 0
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9' && i > 0):
			if upper {
				b.WriteString(strings.ToUpper(string(r)))
				upper = false
			} else {
				b.WriteRune(r)
			}
		}
	}
	if b.Len() == 0 {
		return "call"
	}
	name := b.String()
	if name[0] >= '0' && name[0] <= '9' {
		name = "call" + name
	}
	return name
}

func routeSlug(uic contract.UIContract) string {
	slug := strings.Trim(uic.Routes.List, "/")
	if slug == "" {
		slug = strings.ToLower(strings.ReplaceAll(uic.DocType, " ", "-"))
	}
	return slug
}

func topicWithPrefix(topics []string, prefix string) string {
	for _, topic := range topics {
		if strings.HasPrefix(topic, prefix) {
			return topic
		}
	}
	return ""
}
