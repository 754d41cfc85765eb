package generate

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Preset names a bundled rendering style. Presets are part of the cache key
// upstream, so two presets never share generated output.
type Preset string

const (
	// PresetPlain emits unstyled markup with the stock spacing scale.
	PresetPlain Preset = "plain"
	// PresetDense tightens the spacing scale for data-heavy screens.
	PresetDense Preset = "dense"
	// PresetStyled layers the brand palette on top of the plain scale.
	PresetStyled Preset = "styled"
)

// DefaultPreset is used when a caller does not name one.
const DefaultPreset = PresetPlain

// ParsePreset validates a preset name. The empty string resolves to the
// default preset.
func ParsePreset(name string) (Preset, error) {
	switch Preset(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return DefaultPreset, nil
	case PresetPlain:
		return PresetPlain, nil
	case PresetDense:
		return PresetDense, nil
	case PresetStyled:
		return PresetStyled, nil
	}
	return "", fmt.Errorf("generate: unknown preset %q", name)
}

// Presets lists the bundled preset names in stable order.
func Presets() []Preset {
	return []Preset{PresetPlain, PresetDense, PresetStyled}
}

// presetVariants maps each preset onto the theme manifest variant that backs
// it. Plain is the manifest base; the others are variants layered on top.
var presetVariants = map[Preset]string{
	PresetPlain:  "",
	PresetDense:  "dense",
	PresetStyled: "styled",
}

func defaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "uigen",
		Version: "1.0.0",
		Tokens: map[string]string{
			"spacing":       "0.75rem",
			"radius":        "4px",
			"font-size":     "14px",
			"border":        "#d0d4d9",
			"surface":       "#ffffff",
			"text":          "#1f2933",
			"accent":        "#1f2933",
			"accent-text":   "#ffffff",
			"filter-height": "2rem",
		},
		Assets: theme.Assets{
			Prefix: "/assets/uigen",
			Files: map[string]string{
				"stylesheet": "uigen.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dense": {
				Tokens: map[string]string{
					"spacing":       "0.375rem",
					"font-size":     "12px",
					"filter-height": "1.5rem",
				},
			},
			"styled": {
				Tokens: map[string]string{
					"accent":      "#2563eb",
					"accent-text": "#f8fafc",
					"surface":     "#f8fafc",
					"radius":      "8px",
				},
			},
		},
	}
}

// manifestSelector resolves selections from a fixed manifest set. It stands
// in for an external theme catalog when callers do not supply one.
type manifestSelector struct {
	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*manifestSelector)(nil)

func newManifestSelector(manifests ...*theme.Manifest) *manifestSelector {
	s := &manifestSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, m := range manifests {
		if m != nil {
			s.manifests[m.Name] = m
		}
	}
	return s
}

// Select implements theme.ThemeSelector.
func (s *manifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("generate: theme %q is not registered", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("generate: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// resolveTheme turns a preset into the renderer config templates consume.
// Variant tokens override the manifest base; CSS variables are derived from
// the merged token set.
func resolveTheme(selector theme.ThemeSelector, preset Preset) (*theme.RendererConfig, error) {
	variant := presetVariants[preset]
	selection, err := selector.Select("uigen", variant)
	if err != nil {
		return nil, fmt.Errorf("generate: select theme for preset %q: %w", preset, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("generate: theme selection for preset %q has no manifest", preset)
	}
	manifest := selection.Manifest

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	if variant != "" {
		if v, ok := manifest.Variants[variant]; ok {
			for key, value := range v.Tokens {
				tokens[key] = value
			}
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := strings.TrimSuffix(manifest.Assets.Prefix, "/")
	return &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  tokens,
		CSSVars: cssVars,
		AssetURL: func(name string) string {
			if file, ok := manifest.Assets.Files[name]; ok {
				return prefix + "/" + file
			}
			return prefix + "/" + name
		},
	}, nil
}

// cssVarBlock renders CSS custom properties in deterministic order for
// interpolation into generated stylesheets.
func cssVarBlock(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "  %s: %s;\n", key, vars[key])
	}
	return b.String()
}
