package generate

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// labelPolicy strips all markup from author-provided labels before they are
// interpolated into generated source. Labels come from doctype metadata and
// property overrides, which are editable by non-developers.
var labelPolicy = bluemonday.StrictPolicy()

func sanitizeLabel(label string) string {
	cleaned := labelPolicy.Sanitize(label)
	// StrictPolicy entity-encodes what it keeps; generated files are JS
	// modules, not HTML, so decode back to plain text.
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func sanitizeLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}
	cleaned := make(map[string]string, len(labels))
	for key, value := range labels {
		cleaned[key] = sanitizeLabel(value)
	}
	return cleaned
}
