package generate

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/runtime/*.js
var embeddedAssets embed.FS

// TemplatesFS exposes the embedded template bundle so callers can extend or
// override individual templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the embedded runtime helper modules for consumers that
// serve them over HTTP instead of syncing them to disk.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
