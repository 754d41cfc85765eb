// Package openapifetch derives doctype descriptors from an OpenAPI document's
// component schemas. It lets teams that publish their document model as an
// OpenAPI contract feed the generation pipeline without a live metadata
// endpoint; overrides, scripts, and workflows have no OpenAPI analogue and
// always come back empty.
package openapifetch

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-uigen/pkg/doctype"
	"github.com/goliatone/go-uigen/pkg/metadata"
)

const (
	titleFieldExtension  = "x-title-field"
	submittableExtension = "x-submittable"
)

// Fetcher serves descriptors parsed from a single OpenAPI document.
type Fetcher struct {
	descriptors map[string]doctype.Descriptor
}

var _ metadata.Fetcher = (*Fetcher)(nil)

// New parses the document payload and indexes every component schema as a
// descriptor keyed by schema name.
func New(ctx context.Context, payload []byte) (*Fetcher, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("openapifetch: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(payload)
	if err != nil {
		return nil, fmt.Errorf("openapifetch: load document: %w", err)
	}

	fetcher := &Fetcher{descriptors: make(map[string]doctype.Descriptor)}
	if spec.Components == nil {
		return fetcher, nil
	}
	for name, ref := range spec.Components.Schemas {
		if ref == nil || ref.Value == nil {
			continue
		}
		fetcher.descriptors[name] = descriptorFromSchema(name, ref.Value)
	}
	return fetcher, nil
}

// Descriptor implements metadata.Fetcher.
func (f *Fetcher) Descriptor(_ context.Context, name string) (doctype.Descriptor, error) {
	desc, ok := f.descriptors[name]
	if !ok {
		return doctype.Descriptor{}, fmt.Errorf("openapifetch: descriptor %q: %w", name, metadata.ErrNotFound)
	}
	return desc.Clone(), nil
}

// Overrides implements metadata.Fetcher; OpenAPI carries no override records.
func (f *Fetcher) Overrides(context.Context, string) ([]doctype.OverrideRecord, error) {
	return nil, nil
}

// Scripts implements metadata.Fetcher; OpenAPI carries no embedded scripts.
func (f *Fetcher) Scripts(context.Context, string) ([]doctype.ScriptSource, error) {
	return nil, nil
}

// Workflow implements metadata.Fetcher; OpenAPI carries no workflows.
func (f *Fetcher) Workflow(context.Context, string) (*doctype.Workflow, error) {
	return nil, nil
}

// Methods implements metadata.Fetcher; OpenAPI carries no callable methods.
func (f *Fetcher) Methods(context.Context, string) ([]string, error) {
	return nil, nil
}

func descriptorFromSchema(name string, schema *openapi3.Schema) doctype.Descriptor {
	desc := doctype.Descriptor{Name: name}

	if title, ok := schema.Extensions[titleFieldExtension].(string); ok {
		desc.TitleField = title
	}
	if submittable, ok := schema.Extensions[submittableExtension].(bool); ok {
		desc.Submittable = submittable
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	// Property iteration order is random; sort so repeated parses of the
	// same document yield identical descriptors.
	names := make([]string, 0, len(schema.Properties))
	for propName := range schema.Properties {
		names = append(names, propName)
	}
	sort.Strings(names)

	for _, propName := range names {
		ref := schema.Properties[propName]
		if ref == nil {
			continue
		}
		field := fieldFromProperty(propName, ref)
		field.Required = required[propName]
		desc.Fields = append(desc.Fields, field)
	}
	return desc
}

func fieldFromProperty(name string, ref *openapi3.SchemaRef) doctype.Field {
	field := doctype.Field{Name: name, Kind: doctype.KindData}

	if target := refSchemaName(ref.Ref); target != "" {
		field.Kind = doctype.KindLink
		field.Options = target
		return field
	}
	if ref.Value == nil {
		return field
	}
	src := ref.Value
	field.Label = src.Title
	if src.Default != nil {
		field.Default = fmt.Sprintf("%v", src.Default)
	}

	switch firstType(src.Type) {
	case "boolean":
		field.Kind = doctype.KindCheck
	case "integer":
		field.Kind = doctype.KindInt
	case "number":
		field.Kind = doctype.KindFloat
	case "array":
		field.Kind = doctype.KindTable
		if src.Items != nil {
			field.Options = refSchemaName(src.Items.Ref)
		}
	case "object":
		field.Kind = doctype.KindCode
	case "string":
		field.Kind = stringKind(src)
		if len(src.Enum) > 0 {
			field.Options = enumOptions(src.Enum)
		}
	}
	return field
}

// firstType unwraps the 3.1-style type list; descriptors only care about the
// primary type.
func firstType(types *openapi3.Types) string {
	if types == nil || len(*types) == 0 {
		return ""
	}
	return (*types)[0]
}

func stringKind(src *openapi3.Schema) doctype.FieldKind {
	if len(src.Enum) > 0 {
		return doctype.KindSelect
	}
	switch src.Format {
	case "date":
		return doctype.KindDate
	case "date-time":
		return doctype.KindDatetime
	case "binary", "byte":
		return doctype.KindAttach
	}
	if src.MaxLength == nil && (src.Format == "textarea" || src.Format == "text") {
		return doctype.KindText
	}
	return doctype.KindData
}

func enumOptions(values []any) string {
	options := make([]string, 0, len(values))
	for _, value := range values {
		options = append(options, fmt.Sprintf("%v", value))
	}
	return strings.Join(options, "\n")
}

func refSchemaName(ref string) string {
	if ref == "" {
		return ""
	}
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}
