package contract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-uigen/pkg/doctype"
	"github.com/goliatone/go-uigen/pkg/metadata"
	"github.com/goliatone/go-uigen/pkg/script"
)

// identifierField is the primary identifier every document carries.
const identifierField = "name"

// mainSectionTitle labels the implicit leading section emitted when fields
// precede the first section break, or when no break exists at all.
const mainSectionTitle = "Main"

const (
	defaultSortField = "modified"
	defaultSortOrder = "desc"
)

// ChildResolver fetches a child-table doctype's descriptor. Failures are
// tolerated: the affected child table falls back to a default column set.
type ChildResolver func(ctx context.Context, name string) (doctype.Descriptor, error)

// BuilderOption customises the contract builder.
type BuilderOption func(*Builder)

// WithLimits overrides the derivation caps.
func WithLimits(limits Limits) BuilderOption {
	return func(b *Builder) {
		b.limits = limits.normalize()
	}
}

// WithChildResolver wires the reentrant descriptor lookup used for
// child-table column derivation. Without one, every child table gets the
// default column set.
func WithChildResolver(resolver ChildResolver) BuilderOption {
	return func(b *Builder) {
		b.resolver = resolver
	}
}

// WithLogger injects the logger for soft-failure warnings.
func WithLogger(logger *zap.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder derives UI contracts from fetched metadata bundles. Derivation is
// deterministic: identical inputs always produce identical contracts, with
// field ordering taken from the descriptor rather than re-sorted.
type Builder struct {
	limits   Limits
	resolver ChildResolver
	logger   *zap.Logger
}

// NewBuilder constructs a Builder applying any provided options.
func NewBuilder(options ...BuilderOption) *Builder {
	b := &Builder{
		limits: DefaultLimits(),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Build assembles the UI contract for a metadata bundle. Everything except
// child-descriptor resolution is a pure computation over the bundle; partial
// bundles (no workflow, no scripts) yield partial but fully usable contracts.
func (b *Builder) Build(ctx context.Context, bundle metadata.Bundle) UIContract {
	desc := bundle.Normalized()
	fragments := script.Extract(desc.Name, bundle.Scripts)

	return UIContract{
		DocType:     desc.Name,
		Routes:      b.routes(desc),
		List:        b.list(desc),
		Form:        b.form(ctx, desc),
		Actions:     b.actions(desc, bundle.Workflow, bundle.Methods),
		Permissions: b.permissions(desc),
		Scripts:     b.scripts(fragments),
		Realtime:    []string{"doc_update:" + desc.Name, "list_update:" + desc.Name},
	}
}

func (b *Builder) routes(desc doctype.Descriptor) RoutesSpec {
	slug := routeSlug(desc.Name)
	return RoutesSpec{
		List:   "/" + slug,
		Detail: "/" + slug + "/:name",
		New:    "/" + slug + "/new",
	}
}

func (b *Builder) list(desc doctype.Descriptor) ListSpec {
	return ListSpec{
		Columns:     b.listColumns(desc, b.limits.ListColumns),
		Filters:     b.listFilters(desc),
		DefaultSort: defaultSort(desc),
	}
}

// listColumns derives the list view columns: the identifier and the title
// field always lead, then fields flagged list-visible or standard-filterable
// in descriptor order, deduplicated and capped.
func (b *Builder) listColumns(desc doctype.Descriptor, cap int) []string {
	columns := []string{identifierField}
	seen := map[string]bool{identifierField: true}

	if title := strings.TrimSpace(desc.TitleField); title != "" && !seen[title] {
		columns = append(columns, title)
		seen[title] = true
	}

	for _, field := range desc.Fields {
		if len(columns) >= cap {
			break
		}
		if field.Kind.Layout() || seen[field.Name] {
			continue
		}
		if field.InListView || field.InStandardFilter {
			columns = append(columns, field.Name)
			seen[field.Name] = true
		}
	}
	return columns
}

func (b *Builder) listFilters(desc doctype.Descriptor) []FilterSpec {
	var filters []FilterSpec
	for _, field := range desc.Fields {
		if len(filters) >= b.limits.ListFilters {
			break
		}
		if field.Kind.Layout() || !filterable(field) {
			continue
		}
		filter := FilterSpec{
			Field: field.Name,
			Kind:  string(field.Kind),
			Label: fieldLabel(field),
		}
		switch field.Kind {
		case doctype.KindSelect:
			filter.Options = field.SelectOptions()
		case doctype.KindLink:
			filter.Target = field.LinkTarget()
		}
		filters = append(filters, filter)
	}
	return filters
}

func filterable(field doctype.Field) bool {
	if field.InStandardFilter {
		return true
	}
	switch field.Kind {
	case doctype.KindSelect, doctype.KindLink, doctype.KindDate, doctype.KindDatetime, doctype.KindCheck:
		return true
	}
	return false
}

func (b *Builder) form(ctx context.Context, desc doctype.Descriptor) FormSpec {
	form := FormSpec{
		Sections: sections(desc),
		Types:    make(map[string]string),
		Labels:   make(map[string]string),
	}

	for _, field := range desc.Fields {
		if field.Kind.Layout() {
			continue
		}
		form.Types[field.Name] = string(field.Kind)
		form.Labels[field.Name] = fieldLabel(field)

		if expr := strings.TrimSpace(field.VisibleIf); expr != "" {
			if form.VisibleIf == nil {
				form.VisibleIf = make(map[string]string)
			}
			// Stored verbatim; evaluation is deferred to the rendering
			// environment's sandbox.
			form.VisibleIf[field.Name] = expr
		}
		if expr := strings.TrimSpace(field.MandatoryIf); expr != "" {
			if form.MandatoryIf == nil {
				form.MandatoryIf = make(map[string]string)
			}
			form.MandatoryIf[field.Name] = expr
		}

		if field.Kind.Attachment() {
			form.Attachments = append(form.Attachments, field.Name)
		}
		if field.Kind == doctype.KindTable {
			form.ChildTables = append(form.ChildTables, b.childTable(ctx, field))
		}
	}
	return form
}

// sections performs a single linear scan over the ordered fields. A section
// break starts a new section; layout-only kinds never land in a field list;
// content before the first break goes into an implicit leading section.
func sections(desc doctype.Descriptor) []SectionSpec {
	var out []SectionSpec
	for _, field := range desc.Fields {
		if field.Kind.SectionBreak() {
			title := strings.TrimSpace(field.Label)
			if title == "" {
				title = fmt.Sprintf("Section %d", len(out)+1)
			}
			out = append(out, SectionSpec{Title: title, Fields: []string{}})
			continue
		}
		if field.Kind.Layout() {
			continue
		}
		if len(out) == 0 {
			out = append(out, SectionSpec{Title: mainSectionTitle, Fields: []string{}})
		}
		out[len(out)-1].Fields = append(out[len(out)-1].Fields, field.Name)
	}
	if len(out) == 0 {
		out = append(out, SectionSpec{Title: mainSectionTitle, Fields: []string{}})
	}
	return out
}

// childTable resolves the referenced doctype and reuses the list-column
// derivation, capped at the child limit. A failed lookup degrades to the
// identifier column alone.
func (b *Builder) childTable(ctx context.Context, field doctype.Field) ChildTableSpec {
	spec := ChildTableSpec{
		Field:   field.Name,
		DocType: field.LinkTarget(),
		Columns: []string{identifierField},
	}
	if b.resolver == nil || spec.DocType == "" {
		return spec
	}
	child, err := b.resolver(ctx, spec.DocType)
	if err != nil {
		b.logger.Warn("child table derivation degraded",
			zap.String("field", field.Name),
			zap.String("doctype", spec.DocType),
			zap.Error(err),
		)
		return spec
	}
	spec.Columns = b.listColumns(child, b.limits.ChildColumns)
	return spec
}

func (b *Builder) actions(desc doctype.Descriptor, workflow *doctype.Workflow, methods []string) ActionsSpec {
	actions := ActionsSpec{
		Submit: desc.Submittable,
		Cancel: desc.Submittable,
		Amend:  desc.Submittable,
	}
	if workflow != nil {
		actions.HasWorkflow = true
		actions.WorkflowName = workflow.Name
		for _, state := range workflow.States {
			actions.WorkflowStates = append(actions.WorkflowStates, state.State)
		}
	}
	for _, id := range methods {
		actions.Methods = append(actions.Methods, MethodSpec{ID: id, Label: humanize(id)})
	}
	return actions
}

func (b *Builder) permissions(desc doctype.Descriptor) PermissionSpec {
	var perms PermissionSpec
	for _, row := range desc.Permissions {
		perms.CanRead = perms.CanRead || row.Read
		perms.CanWrite = perms.CanWrite || row.Write
		perms.CanCreate = perms.CanCreate || row.Create
		perms.CanDelete = perms.CanDelete || row.Delete
		perms.CanSubmit = perms.CanSubmit || row.Submit
		perms.CanCancel = perms.CanCancel || row.Cancel
		perms.CanAmend = perms.CanAmend || row.Amend
	}
	// Submit-class capabilities only make sense on submittable doctypes.
	if !desc.Submittable {
		perms.CanSubmit = false
		perms.CanCancel = false
		perms.CanAmend = false
	}
	return perms
}

func (b *Builder) scripts(fragments []script.Fragment) ScriptsSpec {
	spec := ScriptsSpec{}
	if handlers := script.Handlers(fragments); len(handlers) > 0 {
		spec.Handlers = handlers
	}
	if queries := script.QueryCallbacks(fragments); len(queries) > 0 {
		spec.Queries = queries
	}
	if buttons := script.Buttons(fragments); len(buttons) > 0 {
		spec.Buttons = buttons
	}
	return spec
}

func defaultSort(desc doctype.Descriptor) SortSpec {
	sort := SortSpec{
		Field: strings.TrimSpace(desc.SortField),
		Order: strings.ToLower(strings.TrimSpace(desc.SortOrder)),
	}
	if sort.Field == "" {
		sort.Field = defaultSortField
	}
	if sort.Order != "asc" && sort.Order != "desc" {
		sort.Order = defaultSortOrder
	}
	return sort
}

func fieldLabel(field doctype.Field) string {
	if label := strings.TrimSpace(field.Label); label != "" {
		return label
	}
	return humanize(field.Name)
}

// humanize turns identifiers like "close_task" into "Close Task".
func humanize(id string) string {
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func routeSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(slug, " ", "-")
}
