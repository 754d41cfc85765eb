// Package contract derives the UI contract for a doctype: one normalized,
// renderable description of its list view, form layout, actions, and
// permissions, independent of any specific rendering target.
package contract

// SortSpec is the default ordering for the list view.
type SortSpec struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// FilterSpec describes one list-view filter control.
type FilterSpec struct {
	Field   string   `json:"field"`
	Kind    string   `json:"kind"`
	Label   string   `json:"label,omitempty"`
	Options []string `json:"options,omitempty"`
	Target  string   `json:"target,omitempty"`
}

// ListSpec drives the generated list view.
type ListSpec struct {
	Columns     []string     `json:"columns"`
	Filters     []FilterSpec `json:"filters,omitempty"`
	DefaultSort SortSpec     `json:"defaultSort"`
}

// SectionSpec is one form section produced by the section-break scan.
type SectionSpec struct {
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

// ChildTableSpec summarises a table-typed field and the columns its child
// doctype contributes to the embedded grid.
type ChildTableSpec struct {
	Field   string   `json:"field"`
	DocType string   `json:"doctype"`
	Columns []string `json:"columns"`
}

// FormSpec drives the generated detail/edit view.
type FormSpec struct {
	Sections    []SectionSpec     `json:"sections"`
	Types       map[string]string `json:"types"`
	Labels      map[string]string `json:"labels"`
	VisibleIf   map[string]string `json:"visibleIf,omitempty"`
	MandatoryIf map[string]string `json:"mandatoryIf,omitempty"`
	ChildTables []ChildTableSpec  `json:"childTables,omitempty"`
	Attachments []string          `json:"attachments,omitempty"`
}

// MethodSpec pairs a callable server method with its humanized label.
type MethodSpec struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ActionsSpec summarises what a user can do with a document.
type ActionsSpec struct {
	HasWorkflow    bool         `json:"hasWorkflow"`
	WorkflowName   string       `json:"workflowName,omitempty"`
	WorkflowStates []string     `json:"workflowStates,omitempty"`
	Submit         bool         `json:"submit"`
	Cancel         bool         `json:"cancel"`
	Amend          bool         `json:"amend"`
	Methods        []MethodSpec `json:"methods,omitempty"`
}

// PermissionSpec is the OR-reduction of every permission row: a capability is
// granted when any role grants it. Per-role granularity is not retained at
// this layer.
type PermissionSpec struct {
	CanRead   bool `json:"can_read"`
	CanWrite  bool `json:"can_write"`
	CanCreate bool `json:"can_create"`
	CanDelete bool `json:"can_delete"`
	CanSubmit bool `json:"can_submit"`
	CanCancel bool `json:"can_cancel"`
	CanAmend  bool `json:"can_amend"`
}

// RoutesSpec names the client-side routes wired by the generated router.
type RoutesSpec struct {
	List   string `json:"list"`
	Detail string `json:"detail"`
	New    string `json:"new"`
}

// ScriptsSpec carries the fragments extracted from the doctype's embedded
// scripts. Bodies are verbatim source, replayed by the rendering runtime's
// sandbox rather than evaluated here.
type ScriptsSpec struct {
	Handlers map[string]string `json:"handlers,omitempty"`
	Queries  map[string]string `json:"queries,omitempty"`
	Buttons  map[string]string `json:"buttons,omitempty"`
}

// UIContract is the single derived artifact of the pipeline. Treat it as
// immutable once built; cached instances are shared between callers.
type UIContract struct {
	DocType     string         `json:"doctype"`
	Routes      RoutesSpec     `json:"routes"`
	List        ListSpec       `json:"list"`
	Form        FormSpec       `json:"form"`
	Actions     ActionsSpec    `json:"actions"`
	Permissions PermissionSpec `json:"permissions"`
	Scripts     ScriptsSpec    `json:"scripts"`
	Realtime    []string       `json:"realtime"`
}
