package doctype

import "strings"

// FieldKind enumerates the field types a document descriptor can carry. The
// vocabulary mirrors the upstream document-management system so fetched
// descriptors round-trip without translation tables.
type FieldKind string

const (
	KindData         FieldKind = "Data"
	KindText         FieldKind = "Text"
	KindSmallText    FieldKind = "Small Text"
	KindLongText     FieldKind = "Long Text"
	KindTextEditor   FieldKind = "Text Editor"
	KindCode         FieldKind = "Code"
	KindSelect       FieldKind = "Select"
	KindLink         FieldKind = "Link"
	KindTable        FieldKind = "Table"
	KindCheck        FieldKind = "Check"
	KindInt          FieldKind = "Int"
	KindFloat        FieldKind = "Float"
	KindCurrency     FieldKind = "Currency"
	KindDate         FieldKind = "Date"
	KindDatetime     FieldKind = "Datetime"
	KindTime         FieldKind = "Time"
	KindAttach       FieldKind = "Attach"
	KindAttachImage  FieldKind = "Attach Image"
	KindSectionBreak FieldKind = "Section Break"
	KindColumnBreak  FieldKind = "Column Break"
	KindTabBreak     FieldKind = "Tab Break"
	KindHTML         FieldKind = "HTML"
	KindButton       FieldKind = "Button"
)

// Layout reports whether the kind only affects form layout and never holds a
// value. Layout kinds are excluded from section field lists.
func (k FieldKind) Layout() bool {
	switch k {
	case KindSectionBreak, KindColumnBreak, KindTabBreak, KindHTML, KindButton:
		return true
	}
	return false
}

// SectionBreak reports whether the kind starts a new form section. Column
// breaks are layout-only but stay within the current section.
func (k FieldKind) SectionBreak() bool {
	return k == KindSectionBreak || k == KindTabBreak
}

// Attachment reports whether the kind stores an uploaded file reference.
func (k FieldKind) Attachment() bool {
	return k == KindAttach || k == KindAttachImage
}

// Field models a single field on a document descriptor.
type Field struct {
	Name             string    `json:"fieldname" yaml:"fieldname"`
	Kind             FieldKind `json:"fieldtype" yaml:"fieldtype"`
	Label            string    `json:"label,omitempty" yaml:"label,omitempty"`
	Options          string    `json:"options,omitempty" yaml:"options,omitempty"`
	Default          string    `json:"default,omitempty" yaml:"default,omitempty"`
	Required         bool      `json:"reqd,omitempty" yaml:"reqd,omitempty"`
	Hidden           bool      `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	ReadOnly         bool      `json:"read_only,omitempty" yaml:"read_only,omitempty"`
	InListView       bool      `json:"in_list_view,omitempty" yaml:"in_list_view,omitempty"`
	InStandardFilter bool      `json:"in_standard_filter,omitempty" yaml:"in_standard_filter,omitempty"`
	VisibleIf        string    `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	MandatoryIf      string    `json:"mandatory_depends_on,omitempty" yaml:"mandatory_depends_on,omitempty"`
}

// SelectOptions parses the field's option source into discrete choices.
// Select options arrive either newline-delimited or as a JSON array; both
// forms are accepted and blank entries are preserved only when the source
// explicitly lists them (a leading blank line means "no selection").
func (f Field) SelectOptions() []string {
	return parseOptions(f.Options)
}

// LinkTarget returns the referenced doctype for Link and Table fields.
func (f Field) LinkTarget() string {
	if f.Kind != KindLink && f.Kind != KindTable {
		return ""
	}
	return strings.TrimSpace(f.Options)
}

// PermissionRow is one role's grant set on a doctype.
type PermissionRow struct {
	Role   string `json:"role" yaml:"role"`
	Read   bool   `json:"read,omitempty" yaml:"read,omitempty"`
	Write  bool   `json:"write,omitempty" yaml:"write,omitempty"`
	Create bool   `json:"create,omitempty" yaml:"create,omitempty"`
	Delete bool   `json:"delete,omitempty" yaml:"delete,omitempty"`
	Submit bool   `json:"submit,omitempty" yaml:"submit,omitempty"`
	Cancel bool   `json:"cancel,omitempty" yaml:"cancel,omitempty"`
	Amend  bool   `json:"amend,omitempty" yaml:"amend,omitempty"`
}

// Descriptor is the structural schema of a document type as served by the
// remote system. The pipeline treats it as read-only input; every transform
// works on a copy.
type Descriptor struct {
	Name        string          `json:"name" yaml:"name"`
	Module      string          `json:"module,omitempty" yaml:"module,omitempty"`
	TitleField  string          `json:"title_field,omitempty" yaml:"title_field,omitempty"`
	SortField   string          `json:"sort_field,omitempty" yaml:"sort_field,omitempty"`
	SortOrder   string          `json:"sort_order,omitempty" yaml:"sort_order,omitempty"`
	Submittable bool            `json:"is_submittable,omitempty" yaml:"is_submittable,omitempty"`
	ChildTable  bool            `json:"istable,omitempty" yaml:"istable,omitempty"`
	Fields      []Field         `json:"fields" yaml:"fields"`
	Permissions []PermissionRow `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}

// Clone returns a deep copy so override application never aliases the
// fetched descriptor.
func (d Descriptor) Clone() Descriptor {
	out := d
	out.Fields = make([]Field, len(d.Fields))
	copy(out.Fields, d.Fields)
	out.Permissions = make([]PermissionRow, len(d.Permissions))
	copy(out.Permissions, d.Permissions)
	return out
}

// Field returns a pointer to the named field, or nil when absent.
func (d *Descriptor) Field(name string) *Field {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// OverrideRecord patches one property of a descriptor or one of its fields.
// Records with an empty Field target a top-level descriptor attribute.
type OverrideRecord struct {
	DocType   string `json:"doc_type" yaml:"doc_type"`
	Field     string `json:"field_name,omitempty" yaml:"field_name,omitempty"`
	Property  string `json:"property" yaml:"property"`
	Value     string `json:"value" yaml:"value"`
	ValueKind string `json:"property_type,omitempty" yaml:"property_type,omitempty"`
}

// ScriptSource is an author-written automation script attached to a doctype.
// Disabled sources are ignored by extraction.
type ScriptSource struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	DocType string `json:"dt,omitempty" yaml:"dt,omitempty"`
	Code    string `json:"script" yaml:"script"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// WorkflowState is a named state in a document workflow.
type WorkflowState struct {
	State     string `json:"state" yaml:"state"`
	DocStatus string `json:"doc_status,omitempty" yaml:"doc_status,omitempty"`
}

// WorkflowTransition moves a document between workflow states.
type WorkflowTransition struct {
	State     string `json:"state" yaml:"state"`
	Action    string `json:"action" yaml:"action"`
	NextState string `json:"next_state" yaml:"next_state"`
}

// Workflow is the optional state machine attached to a doctype. Absence is a
// valid, non-error condition throughout the pipeline.
type Workflow struct {
	Name        string               `json:"name" yaml:"name"`
	States      []WorkflowState      `json:"states" yaml:"states"`
	Transitions []WorkflowTransition `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}
