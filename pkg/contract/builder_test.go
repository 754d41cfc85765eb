package contract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uigen/pkg/doctype"
	"github.com/goliatone/go-uigen/pkg/metadata"
)

func taskBundle() metadata.Bundle {
	return metadata.Bundle{
		Descriptor: doctype.Descriptor{
			Name:        "Task",
			TitleField:  "subject",
			Submittable: true,
			Fields: []doctype.Field{
				{Name: "subject", Kind: doctype.KindData, Label: "Subject", Required: true, InListView: true},
				{Name: "status", Kind: doctype.KindSelect, Options: "Open\nClosed", InStandardFilter: true},
				{Name: "details_section", Kind: doctype.KindSectionBreak, Label: "Details"},
				{Name: "description", Kind: doctype.KindTextEditor},
				{Name: "col_break", Kind: doctype.KindColumnBreak},
				{Name: "project", Kind: doctype.KindLink, Options: "Project", VisibleIf: "doc.status == 'Open'"},
				{Name: "items", Kind: doctype.KindTable, Options: "Task Item"},
				{Name: "attachment", Kind: doctype.KindAttach},
			},
			Permissions: []doctype.PermissionRow{
				{Role: "Manager", Read: true, Write: true, Create: true, Submit: true},
				{Role: "Employee", Read: true},
			},
		},
		Workflow: &doctype.Workflow{
			Name: "Task Flow",
			States: []doctype.WorkflowState{
				{State: "Open"}, {State: "Closed"},
			},
		},
		Methods: []string{"close_task"},
	}
}

func TestBuild_ListDerivation(t *testing.T) {
	built := NewBuilder().Build(context.Background(), taskBundle())

	wantColumns := []string{"name", "subject", "status"}
	if diff := cmp.Diff(wantColumns, built.List.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}

	if got := built.List.DefaultSort; got.Field != "modified" || got.Order != "desc" {
		t.Fatalf("unexpected default sort: %+v", got)
	}

	var filterFields []string
	for _, filter := range built.List.Filters {
		filterFields = append(filterFields, filter.Field)
	}
	if diff := cmp.Diff([]string{"status", "project"}, filterFields); diff != "" {
		t.Fatalf("filters mismatch (-want +got):\n%s", diff)
	}

	for _, filter := range built.List.Filters {
		switch filter.Field {
		case "status":
			if diff := cmp.Diff([]string{"Open", "Closed"}, filter.Options); diff != "" {
				t.Fatalf("select filter options (-want +got):\n%s", diff)
			}
		case "project":
			if filter.Target != "Project" {
				t.Fatalf("link filter target = %q", filter.Target)
			}
		}
	}
}

func TestBuild_ColumnDerivationRules(t *testing.T) {
	bundle := metadata.Bundle{
		Descriptor: doctype.Descriptor{
			Name:       "Widget",
			TitleField: "title_field",
			Fields: []doctype.Field{
				{Name: "a", Kind: doctype.KindData, InListView: true},
				{Name: "title_field", Kind: doctype.KindData},
			},
		},
	}
	built := NewBuilder().Build(context.Background(), bundle)
	want := []string{"name", "title_field", "a"}
	if diff := cmp.Diff(want, built.List.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_ColumnCap(t *testing.T) {
	desc := doctype.Descriptor{Name: "Wide"}
	for i := 0; i < 20; i++ {
		desc.Fields = append(desc.Fields, doctype.Field{
			Name:       fmt.Sprintf("f%02d", i),
			Kind:       doctype.KindData,
			InListView: true,
		})
	}
	built := NewBuilder().Build(context.Background(), metadata.Bundle{Descriptor: desc})
	if len(built.List.Columns) != 8 {
		t.Fatalf("expected 8 columns, got %d", len(built.List.Columns))
	}
	if len(built.List.Filters) > 8 {
		t.Fatalf("filter cap exceeded: %d", len(built.List.Filters))
	}
}

func TestBuild_Sections(t *testing.T) {
	built := NewBuilder().Build(context.Background(), taskBundle())

	want := []SectionSpec{
		{Title: "Main", Fields: []string{"subject", "status"}},
		{Title: "Details", Fields: []string{"description", "project", "items", "attachment"}},
	}
	if diff := cmp.Diff(want, built.Form.Sections); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_SectionOrdinalDefaultAndNoBreak(t *testing.T) {
	bundle := metadata.Bundle{
		Descriptor: doctype.Descriptor{
			Name: "Note",
			Fields: []doctype.Field{
				{Name: "sb", Kind: doctype.KindSectionBreak},
				{Name: "body", Kind: doctype.KindText},
			},
		},
	}
	built := NewBuilder().Build(context.Background(), bundle)
	if built.Form.Sections[0].Title != "Section 1" {
		t.Fatalf("unlabeled break should get ordinal title, got %q", built.Form.Sections[0].Title)
	}

	flat := metadata.Bundle{
		Descriptor: doctype.Descriptor{
			Name:   "Flat",
			Fields: []doctype.Field{{Name: "x", Kind: doctype.KindData}},
		},
	}
	built = NewBuilder().Build(context.Background(), flat)
	if len(built.Form.Sections) != 1 || built.Form.Sections[0].Title != "Main" {
		t.Fatalf("expected single Main section, got %+v", built.Form.Sections)
	}
}

func TestBuild_VisibilityAndAttachments(t *testing.T) {
	built := NewBuilder().Build(context.Background(), taskBundle())

	if got := built.Form.VisibleIf["project"]; got != "doc.status == 'Open'" {
		t.Fatalf("visibility expression not stored verbatim: %q", got)
	}
	if diff := cmp.Diff([]string{"attachment"}, built.Form.Attachments); diff != "" {
		t.Fatalf("attachments mismatch (-want +got):\n%s", diff)
	}
	if _, ok := built.Form.Types["details_section"]; ok {
		t.Fatal("layout field leaked into the type map")
	}
}

func TestBuild_ChildTables(t *testing.T) {
	resolver := func(_ context.Context, name string) (doctype.Descriptor, error) {
		if name != "Task Item" {
			return doctype.Descriptor{}, errors.New("unexpected doctype")
		}
		return doctype.Descriptor{
			Name: "Task Item",
			Fields: []doctype.Field{
				{Name: "description", Kind: doctype.KindData, InListView: true},
				{Name: "qty", Kind: doctype.KindInt, InListView: true},
				{Name: "rate", Kind: doctype.KindFloat, InListView: true},
				{Name: "amount", Kind: doctype.KindFloat, InListView: true},
				{Name: "notes", Kind: doctype.KindData, InListView: true},
			},
		}, nil
	}

	built := NewBuilder(WithChildResolver(resolver)).Build(context.Background(), taskBundle())

	if len(built.Form.ChildTables) != 1 {
		t.Fatalf("expected one child table, got %d", len(built.Form.ChildTables))
	}
	child := built.Form.ChildTables[0]
	if child.DocType != "Task Item" {
		t.Fatalf("child doctype = %q", child.DocType)
	}
	if len(child.Columns) != 4 {
		t.Fatalf("child columns must cap at 4, got %v", child.Columns)
	}
}

func TestBuild_ChildTableFetchFailureDegrades(t *testing.T) {
	resolver := func(context.Context, string) (doctype.Descriptor, error) {
		return doctype.Descriptor{}, errors.New("child descriptor unavailable")
	}
	built := NewBuilder(WithChildResolver(resolver)).Build(context.Background(), taskBundle())

	child := built.Form.ChildTables[0]
	if diff := cmp.Diff([]string{"name"}, child.Columns); diff != "" {
		t.Fatalf("expected default column fallback (-want +got):\n%s", diff)
	}
}

func TestBuild_PermissionORReduction(t *testing.T) {
	bundle := metadata.Bundle{
		Descriptor: doctype.Descriptor{
			Name: "Task",
			Permissions: []doctype.PermissionRow{
				{Role: "A", Write: true},
				{Role: "B", Read: true},
			},
		},
	}
	built := NewBuilder().Build(context.Background(), bundle)
	if !built.Permissions.CanRead || !built.Permissions.CanWrite {
		t.Fatalf("OR-reduction failed: %+v", built.Permissions)
	}
	if built.Permissions.CanCreate {
		t.Fatal("capability granted by no row")
	}
}

func TestBuild_ActionsAndWorkflow(t *testing.T) {
	built := NewBuilder().Build(context.Background(), taskBundle())

	if !built.Actions.HasWorkflow {
		t.Fatal("workflow presence not reflected")
	}
	if diff := cmp.Diff([]string{"Open", "Closed"}, built.Actions.WorkflowStates); diff != "" {
		t.Fatalf("workflow states (-want +got):\n%s", diff)
	}
	if !built.Actions.Submit || !built.Actions.Cancel || !built.Actions.Amend {
		t.Fatalf("submittable actions not enabled: %+v", built.Actions)
	}
	want := []MethodSpec{{ID: "close_task", Label: "Close Task"}}
	if diff := cmp.Diff(want, built.Actions.Methods); diff != "" {
		t.Fatalf("methods (-want +got):\n%s", diff)
	}
}

func TestBuild_MissingWorkflowIsNotAnError(t *testing.T) {
	bundle := taskBundle()
	bundle.Workflow = nil
	built := NewBuilder().Build(context.Background(), bundle)
	if built.Actions.HasWorkflow {
		t.Fatal("absent workflow must yield HasWorkflow=false")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	builder := NewBuilder()
	bundle := taskBundle()
	bundle.Scripts = []doctype.ScriptSource{{
		Enabled: true,
		Code:    "frappe.ui.form.on('Task', { refresh: function(frm) { tick(frm); } });",
	}}

	first := builder.Build(context.Background(), bundle)
	second := builder.Build(context.Background(), bundle)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated builds diverged (-first +second):\n%s", diff)
	}
}

func TestBuild_RoutesAndRealtime(t *testing.T) {
	bundle := metadata.Bundle{Descriptor: doctype.Descriptor{Name: "Sales Order"}}
	built := NewBuilder().Build(context.Background(), bundle)

	if built.Routes.List != "/sales-order" || built.Routes.Detail != "/sales-order/:name" {
		t.Fatalf("unexpected routes: %+v", built.Routes)
	}
	want := []string{"doc_update:Sales Order", "list_update:Sales Order"}
	if diff := cmp.Diff(want, built.Realtime); diff != "" {
		t.Fatalf("realtime topics (-want +got):\n%s", diff)
	}
}
