package openapifetch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-uigen/pkg/doctype"
	"github.com/goliatone/go-uigen/pkg/metadata"
)

const sampleSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "Tasks API", "version": "1.0.0"},
  "paths": {},
  "components": {
    "schemas": {
      "Task": {
        "type": "object",
        "x-title-field": "subject",
        "x-submittable": true,
        "required": ["subject"],
        "properties": {
          "subject": {"type": "string", "title": "Subject"},
          "status": {"type": "string", "enum": ["Open", "Closed"]},
          "priority": {"type": "integer"},
          "progress": {"type": "number"},
          "is_urgent": {"type": "boolean"},
          "due_date": {"type": "string", "format": "date"},
          "project": {"$ref": "#/components/schemas/Project"},
          "items": {"type": "array", "items": {"$ref": "#/components/schemas/TaskItem"}}
        }
      },
      "Project": {
        "type": "object",
        "properties": {"title": {"type": "string"}}
      },
      "TaskItem": {
        "type": "object",
        "properties": {"description": {"type": "string"}}
      }
    }
  }
}`

func TestFetcher_DescriptorFromComponentSchema(t *testing.T) {
	ctx := context.Background()
	fetcher, err := New(ctx, []byte(sampleSpec))
	require.NoError(t, err)

	desc, err := fetcher.Descriptor(ctx, "Task")
	require.NoError(t, err)

	assert.Equal(t, "subject", desc.TitleField)
	assert.True(t, desc.Submittable)

	byName := make(map[string]doctype.Field)
	for _, field := range desc.Fields {
		byName[field.Name] = field
	}

	assert.Equal(t, doctype.KindData, byName["subject"].Kind)
	assert.True(t, byName["subject"].Required)
	assert.Equal(t, "Subject", byName["subject"].Label)

	assert.Equal(t, doctype.KindSelect, byName["status"].Kind)
	assert.Equal(t, []string{"Open", "Closed"}, byName["status"].SelectOptions())

	assert.Equal(t, doctype.KindInt, byName["priority"].Kind)
	assert.Equal(t, doctype.KindFloat, byName["progress"].Kind)
	assert.Equal(t, doctype.KindCheck, byName["is_urgent"].Kind)
	assert.Equal(t, doctype.KindDate, byName["due_date"].Kind)

	assert.Equal(t, doctype.KindLink, byName["project"].Kind)
	assert.Equal(t, "Project", byName["project"].LinkTarget())

	assert.Equal(t, doctype.KindTable, byName["items"].Kind)
	assert.Equal(t, "TaskItem", byName["items"].LinkTarget())
}

func TestFetcher_DeterministicFieldOrder(t *testing.T) {
	ctx := context.Background()
	fetcher, err := New(ctx, []byte(sampleSpec))
	require.NoError(t, err)

	first, err := fetcher.Descriptor(ctx, "Task")
	require.NoError(t, err)
	second, err := fetcher.Descriptor(ctx, "Task")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFetcher_UnknownSchema(t *testing.T) {
	ctx := context.Background()
	fetcher, err := New(ctx, []byte(sampleSpec))
	require.NoError(t, err)

	_, err = fetcher.Descriptor(ctx, "Ghost")
	assert.ErrorIs(t, err, metadata.ErrNotFound)
}

func TestFetcher_EmptyAuxiliaryResources(t *testing.T) {
	ctx := context.Background()
	fetcher, err := New(ctx, []byte(sampleSpec))
	require.NoError(t, err)

	overrides, err := fetcher.Overrides(ctx, "Task")
	require.NoError(t, err)
	assert.Empty(t, overrides)

	workflow, err := fetcher.Workflow(ctx, "Task")
	require.NoError(t, err)
	assert.Nil(t, workflow)
}

func TestFetcher_TypelessPropertyDefaultsToData(t *testing.T) {
	ctx := context.Background()
	spec := `{
  "openapi": "3.0.0",
  "info": {"title": "t", "version": "1"},
  "paths": {},
  "components": {"schemas": {"Note": {
    "type": "object",
    "properties": {"anything": {"description": "untyped"}}
  }}}
}`
	fetcher, err := New(ctx, []byte(spec))
	require.NoError(t, err)

	desc, err := fetcher.Descriptor(ctx, "Note")
	require.NoError(t, err)
	require.Len(t, desc.Fields, 1)
	assert.Equal(t, doctype.KindData, desc.Fields[0].Kind)
}
