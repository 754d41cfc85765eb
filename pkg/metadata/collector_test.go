package metadata

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-uigen/pkg/doctype"
)

type stubFetcher struct {
	descriptor  doctype.Descriptor
	descErr     error
	overrides   []doctype.OverrideRecord
	overrideErr error
	scripts     []doctype.ScriptSource
	scriptErr   error
	workflow    *doctype.Workflow
	workflowErr error
	methods     []string
	methodErr   error

	calls atomic.Int64
}

func (s *stubFetcher) Descriptor(context.Context, string) (doctype.Descriptor, error) {
	s.calls.Add(1)
	return s.descriptor, s.descErr
}

func (s *stubFetcher) Overrides(context.Context, string) ([]doctype.OverrideRecord, error) {
	s.calls.Add(1)
	return s.overrides, s.overrideErr
}

func (s *stubFetcher) Scripts(context.Context, string) ([]doctype.ScriptSource, error) {
	s.calls.Add(1)
	return s.scripts, s.scriptErr
}

func (s *stubFetcher) Workflow(context.Context, string) (*doctype.Workflow, error) {
	s.calls.Add(1)
	return s.workflow, s.workflowErr
}

func (s *stubFetcher) Methods(context.Context, string) ([]string, error) {
	s.calls.Add(1)
	return s.methods, s.methodErr
}

func TestCollect_AggregatesAllResources(t *testing.T) {
	fetcher := &stubFetcher{
		descriptor: doctype.Descriptor{Name: "Task", Fields: []doctype.Field{{Name: "subject", Kind: doctype.KindData}}},
		overrides:  []doctype.OverrideRecord{{Field: "subject", Property: "reqd", Value: "1"}},
		scripts:    []doctype.ScriptSource{{Code: "x", Enabled: true}},
		workflow:   &doctype.Workflow{Name: "Task Flow"},
		methods:    []string{"close_task"},
	}

	bundle, err := NewCollector(fetcher).Collect(context.Background(), "Task")
	require.NoError(t, err)

	assert.Equal(t, "Task", bundle.Descriptor.Name)
	assert.Len(t, bundle.Overrides, 1)
	assert.Len(t, bundle.Scripts, 1)
	assert.NotNil(t, bundle.Workflow)
	assert.Equal(t, []string{"close_task"}, bundle.Methods)
	assert.EqualValues(t, 5, fetcher.calls.Load())

	normalized := bundle.Normalized()
	assert.True(t, normalized.Fields[0].Required, "override should fold into descriptor")
}

func TestCollect_SoftFailuresDegradeToEmpty(t *testing.T) {
	fetcher := &stubFetcher{
		descriptor:  doctype.Descriptor{Name: "Task"},
		overrideErr: errors.New("overrides unavailable"),
		scriptErr:   errors.New("scripts unavailable"),
		workflowErr: errors.New("workflow unavailable"),
		methodErr:   errors.New("methods unavailable"),
	}

	bundle, err := NewCollector(fetcher).Collect(context.Background(), "Task")
	require.NoError(t, err, "soft failures must not abort the pipeline")

	assert.Empty(t, bundle.Overrides)
	assert.Empty(t, bundle.Scripts)
	assert.Nil(t, bundle.Workflow)
	assert.Empty(t, bundle.Methods)
}

func TestCollect_MissingDescriptorIsHardFailure(t *testing.T) {
	fetcher := &stubFetcher{descErr: ErrNotFound}

	_, err := NewCollector(fetcher).Collect(context.Background(), "Ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
