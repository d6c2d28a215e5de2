package service

import (
	"testing"
	"time"

	"github.com/flowforge/flowforge/adapter"
	"github.com/flowforge/flowforge/engine"
	"github.com/flowforge/flowforge/metadata"
	"github.com/flowforge/flowforge/model"
	"github.com/flowforge/flowforge/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*ExecutionService, metadata.WorkflowService) {
	t.Helper()
	workflowService := metadata.NewWorkflowService(metadata.NewInMemMetadataStorage())
	dao := persistence.NewInMemExecutionDao()
	executor := engine.NewWorkflowExecutor(adapter.NewRegistry(adapter.NewFormatterAdapter()), dao, time.Second)
	return NewExecutionService(workflowService, executor, dao), workflowService
}

func saveWorkflow(t *testing.T, ws metadata.WorkflowService, enabled bool) {
	t.Helper()
	require.NoError(t, ws.SaveWorkflow(model.Workflow{
		Id:        "wf-1",
		AccountId: "acct-1",
		Name:      "uppercase name",
		Trigger:   model.TriggerConfig{Kind: model.TRIGGER_KIND_WEBHOOK},
		Enabled:   enabled,
		Nodes: []model.WorkflowNode{
			{Id: "t", Kind: model.NODE_KIND_TRIGGER},
			{Id: "up", Kind: model.NODE_KIND_TRANSFORM, Data: model.NodeData{
				Label:       "uppercase",
				Integration: "formatter",
				Action:      "uppercase",
				Config:      map[string]any{"input": "{{trigger.name}}"},
			}},
		},
		Edges: []model.WorkflowEdge{{Id: "e1", Source: "t", Target: "up"}},
	}))
}

func TestStartExecutionUnknownWorkflow(t *testing.T) {
	service, _ := newService(t)
	_, err := service.StartExecution("missing", nil)
	assert.Error(t, err)
}

func TestStartExecutionDisabledWorkflow(t *testing.T) {
	service, ws := newService(t)
	saveWorkflow(t, ws, false)
	_, err := service.StartExecution("wf-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestStartExecutionRunsAsynchronously(t *testing.T) {
	service, ws := newService(t)
	saveWorkflow(t, ws, true)

	executionId, err := service.StartExecution("wf-1", map[string]any{"name": "jane"})
	require.NoError(t, err)
	require.NotEmpty(t, executionId)

	require.Eventually(t, func() bool {
		ex, err := service.GetExecution(executionId)
		return err == nil && ex.Terminal()
	}, 2*time.Second, 10*time.Millisecond)

	ex, err := service.GetExecution(executionId)
	require.NoError(t, err)
	assert.Equal(t, model.EXECUTION_SUCCESS, ex.Status)
	require.Len(t, ex.Steps, 1)
	assert.Equal(t, "JANE", ex.Steps[0].Output["result"])

	all, err := service.GetExecutions("wf-1", model.ExecutionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
