package metadata

import (
	"testing"

	"github.com/flowforge/flowforge/model"
	"github.com/flowforge/flowforge/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWorkflow() model.Workflow {
	return model.Workflow{
		Id:        "wf-1",
		AccountId: "acct-1",
		Name:      "lead intake",
		Trigger: model.TriggerConfig{
			Kind: model.TRIGGER_KIND_WEBHOOK,
		},
		Nodes: []model.WorkflowNode{
			{Id: "t", Kind: model.NODE_KIND_TRIGGER, Data: model.NodeData{Label: "on lead"}},
			{Id: "a", Kind: model.NODE_KIND_ACTION, Data: model.NodeData{
				Label: "store lead", Integration: "store", Action: "insert_row",
			}},
		},
		Edges: []model.WorkflowEdge{
			{Id: "e1", Source: "t", Target: "a"},
		},
		Enabled: true,
	}
}

func TestSaveAndGetWorkflow(t *testing.T) {
	service := NewWorkflowService(NewInMemMetadataStorage())
	require.NoError(t, service.SaveWorkflow(validWorkflow()))

	wf, err := service.GetWorkflow("wf-1")
	require.NoError(t, err)
	assert.Equal(t, "lead intake", wf.Name)
	assert.False(t, wf.CreatedAt.IsZero())
	assert.False(t, wf.UpdatedAt.IsZero())
}

func TestGetWorkflowNotFound(t *testing.T) {
	service := NewWorkflowService(NewInMemMetadataStorage())
	_, err := service.GetWorkflow("missing")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestDeleteWorkflowEvictsCache(t *testing.T) {
	service := NewWorkflowService(NewInMemMetadataStorage())
	require.NoError(t, service.SaveWorkflow(validWorkflow()))
	_, err := service.GetWorkflow("wf-1")
	require.NoError(t, err)

	require.NoError(t, service.DeleteWorkflow("wf-1"))
	_, err = service.GetWorkflow("wf-1")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestValidateWorkflowMissingRequiredFields(t *testing.T) {
	service := NewWorkflowService(NewInMemMetadataStorage())
	wf := validWorkflow()
	wf.Name = ""
	assert.Error(t, service.ValidateWorkflow(wf))

	wf = validWorkflow()
	wf.Nodes = nil
	assert.Error(t, service.ValidateWorkflow(wf))

	wf = validWorkflow()
	wf.Trigger.Kind = "carrier-pigeon"
	assert.Error(t, service.ValidateWorkflow(wf))
}

func TestValidateWorkflowDuplicateNodeIds(t *testing.T) {
	service := NewWorkflowService(NewInMemMetadataStorage())
	wf := validWorkflow()
	wf.Nodes = append(wf.Nodes, wf.Nodes[1])
	err := service.ValidateWorkflow(wf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate node id")
}

func TestValidateWorkflowEdgeToUnknownNode(t *testing.T) {
	service := NewWorkflowService(NewInMemMetadataStorage())
	wf := validWorkflow()
	wf.Edges = append(wf.Edges, model.WorkflowEdge{Id: "e2", Source: "a", Target: "ghost"})
	err := service.ValidateWorkflow(wf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target node")
}

func TestValidateWorkflowRequiresTriggerNode(t *testing.T) {
	service := NewWorkflowService(NewInMemMetadataStorage())
	wf := validWorkflow()
	wf.Nodes[0].Kind = model.NODE_KIND_ACTION
	assert.Error(t, service.ValidateWorkflow(wf))

	// A trigger node with an incoming edge does not count either.
	wf = validWorkflow()
	wf.Edges = append(wf.Edges, model.WorkflowEdge{Id: "e2", Source: "a", Target: "t"})
	assert.Error(t, service.ValidateWorkflow(wf))
}

func TestSaveWorkflowRejectsInvalid(t *testing.T) {
	storage := NewInMemMetadataStorage()
	service := NewWorkflowService(storage)
	wf := validWorkflow()
	wf.Edges[0].Target = "ghost"
	require.Error(t, service.SaveWorkflow(wf))

	_, err := storage.Get("wf-1")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}
