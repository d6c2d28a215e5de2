package metadata

import (
	"time"

	"github.com/flowforge/flowforge/model"
	"github.com/go-playground/validator/v10"
	c "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

// WorkflowService validates and serves workflow definitions. Reads go
// through a short-lived cache so the hot trigger path does not hit
// storage for every firing.
type WorkflowService interface {
	SaveWorkflow(wf model.Workflow) error
	GetWorkflow(id string) (*model.Workflow, error)
	DeleteWorkflow(id string) error
	ListWorkflows() ([]*model.Workflow, error)
	ValidateWorkflow(wf model.Workflow) error
}

type workflowService struct {
	storage  MetadataStorage
	cache    *c.Cache
	validate *validator.Validate
}

func NewWorkflowService(storage MetadataStorage) WorkflowService {
	return &workflowService{
		storage:  storage,
		cache:    c.New(30*time.Second, 10*time.Minute),
		validate: validator.New(),
	}
}

func (s *workflowService) SaveWorkflow(wf model.Workflow) error {
	if err := s.ValidateWorkflow(wf); err != nil {
		return err
	}
	now := time.Now()
	if wf.CreatedAt.IsZero() {
		wf.CreatedAt = now
	}
	wf.UpdatedAt = now
	if err := s.storage.Save(wf); err != nil {
		return err
	}
	s.cache.Delete(wf.Id)
	return nil
}

func (s *workflowService) GetWorkflow(id string) (*model.Workflow, error) {
	if cached, found := s.cache.Get(id); found {
		wf := cached.(model.Workflow)
		return &wf, nil
	}
	wf, err := s.storage.Get(id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(id, *wf, c.DefaultExpiration)
	return wf, nil
}

func (s *workflowService) DeleteWorkflow(id string) error {
	s.cache.Delete(id)
	return s.storage.Delete(id)
}

func (s *workflowService) ListWorkflows() ([]*model.Workflow, error) {
	return s.storage.GetAll()
}

// ValidateWorkflow checks structural invariants before a definition is
// accepted: every edge endpoint must reference an existing node and the
// graph must contain at least one trigger node with no incoming edge.
func (s *workflowService) ValidateWorkflow(wf model.Workflow) error {
	if err := s.validate.Struct(wf); err != nil {
		return errors.WithMessage(err, "invalid workflow definition")
	}
	nodeIds := make(map[string]bool, len(wf.Nodes))
	for _, n := range wf.Nodes {
		if nodeIds[n.Id] {
			return errors.Errorf("duplicate node id %q", n.Id)
		}
		nodeIds[n.Id] = true
	}
	for _, e := range wf.Edges {
		if !nodeIds[e.Source] {
			return errors.Errorf("edge %q references unknown source node %q", e.Id, e.Source)
		}
		if !nodeIds[e.Target] {
			return errors.Errorf("edge %q references unknown target node %q", e.Id, e.Target)
		}
	}
	if len(wf.TriggerNodes()) == 0 {
		return errors.New("workflow must contain at least one trigger node with no incoming edge")
	}
	return nil
}
