package persistence

import (
	"fmt"
	"sort"
	"sync"

	"github.com/flowforge/flowforge/model"
)

var ErrNotFound = fmt.Errorf("not found")

// ExecutionDao stores execution records. Save is write-through: the
// orchestrator commits the running transition before any node executes
// and the final record once at the very end.
type ExecutionDao interface {
	Save(execution *model.Execution) error
	Get(id string) (*model.Execution, error)
	GetByWorkflow(workflowId string, filter model.ExecutionFilter) ([]*model.Execution, error)
}

type inMemExecutionDao struct {
	mu         sync.RWMutex
	executions map[string]model.Execution
	byWorkflow map[string][]string
}

func NewInMemExecutionDao() ExecutionDao {
	return &inMemExecutionDao{
		executions: make(map[string]model.Execution),
		byWorkflow: make(map[string][]string),
	}
}

func (d *inMemExecutionDao) Save(execution *model.Execution) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.executions[execution.Id]; !ok {
		d.byWorkflow[execution.WorkflowId] = append(d.byWorkflow[execution.WorkflowId], execution.Id)
	}
	d.executions[execution.Id] = *execution
	return nil
}

func (d *inMemExecutionDao) Get(id string) (*model.Execution, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ex, ok := d.executions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ex, nil
}

func (d *inMemExecutionDao) GetByWorkflow(workflowId string, filter model.ExecutionFilter) ([]*model.Execution, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	result := make([]*model.Execution, 0)
	for _, id := range d.byWorkflow[workflowId] {
		ex := d.executions[id]
		if filter.Matches(&ex) {
			result = append(result, &ex)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.Before(result[j].StartedAt)
	})
	return result, nil
}
