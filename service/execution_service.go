package service

import (
	"context"

	"github.com/flowforge/flowforge/engine"
	"github.com/flowforge/flowforge/logger"
	"github.com/flowforge/flowforge/metadata"
	"github.com/flowforge/flowforge/model"
	"github.com/flowforge/flowforge/persistence"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ExecutionService is the single entry point every trigger source
// converges on: webhook ingestion, schedule ticks and internal events
// all end up in StartExecution.
type ExecutionService struct {
	workflowService metadata.WorkflowService
	executor        *engine.WorkflowExecutor
	executionDao    persistence.ExecutionDao
}

func NewExecutionService(workflowService metadata.WorkflowService, executor *engine.WorkflowExecutor, executionDao persistence.ExecutionDao) *ExecutionService {
	return &ExecutionService{
		workflowService: workflowService,
		executor:        executor,
		executionDao:    executionDao,
	}
}

// StartExecution launches one execution for the given trigger payload
// and returns its id. The run itself proceeds asynchronously; callers
// poll the execution record for its outcome.
func (s *ExecutionService) StartExecution(workflowId string, trigger map[string]any) (string, error) {
	wf, err := s.workflowService.GetWorkflow(workflowId)
	if err != nil {
		return "", errors.WithMessagef(err, "workflow %s not found", workflowId)
	}
	if !wf.Enabled {
		return "", errors.Errorf("workflow %s is disabled", workflowId)
	}
	executionId := uuid.New().String()
	go func() {
		_, err := s.executor.Execute(context.Background(), wf, trigger, wf.AccountId, executionId)
		if err != nil {
			logger.Error("error running execution",
				zap.String("workflow", workflowId),
				zap.String("execution", executionId),
				zap.Error(err))
		}
	}()
	return executionId, nil
}

func (s *ExecutionService) GetExecution(id string) (*model.Execution, error) {
	return s.executionDao.Get(id)
}

func (s *ExecutionService) GetExecutions(workflowId string, filter model.ExecutionFilter) ([]*model.Execution, error) {
	return s.executionDao.GetByWorkflow(workflowId, filter)
}
