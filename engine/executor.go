package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/flowforge/flowforge/adapter"
	"github.com/flowforge/flowforge/logger"
	"github.com/flowforge/flowforge/model"
	"github.com/flowforge/flowforge/persistence"
	"github.com/flowforge/flowforge/util"
	"go.uber.org/zap"
)

// WorkflowExecutor drives one triggering event through a workflow: it
// schedules the graph, runs each node in order against its adapter and
// records a replayable execution trace.
type WorkflowExecutor struct {
	registry     *adapter.Registry
	executionDao persistence.ExecutionDao
	nodeTimeout  time.Duration
}

func NewWorkflowExecutor(registry *adapter.Registry, executionDao persistence.ExecutionDao, nodeTimeout time.Duration) *WorkflowExecutor {
	return &WorkflowExecutor{
		registry:     registry,
		executionDao: executionDao,
		nodeTimeout:  nodeTimeout,
	}
}

// Execute runs the workflow for one trigger payload. The execution
// record transitions pending -> running -> success|error; the running
// transition is committed before any node executes and the final record
// including the full step log is committed exactly once at the end.
// Nodes run strictly sequentially; the first adapter failure aborts the
// remaining schedule.
func (e *WorkflowExecutor) Execute(ctx context.Context, wf *model.Workflow, trigger map[string]any, accountId string, executionId string) (*model.Execution, error) {
	execution := &model.Execution{
		Id:         executionId,
		WorkflowId: wf.Id,
		Status:     model.EXECUTION_PENDING,
		Trigger:    trigger,
		StartedAt:  time.Now(),
	}
	if err := e.executionDao.Save(execution); err != nil {
		return execution, err
	}

	execution.Status = model.EXECUTION_RUNNING
	if err := e.executionDao.Save(execution); err != nil {
		return execution, err
	}
	logger.Info("execution started", zap.String("workflow", wf.Id), zap.String("execution", executionId))

	ec := model.NewExecutionContext(executionId, accountId, trigger)
	order := Schedule(wf.Nodes, wf.Edges)

	for _, node := range order {
		if node.Kind == model.NODE_KIND_TRIGGER {
			// Trigger nodes supply context only, they never log a step.
			continue
		}
		step := e.runNode(ctx, &node, ec)
		execution.Steps = append(execution.Steps, step)
		if step.Status == model.STEP_ERROR {
			execution.Status = model.EXECUTION_ERROR
			execution.Error = fmt.Sprintf("%s: %s", step.Label, step.Error)
			break
		}
	}

	if execution.Status != model.EXECUTION_ERROR {
		execution.Status = model.EXECUTION_SUCCESS
	}
	execution.CompletedAt = time.Now()
	execution.DurationMillis = execution.CompletedAt.Sub(execution.StartedAt).Milliseconds()

	if err := e.executionDao.Save(execution); err != nil {
		logger.Error("error persisting execution record", zap.String("execution", executionId), zap.Error(err))
		return execution, err
	}
	logger.Info("execution finished",
		zap.String("workflow", wf.Id),
		zap.String("execution", executionId),
		zap.String("status", string(execution.Status)))
	return execution, nil
}

func (e *WorkflowExecutor) runNode(ctx context.Context, node *model.WorkflowNode, ec *model.ExecutionContext) model.ExecutionStepLog {
	start := time.Now()
	step := model.ExecutionStepLog{
		NodeId:    node.Id,
		Label:     node.Data.Label,
		Timestamp: start,
	}

	if node.Kind == model.NODE_KIND_PATH || node.Kind == model.NODE_KIND_CONDITION {
		e.runConditionNode(node, ec, &step)
		step.DurationMillis = time.Since(start).Milliseconds()
		return step
	}

	resolved := util.ResolveConfig(ec, node.Data.Config)
	step.Input = resolved

	output, err := e.dispatch(ctx, node, resolved, ec)
	if err != nil {
		step.Status = model.STEP_ERROR
		step.Error = err.Error()
		step.DurationMillis = time.Since(start).Milliseconds()
		return step
	}
	ec.SetOutput(node.Id, output)
	step.Status = model.STEP_SUCCESS
	step.Output = output
	step.DurationMillis = time.Since(start).Milliseconds()
	return step
}

// runConditionNode evaluates the branch condition. A clean boolean
// result maps to success (true) or skipped (false); an evaluation error
// also marks the step skipped and execution continues. Placeholders are
// resolved per operand, after parsing, so a path that resolves to
// nothing reads as an empty operand rather than vanishing from its
// clause.
func (e *WorkflowExecutor) runConditionNode(node *model.WorkflowNode, ec *model.ExecutionContext, step *model.ExecutionStepLog) {
	expression := optionalConfigString(node.Data.Config, "condition")
	step.Input = map[string]any{"condition": util.ResolveString(ec, expression)}

	result, err := EvalConditionTemplate(expression, func(s string) string {
		return util.ResolveString(ec, s)
	})
	if err != nil {
		step.Status = model.STEP_SKIPPED
		step.Error = err.Error()
		logger.Debug("condition evaluation failed, node skipped",
			zap.String("node", node.Id), zap.Error(err))
		return
	}
	output := map[string]any{"result": result}
	ec.SetOutput(node.Id, output)
	step.Output = output
	if result {
		step.Status = model.STEP_SUCCESS
	} else {
		step.Status = model.STEP_SKIPPED
	}
}

func (e *WorkflowExecutor) dispatch(ctx context.Context, node *model.WorkflowNode, resolved map[string]any, ec *model.ExecutionContext) (map[string]any, error) {
	a, err := e.registry.Get(node.Data.Integration)
	if err != nil {
		return nil, err
	}
	if err := a.Validate(node.Data.Action, resolved); err != nil {
		return nil, err
	}
	nctx := ctx
	if e.nodeTimeout > 0 {
		var cancel context.CancelFunc
		nctx, cancel = context.WithTimeout(ctx, e.nodeTimeout)
		defer cancel()
	}
	return a.Execute(nctx, node.Data.Action, resolved, ec)
}

func optionalConfigString(config map[string]any, key string) string {
	if v, ok := config[key].(string); ok {
		return v
	}
	return ""
}
