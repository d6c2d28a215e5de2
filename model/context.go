package model

// ExecutionContext carries the triggering payload and per-node outputs
// for exactly one execution. It is never persisted and never shared
// between executions.
type ExecutionContext struct {
	ExecutionId string
	AccountId   string
	Trigger     map[string]any
	outputs     map[string]map[string]any
}

func NewExecutionContext(executionId string, accountId string, trigger map[string]any) *ExecutionContext {
	return &ExecutionContext{
		ExecutionId: executionId,
		AccountId:   accountId,
		Trigger:     trigger,
		outputs:     make(map[string]map[string]any),
	}
}

func (c *ExecutionContext) SetOutput(nodeId string, output map[string]any) {
	c.outputs[nodeId] = output
}

func (c *ExecutionContext) Output(nodeId string) (map[string]any, bool) {
	out, ok := c.outputs[nodeId]
	return out, ok
}
