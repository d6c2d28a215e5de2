package trigger

import (
	"sync"

	"github.com/flowforge/flowforge/logger"
	"github.com/flowforge/flowforge/metadata"
	"github.com/flowforge/flowforge/model"
	"github.com/flowforge/flowforge/service"
	"github.com/flowforge/flowforge/util"
	"go.uber.org/zap"
)

type Event struct {
	Name    string
	Payload map[string]any
}

// EventBus dispatches in-process events to event-kind workflows whose
// configured event name matches. Dispatch runs on a single worker
// goroutine; each matching workflow still gets its own independent
// execution.
type EventBus struct {
	workflowService  metadata.WorkflowService
	executionService *service.ExecutionService
	worker           *util.Worker
}

func NewEventBus(workflowService metadata.WorkflowService, executionService *service.ExecutionService, wg *sync.WaitGroup) *EventBus {
	bus := &EventBus{
		workflowService:  workflowService,
		executionService: executionService,
	}
	bus.worker = util.NewWorker("event-trigger", wg, bus.dispatch, 1000)
	return bus
}

func (b *EventBus) Start() {
	b.worker.Start()
}

func (b *EventBus) Stop() {
	b.worker.Stop()
}

func (b *EventBus) Publish(name string, payload map[string]any) {
	b.worker.Sender() <- Event{Name: name, Payload: payload}
}

func (b *EventBus) dispatch(task util.Task) error {
	event, ok := task.(Event)
	if !ok {
		return nil
	}
	workflows, err := b.workflowService.ListWorkflows()
	if err != nil {
		return err
	}
	for _, wf := range workflows {
		if !wf.Enabled || wf.Trigger.Kind != model.TRIGGER_KIND_EVENT {
			continue
		}
		if name, _ := wf.Trigger.Config["event"].(string); name != event.Name {
			continue
		}
		// Each execution owns its trigger map; the published payload is
		// never shared across executions or mutated under the caller.
		payload := make(map[string]any, len(event.Payload)+1)
		for k, v := range event.Payload {
			payload[k] = v
		}
		payload["event"] = event.Name
		executionId, err := b.executionService.StartExecution(wf.Id, payload)
		if err != nil {
			logger.Error("error firing event workflow", zap.String("workflow", wf.Id), zap.Error(err))
			continue
		}
		logger.Info("event workflow fired",
			zap.String("workflow", wf.Id),
			zap.String("event", event.Name),
			zap.String("execution", executionId))
	}
	return nil
}
