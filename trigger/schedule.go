package trigger

import (
	"sync"
	"time"

	"github.com/flowforge/flowforge/logger"
	"github.com/flowforge/flowforge/metadata"
	"github.com/flowforge/flowforge/model"
	"github.com/flowforge/flowforge/service"
	"github.com/flowforge/flowforge/util"
	"go.uber.org/zap"
)

// Scheduler fires schedule-kind workflows. Each tick it scans enabled
// workflows and starts an execution for every one whose configured
// interval has elapsed since its last firing.
type Scheduler struct {
	workflowService  metadata.WorkflowService
	executionService *service.ExecutionService
	tickWorker       *util.TickWorker
	mu               sync.Mutex
	lastFired        map[string]time.Time
}

func NewScheduler(workflowService metadata.WorkflowService, executionService *service.ExecutionService, tickSeconds int, wg *sync.WaitGroup) *Scheduler {
	s := &Scheduler{
		workflowService:  workflowService,
		executionService: executionService,
		lastFired:        make(map[string]time.Time),
	}
	s.tickWorker = util.NewTickWorker("schedule-trigger", tickSeconds, make(chan struct{}), s.tick, wg)
	return s
}

func (s *Scheduler) Start() {
	s.tickWorker.Start()
}

func (s *Scheduler) Stop() {
	s.tickWorker.Stop()
}

func (s *Scheduler) tick() {
	workflows, err := s.workflowService.ListWorkflows()
	if err != nil {
		logger.Error("error listing workflows for schedule tick", zap.Error(err))
		return
	}
	now := time.Now()
	for _, wf := range workflows {
		if !wf.Enabled || wf.Trigger.Kind != model.TRIGGER_KIND_SCHEDULE {
			continue
		}
		interval := intervalSeconds(wf.Trigger.Config)
		if interval <= 0 {
			continue
		}
		s.mu.Lock()
		last, fired := s.lastFired[wf.Id]
		due := !fired || now.Sub(last) >= time.Duration(interval)*time.Second
		if due {
			s.lastFired[wf.Id] = now
		}
		s.mu.Unlock()
		if !due {
			continue
		}
		payload := map[string]any{"scheduled_at": now.Format(time.RFC3339)}
		executionId, err := s.executionService.StartExecution(wf.Id, payload)
		if err != nil {
			logger.Error("error firing scheduled workflow", zap.String("workflow", wf.Id), zap.Error(err))
			continue
		}
		logger.Info("scheduled workflow fired", zap.String("workflow", wf.Id), zap.String("execution", executionId))
	}
}

func intervalSeconds(config map[string]any) int {
	switch v := config["interval_seconds"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
