package model

import "time"

type ExecutionStatus string

const EXECUTION_PENDING ExecutionStatus = "pending"
const EXECUTION_RUNNING ExecutionStatus = "running"
const EXECUTION_SUCCESS ExecutionStatus = "success"
const EXECUTION_ERROR ExecutionStatus = "error"

type StepStatus string

const STEP_SUCCESS StepStatus = "success"
const STEP_ERROR StepStatus = "error"
const STEP_SKIPPED StepStatus = "skipped"

type Execution struct {
	Id             string             `json:"id"`
	WorkflowId     string             `json:"workflowId"`
	Status         ExecutionStatus    `json:"status"`
	Trigger        map[string]any     `json:"trigger"`
	Steps          []ExecutionStepLog `json:"steps"`
	Error          string             `json:"error,omitempty"`
	StartedAt      time.Time          `json:"startedAt"`
	CompletedAt    time.Time          `json:"completedAt,omitempty"`
	DurationMillis int64              `json:"durationMillis"`
}

type ExecutionStepLog struct {
	NodeId         string         `json:"nodeId"`
	Label          string         `json:"label"`
	Status         StepStatus     `json:"status"`
	Input          map[string]any `json:"input,omitempty"`
	Output         map[string]any `json:"output,omitempty"`
	Error          string         `json:"error,omitempty"`
	DurationMillis int64          `json:"durationMillis"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Terminal reports whether the execution reached one of its two final
// states. A terminal execution is never written to again.
func (e *Execution) Terminal() bool {
	return e.Status == EXECUTION_SUCCESS || e.Status == EXECUTION_ERROR
}

type ExecutionFilter struct {
	Status ExecutionStatus
	From   time.Time
	To     time.Time
}

func (f ExecutionFilter) Matches(e *Execution) bool {
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && e.StartedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.StartedAt.After(f.To) {
		return false
	}
	return true
}
