package model

import "time"

type TriggerKind string

const TRIGGER_KIND_WEBHOOK TriggerKind = "webhook"
const TRIGGER_KIND_SCHEDULE TriggerKind = "schedule"
const TRIGGER_KIND_EVENT TriggerKind = "event"

type NodeKind string

const NODE_KIND_TRIGGER NodeKind = "trigger"
const NODE_KIND_ACTION NodeKind = "action"
const NODE_KIND_CONDITION NodeKind = "condition"
const NODE_KIND_TRANSFORM NodeKind = "transform"
const NODE_KIND_PATH NodeKind = "path"

type TriggerConfig struct {
	Kind   TriggerKind    `json:"kind" validate:"required,oneof=webhook schedule event"`
	Config map[string]any `json:"config"`
}

type Workflow struct {
	Id          string         `json:"id" validate:"required"`
	AccountId   string         `json:"accountId" validate:"required"`
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description"`
	Trigger     TriggerConfig  `json:"trigger"`
	Nodes       []WorkflowNode `json:"nodes" validate:"required,min=1,dive"`
	Edges       []WorkflowEdge `json:"edges" validate:"dive"`
	Enabled     bool           `json:"enabled"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type WorkflowNode struct {
	Id   string   `json:"id" validate:"required"`
	Kind NodeKind `json:"kind" validate:"required,oneof=trigger action condition transform path"`
	Data NodeData `json:"data"`
}

type NodeData struct {
	Label        string            `json:"label"`
	Integration  string            `json:"integration"`
	Action       string            `json:"action"`
	Config       map[string]any    `json:"config"`
	OutputFields map[string]string `json:"outputFields,omitempty"`
	Sequence     int               `json:"sequence"`
	Configured   bool              `json:"configured"`
}

type WorkflowEdge struct {
	Id           string `json:"id" validate:"required"`
	Source       string `json:"source" validate:"required"`
	Target       string `json:"target" validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty"`
}

// Node returns the node with the given id, if present.
func (w *Workflow) Node(id string) (*WorkflowNode, bool) {
	for i := range w.Nodes {
		if w.Nodes[i].Id == id {
			return &w.Nodes[i], true
		}
	}
	return nil, false
}

// TriggerNodes returns every trigger node that has no incoming edge.
func (w *Workflow) TriggerNodes() []WorkflowNode {
	incoming := make(map[string]int)
	for _, e := range w.Edges {
		incoming[e.Target]++
	}
	var triggers []WorkflowNode
	for _, n := range w.Nodes {
		if n.Kind == NODE_KIND_TRIGGER && incoming[n.Id] == 0 {
			triggers = append(triggers, n)
		}
	}
	return triggers
}
