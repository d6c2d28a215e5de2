package engine

import (
	"github.com/flowforge/flowforge/model"
)

type visitState int

const (
	unvisited visitState = iota
	inProgress
	done
)

// Schedule produces a dependency-respecting visiting order over the
// workflow graph. Every node appears after the sources of its incoming
// edges. The walk starts from trigger nodes; a node revisited while in
// progress is treated as already handled, so a cycle is broken silently
// instead of rejected. Nodes unreachable from any trigger are appended
// afterwards so the sequence always contains every node exactly once.
func Schedule(nodes []model.WorkflowNode, edges []model.WorkflowEdge) []model.WorkflowNode {
	nodeById := make(map[string]model.WorkflowNode, len(nodes))
	for _, n := range nodes {
		nodeById[n.Id] = n
	}
	incoming := make(map[string][]string)
	outgoing := make(map[string][]string)
	for _, e := range edges {
		if _, ok := nodeById[e.Source]; !ok {
			continue
		}
		if _, ok := nodeById[e.Target]; !ok {
			continue
		}
		incoming[e.Target] = append(incoming[e.Target], e.Source)
		outgoing[e.Source] = append(outgoing[e.Source], e.Target)
	}

	state := make(map[string]visitState, len(nodes))
	order := make([]model.WorkflowNode, 0, len(nodes))

	var visit func(id string)
	visit = func(id string) {
		if state[id] != unvisited {
			return
		}
		state[id] = inProgress
		for _, dep := range incoming[id] {
			visit(dep)
		}
		state[id] = done
		order = append(order, nodeById[id])
		for _, next := range outgoing[id] {
			visit(next)
		}
	}

	for _, n := range nodes {
		if n.Kind == model.NODE_KIND_TRIGGER {
			visit(n.Id)
		}
	}
	for _, n := range nodes {
		if state[n.Id] != done {
			visit(n.Id)
		}
	}
	return order
}
