package adapter

import (
	"context"
	"fmt"

	"github.com/flowforge/flowforge/model"
)

// Adapter is one integration's pluggable implementation. Validate is a
// cheap precondition check and must not perform I/O; Execute performs
// the side-effecting call and returns the node output made available to
// later nodes via step_<nodeId> placeholders. Adapters hold no
// per-execution state and are safe for concurrent use.
type Adapter interface {
	Name() string
	Validate(action string, config map[string]any) error
	Execute(ctx context.Context, action string, config map[string]any, ec *model.ExecutionContext) (map[string]any, error)
}

// Registry maps integration identifiers to adapters. It is constructed
// once at startup and handed to the orchestrator; nothing in the engine
// reaches for a process-wide instance.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

func (r *Registry) Register(a Adapter) {
	r.adapters[a.Name()] = a
}

func (r *Registry) Get(integration string) (Adapter, error) {
	a, ok := r.adapters[integration]
	if !ok {
		return nil, fmt.Errorf("unknown integration %q", integration)
	}
	return a, nil
}

func requireString(config map[string]any, key string) (string, error) {
	v, ok := config[key]
	if !ok {
		return "", fmt.Errorf("missing required config field %q", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("config field %q must be a non-empty string", key)
	}
	return s, nil
}

func optionalString(config map[string]any, key string) string {
	if v, ok := config[key].(string); ok {
		return v
	}
	return ""
}
