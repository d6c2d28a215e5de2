package util

import (
	"testing"

	"github.com/flowforge/flowforge/model"
	"github.com/stretchr/testify/assert"
)

func testContext() *model.ExecutionContext {
	ec := model.NewExecutionContext("ex-1", "acct-1", map[string]any{
		"email": "jane@example.com",
		"order": map[string]any{
			"total": 42.5,
			"items": []any{
				map[string]any{"sku": "A-1"},
				map[string]any{"sku": "B-2"},
			},
		},
	})
	ec.SetOutput("lookup", map[string]any{
		"found":    true,
		"customer": map[string]any{"id": "cus_123"},
	})
	return ec
}

func TestResolveStringTriggerPath(t *testing.T) {
	ec := testContext()
	assert.Equal(t, "to: jane@example.com", ResolveString(ec, "to: {{trigger.email}}"))
	assert.Equal(t, "42.5", ResolveString(ec, "{{trigger.order.total}}"))
	assert.Equal(t, "A-1", ResolveString(ec, "{{trigger.order.items[0].sku}}"))
}

func TestResolveStringStepOutput(t *testing.T) {
	ec := testContext()
	assert.Equal(t, "cus_123", ResolveString(ec, "{{step_lookup.customer.id}}"))
	assert.Equal(t, "true", ResolveString(ec, "{{step_lookup.found}}"))
}

func TestResolveStringUnresolvableBecomesEmpty(t *testing.T) {
	ec := testContext()
	assert.Equal(t, "value: ", ResolveString(ec, "value: {{trigger.missing.deep.path}}"))
	assert.Equal(t, "", ResolveString(ec, "{{step_unknown.field}}"))
	assert.Equal(t, "", ResolveString(ec, "{{bogusroot.field}}"))
}

func TestResolveStringMultiplePlaceholders(t *testing.T) {
	ec := testContext()
	got := ResolveString(ec, "{{trigger.email}} owes {{trigger.order.total}}")
	assert.Equal(t, "jane@example.com owes 42.5", got)
}

func TestResolveStringIdempotent(t *testing.T) {
	ec := testContext()
	once := ResolveString(ec, "hi {{trigger.email}}, missing={{trigger.nope}}")
	twice := ResolveString(ec, once)
	assert.Equal(t, once, twice)
}

func TestResolveStringNoPlaceholders(t *testing.T) {
	ec := testContext()
	assert.Equal(t, "plain text", ResolveString(ec, "plain text"))
}

func TestResolveConfigNestedStructures(t *testing.T) {
	ec := testContext()
	config := map[string]any{
		"to":      "{{trigger.email}}",
		"retries": 3,
		"enabled": true,
		"body": map[string]any{
			"subject": "order {{trigger.order.total}}",
		},
		"tags": []any{"static", "{{step_lookup.customer.id}}"},
	}

	resolved := ResolveConfig(ec, config)
	assert.Equal(t, "jane@example.com", resolved["to"])
	assert.Equal(t, 3, resolved["retries"])
	assert.Equal(t, true, resolved["enabled"])
	assert.Equal(t, "order 42.5", resolved["body"].(map[string]any)["subject"])
	assert.Equal(t, []any{"static", "cus_123"}, resolved["tags"])
}

func TestResolveConfigDoesNotMutateInput(t *testing.T) {
	ec := testContext()
	config := map[string]any{"to": "{{trigger.email}}"}
	ResolveConfig(ec, config)
	assert.Equal(t, "{{trigger.email}}", config["to"])
}
