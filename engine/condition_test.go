package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalConditionExistence(t *testing.T) {
	result, err := EvalCondition("user@example.com exists")
	require.NoError(t, err)
	assert.True(t, result)

	result, err = EvalCondition("'' exists")
	require.NoError(t, err)
	assert.False(t, result)

	result, err = EvalCondition("'' not_exists")
	require.NoError(t, err)
	assert.True(t, result)

	result, err = EvalCondition("something not_exists")
	require.NoError(t, err)
	assert.False(t, result)
}

func TestEvalConditionEquality(t *testing.T) {
	result, err := EvalCondition("active == active")
	require.NoError(t, err)
	assert.True(t, result)

	result, err = EvalCondition("active != inactive")
	require.NoError(t, err)
	assert.True(t, result)

	result, err = EvalCondition("'hello world' == 'hello world'")
	require.NoError(t, err)
	assert.True(t, result)
}

func TestEvalConditionNumericComparison(t *testing.T) {
	for expr, want := range map[string]bool{
		"5 > 3":      true,
		"3 > 5":      false,
		"5 >= 5":     true,
		"2 < 10":     true,
		"10 <= 9":    false,
		"1.5 == 1.5": true,
		"10 == 10.0": true,
	} {
		result, err := EvalCondition(expr)
		require.NoError(t, err, expr)
		assert.Equal(t, want, result, expr)
	}
}

func TestEvalConditionContains(t *testing.T) {
	result, err := EvalCondition("'hello world' contains world")
	require.NoError(t, err)
	assert.True(t, result)
}

func TestEvalConditionCombinators(t *testing.T) {
	result, err := EvalCondition("a == a && b == b")
	require.NoError(t, err)
	assert.True(t, result)

	result, err = EvalCondition("a == b && b == b")
	require.NoError(t, err)
	assert.False(t, result)

	result, err = EvalCondition("a == b || b == b")
	require.NoError(t, err)
	assert.True(t, result)
}

func TestEvalConditionTruthyOperand(t *testing.T) {
	result, err := EvalCondition("true")
	require.NoError(t, err)
	assert.True(t, result)

	result, err = EvalCondition("false")
	require.NoError(t, err)
	assert.False(t, result)

	result, err = EvalCondition("0")
	require.NoError(t, err)
	assert.False(t, result)
}

func TestEvalConditionTemplateEmptyOperand(t *testing.T) {
	values := map[string]string{"{{trigger.email}}": ""}
	resolve := func(s string) string {
		if v, ok := values[s]; ok {
			return v
		}
		return s
	}

	result, err := EvalConditionTemplate("{{trigger.email}} exists", resolve)
	require.NoError(t, err)
	assert.False(t, result)

	result, err = EvalConditionTemplate("{{trigger.email}} not_exists", resolve)
	require.NoError(t, err)
	assert.True(t, result)

	values["{{trigger.email}}"] = "jane@example.com"
	result, err = EvalConditionTemplate("{{trigger.email}} exists", resolve)
	require.NoError(t, err)
	assert.True(t, result)
}

func TestEvalConditionTemplateOperandIsNeverAnOperator(t *testing.T) {
	resolve := func(s string) string {
		if s == "{{trigger.word}}" {
			return "exists"
		}
		return s
	}

	// The resolved value spells an operator but stays data.
	result, err := EvalConditionTemplate("{{trigger.word}} exists", resolve)
	require.NoError(t, err)
	assert.True(t, result)

	result, err = EvalConditionTemplate("{{trigger.word}} == exists", resolve)
	require.NoError(t, err)
	assert.True(t, result)
}

func TestEvalConditionTemplateBareOperand(t *testing.T) {
	resolve := func(s string) string {
		switch s {
		case "{{trigger.off}}":
			return "false"
		case "{{trigger.missing}}":
			return ""
		}
		return s
	}

	result, err := EvalConditionTemplate("{{trigger.off}}", resolve)
	require.NoError(t, err)
	assert.False(t, result)

	result, err = EvalConditionTemplate("{{trigger.missing}}", resolve)
	require.NoError(t, err)
	assert.False(t, result)
}

func TestEvalConditionErrors(t *testing.T) {
	_, err := EvalCondition("")
	assert.Error(t, err)

	_, err = EvalCondition("a ~~ b")
	assert.Error(t, err)

	_, err = EvalCondition("a == b == c extra tokens")
	assert.Error(t, err)

	_, err = EvalCondition("'unterminated")
	assert.Error(t, err)
}
