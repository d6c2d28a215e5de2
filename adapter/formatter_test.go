package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execFormatter(t *testing.T, action string, config map[string]any) map[string]any {
	t.Helper()
	f := NewFormatterAdapter()
	require.NoError(t, f.Validate(action, config))
	out, err := f.Execute(context.Background(), action, config, nil)
	require.NoError(t, err)
	return out
}

func TestFormatterStringActions(t *testing.T) {
	out := execFormatter(t, "uppercase", map[string]any{"input": "hello"})
	assert.Equal(t, "HELLO", out["result"])

	out = execFormatter(t, "lowercase", map[string]any{"input": "HeLLo"})
	assert.Equal(t, "hello", out["result"])

	out = execFormatter(t, "capitalize", map[string]any{"input": "jane doe"})
	assert.Equal(t, "Jane doe", out["result"])

	out = execFormatter(t, "trim", map[string]any{"input": "  padded  "})
	assert.Equal(t, "padded", out["result"])
}

func TestFormatterSplit(t *testing.T) {
	out := execFormatter(t, "split", map[string]any{"input": "a,b,c", "delimiter": ","})
	assert.Equal(t, []any{"a", "b", "c"}, out["parts"])
	assert.Equal(t, 3, out["count"])
}

func TestFormatterReplaceIsLiteral(t *testing.T) {
	out := execFormatter(t, "replace", map[string]any{
		"input": "price is $10.50", "find": "$10.50", "replace": "$12.00",
	})
	assert.Equal(t, "price is $12.00", out["result"])
}

func TestFormatterExtract(t *testing.T) {
	out := execFormatter(t, "extract", map[string]any{
		"input":   "order #4521 shipped",
		"pattern": `#(\d+)`,
	})
	assert.Equal(t, true, out["matched"])
	assert.Equal(t, "#4521", out["match"])
	assert.Equal(t, []any{"4521"}, out["groups"])

	out = execFormatter(t, "extract", map[string]any{
		"input":   "no digits here",
		"pattern": `#(\d+)`,
	})
	assert.Equal(t, false, out["matched"])
	assert.Equal(t, "", out["match"])
}

func TestFormatterExtractCaseInsensitiveFlag(t *testing.T) {
	out := execFormatter(t, "extract", map[string]any{
		"input":   "Status: ERROR",
		"pattern": "status: (\\w+)",
		"flags":   "i",
	})
	assert.Equal(t, true, out["matched"])
	assert.Equal(t, []any{"ERROR"}, out["groups"])
}

func TestFormatterExtractInvalidPattern(t *testing.T) {
	f := NewFormatterAdapter()
	config := map[string]any{"input": "x", "pattern": "("}
	assert.Error(t, f.Validate("extract", config))
	_, err := f.Execute(context.Background(), "extract", config, nil)
	assert.Error(t, err)

	assert.Error(t, f.Validate("extract", map[string]any{"pattern": "x", "flags": "g"}))
}

func TestFormatterFormatNumberDecimal(t *testing.T) {
	out := execFormatter(t, "format_number", map[string]any{
		"value":                   1234567.891,
		"maximum_fraction_digits": 2,
	})
	assert.Equal(t, "1,234,567.89", out["result"])
}

func TestFormatterFormatNumberCurrencyLocale(t *testing.T) {
	out := execFormatter(t, "format_number", map[string]any{
		"value":    1234.5,
		"style":    "currency",
		"currency": "EUR",
		"locale":   "de-DE",
	})
	formatted, ok := out["result"].(string)
	require.True(t, ok)
	assert.Contains(t, formatted, "€")
	assert.Contains(t, formatted, ",")
}

func TestFormatterFormatNumberErrors(t *testing.T) {
	f := NewFormatterAdapter()
	assert.Error(t, f.Validate("format_number", map[string]any{"value": "not a number"}))

	_, err := f.Execute(context.Background(), "format_number", map[string]any{
		"value": 1.0, "style": "currency",
	}, nil)
	assert.Error(t, err)

	_, err = f.Execute(context.Background(), "format_number", map[string]any{
		"value": 1.0, "style": "currency", "currency": "ZZZ",
	}, nil)
	assert.Error(t, err)
}

func TestFormatterFormatDatePattern(t *testing.T) {
	out := execFormatter(t, "format_date", map[string]any{
		"value":   "2024-03-07T09:05:02Z",
		"pattern": "YYYY-MM-DD",
	})
	assert.Equal(t, "2024-03-07", out["result"])

	out = execFormatter(t, "format_date", map[string]any{
		"value":   "2024-03-07T09:05:02Z",
		"pattern": "DD/MM/YY HH:mm:ss",
	})
	assert.Equal(t, "07/03/24 09:05:02", out["result"])
}

func TestFormatterFormatDateStyles(t *testing.T) {
	out := execFormatter(t, "format_date", map[string]any{
		"value": "2024-03-07 09:05:02",
		"style": "time",
	})
	assert.Equal(t, "09:05:02", out["result"])

	out = execFormatter(t, "format_date", map[string]any{
		"value": "2024-03-07",
	})
	assert.Equal(t, "2024-03-07", out["result"])
}

func TestFormatterFormatDateEpochValues(t *testing.T) {
	// 2024-03-07T00:00:00Z in seconds and in milliseconds.
	out := execFormatter(t, "format_date", map[string]any{
		"value": float64(1709769600), "pattern": "YYYY-MM-DD",
	})
	assert.Equal(t, "2024-03-07", out["result"])

	out = execFormatter(t, "format_date", map[string]any{
		"value": float64(1709769600000), "pattern": "YYYY-MM-DD",
	})
	assert.Equal(t, "2024-03-07", out["result"])
}

func TestFormatterFormatDateUnparseable(t *testing.T) {
	f := NewFormatterAdapter()
	_, err := f.Execute(context.Background(), "format_date", map[string]any{
		"value": "not a date",
	}, nil)
	assert.Error(t, err)
}

func TestFormatterUnknownAction(t *testing.T) {
	f := NewFormatterAdapter()
	assert.Error(t, f.Validate("frobnicate", nil))
	_, err := f.Execute(context.Background(), "frobnicate", nil, nil)
	assert.Error(t, err)
}
