package util

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/flowforge/flowforge/model"
	"github.com/oliveagle/jsonpath"
)

var placeholderPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// ResolveConfig substitutes every {{...}} placeholder inside a node
// configuration with the value it names in the execution context.
// Supported roots are trigger.<path> and step_<nodeId>.<path>.
// A path that resolves to nothing substitutes an empty string.
func ResolveConfig(ec *model.ExecutionContext, config map[string]any) map[string]any {
	output := make(map[string]any)
	resolveMap(ec, config, output)
	return output
}

// ResolveString substitutes placeholders inside a single string value.
func ResolveString(ec *model.ExecutionContext, s string) string {
	tokens := placeholderPattern.FindAllString(s, -1)
	out := s
	for _, token := range tokens {
		inner := strings.TrimSuffix(strings.TrimPrefix(token, "{{"), "}}")
		value := lookupPath(ec, strings.TrimSpace(inner))
		out = strings.ReplaceAll(out, token, stringify(value))
	}
	return out
}

func resolveMap(ec *model.ExecutionContext, params map[string]any, output map[string]any) {
	for k, v := range params {
		switch v := v.(type) {
		case map[string]any:
			out := make(map[string]any)
			output[k] = out
			resolveMap(ec, v, out)
		case []any:
			output[k] = resolveList(ec, v)
		case string:
			output[k] = ResolveString(ec, v)
		default:
			output[k] = v
		}
	}
}

func resolveList(ec *model.ExecutionContext, list []any) []any {
	output := make([]any, 0, len(list))
	for _, v := range list {
		switch v := v.(type) {
		case map[string]any:
			out := make(map[string]any)
			resolveMap(ec, v, out)
			output = append(output, out)
		case []any:
			output = append(output, resolveList(ec, v))
		case string:
			output = append(output, ResolveString(ec, v))
		default:
			output = append(output, v)
		}
	}
	return output
}

func lookupPath(ec *model.ExecutionContext, path string) any {
	root, rest, ok := splitRoot(ec, path)
	if !ok {
		return nil
	}
	if rest == "" {
		return root
	}
	value, err := jsonpath.JsonPathLookup(root, "$."+rest)
	if err != nil {
		return nil
	}
	return value
}

func splitRoot(ec *model.ExecutionContext, path string) (map[string]any, string, bool) {
	head, rest, _ := strings.Cut(path, ".")
	if head == "trigger" {
		return ec.Trigger, rest, true
	}
	if nodeId, ok := strings.CutPrefix(head, "step_"); ok {
		out, found := ec.Output(nodeId)
		if !found {
			return nil, "", false
		}
		return out, rest, true
	}
	return nil, "", false
}

func stringify(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}
