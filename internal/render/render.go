// Package render implements the Result Renderer: it turns an
// runner.ExecutionResult into a human-readable Markdown report, deriving a
// secondary output_status and dispatching to a workflow-id-specific
// renderer for the structured payload (spec.md §4.5).
package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cloudshipai/zoektexec/internal/runner"
)

// workflowRenderers maps a catalogued workflow id to the renderer that
// knows its payload shape. Unknown ids fall back to renderGeneric.
var workflowRenderers = map[string]func(any) []string{
	"repo_discovery":      renderRepoDiscovery,
	"symbol_definition":   renderSymbolSearch,
	"symbol_usage":        renderSymbolSearch,
	"file_context_reader": renderFileContext,
	"cross_repo_trace":    renderCrossRepoTrace,
}

// FormatWorkflowResult renders result as a Markdown report for workflowID.
func FormatWorkflowResult(workflowID string, result runner.ExecutionResult) string {
	processStatus := "failure"
	if result.Success {
		processStatus = "success"
	}
	outputStatus := inferOutputStatus(result)

	lines := []string{
		fmt.Sprintf("## Workflow: `%s`", workflowID),
		"",
		fmt.Sprintf("- Process status: `%s`", processStatus),
		fmt.Sprintf("- Output status: `%s`", outputStatus),
		fmt.Sprintf("- Exit code: `%d`", result.ExitCode),
		fmt.Sprintf("- Timing (ms): `%d`", result.TimingMS),
	}

	if !result.Success {
		if len(result.SafetyRejections) > 0 {
			lines = append(lines, fmt.Sprintf("- Safety rejections: `%d`", len(result.SafetyRejections)))
			for _, rejection := range result.SafetyRejections {
				lines = append(lines, "  - "+rejection)
			}
		}
		if result.Stderr != "" {
			lines = append(lines, "", "### Error", "```text", result.Stderr, "```")
		}
		if result.Stdout != "" {
			lines = append(lines, "", "### Stdout", "```text", result.Stdout, "```")
		}
		return strings.Join(lines, "\n")
	}

	if result.ResultJSON == nil {
		lines = append(lines, "",
			"No structured workflow payload was produced.",
			"This means execution completed, but output parsing or marker contract failed.")
		if result.Stderr != "" {
			lines = append(lines, "", "### Parser / Runtime Details", "```text", result.Stderr, "```")
		}
		if result.Stdout != "" {
			lines = append(lines, "", "### Stdout", "```text", result.Stdout, "```")
		}
		return strings.Join(lines, "\n")
	}

	renderer, ok := workflowRenderers[workflowID]
	if !ok {
		renderer = renderGeneric
	}
	body := renderer(result.ResultJSON)

	if len(body) > 0 {
		lines = append(lines, "")
		lines = append(lines, body...)
	}
	if result.Stderr != "" {
		lines = append(lines, "", "### Stderr", "```text", result.Stderr, "```")
	}
	if result.Stdout != "" {
		lines = append(lines, "", "### Stdout", "```text", result.Stdout, "```")
	}
	return strings.Join(lines, "\n")
}

// inferOutputStatus derives the secondary output_status (spec.md §4.5).
func inferOutputStatus(result runner.ExecutionResult) string {
	if result.ResultJSON != nil {
		return "parsed"
	}
	stderrLC := strings.ToLower(result.Stderr)
	switch {
	case strings.Contains(stderrLC, "malformed result marker json"):
		return "parse_error"
	case strings.Contains(stderrLC, "result marker not found"):
		return "missing_result_marker"
	case result.Success:
		return "missing_payload"
	default:
		return "not_available"
	}
}

// asMap and asList are small helpers for narrowing a decoded JSON `any`;
// every renderer falls back to renderGeneric when the payload isn't
// shaped the way it expects.
func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asList(v any) []any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	return list
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// coerceInt mirrors the original renderer's lenient int coercion: JSON
// numbers decode as float64, so this accepts that plus any already-int
// value, and falls back to def otherwise.
func coerceInt(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
	}
	return def
}

func stringifyScalar(v any) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func indentMarkdown(lines []string, spaces int) []string {
	prefix := strings.Repeat(" ", spaces)
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			out[i] = ""
			continue
		}
		out[i] = prefix + line
	}
	return out
}

// renderGeneric introspects an unrecognised workflow's payload shape
// (scalar, list, mapping) and summarises it (spec.md §4.5).
func renderGeneric(payload any) []string {
	if payload == nil {
		return []string{"No structured workflow payload returned."}
	}
	switch v := payload.(type) {
	case string, float64, bool:
		return []string{fmt.Sprintf("Result: `%s`", stringifyScalar(v))}
	case []any:
		if len(v) == 0 {
			return []string{"Result list is empty."}
		}
		lines := []string{fmt.Sprintf("Result list with `%d` items:", len(v))}
		for i, item := range v {
			if i >= 10 {
				lines = append(lines, fmt.Sprintf("... and `%d` more items.", len(v)-10))
				break
			}
			lines = append(lines, fmt.Sprintf("%d. `%s`", i+1, stringifyScalar(item)))
		}
		return lines
	case map[string]any:
		lines := []string{"Result fields:"}
		for _, key := range sortedKeys(v) {
			value := v[key]
			switch val := value.(type) {
			case string, float64, bool, nil:
				lines = append(lines, fmt.Sprintf("- `%s`: `%s`", key, stringifyScalar(val)))
			case []any:
				lines = append(lines, fmt.Sprintf("- `%s`: list with `%d` items", key, len(val)))
			case map[string]any:
				lines = append(lines, fmt.Sprintf("- `%s`: object with `%d` fields", key, len(val)))
			default:
				lines = append(lines, fmt.Sprintf("- `%s`: `%T`", key, val))
			}
		}
		return lines
	default:
		return []string{fmt.Sprintf("Result type: `%T`", payload)}
	}
}

// sortedKeys gives a deterministic field order for the generic renderer.
// The original Python dict preserved insertion order; Go's map does not,
// and encoding/json's map decoding loses that order entirely, so sorting
// is the best this representation can offer.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
