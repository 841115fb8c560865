package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudshipai/zoektexec/internal/runner"
)

func TestFormatWorkflowResult_FailurePath(t *testing.T) {
	result := runner.ExecutionResult{
		Success:          false,
		ExitCode:         1,
		Stderr:           "custom workflow code rejected by safety policy",
		SafetyRejections: []string{"banned_import: os"},
	}
	out := FormatWorkflowResult("custom", result)
	assert.Contains(t, out, "Process status: `failure`")
	assert.Contains(t, out, "Output status: `not_available`")
	assert.Contains(t, out, "Safety rejections: `1`")
	assert.Contains(t, out, "banned_import: os")
}

func TestFormatWorkflowResult_MissingResultMarker(t *testing.T) {
	result := runner.ExecutionResult{Success: true, ExitCode: 0, Stderr: "result marker not found"}
	out := FormatWorkflowResult("symbol_usage", result)
	assert.Contains(t, out, "Output status: `missing_result_marker`")
	assert.Contains(t, out, "No structured workflow payload was produced.")
}

func TestFormatWorkflowResult_ParseError(t *testing.T) {
	result := runner.ExecutionResult{Success: true, ExitCode: 0, Stderr: "malformed result marker JSON: Expecting value"}
	out := FormatWorkflowResult("symbol_usage", result)
	assert.Contains(t, out, "Output status: `parse_error`")
}

func TestFormatWorkflowResult_SymbolUsageRendering(t *testing.T) {
	result := runner.ExecutionResult{
		Success:  true,
		ExitCode: 0,
		ResultJSON: map[string]any{
			"query":      "ProcessOrder",
			"total_hits": float64(2),
			"results": []any{
				map[string]any{
					"repository": "repoA",
					"filename":   "orders.go",
					"matches": []any{
						map[string]any{"line_number": float64(12), "text": "func ProcessOrder() {"},
					},
				},
			},
		},
	}
	out := FormatWorkflowResult("symbol_usage", result)
	assert.Contains(t, out, "Found `2` matches for `ProcessOrder`.")
	assert.Contains(t, out, "repoA/orders.go")
	assert.Contains(t, out, "L12: `func ProcessOrder() {`")
}

func TestFormatWorkflowResult_UnknownWorkflowUsesGeneric(t *testing.T) {
	result := runner.ExecutionResult{Success: true, ExitCode: 0, ResultJSON: map[string]any{"a": float64(1), "b": "two"}}
	out := FormatWorkflowResult("some_future_workflow", result)
	assert.Contains(t, out, "Result fields:")
	assert.Contains(t, out, "- `a`: `1`")
	assert.Contains(t, out, "- `b`: `two`")
}

func TestRenderFileContext_NumbersLines(t *testing.T) {
	payload := map[string]any{
		"repo":       "repoA",
		"path":       "main.go",
		"start_line": float64(10),
		"end_line":   float64(11),
		"content":    "line one\nline two",
	}
	lines := renderFileContext(payload)
	body := joinLines(lines)
	assert.Contains(t, body, "repoA/main.go")
	assert.Contains(t, body, "```go")
	assert.Contains(t, body, "10 | line one")
	assert.Contains(t, body, "11 | line two")
}

func TestRenderCrossRepoTrace_ErrorsAndHits(t *testing.T) {
	payload := map[string]any{
		"symbol":           "Foo",
		"inspected_repos":  float64(2),
		"trace": []any{
			map[string]any{"repo": "repoA", "definition_hits": float64(1), "usage_hits": float64(3)},
		},
		"errors": []any{
			map[string]any{"repo": "repoB", "error": "timed out"},
		},
	}
	out := joinLines(renderCrossRepoTrace(payload))
	assert.Contains(t, out, "Cross-repo trace for `Foo` across `2` repos.")
	assert.Contains(t, out, "Definition hits: `1`")
	assert.Contains(t, out, "Usage hits: `3`")
	assert.Contains(t, out, "`repoB`: timed out")
}

func TestRenderGeneric_ListAndScalar(t *testing.T) {
	assert.Equal(t, []string{"Result: `42`"}, renderGeneric(float64(42)))
	assert.Equal(t, []string{"Result list is empty."}, renderGeneric([]any{}))
}

func joinLines(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}
