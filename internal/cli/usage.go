package cli

import (
	"sort"
	"strings"

	"github.com/cloudshipai/zoektexec/internal/capabilities"
)

// flagName converts a schema arg name ("context_lines") to the flag form
// ("context-lines") used in usage strings and error messages. Both the
// underscore and dash spellings are accepted on the command line (spec.md
// §4.2); messages always show the dash form.
func flagName(argName string) string {
	return strings.ReplaceAll(argName, "_", "-")
}

// buildUsage constructs "Usage: <id> <flags...>" from a workflow's
// arg_schema: required flags rendered as "--name <value>", optional ones
// bracketed. Flags are sorted by name within each group for determinism.
func buildUsage(workflowID string, schema map[string]capabilities.ArgSchemaEntry) string {
	var required, optional []string
	for name := range schema {
		if schema[name].Required {
			required = append(required, name)
		} else {
			optional = append(optional, name)
		}
	}
	sort.Strings(required)
	sort.Strings(optional)

	var parts []string
	parts = append(parts, workflowID)
	for _, name := range required {
		parts = append(parts, "--"+flagName(name)+" <value>")
	}
	for _, name := range optional {
		parts = append(parts, "[--"+flagName(name)+" <value>]")
	}

	return "Usage: " + strings.Join(parts, " ")
}
