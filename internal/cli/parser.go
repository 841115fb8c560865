// Package cli implements the CLI Parser: it converts a workflow command
// string ("<id> --flag value ...") into a validated (workflow_id, args)
// pair using the workflow's argument schema (spec.md §4.2).
package cli

import (
	"fmt"
	"sort"
	"strings"

	shlex "github.com/anmitsu/go-shlex"

	"github.com/cloudshipai/zoektexec/internal/capabilities"
)

// CatalogLookup is the subset of *capabilities.Catalog the parser needs.
// Accepting an interface keeps this package testable without building a
// full manifest-backed catalog.
type CatalogLookup interface {
	Read(id string) (capabilities.Document, bool)
	IDs() []string
}

// ParseError carries a fully-formatted, display-ready error message: the
// "args validation failure: " prefix and (where a schema is available) a
// "Usage: ..." suffix are already baked in, per spec.md §4.2.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return e.Message }

// Parse tokenizes command using POSIX shell rules and validates it against
// the named workflow's arg_schema, returning the workflow id and a fully
// coerced, defaulted, bounds-checked args map.
func Parse(catalog CatalogLookup, command string) (string, map[string]any, error) {
	tokens, err := shlex.Split(command, true)
	if err != nil {
		return "", nil, &ParseError{Message: fmt.Sprintf("args validation failure: could not tokenize command: %v", err)}
	}
	if len(tokens) == 0 {
		return "", nil, &ParseError{Message: "args validation failure: empty command"}
	}

	workflowID := tokens[0]
	doc, ok := catalog.Read(workflowID)
	if !ok || doc.Kind != capabilities.KindWorkflow {
		return "", nil, &ParseError{Message: fmt.Sprintf(
			"args validation failure: unknown workflow_id %q, known workflow ids: %s",
			workflowID, strings.Join(catalog.IDs(), ", "))}
	}

	usage := buildUsage(workflowID, doc.ArgSchema)
	fail := func(msg string) error {
		return &ParseError{Message: fmt.Sprintf("args validation failure: %s. %s", msg, usage)}
	}

	// alias -> canonical schema name, accepting both "--name" and
	// "--name-with-underscores-as-dashes".
	aliasToName := make(map[string]string, len(doc.ArgSchema)*2)
	for name := range doc.ArgSchema {
		aliasToName[name] = name
		aliasToName[flagName(name)] = name
	}

	raw := make(map[string]string)
	seen := make(map[string]bool)

	i := 1
	for i < len(tokens) {
		token := tokens[i]
		if !strings.HasPrefix(token, "--") {
			return "", nil, fail(fmt.Sprintf("positional arguments are not supported: %q", token))
		}
		flagText := strings.TrimPrefix(token, "--")
		name, known := aliasToName[flagText]
		if !known {
			return "", nil, fail(fmt.Sprintf("unknown flag --%s", flagText))
		}
		if seen[name] {
			return "", nil, fail(fmt.Sprintf("duplicate flag --%s", flagText))
		}

		if i+1 >= len(tokens) || strings.HasPrefix(tokens[i+1], "--") {
			return "", nil, fail(fmt.Sprintf("missing value for --%s", flagText))
		}

		raw[name] = tokens[i+1]
		seen[name] = true
		i += 2
	}

	args := make(map[string]any, len(doc.ArgSchema))
	for name, literal := range raw {
		entry := doc.ArgSchema[name]
		value, err := coerceValue(entry, literal)
		if err != nil {
			return "", nil, fail(fmt.Sprintf("--%s: %v", flagName(name), err))
		}
		if err := enforceBounds(entry, value); err != nil {
			return "", nil, fail(fmt.Sprintf("--%s %v", flagName(name), err))
		}
		args[name] = value
	}

	// Defaulting: any schema entry not supplied but carrying a default is
	// coerced through the identical path, so a bound-violating default
	// fails closed exactly like an explicit value would.
	for name, entry := range doc.ArgSchema {
		if _, supplied := args[name]; supplied {
			continue
		}
		if entry.Default == nil {
			continue
		}
		value, err := coerceValue(entry, literalOf(entry.Default))
		if err != nil {
			return "", nil, fail(fmt.Sprintf("--%s: %v", flagName(name), err))
		}
		if err := enforceBounds(entry, value); err != nil {
			return "", nil, fail(fmt.Sprintf("--%s %v", flagName(name), err))
		}
		args[name] = value
	}

	// Required-args check runs last.
	var missing []string
	for name, entry := range doc.ArgSchema {
		if !entry.Required {
			continue
		}
		if _, present := args[name]; !present {
			missing = append(missing, "--"+flagName(name))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", nil, fail(fmt.Sprintf("missing required flags: %s", strings.Join(missing, ", ")))
	}

	return workflowID, args, nil
}
