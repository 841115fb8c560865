package capabilities

import (
	"fmt"
	"os"
	"sort"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// rawManifest mirrors the on-disk YAML shape described in spec.md §6.
// Unknown top-level keys are ignored by yaml.v3's default unmarshalling;
// missing sections default to empty via the zero value of the slice.
type rawManifest struct {
	Workflows         []rawEntry `yaml:"workflows"`
	RuntimeTools      []rawEntry `yaml:"runtime_tools"`
	ExecutionPatterns []rawEntry `yaml:"execution_patterns"`
}

type rawEntry struct {
	ID                  string                  `yaml:"id"`
	ScriptPath          string                  `yaml:"script_path"`
	Description         string                  `yaml:"description"`
	ArgSchema           map[string]rawArgSchema `yaml:"arg_schema"`
	Examples            []map[string]any        `yaml:"examples"`
	Constraints         []string                `yaml:"constraints"`
	ExpectedOutputShape map[string]any          `yaml:"expected_output_shape"`
	Summary             string                  `yaml:"summary"`
	WhenToUse           string                  `yaml:"when_to_use"`
	RequiredArgs        []string                `yaml:"required_args"`
	Example             string                  `yaml:"example"`
}

type rawArgSchema struct {
	Type     string   `yaml:"type"`
	Required bool     `yaml:"required"`
	Default  any      `yaml:"default"`
	Minimum  *float64 `yaml:"minimum"`
	Maximum  *float64 `yaml:"maximum"`
}

// hitMetadata carries the per-entry hint fields separately from the
// document body, matching the teacher-derived design in spec.md §4.1.
type hitMetadata struct {
	Summary      string
	WhenToUse    string
	RequiredArgs []string
	Example      string
}

// LoadManifest reads the declarative manifest at path and returns every
// capability document keyed by id, plus the hit metadata recorded
// alongside it. Capability ids must be unique across all three kinds; a
// collision is a load-time failure (spec.md §3 Invariants).
func LoadManifest(path string) (map[string]Document, map[string]hitMetadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("capabilities: read manifest %q: %w", path, err)
	}

	var manifest rawManifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, nil, fmt.Errorf("capabilities: parse manifest %q: %w", path, err)
	}

	docs := make(map[string]Document)
	meta := make(map[string]hitMetadata)

	groups := []struct {
		kind    Kind
		entries []rawEntry
	}{
		{KindWorkflow, manifest.Workflows},
		{KindRuntimeTool, manifest.RuntimeTools},
		{KindExecutionPattern, manifest.ExecutionPatterns},
	}

	for _, group := range groups {
		for _, entry := range group.entries {
			if entry.ID == "" {
				return nil, nil, fmt.Errorf("capabilities: %s entry missing id", group.kind)
			}
			if _, exists := docs[entry.ID]; exists {
				return nil, nil, fmt.Errorf("capabilities: duplicate capability id %q", entry.ID)
			}

			doc, err := entryToDoc(entry, group.kind)
			if err != nil {
				return nil, nil, fmt.Errorf("capabilities: id %q: %w", entry.ID, err)
			}

			docs[entry.ID] = doc
			meta[entry.ID] = entryToHitMetadata(entry)
		}
	}

	return docs, meta, nil
}

func entryToDoc(entry rawEntry, kind Kind) (Document, error) {
	if kind == KindWorkflow && entry.ScriptPath == "" {
		return Document{}, fmt.Errorf("workflow script_path missing")
	}

	argSchema := make(map[string]ArgSchemaEntry, len(entry.ArgSchema))
	for name, raw := range entry.ArgSchema {
		argSchema[name] = ArgSchemaEntry{
			Type:     ArgType(raw.Type),
			Required: raw.Required,
			Default:  raw.Default,
			Minimum:  raw.Minimum,
			Maximum:  raw.Maximum,
		}
	}

	examples := make([]Example, 0, len(entry.Examples))
	for _, rawExample := range entry.Examples {
		ex := Example{Raw: rawExample}
		if call, ok := rawExample["call"].(string); ok {
			ex.Call = call
		}
		if args, ok := rawExample["args"].(string); ok {
			ex.Args = args
		}
		examples = append(examples, ex)
	}

	if len(entry.ExpectedOutputShape) > 0 {
		if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(entry.ExpectedOutputShape)); err != nil {
			return Document{}, fmt.Errorf("expected_output_shape is not a well-formed JSON schema: %w", err)
		}
	}

	return Document{
		ID:                  entry.ID,
		Kind:                kind,
		Description:         entry.Description,
		ArgSchema:           argSchema,
		Examples:            examples,
		Constraints:         append([]string(nil), entry.Constraints...),
		ExpectedOutputShape: entry.ExpectedOutputShape,
		ScriptPath:          entry.ScriptPath,
	}, nil
}

func entryToHitMetadata(entry rawEntry) hitMetadata {
	var requiredArgs []string
	if entry.RequiredArgs != nil {
		requiredArgs = append([]string{}, entry.RequiredArgs...)
	}
	return hitMetadata{
		Summary:      entry.Summary,
		WhenToUse:    entry.WhenToUse,
		RequiredArgs: requiredArgs,
		Example:      entry.Example,
	}
}

// requiredArgsFromSchema returns the sorted names of arg_schema entries
// whose Required is true, used as the fallback when hit metadata doesn't
// set required_args explicitly.
func requiredArgsFromSchema(schema map[string]ArgSchemaEntry) []string {
	var names []string
	for name, entry := range schema {
		if entry.Required {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
