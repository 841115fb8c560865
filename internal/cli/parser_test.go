package cli

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudshipai/zoektexec/internal/capabilities"
)

type fakeCatalog map[string]capabilities.Document

func (f fakeCatalog) Read(id string) (capabilities.Document, bool) {
	doc, ok := f[id]
	return doc, ok
}

func (f fakeCatalog) IDs() []string {
	ids := make([]string, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func ptr(f float64) *float64 { return &f }

func symbolUsageCatalog() fakeCatalog {
	return fakeCatalog{
		"symbol_usage": {
			ID:   "symbol_usage",
			Kind: capabilities.KindWorkflow,
			ArgSchema: map[string]capabilities.ArgSchemaEntry{
				"query": {Type: capabilities.ArgTypeString, Required: true},
				"context_lines": {
					Type: capabilities.ArgTypeInteger, Required: false,
					Default: 2, Minimum: ptr(0), Maximum: ptr(2),
				},
				"case_sensitive": {Type: capabilities.ArgTypeBoolean, Required: false},
			},
		},
	}
}

func TestParse_SuccessWithDefaulting(t *testing.T) {
	id, args, err := Parse(symbolUsageCatalog(), `symbol_usage --query "ProcessOrder"`)
	require.NoError(t, err)
	assert.Equal(t, "symbol_usage", id)
	assert.Equal(t, "ProcessOrder", args["query"])
	assert.Equal(t, int64(2), args["context_lines"])
}

func TestParse_OutOfBounds(t *testing.T) {
	_, _, err := Parse(symbolUsageCatalog(), `symbol_usage --query "X" --context-lines 3`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "args validation failure:")
	assert.Contains(t, err.Error(), "must be <= 2")
}

func TestParse_BoundaryAtMinMax(t *testing.T) {
	_, args, err := Parse(symbolUsageCatalog(), `symbol_usage --query "X" --context-lines 2`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), args["context_lines"])

	_, args, err = Parse(symbolUsageCatalog(), `symbol_usage --query "X" --context-lines 0`)
	require.NoError(t, err)
	assert.Equal(t, int64(0), args["context_lines"])

	_, _, err = Parse(symbolUsageCatalog(), `symbol_usage --query "X" --context-lines -1`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be >= 0")
}

func TestParse_UnderscoreDashAlias(t *testing.T) {
	_, args, err := Parse(symbolUsageCatalog(), `symbol_usage --query X --context_lines 1`)
	require.NoError(t, err)
	assert.Equal(t, int64(1), args["context_lines"])
}

func TestParse_UnknownWorkflow(t *testing.T) {
	_, _, err := Parse(symbolUsageCatalog(), `no_such_workflow --query X`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown workflow_id")
}

func TestParse_UnknownWorkflowListsKnownIDs(t *testing.T) {
	cat := fakeCatalog{
		"symbol_usage":  symbolUsageCatalog()["symbol_usage"],
		"repo_discovery": capabilities.Document{ID: "repo_discovery", Kind: capabilities.KindWorkflow},
	}
	_, _, err := Parse(cat, `no_such_workflow --query X`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `known workflow ids: repo_discovery, symbol_usage`)
}

func TestParse_DuplicateFlag(t *testing.T) {
	_, _, err := Parse(symbolUsageCatalog(), `symbol_usage --query X --query Y`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate flag --query")
}

func TestParse_UnknownFlag(t *testing.T) {
	_, _, err := Parse(symbolUsageCatalog(), `symbol_usage --query X --bogus 1`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag --bogus")
}

func TestParse_MissingValueAtEndOfTokens(t *testing.T) {
	_, _, err := Parse(symbolUsageCatalog(), `symbol_usage --query`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing value for --query")
}

func TestParse_MissingValueBeforeNextFlag(t *testing.T) {
	_, _, err := Parse(symbolUsageCatalog(), `symbol_usage --query --context-lines 1`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing value for --query")
}

func TestParse_PositionalArgRejected(t *testing.T) {
	_, _, err := Parse(symbolUsageCatalog(), `symbol_usage foo --query X`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positional arguments are not supported")
}

func TestParse_MissingRequiredFlag(t *testing.T) {
	_, _, err := Parse(symbolUsageCatalog(), `symbol_usage --context-lines 1`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: --query")
}

func TestParse_BooleanCoercion(t *testing.T) {
	for _, tc := range []struct {
		literal string
		want    bool
	}{
		{"true", true}, {"1", true}, {"yes", true}, {"on", true},
		{"false", false}, {"0", false}, {"no", false}, {"off", false},
		{"TRUE", true}, {"Off", false},
	} {
		_, args, err := Parse(symbolUsageCatalog(), `symbol_usage --query X --case-sensitive `+tc.literal)
		require.NoError(t, err, tc.literal)
		assert.Equal(t, tc.want, args["case_sensitive"], tc.literal)
	}

	_, _, err := Parse(symbolUsageCatalog(), `symbol_usage --query X --case-sensitive maybe`)
	require.Error(t, err)
}

func TestParse_IntegerCoercionFailure(t *testing.T) {
	_, _, err := Parse(symbolUsageCatalog(), `symbol_usage --query X --context-lines notanumber`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid integer literal")
}

func TestParse_DefaultViolatingBoundsFailsClosed(t *testing.T) {
	cat := fakeCatalog{
		"bad_default": {
			ID:   "bad_default",
			Kind: capabilities.KindWorkflow,
			ArgSchema: map[string]capabilities.ArgSchemaEntry{
				"n": {Type: capabilities.ArgTypeInteger, Default: 10, Maximum: ptr(5)},
			},
		},
	}
	_, _, err := Parse(cat, `bad_default`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be <= 5")
}

func TestParse_QuotedAndEscapedTokens(t *testing.T) {
	_, args, err := Parse(symbolUsageCatalog(), `symbol_usage --query "hello world"`)
	require.NoError(t, err)
	assert.Equal(t, "hello world", args["query"])

	_, args, err = Parse(symbolUsageCatalog(), `symbol_usage --query hello\ world`)
	require.NoError(t, err)
	assert.Equal(t, "hello world", args["query"])
}
