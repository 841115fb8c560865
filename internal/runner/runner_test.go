package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudshipai/zoektexec/internal/capabilities"
)

func TestNormalizeTimeout(t *testing.T) {
	r := &Runner{TimeoutDefaultSeconds: 30, TimeoutMaxSeconds: 60}
	assert.Equal(t, 30*time.Second, r.normalizeTimeout(0))
	assert.Equal(t, 30*time.Second, r.normalizeTimeout(-5))
	assert.Equal(t, 10*time.Second, r.normalizeTimeout(10))
	assert.Equal(t, 60*time.Second, r.normalizeTimeout(999))
}

func TestMissingRequiredArgs(t *testing.T) {
	doc := capabilities.Document{
		ArgSchema: map[string]capabilities.ArgSchemaEntry{
			"query":    {Required: true},
			"optional": {Required: false},
		},
	}
	msg := missingRequiredArgs(doc, map[string]any{})
	assert.Contains(t, msg, "missing required args: query")

	msg = missingRequiredArgs(doc, map[string]any{"query": "x"})
	assert.Empty(t, msg)
}

// stubInterpreter writes an executable shell script to dir that, when run,
// simply executes the workflow script materialised alongside it as a
// plain shell script — this lets runner tests exercise the real
// materialise-spawn-capture pipeline without requiring a Python install.
func stubInterpreter(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "fake-python")
	contents := "#!/bin/sh\nexec sh \"$PWD/workflow_script.py\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o755))
	return path
}

func newTestRunner(t *testing.T, srcRoot string) *Runner {
	t.Helper()
	manifest := `
workflows:
  - id: echo_hits
    script_path: scripts/echo.py
    description: test fixture
`
	require.NoError(t, os.MkdirAll(filepath.Join(srcRoot, "scripts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(srcRoot, "runtime"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcRoot, "runtime", "helper.txt"), []byte("helper\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcRoot, "manifest.yaml"), []byte(manifest), 0o644))

	cat, err := capabilities.NewCatalog(filepath.Join(srcRoot, "manifest.yaml"))
	require.NoError(t, err)

	return &Runner{
		Catalog:               cat,
		SrcRoot:               srcRoot,
		TimeoutDefaultSeconds: 5,
		TimeoutMaxSeconds:     5,
		StdoutMaxBytes:        1 << 20,
		StderrMaxBytes:        1 << 20,
		Interpreter:           stubInterpreter(t, srcRoot),
	}
}

func TestRunWorkflowScript_EndToEndMarkerExtraction(t *testing.T) {
	srcRoot := t.TempDir()
	r := newTestRunner(t, srcRoot)

	script := "#!/bin/sh\necho \"log line before marker\"\necho '__RESULT_JSON__={\"total_hits\":3}'\n"
	require.NoError(t, os.WriteFile(filepath.Join(srcRoot, "scripts", "echo.py"), []byte(script), 0o755))

	result := r.RunWorkflowScript(context.Background(), "echo_hits", map[string]any{}, 5)
	require.True(t, result.Success, "stderr: %s", result.Stderr)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, map[string]any{"total_hits": float64(3)}, result.ResultJSON)
	assert.Contains(t, result.Stdout, "log line before marker")
	assert.NotContains(t, result.Stdout, "__RESULT_JSON__")
}

func TestRunWorkflowScript_UnknownWorkflowID(t *testing.T) {
	srcRoot := t.TempDir()
	r := newTestRunner(t, srcRoot)

	result := r.RunWorkflowScript(context.Background(), "no_such_workflow", map[string]any{}, 5)
	assert.False(t, result.Success)
	assert.Equal(t, ExitArgOrManifestError, result.ExitCode)
	assert.Contains(t, result.Stderr, "unknown workflow_id")
}

func TestRunWorkflowScript_TimesOutAndKillsChild(t *testing.T) {
	srcRoot := t.TempDir()
	r := newTestRunner(t, srcRoot)

	script := "#!/bin/sh\nsleep 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(srcRoot, "scripts", "echo.py"), []byte(script), 0o755))

	result := r.RunWorkflowScript(context.Background(), "echo_hits", map[string]any{}, 1)
	assert.False(t, result.Success)
	assert.Equal(t, ExitTimeout, result.ExitCode)
	assert.Contains(t, result.Stderr, "execution timed out")
}

func TestRunCustomCode_SafetyRejectionShortCircuits(t *testing.T) {
	srcRoot := t.TempDir()
	r := newTestRunner(t, srcRoot)

	code := "import subprocess\n\ndef run(args):\n    return subprocess.run(['ls'])\n"
	result := r.RunCustomCode(context.Background(), code, map[string]any{}, 5)
	assert.False(t, result.Success)
	assert.Equal(t, ExitSafetyRejected, result.ExitCode)
	assert.Contains(t, result.Stderr, "custom workflow code rejected by safety policy")
	assert.Contains(t, result.SafetyRejections, "banned_import: subprocess")
}
