package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// envAllowlist is passed through from the parent process verbatim; every
// other environment variable is scrubbed before the child is spawned
// (spec.md §4.4 Subprocess policy).
var envAllowlist = []string{"HOME", "LANG", "LC_ALL", "LC_CTYPE", "PATH", "TZ", "ZOEKT_API_URL"}

func buildChildEnv() []string {
	env := make([]string, 0, len(envAllowlist)+2)
	for _, key := range envAllowlist {
		if value := os.Getenv(key); value != "" {
			env = append(env, key+"="+value)
		}
	}
	env = append(env, "PYTHONUNBUFFERED=1", "PYTHONDONTWRITEBYTECODE=1")
	return env
}

// pyLiteral renders a Go value as a Python literal via JSON encoding. A
// JSON-encoded string is also a valid Python string literal, so this is a
// safe, dependency-free way to splice string values (including JSON text)
// into a bootstrap script without a templating engine. JSON true, false
// and null are not Python literals, so non-string values are not spliced
// through it.
func pyLiteral(v any) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		// Only ever called with strings, which always marshal, so this
		// path is unreachable in practice.
		encoded, _ = json.Marshal(fmt.Sprintf("%v", v))
	}
	return string(encoded)
}

// workflowBootstrap builds the command that runs a catalogued workflow
// script as the main program, argv set to carry the JSON-encoded args
// (spec.md §4.4, workflow script path).
func workflowBootstrap(interpreter, scriptPath string, args map[string]any) []string {
	argsJSON, _ := json.Marshal(args)
	scriptDir := filepath.Dir(scriptPath)

	bootstrap := fmt.Sprintf(
		"import runpy, sys\n"+
			"script = %s\n"+
			"sys.path.insert(0, %s)\n"+
			"sys.argv = [script, \"--args-json\", %s]\n"+
			"runpy.run_path(script, run_name=\"__main__\")\n",
		pyLiteral(scriptPath), pyLiteral(scriptDir), pyLiteral(string(argsJSON)),
	)
	return []string{interpreter, "-I", "-u", "-c", bootstrap}
}

// customCodeBootstrap builds the command that loads caller-supplied code as
// a module and dispatches to run(args) or a legacy main(args), per
// spec.md §4.4's custom workflow code path.
func customCodeBootstrap(interpreter, scriptPath string, args map[string]any) []string {
	argsJSON, _ := json.Marshal(args)
	scriptDir := filepath.Dir(scriptPath)

	bootstrap := fmt.Sprintf(`import asyncio, importlib.util, inspect, json, sys

sys.path.insert(0, %s)
script = %s
args = json.loads(%s)

spec = importlib.util.spec_from_file_location("custom_workflow_code", script)
module = importlib.util.module_from_spec(spec)
spec.loader.exec_module(module)


def _resolve(value):
    if inspect.isawaitable(value):
        return asyncio.get_event_loop().run_until_complete(value)
    return value


if hasattr(module, "run"):
    result = _resolve(module.run(args))
    if isinstance(result, int) and not isinstance(result, bool):
        sys.exit(result)
    print(%s + json.dumps(result))
    sys.exit(0)
elif hasattr(module, "main"):
    sys.argv = [script, "--args-json", %s]
    result = _resolve(module.main(args))
    if isinstance(result, int) and not isinstance(result, bool):
        sys.exit(result)
    sys.exit(0)
else:
    sys.stderr.write("missing_required_entrypoint: run(args) or main(args)\n")
    sys.exit(2)
`,
		pyLiteral(scriptDir), pyLiteral(scriptPath), pyLiteral(string(argsJSON)),
		pyLiteral(resultMarkerPrefix), pyLiteral(string(argsJSON)),
	)
	return []string{interpreter, "-I", "-u", "-c", bootstrap}
}
