// Package runner implements the Execution Runner: it turns a validated
// invocation (a catalogued workflow script, or caller-supplied custom code)
// into an ExecutionResult by materialising an isolated temp directory,
// spawning a bootstrapped child interpreter, enforcing a timeout, capping
// output, and extracting the tagged JSON result (spec.md §4.4).
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloudshipai/zoektexec/internal/capabilities"
	"github.com/cloudshipai/zoektexec/internal/cli"
	"github.com/cloudshipai/zoektexec/internal/config"
	"github.com/cloudshipai/zoektexec/internal/logging"
	"github.com/cloudshipai/zoektexec/internal/safety"
)

// Runner executes workflow scripts and custom workflow code in an isolated
// child process. It holds no mutable state across invocations — each call
// owns its own temp directory, child process, and buffers (spec.md §5).
type Runner struct {
	Catalog *capabilities.Catalog

	SrcRoot               string
	TimeoutDefaultSeconds int
	TimeoutMaxSeconds     int
	StdoutMaxBytes        int
	StderrMaxBytes        int

	// Interpreter is the executable used to run bootstrapped scripts.
	// Defaults to cfg.PythonBin; overridable in tests so hermetic runner
	// tests can point it at /bin/sh instead of requiring a Python install.
	Interpreter string

	Tracer trace.Tracer
}

// New builds a Runner backed by cat and configured from cfg.
func New(cat *capabilities.Catalog, cfg *config.Config) *Runner {
	return &Runner{
		Catalog:               cat,
		SrcRoot:               cfg.SrcRoot,
		TimeoutDefaultSeconds: cfg.TimeoutDefaultSeconds,
		TimeoutMaxSeconds:     cfg.TimeoutMaxSeconds,
		StdoutMaxBytes:        cfg.StdoutMaxBytes,
		StderrMaxBytes:        cfg.StderrMaxBytes,
		Interpreter:           cfg.PythonBin,
		Tracer:                otel.Tracer("zoektexec/runner"),
	}
}

// RunWorkflowCLI tokenizes command against the catalog, then runs the
// resolved workflow. A tokenization or validation failure is returned as a
// structured exit-2 result rather than a Go error, per SPEC_FULL.md §A.3.
func (r *Runner) RunWorkflowCLI(ctx context.Context, command string, timeoutSeconds int) ExecutionResult {
	workflowID, args, err := cli.Parse(r.Catalog, command)
	if err != nil {
		return errorResult(ExitArgOrManifestError, err.Error())
	}
	return r.RunWorkflowScript(ctx, workflowID, args, timeoutSeconds)
}

// RunWorkflowScript runs the named catalogued workflow with args.
func (r *Runner) RunWorkflowScript(ctx context.Context, workflowID string, args map[string]any, timeoutSeconds int) ExecutionResult {
	invocationID := ulid.Make().String()
	ctx, span := r.Tracer.Start(ctx, "run_workflow_script", trace.WithAttributes(
		attribute.String("workflow_id", workflowID),
		attribute.String("invocation_id", invocationID),
	))
	defer span.End()
	logging.Info("runner: invocation %s starting workflow %q", invocationID, workflowID)

	doc, ok := r.Catalog.Read(workflowID)
	if !ok || doc.Kind != capabilities.KindWorkflow {
		return errorResult(ExitArgOrManifestError, fmt.Sprintf("unknown workflow_id: %s", workflowID))
	}
	if msg := missingRequiredArgs(doc, args); msg != "" {
		return errorResult(ExitArgOrManifestError, msg)
	}
	if doc.ScriptPath == "" {
		return errorResult(ExitArgOrManifestError, fmt.Sprintf("workflow script_path missing: %s", workflowID))
	}

	srcScript := filepath.Join(r.SrcRoot, doc.ScriptPath)
	if _, err := os.Stat(srcScript); err != nil {
		return errorResult(ExitArgOrManifestError, fmt.Sprintf("workflow script missing: %s", srcScript))
	}

	tempDir, err := os.MkdirTemp("", fmt.Sprintf("zoekt-workflow-%s-", workflowID))
	if err != nil {
		return errorResult(ExitSpawnFailure, fmt.Sprintf("runner failed to start subprocess: %v", err))
	}
	defer os.RemoveAll(tempDir)

	tempScript := filepath.Join(tempDir, "workflow_script.py")
	if err := copyFile(srcScript, tempScript); err != nil {
		return errorResult(ExitSpawnFailure, fmt.Sprintf("runner failed to start subprocess: %v", err))
	}
	if err := copyRuntimeTree(r.SrcRoot, tempDir); err != nil {
		return errorResult(ExitSpawnFailure, fmt.Sprintf("runner failed to start subprocess: %v", err))
	}

	command := workflowBootstrap(r.Interpreter, tempScript, args)
	return r.execute(ctx, command, tempDir, timeoutSeconds, true)
}

// RunCustomCode runs the safety validator over code, then (if accepted)
// executes it, dispatching to run(args) or a legacy main(args).
func (r *Runner) RunCustomCode(ctx context.Context, code string, args map[string]any, timeoutSeconds int) ExecutionResult {
	invocationID := ulid.Make().String()
	ctx, span := r.Tracer.Start(ctx, "run_custom_workflow_code", trace.WithAttributes(
		attribute.String("invocation_id", invocationID),
	))
	defer span.End()
	logging.Info("runner: invocation %s validating custom workflow code", invocationID)

	verdict := safety.Validate(code)
	if !verdict.Accepted() {
		return ExecutionResult{
			Success:          false,
			ExitCode:         ExitSafetyRejected,
			Stderr:           "custom workflow code rejected by safety policy",
			SafetyRejections: verdict.Rejections,
		}
	}

	tempDir, err := os.MkdirTemp("", "zoekt-custom-")
	if err != nil {
		return errorResult(ExitSpawnFailure, fmt.Sprintf("runner failed to start subprocess: %v", err))
	}
	defer os.RemoveAll(tempDir)

	tempScript := filepath.Join(tempDir, "custom_workflow_code.py")
	if err := os.WriteFile(tempScript, []byte(code), 0o644); err != nil {
		return errorResult(ExitSpawnFailure, fmt.Sprintf("runner failed to start subprocess: %v", err))
	}
	if err := copyRuntimeTree(r.SrcRoot, tempDir); err != nil {
		return errorResult(ExitSpawnFailure, fmt.Sprintf("runner failed to start subprocess: %v", err))
	}

	command := customCodeBootstrap(r.Interpreter, tempScript, args)
	return r.execute(ctx, command, tempDir, timeoutSeconds, false)
}

// execute runs command, applies the timeout, and turns the raw subprocess
// outcome into an ExecutionResult. allowWholeStdoutFallback restricts the
// whole-stdout-as-JSON fallback (spec.md §4.4) to the workflow script path.
func (r *Runner) execute(ctx context.Context, command []string, dir string, timeoutSeconds int, allowWholeStdoutFallback bool) ExecutionResult {
	start := time.Now()
	timeout := r.normalizeTimeout(timeoutSeconds)

	spawn := runChild(ctx, command, dir, timeout)
	elapsed := time.Since(start).Milliseconds()

	if spawn.spawnErr != nil {
		return ExecutionResult{
			Success:  false,
			ExitCode: ExitSpawnFailure,
			Stderr:   fmt.Sprintf("runner failed to start subprocess: %v", spawn.spawnErr),
			TimingMS: elapsed,
		}
	}

	if spawn.timedOut {
		stdout := capText(decodeLossy(spawn.stdout), r.StdoutMaxBytes, "stdout")
		stderr := capText(decodeLossy(spawn.stderr), r.StderrMaxBytes, "stderr")
		stderr = appendLine(stderr, "execution timed out")
		return ExecutionResult{
			Success:  false,
			ExitCode: ExitTimeout,
			Stdout:   stdout,
			Stderr:   stderr,
			TimingMS: elapsed,
		}
	}

	fullStdout := decodeLossy(spawn.stdout)
	fullStderr := decodeLossy(spawn.stderr)

	cleanedStdout, payload, parseError, markerFound := extractResultMarker(fullStdout)
	if !markerFound && allowWholeStdoutFallback {
		if decoded, ok := wholeStdoutAsJSON(cleanedStdout); ok {
			payload = decoded
			markerFound = true
		}
	}

	stdout := capText(cleanedStdout, r.StdoutMaxBytes, "stdout")
	stderr := capText(fullStderr, r.StderrMaxBytes, "stderr")

	if !markerFound {
		stderr = appendLine(stderr, "result marker not found")
	}
	if parseError != "" {
		stderr = appendLine(stderr, parseError)
	}

	return ExecutionResult{
		Success:    spawn.exitCode == 0,
		ExitCode:   spawn.exitCode,
		Stdout:     stdout,
		Stderr:     stderr,
		ResultJSON: payload,
		TimingMS:   elapsed,
	}
}

func appendLine(s, line string) string {
	if s == "" {
		return line
	}
	return s + "\n" + line
}

func (r *Runner) normalizeTimeout(t int) time.Duration {
	if t <= 0 {
		t = r.TimeoutDefaultSeconds
	} else if t > r.TimeoutMaxSeconds {
		t = r.TimeoutMaxSeconds
	}
	return time.Duration(t) * time.Second
}

func missingRequiredArgs(doc capabilities.Document, args map[string]any) string {
	var missing []string
	for name, entry := range doc.ArgSchema {
		if !entry.Required {
			continue
		}
		if _, ok := args[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	sort.Strings(missing)
	return "args validation failure: missing required args: " + joinComma(missing)
}

func joinComma(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// copyRuntimeTree clones srcRoot/runtime into tempDir/runtime, the helper
// library every workflow and custom-code invocation gets alongside its
// script (spec.md §3 Lifecycles).
func copyRuntimeTree(srcRoot, tempDir string) error {
	src := filepath.Join(srcRoot, "runtime")
	dst := filepath.Join(tempDir, "runtime")
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("runtime helper path is not a directory: %s", src)
	}
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}
