package runner

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// spawnResult carries everything execute needs to turn a finished or
// killed child process into an ExecutionResult.
type spawnResult struct {
	stdout   []byte
	stderr   []byte
	exitCode int
	timedOut bool
	spawnErr error
}

// runChild spawns command in dir with the scrubbed environment, waits up to
// timeout for it to finish, and on timeout kills it; exec.CommandContext
// already kills the child once the context deadline passes, and since
// stdout/stderr are plain bytes.Buffers, Wait returns only after the copy
// of the child's output into them has finished — no separate drain step is
// needed (spec.md §4.4 Timeout, Subprocess policy). A process the child
// started that still holds the output pipes keeps Wait blocked until it
// exits too.
func runChild(ctx context.Context, command []string, dir string, timeout time.Duration) spawnResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Env = buildChildEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return spawnResult{spawnErr: err}
	}

	waitErr := cmd.Wait()
	timedOut := ctx.Err() == context.DeadlineExceeded

	return spawnResult{
		stdout:   stdout.Bytes(),
		stderr:   stderr.Bytes(),
		exitCode: exitCodeOf(cmd, waitErr),
		timedOut: timedOut,
	}
}

// exitCodeOf extracts the child's exit code; ProcessState is nil only when
// Start itself failed, which the caller handles separately via spawnErr.
func exitCodeOf(cmd *exec.Cmd, waitErr error) int {
	if waitErr == nil {
		return 0
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}
