package ffmpeg

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// ExecResult holds the outcome of a single process invocation.
type ExecResult struct {
	ExitCode int   // -1 when the process could not be started or was killed.
	Err      error // nil on a clean exit 0.
}

// Success reports whether the process exited with status 0.
func (r ExecResult) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Runner runs a command (args[0] is the binary) and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, args []string) ExecResult
}

// ExecRunner runs commands as child processes. ffmpeg's error output and
// -stats progress go straight to the console; nil writers default to
// os.Stdout and os.Stderr.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts the command and blocks until it exits. There is no timeout;
// cancelling ctx kills the process.
func (r ExecRunner) Run(ctx context.Context, args []string) ExecResult {
	if len(args) == 0 {
		return ExecResult{ExitCode: -1, Err: errors.New("empty command")}
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return ExecResult{ExitCode: 0}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ExecResult{ExitCode: exitErr.ExitCode(), Err: err}
	}
	return ExecResult{ExitCode: -1, Err: err}
}
