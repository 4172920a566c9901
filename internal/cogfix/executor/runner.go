// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// Result holds the outcome of a shell command invocation
type Result struct {
	Stdout     string
	Stderr     string
	ExitStatus int
	TimedOut   bool
}

// Runner executes shell commands for the fix loop. A zero timeout
// means commands run until the caller's context is done.
type Runner struct {
	workingDir  string
	environment []string
	timeout     time.Duration
	stdout      io.Writer
	stderr      io.Writer
	logger      *zap.Logger
}

// NewRunner creates a new command runner
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: logger,
	}
}

// WithWorkingDir sets the working directory
func (r *Runner) WithWorkingDir(dir string) *Runner {
	r.workingDir = dir
	return r
}

// WithEnvironment sets environment variables
func (r *Runner) WithEnvironment(env []string) *Runner {
	r.environment = env
	return r
}

// WithTimeout sets the per-command timeout
func (r *Runner) WithTimeout(timeout time.Duration) *Runner {
	r.timeout = timeout
	return r
}

// WithStreams redirects live output for uncaptured runs
func (r *Runner) WithStreams(stdout, stderr io.Writer) *Runner {
	r.stdout = stdout
	r.stderr = stderr
	return r
}

// Run executes command through the shell. With capture set the output
// is only collected into the result; otherwise it is streamed to the
// configured writers as it is produced.
//
// A non-zero exit and a timeout are reported in the result, not as an
// error. The error return is reserved for the command failing to start
// and for the caller's context being canceled.
func (r *Runner) Run(ctx context.Context, command string, capture bool) (*Result, error) {
	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)

	var stdout, stderr bytes.Buffer
	if capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = io.MultiWriter(&stdout, r.stdout)
		cmd.Stderr = io.MultiWriter(&stderr, r.stderr)
	}

	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	if len(r.environment) > 0 {
		cmd.Env = r.environment
	}

	r.logger.Debug("running command",
		zap.String("command", command),
		zap.Duration("timeout", r.timeout))

	err := cmd.Run()

	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			r.logger.Warn("command timed out",
				zap.String("command", command),
				zap.Duration("timeout", r.timeout))
			result.TimedOut = true
			result.ExitStatus = -1
			return result, nil
		}
		if errors.Is(runCtx.Err(), context.Canceled) {
			return nil, fmt.Errorf("command canceled: %w", runCtx.Err())
		}
		if exitError, ok := err.(*exec.ExitError); ok {
			result.ExitStatus = exitError.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("error running command: %w", err)
	}

	return result, nil
}
