// Package runner invokes the external tools a generation run depends on:
// the package manager and framework scaffolding generators.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
)

// CmdResult holds the result of a command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunOpts holds optional parameters for command execution.
type RunOpts struct {
	Dir    string            // working directory (optional)
	Env    map[string]string // extra environment variables (overlay)
	Output io.Writer         // receives a copy of stdout/stderr while the command runs (optional)
}

// CommandRunner runs external commands. Run returns a CmdResult with ExitCode
// set whenever the process ran, and an error only when it could not be
// started or was cancelled.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error)
}

// RealRunner is the os/exec implementation of CommandRunner.
type RealRunner struct{}

func NewRealRunner() *RealRunner { return &RealRunner{} }

func (r *RealRunner) Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	if opts.Output != nil {
		cmd.Stdout = io.MultiWriter(&stdout, opts.Output)
		cmd.Stderr = io.MultiWriter(&stderr, opts.Output)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = cmd.Environ()
		for k, v := range opts.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	err := cmd.Run()
	result := CmdResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			result.ExitCode = -1
			return result, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}

// tail returns the last non-empty line of output, for error messages.
func tail(res CmdResult) string {
	out := strings.TrimSpace(res.Stderr)
	if out == "" {
		out = strings.TrimSpace(res.Stdout)
	}
	if i := strings.LastIndexByte(out, '\n'); i >= 0 {
		out = out[i+1:]
	}
	return out
}
