// Package runx runs external commands and captures their output.
//
// Two call shapes cover the tooling needs: Capture reports a nonzero exit
// through the Result so callers can record it, while Output treats a nonzero
// exit as a hard error carrying the command line and its stderr.
package runx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result holds the captured output of a finished command. Stdout and Stderr
// are trimmed of surrounding whitespace.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes a command in dir and captures its output.
// This abstraction allows mocking in tests.
type Runner func(ctx context.Context, dir, name string, args ...string) (Result, error)

// ExitError reports a command that ran to completion but exited nonzero.
type ExitError struct {
	Cmd    string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s returned code %d with error %s", e.Cmd, e.Code, e.Stderr)
}

// Capture runs name with args in dir and returns trimmed output from both
// streams along with the exit code. A nonzero exit is not an error here;
// errors are reserved for commands that could not run at all.
func Capture(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}
	if runErr == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		res.ExitCode = -1
		return res, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	// The command never started: missing binary, bad dir, permissions.
	res.ExitCode = 127
	return res, runErr
}

// Output runs name with args in dir and returns its trimmed stdout.
// A nonzero exit comes back as an *ExitError.
func Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	res, err := Capture(ctx, dir, name, args...)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", &ExitError{Cmd: CommandLine(name, args), Code: res.ExitCode, Stderr: res.Stderr}
	}
	return res.Stdout, nil
}

// Shell runs command through `sh -c` in dir, for command lines that need
// shell word splitting or expansion.
func Shell(ctx context.Context, dir, command string) (Result, error) {
	return Capture(ctx, dir, "sh", "-c", command)
}

// CommandLine renders a name and argument list the way a shell user would
// type it, for error messages and run records.
func CommandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
