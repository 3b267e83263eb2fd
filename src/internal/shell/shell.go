// Package shell runs external commands for the Homebrew and PHP integrations
package shell

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Output holds the captured result of a finished command
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Command describes a streamed command invocation
type Command struct {
	Name    string
	Args    []string
	Env     []string      // Extra KEY=VALUE pairs appended to the current environment
	Timeout time.Duration // Hard bound on the run; zero means unbounded
}

// String returns the command line as it would be typed in a shell
func (c Command) String() string {
	return CommandLine(c.Name, c.Args...)
}

// CommandLine joins a command name and its arguments
func CommandLine(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// Executor is the subprocess and filesystem boundary used by the core.
// Every method may fail; a non-zero exit is always reported as a *ShellError.
type Executor interface {
	// Pipe runs a command to completion and captures its output
	Pipe(ctx context.Context, name string, args ...string) (Output, error)

	// Attach runs a command and calls onLine for every line written to stdout
	// or stderr. Lines are delivered one at a time, in the order they are read.
	Attach(ctx context.Context, cmd Command, onLine func(line string)) (Output, error)

	// FileExists reports whether a file or directory exists at path
	FileExists(path string) bool

	// IsExecutable reports whether path exists and can be executed by the current user
	IsExecutable(path string) bool

	// ReadDir returns the entry names of a directory
	ReadDir(path string) ([]string, error)
}

// ShellError reports a command that could not be launched, exited non-zero,
// or produced output that could not be understood.
type ShellError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ShellError) Error() string {
	msg := fmt.Sprintf("command %q failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" with exit code %d", e.ExitCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += " (" + stderr + ")"
	}
	return msg
}

func (e *ShellError) Unwrap() error {
	return e.Err
}

// TimeoutError reports a streamed command that exceeded its time bound
type TimeoutError struct {
	Command string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %s", e.Command, e.Timeout)
}
