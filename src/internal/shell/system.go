package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/phpswitch/phpswitch/src/internal/ui"
)

// waitDelay bounds how long Attach waits for output pipes after the process is killed
const waitDelay = 5 * time.Second

// System is the Executor backed by the real operating system
type System struct{}

// NewSystem creates a new system executor
func NewSystem() *System {
	return &System{}
}

// Pipe runs a command and captures stdout and stderr
func (s *System) Pipe(ctx context.Context, name string, args ...string) (Output, error) {
	line := CommandLine(name, args...)
	ui.Debug("Running command: %s", line)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(cmd, err),
	}
	if err != nil {
		ui.Debug("Command %q failed (exit %d): %v", line, out.ExitCode, err)
		return out, &ShellError{Command: line, ExitCode: out.ExitCode, Stderr: out.Stderr, Err: err}
	}

	return out, nil
}

// Attach runs a command with a hard timeout, streaming its output line by line
func (s *System) Attach(ctx context.Context, c Command, onLine func(line string)) (Output, error) {
	line := c.String()
	ui.Debug("Attaching to command: %s (timeout %s)", line, c.Timeout)

	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, c.Name, c.Args...)
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	var mu sync.Mutex
	emit := func(text string) {
		mu.Lock()
		defer mu.Unlock()
		if onLine != nil {
			onLine(text)
		}
	}
	outWriter := newLineWriter(&stdout, emit)
	errWriter := newLineWriter(&stderr, emit)
	cmd.Stdout = outWriter
	cmd.Stderr = errWriter

	err := cmd.Run()
	outWriter.Flush()
	errWriter.Flush()

	out := Output{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(cmd, err),
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return out, &TimeoutError{Command: line, Timeout: c.Timeout}
	}
	if err != nil {
		return out, &ShellError{Command: line, ExitCode: out.ExitCode, Stderr: out.Stderr, Err: err}
	}

	return out, nil
}

// FileExists reports whether path exists
func (s *System) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsExecutable reports whether path can be executed by the current user
func (s *System) IsExecutable(path string) bool {
	return isExecutable(path)
}

// ReadDir returns the names of the entries in a directory
func (s *System) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

func exitCode(cmd *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

// lineWriter captures everything written to it and reports each complete line
type lineWriter struct {
	buf     *bytes.Buffer
	pending []byte
	emit    func(string)
}

func newLineWriter(buf *bytes.Buffer, emit func(string)) *lineWriter {
	return &lineWriter{buf: buf, emit: emit}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	w.pending = append(w.pending, p...)

	for {
		idx := bytes.IndexByte(w.pending, '\n')
		if idx < 0 {
			break
		}
		w.emit(strings.TrimRight(string(w.pending[:idx]), "\r"))
		w.pending = w.pending[idx+1:]
	}

	return len(p), nil
}

// Flush reports a trailing line that was not newline-terminated
func (w *lineWriter) Flush() {
	if len(w.pending) > 0 {
		w.emit(strings.TrimRight(string(w.pending), "\r"))
		w.pending = nil
	}
}
