// Package shelltest provides an in-memory shell.Executor for tests
package shelltest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/phpswitch/phpswitch/src/internal/shell"
)

// Response is the scripted result of a command
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Lines    []string // Streamed to the Attach callback before the command finishes
	TimedOut bool     // Attach reports a *shell.TimeoutError
	Err      error    // Launch failure
}

// Fake is a scripted Executor. Commands are keyed by their command line
// (name and args joined with spaces). Unknown commands fail like a missing binary.
type Fake struct {
	mu        sync.Mutex
	responses map[string]Response
	hooks     map[string]func(f *Fake)
	files     map[string]bool
	noExec    map[string]bool
	calls     []string
	envs      map[string][]string
}

// New creates an empty fake executor
func New() *Fake {
	return &Fake{
		responses: make(map[string]Response),
		hooks:     make(map[string]func(f *Fake)),
		files:     make(map[string]bool),
		noExec:    make(map[string]bool),
		envs:      make(map[string][]string),
	}
}

// Set scripts the response for a command line
func (f *Fake) Set(cmdline string, r Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = r
}

// OnCall registers fn to run after the command line has been executed
func (f *Fake) OnCall(cmdline string, fn func(f *Fake)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks[cmdline] = fn
}

// AddFile marks path (and its parent directories) as existing
func (f *Fake) AddFile(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addFile(path)
}

func (f *Fake) addFile(path string) {
	path = filepath.Clean(path)
	for {
		f.files[path] = true
		parent := filepath.Dir(path)
		if parent == path {
			return
		}
		path = parent
	}
}

// RemoveFile forgets path and everything below it
func (f *Fake) RemoveFile(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = filepath.Clean(path)
	for p := range f.files {
		if p == path || strings.HasPrefix(p, path+string(filepath.Separator)) {
			delete(f.files, p)
		}
	}
}

// MarkNotExecutable keeps path present but not executable
func (f *Fake) MarkNotExecutable(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noExec[filepath.Clean(path)] = true
}

// Calls returns the command lines executed so far, in order
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Env returns the extra environment passed to the last Attach of cmdline
func (f *Fake) Env(cmdline string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.envs[cmdline]
}

// Pipe returns the scripted response for the command line
func (f *Fake) Pipe(ctx context.Context, name string, args ...string) (shell.Output, error) {
	cmdline := shell.CommandLine(name, args...)
	r, ok := f.record(cmdline)
	defer f.runHook(cmdline)

	if !ok {
		return shell.Output{ExitCode: -1}, &shell.ShellError{Command: cmdline, ExitCode: -1, Err: os.ErrNotExist}
	}
	out := shell.Output{Stdout: r.Stdout, Stderr: r.Stderr, ExitCode: r.ExitCode}
	if r.Err != nil || r.ExitCode != 0 {
		return out, &shell.ShellError{Command: cmdline, ExitCode: r.ExitCode, Stderr: r.Stderr, Err: r.Err}
	}
	return out, nil
}

// Attach streams the scripted lines to onLine
func (f *Fake) Attach(ctx context.Context, c shell.Command, onLine func(line string)) (shell.Output, error) {
	cmdline := c.String()
	r, ok := f.record(cmdline)
	defer f.runHook(cmdline)

	f.mu.Lock()
	f.envs[cmdline] = append([]string(nil), c.Env...)
	f.mu.Unlock()

	if !ok {
		return shell.Output{ExitCode: -1}, &shell.ShellError{Command: cmdline, ExitCode: -1, Err: os.ErrNotExist}
	}
	for _, line := range r.Lines {
		if onLine != nil {
			onLine(line)
		}
	}

	out := shell.Output{Stdout: strings.Join(r.Lines, "\n") + r.Stdout, Stderr: r.Stderr, ExitCode: r.ExitCode}
	if r.TimedOut {
		timeout := c.Timeout
		if timeout == 0 {
			timeout = time.Second
		}
		return out, &shell.TimeoutError{Command: cmdline, Timeout: timeout}
	}
	if r.Err != nil || r.ExitCode != 0 {
		return out, &shell.ShellError{Command: cmdline, ExitCode: r.ExitCode, Stderr: r.Stderr, Err: r.Err}
	}
	return out, nil
}

// FileExists reports whether path was added with AddFile
func (f *Fake) FileExists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[filepath.Clean(path)]
}

// IsExecutable reports whether path exists and was not marked non-executable
func (f *Fake) IsExecutable(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = filepath.Clean(path)
	return f.files[path] && !f.noExec[path]
}

// ReadDir lists the direct children of a directory added through AddFile
func (f *Fake) ReadDir(path string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path = filepath.Clean(path)
	if !f.files[path] {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}

	var names []string
	for p := range f.files {
		if filepath.Dir(p) == path && p != path {
			names = append(names, filepath.Base(p))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *Fake) record(cmdline string) (Response, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmdline)
	r, ok := f.responses[cmdline]
	return r, ok
}

func (f *Fake) runHook(cmdline string) {
	f.mu.Lock()
	hook := f.hooks[cmdline]
	f.mu.Unlock()
	if hook != nil {
		hook(f)
	}
}
