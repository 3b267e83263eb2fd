package runtime

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/phpswitch/phpswitch/src/internal/shell"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

// ErrNoActiveInstallation is returned when no php binary is linked
var ErrNoActiveInstallation = errors.New("no PHP installation is linked")

var phpVersionPattern = regexp.MustCompile(`^PHP (\d+\.\d+\.\d+)(\S*)`)

// ActiveInstallation is a read-only view of the currently linked PHP.
// A snapshot is never updated; read a new one after anything that may relink PHP.
type ActiveInstallation struct {
	Binary   string
	Long     string   // Full version as reported (e.g., "8.2.4")
	Short    string   // major.minor (e.g., "8.2")
	IniFiles []string // Loaded php.ini first, then additional scanned files
}

// ReadActive inspects the linked php binary and returns a fresh snapshot
func ReadActive(ctx context.Context, exec shell.Executor, phpBinary string) (*ActiveInstallation, error) {
	if !exec.FileExists(phpBinary) {
		return nil, ErrNoActiveInstallation
	}

	out, err := exec.Pipe(ctx, phpBinary, "-v")
	if err != nil {
		return nil, err
	}

	long, err := ParsePhpVersionOutput(out.Stdout)
	if err != nil {
		return nil, &shell.ShellError{Command: shell.CommandLine(phpBinary, "-v"), Err: err}
	}

	active := &ActiveInstallation{
		Binary: phpBinary,
		Long:   long,
		Short:  ShortVersion(long),
	}

	// The ini listing is informative only; a failure here leaves the list empty
	if iniOut, err := exec.Pipe(ctx, phpBinary, "--ini"); err == nil {
		active.IniFiles = ParseIniOutput(iniOut.Stdout)
	} else {
		ui.Debug("Could not list ini files for %s: %v", phpBinary, err)
	}

	return active, nil
}

// ParsePhpVersionOutput extracts the version from `php -v` output,
// e.g. "PHP 8.2.4 (cli) (built: Mar 16 2023 16:37:55) (NTS)" yields "8.2.4"
func ParsePhpVersionOutput(output string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		matches := phpVersionPattern.FindStringSubmatch(strings.TrimSpace(line))
		if len(matches) >= 3 {
			return matches[1] + matches[2], nil
		}
	}
	return "", fmt.Errorf("unrecognized php -v output: %q", firstLine(output))
}

// ParseIniOutput extracts ini file paths from `php --ini` output
func ParseIniOutput(output string) []string {
	var files []string
	inAdditional := false

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, "Loaded Configuration File:"):
			inAdditional = false
			if path := strings.TrimSpace(strings.TrimPrefix(line, "Loaded Configuration File:")); path != "" && path != "(none)" {
				files = append(files, path)
			}
		case strings.HasPrefix(line, "Additional .ini files parsed:"):
			inAdditional = true
			files = append(files, splitIniList(strings.TrimPrefix(line, "Additional .ini files parsed:"))...)
		case strings.HasSuffix(line, ":") || strings.Contains(line, "Path:") || strings.Contains(line, "Scan for"):
			inAdditional = false
		case inAdditional:
			files = append(files, splitIniList(line)...)
		}
	}

	return files
}

func splitIniList(s string) []string {
	var files []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" && part != "(none)" {
			files = append(files, part)
		}
	}
	return files
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
