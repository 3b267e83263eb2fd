// Package valet detects the installed Laravel Valet release line
package valet

import (
	"context"
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/phpswitch/phpswitch/src/internal/shell"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

// DefaultMajor is assumed when Valet cannot be detected
const DefaultMajor = 4

var valetVersionPattern = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

// ParseVersionOutput extracts the version from `valet --version`,
// e.g. "Laravel Valet 3.3.2"
func ParseVersionOutput(output string) (*semver.Version, bool) {
	match := valetVersionPattern.FindString(output)
	if match == "" {
		return nil, false
	}
	v, err := semver.NewVersion(match)
	if err != nil {
		return nil, false
	}
	return v, true
}

// DetectMajor returns the major version of the valet executable, or fallback
// when valet is missing or its output cannot be read
func DetectMajor(ctx context.Context, exec shell.Executor, valetBinary string, fallback int) int {
	out, err := exec.Pipe(ctx, valetBinary, "--version")
	if err != nil {
		ui.Debug("Valet not detected, assuming Valet %d: %v", fallback, err)
		return fallback
	}

	v, ok := ParseVersionOutput(out.Stdout)
	if !ok {
		ui.Debug("Unrecognized valet --version output %q, assuming Valet %d", out.Stdout, fallback)
		return fallback
	}

	ui.Debug("Detected Laravel Valet %s", v.Original())
	return int(v.Major())
}
