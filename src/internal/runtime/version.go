// Package runtime models PHP versions, their Homebrew installations and the
// matrix of versions supported by each Valet release line
package runtime

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version represents a PHP version
type Version struct {
	Raw   string // The raw version string (e.g., "8.2", "8.2.4")
	Major int
	Minor int
	Patch int
}

// NewVersion parses a version string such as "8.2" or "8.2.4".
// Unparseable input keeps only the raw string.
func NewVersion(version string) Version {
	v, err := ParseVersion(version)
	if err != nil {
		return Version{Raw: version}
	}
	return v
}

// ParseVersion parses a version string, returning an error for invalid input
func ParseVersion(version string) (Version, error) {
	trimmed := strings.TrimSpace(version)
	sv, err := semver.NewVersion(normalizePrerelease(trimmed))
	if err != nil {
		return Version{Raw: version}, fmt.Errorf("invalid PHP version %q: %w", version, err)
	}

	return Version{
		Raw:   trimmed,
		Major: int(sv.Major()),
		Minor: int(sv.Minor()),
		Patch: int(sv.Patch()),
	}, nil
}

// PHP writes pre-releases without a separator (8.4.0RC1); semver needs 8.4.0-RC1
var prereleasePattern = regexp.MustCompile(`^(\d+(?:\.\d+){0,2})([A-Za-z].*)$`)

func normalizePrerelease(version string) string {
	return prereleasePattern.ReplaceAllString(version, "$1-$2")
}

// String returns the string representation of the version
func (v Version) String() string {
	return v.Raw
}

// Short returns the major.minor form used for formulas (e.g., "8.2")
func (v Version) Short() string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return v.Raw
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ShortVersion converts any version string to its major.minor form
func ShortVersion(version string) string {
	return NewVersion(version).Short()
}
