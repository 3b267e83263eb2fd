package homebrew

import (
	"errors"
	"strings"
	"time"

	"github.com/phpswitch/phpswitch/src/internal/constants"
	"github.com/phpswitch/phpswitch/src/internal/runtime"
)

// ErrNoAlias is returned when brew info does not reveal the php alias version
var ErrNoAlias = errors.New("could not determine which version the php formula points to")

// Package is one record of `brew info --json` output
type Package struct {
	Name      string             `json:"name"`
	FullName  string             `json:"full_name"`
	Tap       string             `json:"tap"`
	Aliases   []string           `json:"aliases"`
	LinkedKeg string             `json:"linked_keg"`
	Versions  PackageVersions    `json:"versions"`
	Installed []InstalledVersion `json:"installed"`
}

// PackageVersions holds the versions a formula offers
type PackageVersions struct {
	Stable string `json:"stable"`
	Head   string `json:"head"`
}

// InstalledVersion is one installed keg of a formula
type InstalledVersion struct {
	Version string `json:"version"`
}

// AliasVersion returns the short PHP version the package stands for.
// The generic php formula lists its versioned alias first (php@8.3);
// the stable version is used when no such alias exists.
func (p *Package) AliasVersion() string {
	for _, alias := range p.Aliases {
		if strings.HasPrefix(alias, constants.PhpFormulaPrefix) {
			return strings.TrimPrefix(alias, constants.PhpFormulaPrefix)
		}
	}
	if p.Versions.Stable != "" {
		return runtime.ShortVersion(p.Versions.Stable)
	}
	return ""
}

// AliasInfo records which PHP version the generic php formula resolves to
type AliasInfo struct {
	Version   string // Short version (e.g., "8.3")
	Formula   string
	Stable    string // Full stable version (e.g., "8.3.4")
	LinkedKeg string
	FetchedAt time.Time
}

// FormulaVersion extracts the PHP version from a formula name:
// "php@8.2" and "shivammathur/php/php@5.6" yield "8.2" and "5.6",
// the bare "php" alias yields "".
func FormulaVersion(formula string) string {
	name := formula
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if !strings.HasPrefix(name, constants.PhpFormulaPrefix) {
		return ""
	}
	return strings.TrimPrefix(name, constants.PhpFormulaPrefix)
}

// IsPhpFormula reports whether formula names PHP at all
func IsPhpFormula(formula string) bool {
	name := formula
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return name == constants.PhpFormula || strings.HasPrefix(name, constants.PhpFormulaPrefix)
}

// RequiredTap returns the tap a formula comes from, or "" for core formulae
func RequiredTap(formula string) string {
	if strings.HasPrefix(formula, constants.PhpTap+"/") {
		return constants.PhpTap
	}
	return ""
}

// VersionedFormula returns the formula for a PHP version (8.2 → php@8.2)
func VersionedFormula(version string) string {
	return constants.PhpFormulaPrefix + version
}
