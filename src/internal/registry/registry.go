// Package registry discovers the PHP versions installed through Homebrew.
//
// Each detection pass rebuilds the complete state and publishes it with a
// single atomic swap, so readers never observe a half-updated map.
package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/lo"

	"github.com/phpswitch/phpswitch/src/internal/constants"
	"github.com/phpswitch/phpswitch/src/internal/homebrew"
	"github.com/phpswitch/phpswitch/src/internal/runtime"
	"github.com/phpswitch/phpswitch/src/internal/shell"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

// HelperWriter regenerates helper scripts for detected installations
type HelperWriter interface {
	GenerateAll(installations []runtime.Installation) error
}

// AliasResolver looks up the version behind the generic php formula
type AliasResolver interface {
	AliasInfo(ctx context.Context) (*homebrew.AliasInfo, error)
}

// AliasRefresher is implemented by resolvers that cache; RefreshAlias uses it to bypass the cache
type AliasRefresher interface {
	Refresh(ctx context.Context) (*homebrew.AliasInfo, error)
}

// Options controls a detection pass
type Options struct {
	ValetMajor      int
	CheckBinaries   bool
	GenerateHelpers bool
	Helpers         HelperWriter // Required when GenerateHelpers is set
}

type state struct {
	versions      []string
	installations map[string]runtime.Installation
	unsupported   []string
}

// Registry holds the result of the last detection pass
type Registry struct {
	exec  shell.Executor
	brew  AliasResolver
	opt   string
	opts  Options
	state atomic.Pointer[state]
	alias atomic.Pointer[homebrew.AliasInfo]
}

// New creates a registry scanning optDir (e.g. /opt/homebrew/opt)
func New(exec shell.Executor, brew AliasResolver, optDir string, opts Options) *Registry {
	r := &Registry{
		exec: exec,
		brew: brew,
		opt:  optDir,
		opts: opts,
	}
	r.state.Store(&state{installations: map[string]runtime.Installation{}})
	return r
}

// ValetMajor returns the Valet release line used to filter versions
func (r *Registry) ValetMajor() int {
	return r.opts.ValetMajor
}

// Detect scans the opt directory and returns the installed, supported versions
// in directory order, with the alias version appended when it is not already listed
// and the detected Valet release supports it.
// A brew failure leaves the previous state untouched.
func (r *Registry) Detect(ctx context.Context) ([]string, error) {
	entries, err := r.exec.ReadDir(r.opt)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", r.opt, err)
		}
		ui.Debug("Homebrew opt directory %s does not exist", r.opt)
		r.state.Store(&state{installations: map[string]runtime.Installation{}})
		return []string{}, nil
	}

	var checkBinary func(version string) bool
	if r.opts.CheckBinaries {
		checkBinary = func(version string) bool {
			return r.exec.FileExists(r.binaryPath(homebrew.VersionedFormula(version)))
		}
	}

	versions, unsupported := ExtractVersions(entries, runtime.SupportedVersions(r.opts.ValetMajor), checkBinary)

	alias, err := r.aliasInfo(ctx)
	if err != nil {
		return nil, err
	}

	aliasAdded := false
	if !lo.Contains(versions, alias.Version) && r.exec.FileExists(r.binaryPath(constants.PhpFormula)) {
		if runtime.IsSupported(r.opts.ValetMajor, alias.Version) {
			versions = append(versions, alias.Version)
			aliasAdded = true
		} else if !lo.Contains(unsupported, alias.Version) {
			unsupported = append(unsupported, alias.Version)
		}
	}

	installations := make(map[string]runtime.Installation, len(versions))
	ordered := make([]runtime.Installation, 0, len(versions))
	for i, version := range versions {
		formula := homebrew.VersionedFormula(version)
		if aliasAdded && i == len(versions)-1 {
			formula = constants.PhpFormula
		}
		inst := r.installation(version, formula)
		installations[version] = inst
		ordered = append(ordered, inst)
	}

	if r.opts.GenerateHelpers && r.opts.Helpers != nil {
		if err := r.opts.Helpers.GenerateAll(ordered); err != nil {
			ui.Warning("Could not generate helper scripts: %v", err)
		}
	}

	ui.Debug("The PHP versions that were detected are: %v", versions)
	if len(unsupported) > 0 {
		ui.Debug("Installed but not supported with Valet %d: %v", r.opts.ValetMajor, unsupported)
	}

	r.state.Store(&state{
		versions:      versions,
		installations: installations,
		unsupported:   unsupported,
	})

	return append([]string{}, versions...), nil
}

// ExtractVersions turns opt directory entries into versions. Only entries named
// php@<version> count; duplicates keep their first position. When checkBinary is
// non-nil, versions whose binary is missing are dropped. Installed versions outside
// supported are returned separately.
func ExtractVersions(entries, supported []string, checkBinary func(version string) bool) (versions, unsupported []string) {
	versions = []string{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if !strings.HasPrefix(entry, constants.PhpFormulaPrefix) {
			continue
		}

		version := strings.TrimPrefix(entry, constants.PhpFormulaPrefix)
		if version == "" || lo.Contains(versions, version) || lo.Contains(unsupported, version) {
			continue
		}
		if checkBinary != nil && !checkBinary(version) {
			continue
		}
		if !lo.Contains(supported, version) {
			unsupported = append(unsupported, version)
			continue
		}
		versions = append(versions, version)
	}
	return versions, unsupported
}

func (r *Registry) installation(version, formula string) runtime.Installation {
	binary := r.binaryPath(formula)
	return runtime.Installation{
		Version:    version,
		Formula:    formula,
		Path:       filepath.Join(r.opt, formula),
		Binary:     binary,
		Valid:      r.exec.FileExists(binary),
		Executable: r.exec.IsExecutable(binary),
		IsAlias:    formula == constants.PhpFormula,
	}
}

func (r *Registry) binaryPath(formula string) string {
	return filepath.Join(r.opt, formula, "bin", "php")
}

// aliasInfo returns the cached alias, fetching it on first use
func (r *Registry) aliasInfo(ctx context.Context) (*homebrew.AliasInfo, error) {
	if alias := r.alias.Load(); alias != nil {
		return alias, nil
	}
	return r.storeAlias(r.brew.AliasInfo(ctx))
}

// RefreshAlias queries brew again for the version behind the php formula,
// bypassing any cache the resolver keeps
func (r *Registry) RefreshAlias(ctx context.Context) (*homebrew.AliasInfo, error) {
	if refresher, ok := r.brew.(AliasRefresher); ok {
		return r.storeAlias(refresher.Refresh(ctx))
	}
	return r.storeAlias(r.brew.AliasInfo(ctx))
}

func (r *Registry) storeAlias(alias *homebrew.AliasInfo, err error) (*homebrew.AliasInfo, error) {
	if err != nil {
		return nil, err
	}
	r.alias.Store(alias)
	return alias, nil
}

// Alias returns the cached alias info, or nil if it was never fetched
func (r *Registry) Alias() *homebrew.AliasInfo {
	return r.alias.Load()
}

// Versions returns the versions found by the last detection pass
func (r *Registry) Versions() []string {
	return append([]string{}, r.state.Load().versions...)
}

// Unsupported returns installed versions the last pass excluded for the Valet line
func (r *Registry) Unsupported() []string {
	return append([]string{}, r.state.Load().unsupported...)
}

// Installation returns the installation for a version from the last pass
func (r *Registry) Installation(version string) (runtime.Installation, bool) {
	inst, ok := r.state.Load().installations[version]
	return inst, ok
}

// Installations returns all installations from the last pass, in detection order
func (r *Registry) Installations() []runtime.Installation {
	s := r.state.Load()
	return lo.Map(s.versions, func(v string, _ int) runtime.Installation {
		return s.installations[v]
	})
}

// ValidVersions returns the detected versions satisfying a composer-style
// constraint such as "^8.0 || ~7.4" (a single | also separates alternatives)
func (r *Registry) ValidVersions(constraint string) ([]string, error) {
	c, err := ParseConstraint(constraint)
	if err != nil {
		return nil, err
	}

	matching := lo.Filter(r.Versions(), func(version string, _ int) bool {
		v, err := semver.NewVersion(version)
		return err == nil && c.Check(v)
	})
	return lo.Uniq(matching), nil
}

// ParseConstraint parses a composer-style PHP constraint
func ParseConstraint(constraint string) (*semver.Constraints, error) {
	alternatives := lo.FilterMap(strings.Split(constraint, "|"), func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		return part, part != ""
	})
	if len(alternatives) == 0 {
		return nil, fmt.Errorf("empty version constraint")
	}

	for i, alt := range alternatives {
		alternatives[i] = composerTilde.ReplaceAllStringFunc(alt, expandTilde)
	}

	c, err := semver.NewConstraint(strings.Join(alternatives, " || "))
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	return c, nil
}

// composerTilde matches a tilde range such as ~8.0 or ~v7.4.1
var composerTilde = regexp.MustCompile(`~\s*v?(\d+)(\.\d+)?(\.[\dxX*]+)?`)

// expandTilde rewrites ~X.Y to >=X.Y <X+1.0, which is what composer means by it.
// Other tilde forms already agree between composer and semver.
func expandTilde(match string) string {
	groups := composerTilde.FindStringSubmatch(match)
	if groups[2] == "" || groups[3] != "" {
		return match
	}
	major, err := strconv.Atoi(groups[1])
	if err != nil {
		return match
	}
	return fmt.Sprintf(">=%s%s <%d.0", groups[1], groups[2], major+1)
}
