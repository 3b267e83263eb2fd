// Package config manages phpswitch configuration including Homebrew paths and settings
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/adrg/xdg"

	"github.com/phpswitch/phpswitch/src/internal/constants"
)

// Paths holds all important Homebrew and phpswitch paths
type Paths struct {
	BrewPrefix string // Homebrew prefix (/opt/homebrew or /usr/local)
	Opt        string // Per-formula opt links (<prefix>/opt)
	Bin        string // Linked executables (<prefix>/bin)
	Brew       string // The brew executable (<prefix>/bin/brew)
	Php        string // The linked php executable (<prefix>/bin/php)
	Root       string // Root phpswitch directory (~/.config/phpswitch)
	Helpers    string // Helper scripts directory (~/.config/phpswitch/bin)
	Config     string // Settings file (~/.config/phpswitch/config.json)
	Lock       string // Busy lock file (~/.config/phpswitch/phpswitch.lock)
	AliasCache string // Cached php alias lookup (~/.config/phpswitch/alias.cache.json)
}

var (
	defaultPaths *Paths
	pathsOnce    sync.Once
)

// DefaultPaths returns the default paths.
// This function is thread-safe and guarantees single initialization.
func DefaultPaths() *Paths {
	pathsOnce.Do(func() {
		defaultPaths = NewPaths(getBrewPrefix(), getRootDir())
	})
	return defaultPaths
}

// NewPaths derives all paths from a Homebrew prefix and a phpswitch root
func NewPaths(brewPrefix, root string) *Paths {
	return &Paths{
		BrewPrefix: brewPrefix,
		Opt:        filepath.Join(brewPrefix, "opt"),
		Bin:        filepath.Join(brewPrefix, "bin"),
		Brew:       filepath.Join(brewPrefix, "bin", "brew"),
		Php:        filepath.Join(brewPrefix, "bin", "php"),
		Root:       root,
		Helpers:    filepath.Join(root, "bin"),
		Config:     filepath.Join(root, ConfigFileName),
		Lock:       filepath.Join(root, LockFileName),
		AliasCache: filepath.Join(root, AliasCacheFileName),
	}
}

// getBrewPrefix returns the Homebrew prefix for this machine
func getBrewPrefix() string {
	if prefix := os.Getenv("PHPSWITCH_BREW_PREFIX"); prefix != "" {
		return prefix
	}

	// Apple Silicon installs live under /opt/homebrew, Intel under /usr/local
	if runtime.GOARCH == constants.ArchARM64 {
		return constants.BrewPrefixARM
	}
	if _, err := os.Stat(filepath.Join(constants.BrewPrefixARM, "bin", "brew")); err == nil {
		return constants.BrewPrefixARM
	}
	return constants.BrewPrefixIntel
}

// getRootDir returns the root phpswitch directory
func getRootDir() string {
	if root := os.Getenv("PHPSWITCH_ROOT"); root != "" {
		return root
	}

	return filepath.Join(xdg.ConfigHome, "phpswitch")
}

// FormulaPath returns the opt directory of a formula (e.g. <prefix>/opt/php@8.2)
func (p *Paths) FormulaPath(formula string) string {
	return filepath.Join(p.Opt, formula)
}

// FormulaBinary returns the php binary inside a formula's opt directory
func (p *Paths) FormulaBinary(formula string) string {
	return filepath.Join(p.FormulaPath(formula), "bin", "php")
}

// EnsureDirectories creates the phpswitch directories
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Root, p.Helpers} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// ConfigFileName is the name of the settings file
const ConfigFileName = "config.json"

// LockFileName is the name of the file guarding concurrent switches
const LockFileName = "phpswitch.lock"

// AliasCacheFileName is the name of the cached `brew info php` result
const AliasCacheFileName = "alias.cache.json"

// ResetPathsCache resets the cached paths, forcing reinitialization on next access.
// This is primarily useful for testing.
func ResetPathsCache() {
	pathsOnce = sync.Once{}
	defaultPaths = nil
}
