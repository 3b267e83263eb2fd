// Package constants defines the Homebrew names and shared literals used across phpswitch
package constants

// Homebrew installation prefixes
const (
	BrewPrefixARM   = "/opt/homebrew"
	BrewPrefixIntel = "/usr/local"
)

// PHP formula naming
const (
	// PhpFormula is the generic alias formula that tracks the latest PHP release
	PhpFormula = "php"

	// PhpFormulaPrefix prefixes every versioned formula and opt directory (php@8.2)
	PhpFormulaPrefix = "php@"

	// PhpTap is the third-party tap that carries PHP versions Homebrew core dropped
	PhpTap = "shivammathur/php"
)

// Environment overrides applied to every `brew install`
const (
	EnvNoInstallUpgrade = "HOMEBREW_NO_INSTALL_UPGRADE=true"
	EnvNoInstallCleanup = "HOMEBREW_NO_INSTALL_CLEANUP=true"
)

// ArchARM64 is the GOARCH of Apple Silicon, where Homebrew lives under BrewPrefixARM
const ArchARM64 = "arm64"

// Shells whose rc files `helpers --add-to-path` knows how to edit
const (
	ShellBash = "bash"
	ShellZsh  = "zsh"
	ShellFish = "fish"
)

// Accepted answers to a yes/no prompt, besides an empty line
const (
	ResponseY   = "y"
	ResponseYes = "yes"
)
