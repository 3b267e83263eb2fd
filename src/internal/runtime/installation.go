package runtime

import "fmt"

// Installation is a PHP version discovered under the Homebrew opt directory.
// Values are replaced wholesale on every detection pass, never mutated.
type Installation struct {
	Version    string // Short version (e.g., "8.2")
	Formula    string // Formula that owns the install ("php@8.2" or "php" for the alias)
	Path       string // Opt directory (e.g., /opt/homebrew/opt/php@8.2)
	Binary     string // The php binary inside Path
	Valid      bool   // Binary is present
	Executable bool   // Binary can be executed by the current user
	IsAlias    bool   // Discovered through the generic php formula
}

// String returns a formatted string representation
func (i Installation) String() string {
	marker := ""
	if i.IsAlias {
		marker = " (php)"
	}
	return fmt.Sprintf("%s%s %s", i.Version, marker, i.Path)
}
