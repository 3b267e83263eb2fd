package runtime

import (
	"fmt"
	"strings"
)

// UnsupportedVersionError reports a PHP version outside the supported matrix.
// It is returned before any subprocess is started.
type UnsupportedVersionError struct {
	Version    string
	ValetMajor int
}

func (e *UnsupportedVersionError) Error() string {
	supported := SupportedVersions(e.ValetMajor)
	if len(supported) == 0 {
		return fmt.Sprintf("PHP %s is not supported: Valet %d is not a known release line", e.Version, e.ValetMajor)
	}
	return fmt.Sprintf("PHP %s is not supported with Valet %d (supported: %s)",
		e.Version, e.ValetMajor, strings.Join(supported, ", "))
}
