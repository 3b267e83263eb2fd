package switcher

import (
	"errors"
	"fmt"
)

// ErrNotInstalled is returned when switching to a version the registry did not detect
var ErrNotInstalled = errors.New("PHP version is not installed")

// ValidationError reports that the linked PHP differs from the requested version
// even though every brew command succeeded
type ValidationError struct {
	Requested string
	Active    string
}

func (e *ValidationError) Error() string {
	if e.Active == "" {
		return fmt.Sprintf("switched to PHP %s, but no PHP binary is linked afterwards", e.Requested)
	}
	return fmt.Sprintf("switched to PHP %s, but the linked PHP reports %s", e.Requested, e.Active)
}
