package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phpswitch/phpswitch/src/internal/constants"
)

// promptInput is where answers are read from; replaced in tests
var promptInput io.Reader = os.Stdin

// Confirm asks a yes/no question; an empty answer counts as yes.
// Closed input with nothing typed counts as no.
func Confirm(format string, args ...interface{}) bool {
	fmt.Printf("%s [Y/n]: ", fmt.Sprintf(format, args...))

	reader := bufio.NewReader(promptInput)
	response, err := reader.ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	if err != nil && response == "" {
		return false
	}

	return response == "" || response == constants.ResponseY || response == constants.ResponseYes
}

// PromptInstall asks whether a missing PHP version should be installed
func PromptInstall(version string) bool {
	return Confirm("PHP %s is not installed. Install it now?", version)
}
