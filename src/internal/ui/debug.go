package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// verboseMode controls whether Debug output is written
var verboseMode bool

var (
	debugLogger     *log.Logger
	debugLoggerOnce sync.Once
)

func logger() *log.Logger {
	debugLoggerOnce.Do(func() {
		debugLogger = log.NewWithOptions(os.Stderr, log.Options{
			Level:           log.DebugLevel,
			ReportTimestamp: true,
			Prefix:          debugSymbol,
		})
	})
	return debugLogger
}

// SetVerbose enables or disables debug output
func SetVerbose(enabled bool) {
	verboseMode = enabled
}

// IsVerbose reports whether debug output is enabled
func IsVerbose() bool {
	return verboseMode
}

// CheckVerboseEnv enables verbose mode when PHPSWITCH_VERBOSE is set to 1 or true
func CheckVerboseEnv() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PHPSWITCH_VERBOSE"))) {
	case "1", "true", "yes":
		verboseMode = true
	}
}

// SetDebugOutput redirects debug output, mostly useful in tests
func SetDebugOutput(w io.Writer) {
	logger().SetOutput(w)
}

// Debug logs a formatted message when verbose mode is on
func Debug(format string, args ...interface{}) {
	if !verboseMode {
		return
	}
	logger().Debug(fmt.Sprintf(format, args...))
}

// DebugKV logs a message with key/value pairs when verbose mode is on
func DebugKV(msg string, keyvals ...interface{}) {
	if !verboseMode {
		return
	}
	logger().Debug(msg, keyvals...)
}
