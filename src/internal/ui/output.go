// Package ui provides colored console output, spinners, progress bars and
// debug logging for the phpswitch CLI
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Results go to stdout. Warnings and errors go to stderr so that the output of
// `phpswitch env` stays safe to eval.
var (
	stdout io.Writer = color.Output
	stderr io.Writer = color.Error
)

const debugSymbol = "•"

// messageKind pairs a color and symbol with the stream it is written to
type messageKind struct {
	color  *color.Color
	symbol string
	toErr  bool
}

var (
	kindSuccess = messageKind{color.New(color.FgGreen, color.Bold), "✓", false}
	kindInfo    = messageKind{color.New(color.FgCyan), "→", false}
	kindWarning = messageKind{color.New(color.FgYellow, color.Bold), "⚠", true}
	kindError   = messageKind{color.New(color.FgRed, color.Bold), "✗", true}
)

// SetOutput redirects stdout and stderr messages; nil keeps the current writer
func SetOutput(out, errOut io.Writer) {
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

func (k messageKind) print(format string, args ...interface{}) {
	w := stdout
	if k.toErr {
		w = stderr
	}
	_, _ = k.color.Fprintf(w, "%s %s\n", k.symbol, fmt.Sprintf(format, args...))
}

// Success reports a completed step
func Success(format string, args ...interface{}) { kindSuccess.print(format, args...) }

// Info prints a hint or neutral status line
func Info(format string, args ...interface{}) { kindInfo.print(format, args...) }

// Warning reports something the user should look at; the command continues
func Warning(format string, args ...interface{}) { kindWarning.print(format, args...) }

// Error reports a failed command
func Error(format string, args ...interface{}) { kindError.print(format, args...) }

// Header prints a bold section heading
func Header(format string, args ...interface{}) {
	_, _ = color.New(color.Bold).Fprintln(stdout, fmt.Sprintf(format, args...))
}

// Highlight emphasizes paths and commands inside a message
func Highlight(text string) string {
	return color.New(color.FgCyan, color.Bold).Sprint(text)
}

// HighlightVersion emphasizes a PHP version inside a message
func HighlightVersion(version string) string {
	return color.New(color.FgMagenta, color.Bold).Sprint(version)
}
