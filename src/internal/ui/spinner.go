package ui

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Spinner animates on stderr while a short blocking step runs. When stderr is
// not a terminal it stays silent and only the outcome is printed.
type Spinner struct {
	spinner *spinner.Spinner
}

// NewSpinner creates a spinner with a message; it does not start it
func NewSpinner(message string) *Spinner {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return &Spinner{}
	}

	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithColor("cyan"),
		spinner.WithSuffix(" "+message),
		spinner.WithWriter(os.Stderr),
	)
	return &Spinner{spinner: s}
}

// Start begins the animation
func (s *Spinner) Start() {
	if s.spinner != nil {
		s.spinner.Start()
	}
}

// Stop ends the animation and clears the line
func (s *Spinner) Stop() {
	if s.spinner != nil {
		s.spinner.Stop()
	}
}

// WithSpinner runs fn behind a spinner and reports its outcome
func WithSpinner(message string, fn func() error) error {
	s := NewSpinner(message)
	s.Start()
	err := fn()
	s.Stop()

	if err != nil {
		Error("%s failed", message)
		return err
	}
	Success("%s", message)
	return nil
}
