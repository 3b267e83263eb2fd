package ui

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar renders fractional completion (0..1) of a long-running operation
type ProgressBar struct {
	bar     *progressbar.ProgressBar
	current int
}

// NewProgressBar creates a progress bar with a title
func NewProgressBar(title string) *ProgressBar {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(title),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	return &ProgressBar{bar: bar}
}

// Update moves the bar to value (0..1) and replaces its description
func (p *ProgressBar) Update(value float64, description string) {
	percent := int(value * 100)
	if percent > 100 {
		percent = 100
	}
	if percent < p.current {
		percent = p.current
	}
	p.current = percent

	if description != "" {
		p.bar.Describe(description)
	}
	_ = p.bar.Set(percent)
}

// Finish completes the bar
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
	fmt.Fprintln(os.Stderr)
}

// Abort stops the bar without completing it
func (p *ProgressBar) Abort() {
	_ = p.bar.Exit()
	fmt.Fprintln(os.Stderr)
}
