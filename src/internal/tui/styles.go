// Package tui renders the boxed tables and styled versions shown by phpswitch commands
package tui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette (256-color codes)
const (
	colorPrimary = lipgloss.Color("39")  // Cyan
	colorVersion = lipgloss.Color("213") // Magenta
	colorLinked  = lipgloss.Color("42")  // Green
	colorWarning = lipgloss.Color("214") // Orange
	colorBroken  = lipgloss.Color("196") // Red
	colorMuted   = lipgloss.Color("245") // Gray
)

// Styles are built on first use; lipgloss queries the terminal when a style is created
var (
	initOnce sync.Once

	StyleTitle   lipgloss.Style
	StyleFormula lipgloss.Style
	StyleVersion lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleInfoBox lipgloss.Style

	styleHeader lipgloss.Style
	styleCell   lipgloss.Style
	styleBorder lipgloss.Style

	// Bullet prefixes list items such as loaded ini files
	Bullet string
)

func initStyles() {
	initOnce.Do(func() {
		// Skip the slow terminal capability query; see charmbracelet/lipgloss#86
		lipgloss.SetColorProfile(termenv.TrueColor)

		StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginBottom(1)
		StyleFormula = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
		StyleVersion = lipgloss.NewStyle().Bold(true).Foreground(colorVersion)
		StyleMuted = lipgloss.NewStyle().Foreground(colorMuted)
		StyleInfoBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

		styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
		styleCell = lipgloss.NewStyle()
		styleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

		Bullet = StyleMuted.Render("•")
	})
}

// RenderTitle renders a styled title
func RenderTitle(text string) string {
	initStyles()
	return StyleTitle.Render(text)
}

// RenderFormula renders a Homebrew formula name
func RenderFormula(name string) string {
	initStyles()
	return StyleFormula.Render(name)
}

// RenderVersion renders a version string
func RenderVersion(version string) string {
	initStyles()
	return StyleVersion.Render(version)
}

// RenderMuted renders text in a dim style
func RenderMuted(text string) string {
	initStyles()
	return StyleMuted.Render(text)
}

// RenderInfoBox renders content in a rounded box
func RenderInfoBox(content string) string {
	initStyles()
	return StyleInfoBox.Render(content)
}

// Status describes the state of one installation in a listing
type Status int

const (
	StatusNone Status = iota
	StatusLinked
	StatusMissingBinary
	StatusNotExecutable
)

// RenderStatus renders the status column of the installation table
func RenderStatus(s Status) string {
	initStyles()
	switch s {
	case StatusLinked:
		return lipgloss.NewStyle().Foreground(colorLinked).Render("✓ linked")
	case StatusMissingBinary:
		return lipgloss.NewStyle().Foreground(colorBroken).Render("✗ binary missing")
	case StatusNotExecutable:
		return lipgloss.NewStyle().Foreground(colorWarning).Render("⚠ not executable")
	}
	return ""
}
