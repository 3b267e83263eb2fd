package homebrew

import "strings"

// Milestone maps recognizable `brew install` output to a completion fraction.
//
// Matching on brew's human-readable output is inherently brittle: when
// Homebrew rewords these lines, installs still work but report less progress.
type Milestone struct {
	Substrings []string // Case-sensitive; any one of them matches
	Value      float64
	Label      string // Replaces the line in progress reports; empty keeps the line
}

// installMilestones is checked in order, the first match wins
var installMilestones = []Milestone{
	{Substrings: []string{"Fetching"}, Value: 0.10},
	{Substrings: []string{"Downloading"}, Value: 0.25},
	{Substrings: []string{"Already downloaded", "Downloaded"}, Value: 0.50, Label: "Downloaded!"},
	{Substrings: []string{"Installing"}, Value: 0.60, Label: "Installing..."},
	{Substrings: []string{"Pouring"}, Value: 0.80, Label: "Pouring..."},
	{Substrings: []string{"Summary"}, Value: 0.90, Label: "The installation is done!"},
}

// MatchMilestone returns the progress value and description for an output
// line, or ok=false when the line is not a known milestone
func MatchMilestone(line string) (value float64, description string, ok bool) {
	for _, m := range installMilestones {
		for _, sub := range m.Substrings {
			if strings.Contains(line, sub) {
				if m.Label != "" {
					return m.Value, m.Label, true
				}
				return m.Value, line, true
			}
		}
	}
	return 0, "", false
}
