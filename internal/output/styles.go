package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette — named constants for all ANSI 256 colors used in the CLI.
// These are the single source of truth; never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: bundle names and paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "loaded" bundle state.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "loading" bundle state.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for the "failed" bundle state (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark (✔).
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorBlue is used for headers and the focused pane.
	ColorBlue = lipgloss.Color("12")
)

// Semantic styles — map domain concepts to visual presentation.
var (
	// StyleNoun styles identifiable nouns (bundle names, paths).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (prefixes, separators, hints).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Bundle state names shared by the TUI and the scan report.
const (
	StateLoading = "loading"
	StateLoaded  = "loaded"
	StateFailed  = "failed"
)

// StateStyle returns the lipgloss style for a bundle state string.
// Unknown states return an unstyled default.
func StateStyle(state string) lipgloss.Style {
	switch state {
	case StateLoading:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StateLoaded:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StateFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
