// Package styles provides the colour palette and lipgloss styles for
// the interview TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette colours.
var (
	primary    = lipgloss.Color("#7C3AED") // Purple
	secondary  = lipgloss.Color("#06B6D4") // Cyan
	foreground = lipgloss.Color("#CDD6F4") // Light gray
	muted      = lipgloss.Color("#6C7086") // Medium gray
	success    = lipgloss.Color("#A6E3A1") // Green
	warning    = lipgloss.Color("#F9E2AF") // Yellow
	errColour  = lipgloss.Color("#F38BA8") // Red
	border     = lipgloss.Color("#45475A") // Border gray
)

// Styles contains pre-configured lipgloss styles for the TUI.
type Styles struct {
	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Selected style for highlighted list items.
	Selected lipgloss.Style

	// Question style for the current interview question.
	Question lipgloss.Style

	// FollowUp style for generated follow-up prompts.
	FollowUp lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style

	// Warning style for rejected-answer feedback.
	Warning lipgloss.Style

	// InputField style for the answer input area.
	InputField lipgloss.Style

	// Help style for key hints.
	Help lipgloss.Style
}

// DefaultStyles returns the default style set.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(secondary),

		Normal: lipgloss.NewStyle().
			Foreground(foreground),

		Muted: lipgloss.NewStyle().
			Foreground(muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(foreground).
			Background(primary),

		Question: lipgloss.NewStyle().
			Bold(true).
			Foreground(foreground),

		FollowUp: lipgloss.NewStyle().
			Foreground(secondary),

		Error: lipgloss.NewStyle().
			Foreground(errColour),

		Success: lipgloss.NewStyle().
			Foreground(success),

		Warning: lipgloss.NewStyle().
			Foreground(warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(muted),
	}
}
