package styles

import "github.com/charmbracelet/lipgloss"

// Slack brand palette
const (
	// Base colors
	Aubergine  = "#4A154B"
	Foreground = "#F8F8F8"

	// Accent colors
	Red    = "#E01E5A" // Errors, removed lines
	Yellow = "#ECB22E" // Warnings, highlights
	Green  = "#2EB67D" // Success
	Blue   = "#36C5F0" // Info, links
	Pink   = "#D67BA8" // Titles

	// UI colors
	Comment = "#868686" // Dim text, help
	Border  = "#616061" // Borders, separators
)

// Common styles
var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Pink))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Blue)).Bold(true)
	SpinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Pink))
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))

	// Preview tabs
	TabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color(Comment))

	ActiveTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(lipgloss.Color(Foreground)).
			Background(lipgloss.Color(Aubergine))

	PaneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border))
)
