package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ErrorStyle renders the persistent error banner.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// EmptyStyle renders the all-caught-up placeholder.
var EmptyStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true).
	Padding(1, 2)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// UnreadMarkerStyle highlights threads not yet read.
var UnreadMarkerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// ReasonStyle returns a color-coded style for a notification reason.
func ReasonStyle(reason string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch reason {
	case "review_requested":
		return base.Foreground(ColorOrange)
	case "mention", "team_mention":
		return base.Foreground(ColorMagenta)
	case "assign":
		return base.Foreground(ColorYellow)
	case "author":
		return base.Foreground(ColorGreen)
	case "security_alert":
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// SubjectTypeLabel returns a short, color-coded label for a subject type.
func SubjectTypeLabel(subjectType string) string {
	base := lipgloss.NewStyle().Bold(true)

	switch subjectType {
	case "PullRequest":
		return base.Foreground(ColorGreen).Render("PR")
	case "Issue":
		return base.Foreground(ColorBlue).Render("IS")
	case "Release":
		return base.Foreground(ColorMagenta).Render("RL")
	case "Commit":
		return base.Foreground(ColorYellow).Render("CM")
	case "Discussion":
		return base.Foreground(ColorOrange).Render("DC")
	default:
		return base.Foreground(ColorGray).Render("--")
	}
}
