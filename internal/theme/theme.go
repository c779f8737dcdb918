package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Madan2468/resqLink-frontend/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorGreen).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps detail and popup content areas.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorGreen).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorGreen)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle renders inline error messages.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// SuccessStyle renders inline confirmation messages.
var SuccessStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// DimmedStyle renders secondary text such as dates and addresses.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// UrgencyStyle returns a color-coded badge style for the given urgency.
// Unrecognized values fall back to gray rather than erroring.
func UrgencyStyle(u model.Urgency) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch u {
	case model.UrgencyHigh:
		return base.Foreground(ColorRed)
	case model.UrgencyMedium:
		return base.Foreground(ColorOrange)
	case model.UrgencyLow:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

// StatusStyle returns a color-coded badge style for the given status,
// with the same gray fallback for unknown values.
func StatusStyle(s model.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch s {
	case model.StatusPending:
		return base.Foreground(ColorYellow)
	case model.StatusInProgress:
		return base.Foreground(ColorBlue)
	case model.StatusResolved:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// MarkerStyle colors a map marker cell by urgency. Unknown urgency gets
// the default marker color.
func MarkerStyle(u model.Urgency) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch u {
	case model.UrgencyHigh:
		return base.Foreground(ColorRed)
	case model.UrgencyMedium:
		return base.Foreground(ColorOrange)
	case model.UrgencyLow:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorWhite)
	}
}
