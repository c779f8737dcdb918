package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down  key.Binding
	Up    key.Binding
	Left  key.Binding
	Right key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Manual refresh
	Refresh key.Binding

	// Views
	Home    key.Binding
	Cases   key.Binding
	Profile key.Binding
	Report  key.Binding

	// List filters
	CycleUrgency key.Binding
	CycleStatus  key.Binding

	// Map/list toggle
	ToggleMap key.Binding

	// Location picker
	UseMyLocation key.Binding

	// Responder status transitions
	MarkPending    key.Binding
	MarkInProgress key.Binding
	MarkResolved   key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Home: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "home"),
		),
		Cases: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "view cases"),
		),
		Profile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "my reports"),
		),
		Report: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "report a case"),
		),
		CycleUrgency: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "urgency filter"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status filter"),
		),
		ToggleMap: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "map/list view"),
		),
		UseMyLocation: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "use my location"),
		),
		MarkPending: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "mark pending"),
		),
		MarkInProgress: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "mark in progress"),
		),
		MarkResolved: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "mark resolved"),
		),
	}
}
