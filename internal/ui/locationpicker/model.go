package locationpicker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Madan2468/resqLink-frontend/internal/geo"
	"github.com/Madan2468/resqLink-frontend/internal/keys"
	"github.com/Madan2468/resqLink-frontend/internal/model"
	"github.com/Madan2468/resqLink-frontend/internal/theme"
	"github.com/Madan2468/resqLink-frontend/internal/ui/mapview"
)

// LocationSelectedMsg is the picker's only externally observable
// effect: it carries the chosen location, with an address when one
// could be resolved.
type LocationSelectedMsg struct {
	Location model.Location
}

// positionResolvedMsg carries the device position lookup result.
type positionResolvedMsg struct {
	loc model.Location
	err error
}

// addressResolvedMsg carries a reverse geocode result for a dropped
// pin. seq identifies the pin drop it belongs to so a slow lookup for
// an old pin cannot clobber a newer one.
type addressResolvedMsg struct {
	seq     uint64
	lat     float64
	lng     float64
	address string
}

// lookupTimeout bounds each geolocation HTTP call.
const lookupTimeout = 10 * time.Second

// Model is an interactive coordinate selector. The pin sits at the
// viewport center; arrow keys pan the map under it. Dropping the pin
// resolves an address best-effort and announces the selection. The
// picker owns no state its parent needs beyond the announcement.
type Model struct {
	viewport mapview.Viewport
	resolver *geo.Resolver
	keys     *keys.KeyMap

	usingCurrent bool
	resolving    bool
	address      string
	notice       string
	seq          uint64
	width        int
	height       int
}

// New creates a picker centered on the default coordinate. When
// initial is non-nil it takes priority over the device position.
func New(resolver *geo.Resolver, k *keys.KeyMap, initial *model.Location, defaultLat, defaultLng float64, zoom, width, height int) (Model, tea.Cmd) {
	m := Model{
		viewport: mapview.Viewport{
			CenterLat: defaultLat,
			CenterLng: defaultLng,
			Zoom:      zoom,
			Width:     width,
			Height:    height - 5,
		},
		resolver: resolver,
		keys:     k,
		width:    width,
		height:   height,
	}

	// Initial position priority: explicit initial location, then the
	// device position, then the static default already set.
	if initial != nil {
		m.viewport.CenterLat = initial.Lat
		m.viewport.CenterLng = initial.Lng
		m.address = initial.Address
		return m, m.dropPin()
	}

	m.resolving = true
	resolver = m.resolver
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		loc, err := resolver.Locate(ctx)
		return positionResolvedMsg{loc: loc, err: err}
	}
}

// SetSize updates the picker dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 5
}

// Position returns the pin's current coordinate.
func (m Model) Position() model.Location {
	return model.Location{
		Lat:     m.viewport.CenterLat,
		Lng:     m.viewport.CenterLng,
		Address: m.address,
	}
}

// Update handles picker messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case positionResolvedMsg:
		m.resolving = false
		if msg.err != nil {
			// Permission denial or a missing location service leaves the
			// picker usable in manual mode.
			m.notice = "Could not determine your location; pick one manually."
			return m, nil
		}
		m.viewport.CenterLat = msg.loc.Lat
		m.viewport.CenterLng = msg.loc.Lng
		m.address = msg.loc.Address
		m.usingCurrent = true
		m.notice = ""
		loc := msg.loc
		return m, func() tea.Msg {
			return LocationSelectedMsg{Location: loc}
		}

	case addressResolvedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.resolving = false
		m.address = msg.address
		loc := model.Location{Lat: msg.lat, Lng: msg.lng, Address: msg.address}
		return m, func() tea.Msg {
			return LocationSelectedMsg{Location: loc}
		}

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

// handleKeys processes movement and pin actions.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		return m.moved(0, -1), nil
	case key.Matches(msg, m.keys.Right):
		return m.moved(0, 1), nil
	case key.Matches(msg, m.keys.Up):
		return m.moved(1, 0), nil
	case key.Matches(msg, m.keys.Down):
		return m.moved(-1, 0), nil

	case msg.String() == "+", msg.String() == "=":
		if m.viewport.Zoom < 18 {
			m.viewport.Zoom++
		}
		return m, nil
	case msg.String() == "-":
		if m.viewport.Zoom > 0 {
			m.viewport.Zoom--
		}
		return m, nil

	case msg.String() == " ", key.Matches(msg, m.keys.Select):
		return m, m.dropPin()

	case key.Matches(msg, m.keys.UseMyLocation):
		m.resolving = true
		m.notice = ""
		resolver := m.resolver
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
			defer cancel()
			loc, err := resolver.Locate(ctx)
			return positionResolvedMsg{loc: loc, err: err}
		}
	}

	return m, nil
}

// moved pans the map under the pin. Manual movement overrides any
// earlier device position and invalidates the resolved address.
func (m Model) moved(dLat, dLng int) Model {
	step := 360 / float64(int(1)<<uint(clampZoom(m.viewport.Zoom))) / 8
	m.viewport.CenterLat += float64(dLat) * step
	m.viewport.CenterLng += float64(dLng) * step
	m.usingCurrent = false
	m.address = ""
	return m
}

// dropPin fixes the pin at the current position and kicks off a
// best-effort reverse geocode. The selection is announced when the
// lookup resolves, with or without an address.
func (m *Model) dropPin() tea.Cmd {
	m.seq++
	m.resolving = true

	seq := m.seq
	lat := m.viewport.CenterLat
	lng := m.viewport.CenterLng
	resolver := m.resolver

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		// Address failure never blocks selection.
		address, err := resolver.ReverseLookup(ctx, lat, lng)
		if err != nil {
			address = ""
		}
		return addressResolvedMsg{seq: seq, lat: lat, lng: lng, address: address}
	}
}

// View renders the picker map with the pin at center plus a status line.
func (m Model) View() string {
	grid := m.renderGrid()

	var status []string
	if m.usingCurrent {
		status = append(status, theme.SuccessStyle.Render("Using your current location"))
	} else {
		status = append(status, theme.HelpStyle.Render("Arrows: move pin · space: set location · g: use my location"))
	}
	if m.notice != "" {
		status = append(status, theme.ErrorStyle.Render(m.notice))
	}

	coord := fmt.Sprintf("%.4f, %.4f", m.viewport.CenterLat, m.viewport.CenterLng)
	if m.resolving {
		coord += "  (resolving address...)"
	} else if m.address != "" {
		coord += "  " + truncate(m.address, m.width-24)
	}
	status = append(status, theme.DimmedStyle.Render(coord))

	return lipgloss.JoinVertical(lipgloss.Left, grid, strings.Join(status, "\n"))
}

// renderGrid draws the background grid with the pin at the center cell.
func (m Model) renderGrid() string {
	height := m.viewport.Height
	if height < 1 || m.width < 1 {
		return ""
	}

	pinCol := m.width / 2
	pinRow := height / 2

	rows := make([]string, height)
	for row := 0; row < height; row++ {
		var b strings.Builder
		for col := 0; col < m.width; col++ {
			if col == pinCol && row == pinRow {
				b.WriteString(theme.ErrorStyle.Render("▼"))
				continue
			}
			if col%6 == 0 && row%3 == 0 {
				b.WriteString(theme.DimmedStyle.Render("·"))
			} else {
				b.WriteByte(' ')
			}
		}
		rows[row] = b.String()
	}

	return strings.Join(rows, "\n")
}

func clampZoom(zoom int) int {
	if zoom < 0 {
		return 0
	}
	if zoom > 18 {
		return 18
	}
	return zoom
}

// truncate cuts s at limit runes with an ellipsis when cut.
func truncate(s string, limit int) string {
	if limit < 4 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
