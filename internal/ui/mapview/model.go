package mapview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Madan2468/resqLink-frontend/internal/keys"
	"github.com/Madan2468/resqLink-frontend/internal/model"
	"github.com/Madan2468/resqLink-frontend/internal/theme"
)

// OpenCaseMsg is sent when the user opens the detail view for the
// selected marker.
type OpenCaseMsg struct {
	CaseID string
}

// descriptionLimit is where popup descriptions are cut off.
const descriptionLimit = 100

// popupHeight is the number of rows reserved for the marker summary.
const popupHeight = 8

// marker is a plotted case with its grid cell.
type marker struct {
	c       model.Case
	col     int
	row     int
	visible bool
}

// Model renders a set of cases as markers on a character-grid map.
// Its input list fully replaces the previous one on every change; the
// grid is recomputed from scratch each render.
type Model struct {
	viewport Viewport
	keys     *keys.KeyMap
	markers  []marker
	selected int
	width    int
	height   int
}

// New creates a map view centered on the given coordinate.
func New(k *keys.KeyMap, centerLat, centerLng float64, zoom, width, height int) Model {
	return Model{
		viewport: Viewport{
			CenterLat: centerLat,
			CenterLng: centerLng,
			Zoom:      zoom,
			Width:     width,
			Height:    height - popupHeight,
		},
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetCases replaces the rendered case list. Cases without a location
// are skipped: they cannot be plotted, and that is intentional.
func (m *Model) SetCases(cs []model.Case) {
	m.markers = m.markers[:0]
	for _, c := range cs {
		if !c.HasLocation() {
			continue
		}
		m.markers = append(m.markers, marker{c: c})
	}
	if m.selected >= len(m.markers) {
		m.selected = 0
	}
	m.plot()
}

// MarkerCount returns how many cases are plottable on the map.
func (m Model) MarkerCount() int {
	return len(m.markers)
}

// SetSize updates the grid dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - popupHeight
	m.plot()
}

// SetCenter recenters the viewport.
func (m *Model) SetCenter(lat, lng float64, zoom int) {
	m.viewport.CenterLat = lat
	m.viewport.CenterLng = lng
	m.viewport.Zoom = zoom
	m.plot()
}

// plot recomputes every marker's grid cell.
func (m *Model) plot() {
	for i := range m.markers {
		loc := m.markers[i].c.Location
		col, row, ok := m.viewport.Cell(loc.Lat, loc.Lng)
		m.markers[i].col = col
		m.markers[i].row = row
		m.markers[i].visible = ok
	}
}

// Update handles map navigation and marker selection.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case keyMsg.String() == "tab":
		if len(m.markers) > 0 {
			m.selected = (m.selected + 1) % len(m.markers)
		}
		return m, nil

	case keyMsg.String() == "shift+tab":
		if len(m.markers) > 0 {
			m.selected = (m.selected - 1 + len(m.markers)) % len(m.markers)
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Select):
		if m.selected < len(m.markers) {
			id := m.markers[m.selected].c.ID
			return m, func() tea.Msg {
				return OpenCaseMsg{CaseID: id}
			}
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Left):
		m.pan(-4, 0)
		return m, nil
	case key.Matches(keyMsg, m.keys.Right):
		m.pan(4, 0)
		return m, nil
	case key.Matches(keyMsg, m.keys.Up):
		m.pan(0, -2)
		return m, nil
	case key.Matches(keyMsg, m.keys.Down):
		m.pan(0, 2)
		return m, nil

	case keyMsg.String() == "+", keyMsg.String() == "=":
		if m.viewport.Zoom < 18 {
			m.viewport.Zoom++
			m.plot()
		}
		return m, nil
	case keyMsg.String() == "-":
		if m.viewport.Zoom > 0 {
			m.viewport.Zoom--
			m.plot()
		}
		return m, nil
	}

	return m, nil
}

// pan shifts the viewport center by the given cell deltas.
func (m *Model) pan(dCols, dRows int) {
	cols := m.viewport.worldCols()
	degPerCol := 360 / cols
	m.viewport.CenterLng += float64(dCols) * degPerCol

	// Vertical cell size varies with latitude under Mercator; a flat
	// approximation is close enough for keyboard panning.
	degPerRow := 360 / cols * 2
	m.viewport.CenterLat = clampLat(m.viewport.CenterLat - float64(dRows)*degPerRow)
	m.plot()
}

// View renders the map grid with the selected marker's summary below.
func (m Model) View() string {
	gridHeight := m.viewport.Height
	if gridHeight < 1 || m.width < 1 {
		return ""
	}

	grid := make([]string, gridHeight)
	for row := 0; row < gridHeight; row++ {
		var b strings.Builder
		for col := 0; col < m.width; col++ {
			if cell, ok := m.markerAt(col, row); ok {
				b.WriteString(cell)
				continue
			}
			if col%6 == 0 && row%3 == 0 {
				b.WriteString(theme.DimmedStyle.Render("·"))
			} else {
				b.WriteByte(' ')
			}
		}
		grid[row] = b.String()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		strings.Join(grid, "\n"),
		m.renderPopup(),
	)
}

// markerAt returns the rendered cell when a visible marker occupies it.
// When markers collide on a cell the selected one wins, then the last.
func (m Model) markerAt(col, row int) (string, bool) {
	found := -1
	for i, mk := range m.markers {
		if !mk.visible || mk.col != col || mk.row != row {
			continue
		}
		found = i
		if i == m.selected {
			break
		}
	}
	if found == -1 {
		return "", false
	}

	style := theme.MarkerStyle(m.markers[found].c.Urgency)
	if found == m.selected {
		return style.Reverse(true).Render("●"), true
	}
	return style.Render("●"), true
}

// renderPopup renders the summary for the selected marker.
func (m Model) renderPopup() string {
	if len(m.markers) == 0 {
		return theme.HelpStyle.Render("No cases with a location to show on the map.")
	}

	c := m.markers[m.selected].c

	title := lipgloss.NewStyle().Bold(true).Render(c.DisplayTitle())
	desc := c.Description
	if desc == "" {
		desc = "No description provided"
	} else {
		desc = truncate(desc, descriptionLimit)
	}

	statusBadge := theme.StatusStyle(c.Status).Render(model.StatusLabel(c.Status))
	urgencyBadge := theme.UrgencyStyle(c.Urgency).Render(model.UrgencyLabel(c.Urgency))
	date := theme.DimmedStyle.Render(c.CreatedAt.Format("Jan 2, 2006"))

	lines := []string{
		fmt.Sprintf("%s  %s%s  %s", title, statusBadge, urgencyBadge, date),
		theme.DimmedStyle.Render("Photo: " + c.Photo),
		desc,
		theme.HelpStyle.Render("tab: next marker · enter: view details"),
	}

	return theme.PanelStyle.Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

// truncate cuts s at limit runes, appending an ellipsis when cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
