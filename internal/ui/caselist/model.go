package caselist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Madan2468/resqLink-frontend/internal/cases"
	"github.com/Madan2468/resqLink-frontend/internal/keys"
	"github.com/Madan2468/resqLink-frontend/internal/model"
	"github.com/Madan2468/resqLink-frontend/internal/theme"
	"github.com/Madan2468/resqLink-frontend/internal/ui/mapview"
)

// SelectedCaseMsg is sent when a user opens a case's detail view.
type SelectedCaseMsg struct {
	CaseID string
}

// RefreshRequestedMsg is sent when the user asks for a manual refresh.
type RefreshRequestedMsg struct{}

// viewMode switches the page between the map and the card list.
type viewMode int

const (
	modeMap viewMode = iota
	modeList
)

// urgencyCycle and statusCycle are the filter values stepped through by
// the filter keys, starting at the match-everything sentinel.
var urgencyCycle = []string{
	cases.FilterAll,
	string(model.UrgencyLow),
	string(model.UrgencyMedium),
	string(model.UrgencyHigh),
}

var statusCycle = []string{
	cases.FilterAll,
	string(model.StatusPending),
	string(model.StatusInProgress),
	string(model.StatusResolved),
}

// Model is the ViewCases page: a searchable, filterable projection of
// the case store rendered as a map or a card list. It holds only
// derived references; the store owns the data.
type Model struct {
	list        list.Model
	mapView     mapview.Model
	keys        *keys.KeyMap
	input       []model.Case
	predicate   cases.Predicate
	urgencyIdx  int
	statusIdx   int
	mode        viewMode
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates the cases page with the given default map viewport.
func New(k *keys.KeyMap, centerLat, centerLng float64, zoom, width, height int) Model {
	l := list.New([]list.Item{}, CardDelegate{}, width, height-3)
	l.Title = "Animal Rescue Cases"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search by title or description..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		mapView:     mapview.New(k, centerLat, centerLng, zoom, width, height-2),
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// SetCases replaces the page's input collection and re-applies the
// current predicate.
func (m *Model) SetCases(cs []model.Case) {
	m.input = cs
	m.applyFilter()
}

// applyFilter narrows the input through the filter engine and pushes
// the result into both renderers.
func (m *Model) applyFilter() {
	filtered := cases.Filter(m.input, m.predicate)

	items := make([]list.Item, len(filtered))
	for i, c := range filtered {
		items[i] = CaseItem{Case: c}
	}
	m.list.SetItems(items)
	m.mapView.SetCases(filtered)
}

// SetSize updates the page dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-3)
	m.mapView.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}

// Searching reports whether the search bar is focused and consuming
// keystrokes.
func (m Model) Searching() bool {
	return m.searchMode
}

// Update handles messages for the cases page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if m.searchMode {
		return m.handleSearchKeys(keyMsg)
	}
	return m.handleNormalKeys(keyMsg)
}

// handleSearchKeys processes key input while the search bar is focused.
// The predicate is re-applied on every keystroke.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.predicate.Search = ""
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.predicate.Search = m.searchInput.Value()
	m.applyFilter()
	return m, cmd
}

// handleNormalKeys processes key input outside search mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		m.predicate.Search = ""
		m.applyFilter()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.ToggleMap):
		if m.mode == modeMap {
			m.mode = modeList
		} else {
			m.mode = modeMap
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, func() tea.Msg { return RefreshRequestedMsg{} }

	case key.Matches(msg, m.keys.CycleUrgency):
		m.urgencyIdx = (m.urgencyIdx + 1) % len(urgencyCycle)
		m.predicate.Urgency = urgencyCycle[m.urgencyIdx]
		m.applyFilter()
		return m, nil

	case key.Matches(msg, m.keys.CycleStatus):
		m.statusIdx = (m.statusIdx + 1) % len(statusCycle)
		m.predicate.Status = statusCycle[m.statusIdx]
		m.applyFilter()
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if m.mode == modeList {
			item, ok := m.list.SelectedItem().(CaseItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedCaseMsg{CaseID: item.Case.ID}
			}
		}
	}

	if m.mode == modeMap {
		var cmd tea.Cmd
		m.mapView, cmd = m.mapView.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the cases page.
func (m Model) View() string {
	filterBar := m.renderFilterBar()

	var content string
	if m.mode == modeMap {
		content = m.mapView.View()
	} else if len(m.list.Items()) == 0 {
		content = m.renderEmptyState()
	} else {
		content = m.list.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, filterBar, content)
}

// renderFilterBar shows the search input or the active filter summary.
func (m Model) renderFilterBar() string {
	if m.searchMode {
		return lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
	}

	modeLabel := "map"
	if m.mode == modeList {
		modeLabel = "list"
	}

	summary := fmt.Sprintf(
		"view:%s  urgency:%s  status:%s  search:%s",
		modeLabel,
		urgencyCycle[m.urgencyIdx],
		statusCycle[m.statusIdx],
		orDash(m.predicate.Search),
	)
	return theme.HelpStyle.Padding(0, 1).Render(summary)
}

// renderEmptyState shows guidance text when no cases match.
func (m Model) renderEmptyState() string {
	msg := "No cases match the current filters.\n\n" +
		"Press / to search, u or s to change filters, r to refresh."
	return lipgloss.NewStyle().
		Padding(2, 4).
		Foreground(theme.ColorGray).
		Render(msg)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
