package profile

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Madan2468/resqLink-frontend/internal/keys"
	"github.com/Madan2468/resqLink-frontend/internal/model"
	"github.com/Madan2468/resqLink-frontend/internal/theme"
	"github.com/Madan2468/resqLink-frontend/internal/ui/caselist"
)

// Model is the profile page: the authenticated user's own reports.
type Model struct {
	list          list.Model
	keys          *keys.KeyMap
	authenticated bool
	width         int
	height        int
}

// New creates the profile page.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, caselist.CardDelegate{}, width, height-1)
	l.Title = "My Reports"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{list: l, keys: k, width: width, height: height}
}

// SetCases replaces the page's input with the user's cases.
func (m *Model) SetCases(cs []model.Case) {
	items := make([]list.Item, len(cs))
	for i, c := range cs {
		items[i] = caselist.CaseItem{Case: c}
	}
	m.list.SetItems(items)
}

// SetAuthenticated records whether a credential is available; without
// one the page explains instead of showing an empty list.
func (m *Model) SetAuthenticated(v bool) {
	m.authenticated = v
}

// SetSize updates the page dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-1)
}

// Update handles messages for the profile page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Select) {
			item, ok := m.list.SelectedItem().(caselist.CaseItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return caselist.SelectedCaseMsg{CaseID: item.Case.ID}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the profile page.
func (m Model) View() string {
	if !m.authenticated {
		return lipgloss.NewStyle().
			Padding(2, 4).
			Foreground(theme.ColorGray).
			Render("Sign in to see your own reports.\n\n" +
				"Store your API token with the resqlink login helper,\n" +
				"then restart the app.")
	}

	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Padding(2, 4).
			Foreground(theme.ColorGray).
			Render("You have not reported any cases yet.\n\n" +
				"Press n to report an animal in need.")
	}

	return m.list.View()
}
