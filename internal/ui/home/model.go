package home

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Madan2468/resqLink-frontend/internal/model"
	"github.com/Madan2468/resqLink-frontend/internal/theme"
)

// Model is the home page: a snapshot of the case collection with
// counts, the most urgent open cases, and navigation hints.
type Model struct {
	cs     []model.Case
	width  int
	height int
}

// New creates the home page.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// SetCases replaces the page's input collection.
func (m *Model) SetCases(cs []model.Case) {
	m.cs = cs
}

// SetSize updates the page dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the home page. Navigation keys are
// handled globally by the app.
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the home page.
func (m Model) View() string {
	var pending, inProgress, resolved int
	for _, c := range m.cs {
		switch c.Status {
		case model.StatusPending:
			pending++
		case model.StatusInProgress:
			inProgress++
		case model.StatusResolved:
			resolved++
		}
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorGreen).
		Render("ResQLink — report and track animal rescues")

	counts := fmt.Sprintf(
		"%d cases · %s pending · %s in progress · %s resolved",
		len(m.cs),
		theme.StatusStyle(model.StatusPending).Render(fmt.Sprint(pending)),
		theme.StatusStyle(model.StatusInProgress).Render(fmt.Sprint(inProgress)),
		theme.StatusStyle(model.StatusResolved).Render(fmt.Sprint(resolved)),
	)

	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(counts + "\n\n")

	urgent := m.urgentOpenCases(5)
	if len(urgent) > 0 {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render("Needs attention now") + "\n")
		for _, c := range urgent {
			b.WriteString(fmt.Sprintf("  %s %s  %s\n",
				theme.UrgencyStyle(c.Urgency).Render(model.UrgencyLabel(c.Urgency)),
				c.DisplayTitle(),
				theme.DimmedStyle.Render(c.CreatedAt.Format("Jan 2")),
			))
		}
		b.WriteString("\n")
	}

	b.WriteString(theme.HelpStyle.Render(
		"c: view all cases · n: report a case · p: my reports · q: quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// urgentOpenCases returns up to limit unresolved high-urgency cases.
func (m Model) urgentOpenCases(limit int) []model.Case {
	var out []model.Case
	for _, c := range m.cs {
		if c.Urgency != model.UrgencyHigh || c.Status == model.StatusResolved {
			continue
		}
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}
	return out
}
