package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Madan2468/resqLink-frontend/internal/cases"
	"github.com/Madan2468/resqLink-frontend/internal/geo"
	"github.com/Madan2468/resqLink-frontend/internal/keys"
	"github.com/Madan2468/resqLink-frontend/internal/model"
	"github.com/Madan2468/resqLink-frontend/internal/theme"
)

// StatusChangeRequestedMsg asks the app to transition the shown case.
type StatusChangeRequestedMsg struct {
	CaseID string
	Status model.Status
}

// clearFeedbackMsg clears a transient status-update message.
type clearFeedbackMsg struct {
	seq uint64
}

// nearbyRadiusKm bounds the "similar cases nearby" strip.
const nearbyRadiusKm = 10.0

// feedbackTTL is how long a status-update message stays visible.
const feedbackTTL = 5 * time.Second

// Model is the case detail view. It reads nearby cases from the store
// but owns only the record it is currently displaying.
type Model struct {
	store *cases.Store
	keys  *keys.KeyMap

	// requestedID guards against a slow load resolving after the user
	// has navigated to a different case: results for any other id are
	// dropped.
	requestedID string
	current     *model.Case
	loading     bool
	errMsg      string

	feedback    string
	feedbackErr bool
	feedbackSeq uint64
	updating    bool

	width  int
	height int
}

// New creates a detail view backed by the given store.
func New(s *cases.Store, k *keys.KeyMap, width, height int) Model {
	return Model{store: s, keys: k, width: width, height: height}
}

// Load marks the view as waiting for the given case id.
func (m *Model) Load(id string) {
	m.requestedID = id
	m.current = nil
	m.loading = true
	m.errMsg = ""
	m.feedback = ""
	m.updating = false
}

// SetCase delivers a loaded case. Results for a case other than the
// one currently requested are ignored.
func (m *Model) SetCase(c *model.Case) {
	if c == nil || c.ID != m.requestedID {
		return
	}
	m.loading = false
	m.current = c
}

// SetError delivers a load failure for the given id.
func (m *Model) SetError(id, msg string) {
	if id != m.requestedID {
		return
	}
	m.loading = false
	m.errMsg = msg
}

// CurrentID returns the id of the case being displayed or loaded.
func (m Model) CurrentID() string { return m.requestedID }

// ApplyStatusResult records the outcome of a status transition and
// schedules the message to clear.
func (m *Model) ApplyStatusResult(id string, status model.Status, err error) tea.Cmd {
	if id != m.requestedID {
		return nil
	}
	m.updating = false
	m.feedbackSeq++

	if err != nil {
		m.feedback = "Failed to update status: " + err.Error()
		m.feedbackErr = true
	} else {
		m.feedback = "Case status updated to " + strings.ReplaceAll(string(status), "-", " ")
		m.feedbackErr = false
		if m.current != nil {
			updated := *m.current
			updated.Status = status
			m.current = &updated
		}
	}

	seq := m.feedbackSeq
	return tea.Tick(feedbackTTL, func(time.Time) tea.Msg {
		return clearFeedbackMsg{seq: seq}
	})
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clearFeedbackMsg:
		if msg.seq == m.feedbackSeq {
			m.feedback = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.current == nil || m.updating {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.MarkPending):
			return m.requestStatus(model.StatusPending)
		case key.Matches(msg, m.keys.MarkInProgress):
			return m.requestStatus(model.StatusInProgress)
		case key.Matches(msg, m.keys.MarkResolved):
			return m.requestStatus(model.StatusResolved)
		}
	}

	return m, nil
}

// requestStatus asks the app to transition the case unless it already
// has that status.
func (m Model) requestStatus(status model.Status) (Model, tea.Cmd) {
	if m.current.Status == status {
		return m, nil
	}
	m.updating = true
	id := m.current.ID
	return m, func() tea.Msg {
		return StatusChangeRequestedMsg{CaseID: id, Status: status}
	}
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		return theme.PanelStyle.Render("Loading case...")
	}
	if m.errMsg != "" {
		return theme.PanelStyle.Render(theme.ErrorStyle.Render(m.errMsg))
	}
	if m.current == nil {
		return ""
	}

	c := *m.current
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(c.DisplayTitle())
	statusBadge := theme.StatusStyle(c.Status).Render(model.StatusLabel(c.Status))
	urgencyBadge := theme.UrgencyStyle(c.Urgency).Render(model.UrgencyLabel(c.Urgency))
	b.WriteString(fmt.Sprintf("%s  %s%s\n\n", title, statusBadge, urgencyBadge))

	b.WriteString(theme.DimmedStyle.Render(
		"Reported on "+c.CreatedAt.Format("January 2, 2006 15:04")) + "\n")
	b.WriteString(theme.DimmedStyle.Render("Photo: "+c.Photo) + "\n")

	if c.Location != nil {
		locLine := fmt.Sprintf("Location: %.4f, %.4f", c.Location.Lat, c.Location.Lng)
		if c.Location.Address != "" {
			locLine += " — " + c.Location.Address
		}
		b.WriteString(theme.DimmedStyle.Render(locLine) + "\n")
	}
	b.WriteString("\n")

	desc := c.Description
	if desc == "" {
		desc = "No description provided for this case."
	}
	b.WriteString(desc + "\n\n")

	if m.feedback != "" {
		style := theme.SuccessStyle
		if m.feedbackErr {
			style = theme.ErrorStyle
		}
		b.WriteString(style.Render(m.feedback) + "\n\n")
	}

	if m.updating {
		b.WriteString(theme.DimmedStyle.Render("Updating status...") + "\n")
	} else {
		b.WriteString(theme.HelpStyle.Render(
			"1: mark pending · 2: mark in progress · 3: mark resolved") + "\n")
	}

	if nearby := m.renderNearby(c); nearby != "" {
		b.WriteString("\n" + nearby)
	}

	return theme.PanelStyle.Width(m.width - 2).Render(b.String())
}

// renderNearby lists other located cases within nearbyRadiusKm.
func (m Model) renderNearby(c model.Case) string {
	if c.Location == nil {
		return ""
	}

	var lines []string
	for _, other := range m.store.All() {
		if other.ID == c.ID || !other.HasLocation() {
			continue
		}
		d := geo.DistanceKm(c.Location.Lat, c.Location.Lng, other.Location.Lat, other.Location.Lng)
		if d > nearbyRadiusKm {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s %s (%.1f km)",
			theme.UrgencyStyle(other.Urgency).Render(model.UrgencyLabel(other.Urgency)),
			other.DisplayTitle(), d,
		))
		if len(lines) >= 5 {
			break
		}
	}

	if len(lines) == 0 {
		return ""
	}

	header := lipgloss.NewStyle().Bold(true).Render("Similar cases nearby")
	return header + "\n" + strings.Join(lines, "\n")
}
