package reportform

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Madan2468/resqLink-frontend/internal/geo"
	"github.com/Madan2468/resqLink-frontend/internal/keys"
	"github.com/Madan2468/resqLink-frontend/internal/model"
	"github.com/Madan2468/resqLink-frontend/internal/theme"
	"github.com/Madan2468/resqLink-frontend/internal/ui/locationpicker"
)

// ReportSubmittedMsg is dispatched when the user submits a completed
// report draft.
type ReportSubmittedMsg struct {
	Draft model.CaseDraft
}

// ReportCancelMsg is dispatched when the user abandons the report flow.
type ReportCancelMsg struct{}

// phase tracks which step of the report flow is active.
type phase int

const (
	phaseForm phase = iota
	phaseLocation
)

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	photoPath   string
	urgency     string
}

// Model is the report-a-case flow: a details form followed by the
// location picker. Submission failures are shown inline and the user's
// input survives.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	picker   locationpicker.Model
	resolver *geo.Resolver
	keys     *keys.KeyMap

	phase      phase
	location   *model.Location
	errMsg     string
	submitting bool
	defaultLat float64
	defaultLng float64
	zoom       int
	width      int
	height     int
}

// New creates a report form model.
func New(resolver *geo.Resolver, k *keys.KeyMap, defaultLat, defaultLng float64, zoom, width, height int) Model {
	return Model{
		fb:         &formBindings{urgency: string(model.UrgencyMedium)},
		resolver:   resolver,
		keys:       k,
		defaultLat: defaultLat,
		defaultLng: defaultLng,
		zoom:       zoom,
		width:      width,
		height:     height,
	}
}

// Start resets the flow and begins with a fresh details form.
func (m *Model) Start() tea.Cmd {
	m.phase = phaseForm
	m.fb.title = ""
	m.fb.description = ""
	m.fb.photoPath = ""
	m.fb.urgency = string(model.UrgencyMedium)
	m.location = nil
	m.errMsg = ""
	m.submitting = false
	m.form = m.buildForm()
	return m.form.Init()
}

// SetError surfaces a rejected submission. The draft stays intact so
// the user can adjust and resubmit.
func (m *Model) SetError(msg string) {
	m.submitting = false
	m.errMsg = msg
}

// SetSubmitting toggles the in-flight indicator.
func (m *Model) SetSubmitting(v bool) {
	m.submitting = v
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.picker.SetSize(width, height-4)
}

// Update handles messages for the report flow.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch m.phase {
	case phaseForm:
		return m.updateForm(msg)
	case phaseLocation:
		return m.updateLocation(msg)
	}
	return m, nil
}

// updateForm drives the huh form until it completes or aborts.
func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.phase = phaseLocation
		var pickerCmd tea.Cmd
		m.picker, pickerCmd = locationpicker.New(
			m.resolver, m.keys, nil,
			m.defaultLat, m.defaultLng, m.zoom,
			m.width, m.height-4,
		)
		return m, pickerCmd
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return ReportCancelMsg{} }
	}

	return m, cmd
}

// updateLocation drives the picker and watches for submission.
func (m Model) updateLocation(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case locationpicker.LocationSelectedMsg:
		loc := msg.Location
		m.location = &loc
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return ReportCancelMsg{} }
		case "S":
			if m.location == nil || m.submitting {
				return m, nil
			}
			m.submitting = true
			m.errMsg = ""
			draft := model.CaseDraft{
				Title:       strings.TrimSpace(m.fb.title),
				Description: strings.TrimSpace(m.fb.description),
				PhotoPath:   strings.TrimSpace(m.fb.photoPath),
				Location:    *m.location,
				Urgency:     model.Urgency(m.fb.urgency),
			}
			return m, func() tea.Msg {
				return ReportSubmittedMsg{Draft: draft}
			}
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// View renders the active phase of the report flow.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var content string
	switch m.phase {
	case phaseForm:
		if m.form == nil {
			return ""
		}
		content = titleStyle.Render("Report an Animal in Need") + "\n" + m.form.View()
	case phaseLocation:
		header := titleStyle.Render("Where is the animal?")
		footer := theme.HelpStyle.Render("S: submit report · esc: cancel")
		if m.location != nil {
			footer = theme.SuccessStyle.Render("Location set. ") + footer
		}
		if m.submitting {
			footer = theme.DimmedStyle.Render("Submitting report...")
		}
		content = lipgloss.JoinVertical(lipgloss.Left, header, m.picker.View(), footer)
	}

	if m.errMsg != "" {
		content = lipgloss.JoinVertical(
			lipgloss.Left,
			theme.ErrorStyle.Render(m.errMsg),
			content,
		)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// buildForm constructs the details form.
func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("A short summary, e.g. \"Injured dog near the market\"").
				Value(&m.fb.title),

			huh.NewText().
				Title("Description").
				Description("What you saw, the animal's condition, landmarks").
				Value(&m.fb.description),

			huh.NewInput().
				Title("Photo").
				Description("Path to a photo of the animal").
				Value(&m.fb.photoPath).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return errors.New("a photo is required")
					}
					if _, err := os.Stat(s); err != nil {
						return fmt.Errorf("cannot read %s", s)
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Urgency").
				Options(
					huh.NewOption("Low - animal is safe for now", string(model.UrgencyLow)),
					huh.NewOption("Medium - needs attention soon", string(model.UrgencyMedium)),
					huh.NewOption("High - life-threatening", string(model.UrgencyHigh)),
				).
				Value(&m.fb.urgency),
		),
	).WithWidth(min(m.width-4, 72)).WithHeight(m.height - 4)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
