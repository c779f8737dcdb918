package caselist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Madan2468/resqLink-frontend/internal/model"
	"github.com/Madan2468/resqLink-frontend/internal/theme"
)

// CaseItem wraps a model.Case so it can be used in a bubbles/list.
type CaseItem struct {
	Case model.Case
}

// FilterValue returns the string used for fuzzy filtering.
func (i CaseItem) FilterValue() string { return i.Case.DisplayTitle() }

// Title returns the card title, falling back when the case has none.
func (i CaseItem) Title() string { return i.Case.DisplayTitle() }

// Description returns a short summary line for the list.
func (i CaseItem) Description() string {
	return fmt.Sprintf("%s | %s | %s",
		model.UrgencyLabel(i.Case.Urgency),
		model.StatusLabel(i.Case.Status),
		relativeTime(i.Case.CreatedAt),
	)
}

// CardDelegate renders a case as a compact single-line card: urgency
// and status badges, title-or-fallback, report date, and the address
// when one is known. Unrecognized urgency or status values render with
// the neutral badge instead of erroring.
type CardDelegate struct{}

// Height returns the number of lines each card takes.
func (d CardDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between cards.
func (d CardDelegate) Spacing() int { return 0 }

// Update handles per-card messages (unused).
func (d CardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single case card line.
func (d CardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(CaseItem)
	if !ok {
		return
	}

	c := ci.Case
	urgencyBadge := theme.UrgencyStyle(c.Urgency).Render(model.UrgencyLabel(c.Urgency))
	statusBadge := theme.StatusStyle(c.Status).Render(model.StatusLabel(c.Status))
	date := theme.DimmedStyle.Render(c.CreatedAt.Format("Jan 2, 2006"))

	address := ""
	if c.Location != nil && c.Location.Address != "" {
		address = theme.DimmedStyle.Render(" · " + truncate(c.Location.Address, 40))
	}

	line := fmt.Sprintf("●%s%s %s  %s%s",
		urgencyBadge, statusBadge, c.DisplayTitle(), date, address,
	)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}

// truncate cuts s at limit runes with an ellipsis when cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
