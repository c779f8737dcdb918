package detail

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Madan2468/resqLink-frontend/internal/cases"
	"github.com/Madan2468/resqLink-frontend/internal/keys"
	"github.com/Madan2468/resqLink-frontend/internal/model"
)

// stubService satisfies cases.Service; the detail view never calls it
// directly, the store just needs one.
type stubService struct{}

func (stubService) Authenticated() bool { return true }
func (stubService) FetchCases(context.Context) ([]model.Case, error) {
	return nil, nil
}
func (stubService) FetchUserCases(context.Context) ([]model.Case, error) {
	return nil, nil
}
func (stubService) FetchCase(context.Context, string) (*model.Case, error) {
	return nil, errors.New("unused")
}
func (stubService) CreateCase(context.Context, model.CaseDraft, string) (*model.Case, error) {
	return nil, errors.New("unused")
}
func (stubService) UpdateStatus(context.Context, string, model.Status) (*model.Case, error) {
	return nil, errors.New("unused")
}

func seededStore(t *testing.T, cs ...model.Case) *cases.Store {
	t.Helper()
	s := cases.NewStore(stubService{})
	seq := s.BeginFetch(cases.CollectionAll)
	s.ApplySnapshot(cases.CollectionAll, seq, cs, nil)
	return s
}

func fixtureCase(id string) *model.Case {
	return &model.Case{
		ID:        id,
		Title:     "Injured dog",
		Urgency:   model.UrgencyHigh,
		Status:    model.StatusPending,
		CreatedAt: time.Date(2025, 5, 20, 8, 30, 0, 0, time.UTC),
	}
}

func TestSetCaseIgnoresResultsForOtherIDs(t *testing.T) {
	m := New(seededStore(t), keys.DefaultKeyMap(), 80, 24)

	m.Load("current")
	// A slow load for a case the user already navigated away from.
	m.SetCase(fixtureCase("previous"))

	assert.Contains(t, m.View(), "Loading case")

	m.SetCase(fixtureCase("current"))
	assert.Contains(t, m.View(), "Injured dog")
}

func TestSetErrorIgnoresResultsForOtherIDs(t *testing.T) {
	m := New(seededStore(t), keys.DefaultKeyMap(), 80, 24)

	m.Load("current")
	m.SetError("previous", "gone")
	assert.Contains(t, m.View(), "Loading case")

	m.SetError("current", "This case does not exist or has been removed.")
	assert.Contains(t, m.View(), "does not exist")
}

func TestStatusKeysRequestTransition(t *testing.T) {
	m := New(seededStore(t), keys.DefaultKeyMap(), 80, 24)
	m.Load("c1")
	m.SetCase(fixtureCase("c1"))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	require.NotNil(t, cmd)

	msg, ok := cmd().(StatusChangeRequestedMsg)
	require.True(t, ok)
	assert.Equal(t, "c1", msg.CaseID)
	assert.Equal(t, model.StatusResolved, msg.Status)
}

func TestStatusKeyNoOpWhenAlreadyInState(t *testing.T) {
	m := New(seededStore(t), keys.DefaultKeyMap(), 80, 24)
	m.Load("c1")
	m.SetCase(fixtureCase("c1"))

	// The case is already pending; requesting pending again does nothing.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	assert.Nil(t, cmd)
}

func TestApplyStatusResultUpdatesShownCase(t *testing.T) {
	m := New(seededStore(t), keys.DefaultKeyMap(), 80, 24)
	m.Load("c1")
	m.SetCase(fixtureCase("c1"))

	cmd := m.ApplyStatusResult("c1", model.StatusResolved, nil)
	require.NotNil(t, cmd)

	view := m.View()
	assert.Contains(t, view, "Resolved")
	assert.Contains(t, view, "status updated")
}

func TestApplyStatusResultFailureKeepsOldStatus(t *testing.T) {
	m := New(seededStore(t), keys.DefaultKeyMap(), 80, 24)
	m.Load("c1")
	m.SetCase(fixtureCase("c1"))

	m.ApplyStatusResult("c1", model.StatusResolved, errors.New("boom"))

	view := m.View()
	assert.Contains(t, view, "Failed to update status")
	assert.Contains(t, view, "Pending")
}

func TestApplyStatusResultIgnoresOtherIDs(t *testing.T) {
	m := New(seededStore(t), keys.DefaultKeyMap(), 80, 24)
	m.Load("c1")
	m.SetCase(fixtureCase("c1"))

	assert.Nil(t, m.ApplyStatusResult("other", model.StatusResolved, nil))
}

func TestNearbyCasesWithinRadius(t *testing.T) {
	shown := fixtureCase("c1")
	shown.Location = &model.Location{Lat: 19.076, Lng: 72.8777}

	near := model.Case{
		ID:       "near",
		Title:    "Stray cat two streets over",
		Location: &model.Location{Lat: 19.08, Lng: 72.88},
	}
	far := model.Case{
		ID:       "far",
		Title:    "Trapped bird in another city",
		Location: &model.Location{Lat: 12.97, Lng: 77.59},
	}
	unlocated := model.Case{ID: "unlocated", Title: "Lost parrot"}

	m := New(seededStore(t, *shown, near, far, unlocated), keys.DefaultKeyMap(), 80, 40)
	m.Load("c1")
	m.SetCase(shown)

	view := m.View()
	assert.Contains(t, view, "Stray cat two streets over")
	assert.NotContains(t, view, "another city")
	assert.NotContains(t, view, "Lost parrot")
}
