package app

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Madan2468/resqLink-frontend/internal/cases"
	"github.com/Madan2468/resqLink-frontend/internal/geo"
	"github.com/Madan2468/resqLink-frontend/internal/model"
	"github.com/Madan2468/resqLink-frontend/internal/ui/caselist"
)

func caselistSelected(id string) tea.Msg {
	return caselist.SelectedCaseMsg{CaseID: id}
}

type fakeService struct {
	authenticated bool
	all           []model.Case
}

func (f *fakeService) Authenticated() bool { return f.authenticated }
func (f *fakeService) FetchCases(context.Context) ([]model.Case, error) {
	return f.all, nil
}
func (f *fakeService) FetchUserCases(context.Context) ([]model.Case, error) {
	return nil, nil
}
func (f *fakeService) FetchCase(_ context.Context, id string) (*model.Case, error) {
	for _, c := range f.all {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, errors.New("not found")
}
func (f *fakeService) CreateCase(context.Context, model.CaseDraft, string) (*model.Case, error) {
	return nil, errors.New("unused")
}
func (f *fakeService) UpdateStatus(context.Context, string, model.Status) (*model.Case, error) {
	return nil, errors.New("unused")
}

func testConfig() *model.AppConfig {
	return &model.AppConfig{
		Map:     model.MapConfig{CenterLat: 20.5937, CenterLng: 78.9629, Zoom: 5},
		Display: model.DisplayConfig{RefreshIntervalSec: 0},
	}
}

func newTestApp(svc *fakeService) (Model, *cases.Store) {
	store := cases.NewStore(svc)
	resolver := geo.NewResolver("http://unused.invalid", "")
	m := New(store, nil, resolver, testConfig())
	return m, store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	appModel, ok := next.(Model)
	require.True(t, ok)
	return appModel
}

func sized(t *testing.T, m Model) Model {
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func TestSnapshotMessagePopulatesStore(t *testing.T) {
	m, store := newTestApp(&fakeService{})
	m = sized(t, m)

	seq := store.BeginFetch(cases.CollectionAll)
	m = update(t, m, snapshotMsg{
		col: cases.CollectionAll,
		seq: seq,
		cases: []model.Case{{
			ID: "c1", Title: "Injured dog", Urgency: model.UrgencyHigh,
			Status: model.StatusPending, CreatedAt: time.Now(),
		}},
	})

	assert.Len(t, store.All(), 1)
	assert.Contains(t, m.View(), "1 cases")
}

func TestSnapshotErrorShowsInHeader(t *testing.T) {
	m, store := newTestApp(&fakeService{})
	m = sized(t, m)

	seq := store.BeginFetch(cases.CollectionAll)
	m = update(t, m, snapshotMsg{
		col: cases.CollectionAll,
		seq: seq,
		err: errors.New("connection refused"),
	})

	assert.Contains(t, m.View(), "Failed to fetch cases")
}

func TestNavigationKeys(t *testing.T) {
	m, _ := newTestApp(&fakeService{})
	m = sized(t, m)
	require.Equal(t, ViewHome, m.currentView)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	assert.Equal(t, ViewCases, m.currentView)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	assert.Equal(t, ViewProfile, m.currentView)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewHome, m.currentView)
}

func TestOpenDetailFromListSelection(t *testing.T) {
	svc := &fakeService{all: []model.Case{{ID: "c1", Title: "Injured dog"}}}
	m, store := newTestApp(svc)
	m = sized(t, m)

	seq := store.BeginFetch(cases.CollectionAll)
	m = update(t, m, snapshotMsg{col: cases.CollectionAll, seq: seq, cases: svc.all})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})

	next, cmd := m.Update(caselistSelected("c1"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, ViewDetail, m.currentView)
	assert.Contains(t, m.View(), "Loading case")

	// The load resolving for the requested id fills the view.
	c, err := svc.FetchCase(context.Background(), "c1")
	require.NoError(t, err)
	m = update(t, m, caseLoadedMsg{id: "c1", c: c})
	assert.Contains(t, m.View(), "Injured dog")

	// Esc returns to the list.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewCases, m.currentView)
}

func TestDetailLoadFailureShowsMessage(t *testing.T) {
	m, _ := newTestApp(&fakeService{})
	m = sized(t, m)

	next, _ := m.Update(caselistSelected("ghost"))
	m = next.(Model)

	m = update(t, m, caseLoadedMsg{id: "ghost", err: errors.New("not found")})
	assert.Contains(t, m.View(), "Failed to fetch case details")
}

func TestStatusUpdateFlowsIntoStore(t *testing.T) {
	svc := &fakeService{all: []model.Case{{ID: "c1", Status: model.StatusPending}}}
	m, store := newTestApp(svc)
	m = sized(t, m)

	seq := store.BeginFetch(cases.CollectionAll)
	m = update(t, m, snapshotMsg{col: cases.CollectionAll, seq: seq, cases: svc.all})

	next, _ := m.Update(caselistSelected("c1"))
	m = next.(Model)
	c, _ := svc.FetchCase(context.Background(), "c1")
	m = update(t, m, caseLoadedMsg{id: "c1", c: c})

	m = update(t, m, statusUpdatedMsg{id: "c1", status: model.StatusResolved})

	got, ok := store.Get("c1")
	require.True(t, ok)
	assert.Equal(t, model.StatusResolved, got.Status)
}

func TestCtrlCQuitsEverywhere(t *testing.T) {
	m, _ := newTestApp(&fakeService{})
	m = sized(t, m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
