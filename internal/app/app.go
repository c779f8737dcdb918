package app

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Madan2468/resqLink-frontend/internal/cache"
	"github.com/Madan2468/resqLink-frontend/internal/cases"
	"github.com/Madan2468/resqLink-frontend/internal/geo"
	"github.com/Madan2468/resqLink-frontend/internal/keys"
	"github.com/Madan2468/resqLink-frontend/internal/model"
	"github.com/Madan2468/resqLink-frontend/internal/theme"
	"github.com/Madan2468/resqLink-frontend/internal/ui"
	"github.com/Madan2468/resqLink-frontend/internal/ui/caselist"
	"github.com/Madan2468/resqLink-frontend/internal/ui/detail"
	"github.com/Madan2468/resqLink-frontend/internal/ui/home"
	"github.com/Madan2468/resqLink-frontend/internal/ui/mapview"
	"github.com/Madan2468/resqLink-frontend/internal/ui/profile"
	"github.com/Madan2468/resqLink-frontend/internal/ui/reportform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewHome ViewState = iota
	ViewCases
	ViewDetail
	ViewReport
	ViewProfile
)

// Model is the root Bubble Tea model. It owns the case store and the
// view routing; every view receives its data through explicit setters,
// never through package globals. Store mutations happen only here, in
// the update loop, which is what makes the store safe without locks.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        *cases.Store
	cache        *cache.Cache
	keys         *keys.KeyMap

	homeView    home.Model
	casesView   caselist.Model
	detailView  detail.Model
	reportView  reportform.Model
	profileView profile.Model

	refreshInterval time.Duration
	ready           bool
}

// New creates the root application model. cache may be nil when the
// local snapshot cache could not be opened; the app works without it.
func New(store *cases.Store, c *cache.Cache, resolver *geo.Resolver, cfg *model.AppConfig) Model {
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewHome,
		store:       store,
		cache:       c,
		keys:        k,
		homeView:    home.New(80, 24),
		casesView: caselist.New(
			k, cfg.Map.CenterLat, cfg.Map.CenterLng, cfg.Map.Zoom, 80, 24,
		),
		detailView: detail.New(store, k, 80, 24),
		reportView: reportform.New(
			resolver, k, cfg.Map.CenterLat, cfg.Map.CenterLng, cfg.Map.Zoom, 80, 24,
		),
		profileView:     profile.New(k, 80, 24),
		refreshInterval: time.Duration(cfg.Display.RefreshIntervalSec) * time.Second,
	}
}

// Init seeds the UI from the local cache and starts the initial fetches.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCachedSnapshot(),
		m.fetchAll(),
		m.fetchMine(),
		m.scheduleRefresh(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.homeView.SetSize(w, h)
		m.casesView.SetSize(w, h)
		m.detailView.SetSize(w, h)
		m.reportView.SetSize(w, h)
		m.profileView.SetSize(w, h)
		return m.updateActiveView(msg)

	case cachedSnapshotMsg:
		m.store.Seed(msg.cases)
		m.syncViews()
		return m, nil

	case snapshotMsg:
		applied := m.store.ApplySnapshot(msg.col, msg.seq, msg.cases, msg.err)
		if !applied {
			return m, nil
		}
		m.syncViews()
		if msg.err == nil && msg.col == cases.CollectionAll {
			return m, m.persistSnapshot(msg.cases)
		}
		return m, nil

	case snapshotCachedMsg:
		return m, nil

	case refreshTickMsg:
		return m, tea.Batch(m.fetchAll(), m.fetchMine(), m.scheduleRefresh())

	case caselist.RefreshRequestedMsg:
		return m, tea.Batch(m.fetchAll(), m.fetchMine())

	case caselist.SelectedCaseMsg:
		return m.openDetail(msg.CaseID)

	case mapview.OpenCaseMsg:
		return m.openDetail(msg.CaseID)

	case caseLoadedMsg:
		if msg.err != nil {
			m.detailView.SetError(msg.id, loadErrorMessage(msg.err))
		} else {
			m.detailView.SetCase(msg.c)
		}
		return m, nil

	case reportform.ReportSubmittedMsg:
		return m, m.createCase(msg.Draft)

	case reportform.ReportCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case caseCreatedMsg:
		if msg.err != nil {
			// Mutation failures go back to the initiating form; the
			// draft stays intact for the user to fix and resubmit.
			m.reportView.SetError(createErrorMessage(msg.err))
			return m, nil
		}
		m.store.ApplyCreated(*msg.c)
		m.syncViews()
		m.previousView = ViewCases
		m.currentView = ViewDetail
		m.detailView.Load(msg.c.ID)
		m.detailView.SetCase(msg.c)
		return m, m.persistSnapshot(m.store.All())

	case detail.StatusChangeRequestedMsg:
		return m, m.updateStatus(msg.CaseID, msg.Status)

	case statusUpdatedMsg:
		if msg.err == nil {
			m.store.ApplyStatus(msg.id, msg.status)
			m.syncViews()
		}
		return m, m.detailView.ApplyStatusResult(msg.id, msg.status, msg.err)

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m.updateActiveView(msg)
}

// handleKeys routes key input: text-entry surfaces get everything
// except ctrl+c, otherwise global navigation runs first.
func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The report form and the search bar consume every key.
	if m.currentView == ViewReport || m.casesViewCapturing() {
		return m.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewDetail {
			m.currentView = m.previousView
			return m, nil
		}
		if m.currentView != ViewHome {
			m.currentView = ViewHome
			return m, nil
		}
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.currentView = ViewHome
		return m, nil

	case key.Matches(msg, m.keys.Cases):
		if m.currentView != ViewCases {
			m.previousView = m.currentView
			m.currentView = ViewCases
		}
		return m, nil

	case key.Matches(msg, m.keys.Profile):
		if m.currentView != ViewProfile {
			m.previousView = m.currentView
			m.currentView = ViewProfile
			return m, m.fetchMine()
		}
		return m, nil

	case key.Matches(msg, m.keys.Report):
		m.previousView = m.currentView
		m.currentView = ViewReport
		return m, m.reportView.Start()
	}

	return m.updateActiveView(msg)
}

// casesViewCapturing reports whether the cases page search bar is
// consuming keystrokes.
func (m Model) casesViewCapturing() bool {
	return m.currentView == ViewCases && m.casesView.Searching()
}

// openDetail navigates to a case's detail view and starts its load.
func (m Model) openDetail(id string) (tea.Model, tea.Cmd) {
	m.previousView = m.currentView
	m.currentView = ViewDetail
	m.detailView.Load(id)
	return m, m.loadCase(id)
}

// updateActiveView forwards a message to the currently visible view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewHome:
		m.homeView, cmd = m.homeView.Update(msg)
	case ViewCases:
		m.casesView, cmd = m.casesView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewReport:
		m.reportView, cmd = m.reportView.Update(msg)
	case ViewProfile:
		m.profileView, cmd = m.profileView.Update(msg)
	}
	return m, cmd
}

// syncViews pushes the store's collections into every reading view.
// Views hold derived projections only; the store stays the single
// source of truth.
func (m *Model) syncViews() {
	m.homeView.SetCases(m.store.All())
	m.casesView.SetCases(m.store.All())
	m.profileView.SetCases(m.store.Mine())
	m.profileView.SetAuthenticated(m.store.CanFetchMine())
}

// View renders the full application frame.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("ResQLink", m.headerStatus())

	var content string
	switch m.currentView {
	case ViewHome:
		content = m.homeView.View()
	case ViewCases:
		content = m.casesView.View()
	case ViewDetail:
		content = m.detailView.View()
	case ViewReport:
		content = m.reportView.View()
	case ViewProfile:
		content = m.profileView.View()
	}

	statusBar := m.layout.RenderStatusBar(m.statusHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// headerStatus shows the fetch state in the header's right corner.
func (m Model) headerStatus() string {
	if m.store.Loading() {
		return "syncing..."
	}
	if m.store.Err() != "" {
		return theme.ErrorStyle.
			Background(theme.HeaderStyle.GetBackground()).
			Render(m.store.Err())
	}
	return ""
}

// statusHints returns the keyboard hints for the active view.
func (m Model) statusHints() string {
	switch m.currentView {
	case ViewCases:
		return "/: search · u: urgency · s: status · m: map/list · r: refresh · enter: detail · esc: home"
	case ViewDetail:
		return "1/2/3: set status · esc: back"
	case ViewReport:
		return "esc: cancel"
	case ViewProfile:
		return "enter: detail · esc: home"
	default:
		return "c: cases · n: report · p: my reports · ?: keys shown per view · q: quit"
	}
}
