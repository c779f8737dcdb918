package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/Madan2468/resqLink-frontend/internal/api"
	"github.com/Madan2468/resqLink-frontend/internal/cases"
	"github.com/Madan2468/resqLink-frontend/internal/model"
)

// fetchTimeout is the maximum time allowed for a single remote call.
const fetchTimeout = 30 * time.Second

// snapshotMsg carries a completed collection fetch. seq ties it back to
// the BeginFetch that issued it so stale responses can be dropped.
type snapshotMsg struct {
	col   cases.Collection
	seq   uint64
	cases []model.Case
	err   error
}

// cachedSnapshotMsg carries the locally cached snapshot loaded at startup.
type cachedSnapshotMsg struct {
	cases []model.Case
}

// caseLoadedMsg carries a single-case load for the detail view.
type caseLoadedMsg struct {
	id string
	c  *model.Case
	err error
}

// caseCreatedMsg carries the outcome of a report submission.
type caseCreatedMsg struct {
	c   *model.Case
	err error
}

// statusUpdatedMsg carries the outcome of a status transition.
type statusUpdatedMsg struct {
	id     string
	status model.Status
	err    error
}

// refreshTickMsg triggers a background refresh of both collections.
type refreshTickMsg struct{}

// snapshotCachedMsg reports the background snapshot persist; failures
// are ignored, the cache is best-effort.
type snapshotCachedMsg struct{}

// fetchAll begins a full-collection fetch. The store is marked loading
// synchronously; the remote call resolves into a snapshotMsg.
func (m *Model) fetchAll() tea.Cmd {
	seq := m.store.BeginFetch(cases.CollectionAll)
	svc := m.store.Service()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		cs, err := svc.FetchCases(ctx)
		return snapshotMsg{col: cases.CollectionAll, seq: seq, cases: cs, err: err}
	}
}

// fetchMine begins a fetch of the user's own cases. Without a stored
// credential this is a no-op: no remote call, no loading state.
func (m *Model) fetchMine() tea.Cmd {
	if !m.store.CanFetchMine() {
		return nil
	}

	seq := m.store.BeginFetch(cases.CollectionMine)
	svc := m.store.Service()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		cs, err := svc.FetchUserCases(ctx)
		return snapshotMsg{col: cases.CollectionMine, seq: seq, cases: cs, err: err}
	}
}

// loadCachedSnapshot loads the last persisted snapshot, if any.
func (m *Model) loadCachedSnapshot() tea.Cmd {
	if m.cache == nil {
		return nil
	}
	cache := m.cache

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		cs, err := cache.LoadSnapshot(ctx)
		if err != nil || len(cs) == 0 {
			return nil
		}
		return cachedSnapshotMsg{cases: cs}
	}
}

// persistSnapshot writes a fetched snapshot to the local cache.
func (m *Model) persistSnapshot(cs []model.Case) tea.Cmd {
	if m.cache == nil {
		return nil
	}
	cache := m.cache

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		_ = cache.ReplaceSnapshot(ctx, cs)
		return snapshotCachedMsg{}
	}
}

// loadCase fetches a single case for the detail view. It does not
// touch the store's collections.
func (m *Model) loadCase(id string) tea.Cmd {
	svc := m.store.Service()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		c, err := svc.FetchCase(ctx, id)
		return caseLoadedMsg{id: id, c: c, err: err}
	}
}

// createCase submits a report draft with a fresh client reference.
func (m *Model) createCase(draft model.CaseDraft) tea.Cmd {
	svc := m.store.Service()
	ref := uuid.New().String()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		c, err := svc.CreateCase(ctx, draft, ref)
		return caseCreatedMsg{c: c, err: err}
	}
}

// updateStatus sends a status transition for a case.
func (m *Model) updateStatus(id string, status model.Status) tea.Cmd {
	svc := m.store.Service()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		_, err := svc.UpdateStatus(ctx, id, status)
		return statusUpdatedMsg{id: id, status: status, err: err}
	}
}

// scheduleRefresh arms the background refresh timer.
func (m *Model) scheduleRefresh() tea.Cmd {
	if m.refreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// loadErrorMessage maps a single-case load failure onto the message
// shown in the detail view.
func loadErrorMessage(err error) string {
	switch {
	case api.IsNotFound(err):
		return "This case does not exist or has been removed."
	default:
		return "Failed to fetch case details: " + err.Error()
	}
}

// createErrorMessage maps a rejected submission onto the message shown
// in the report form.
func createErrorMessage(err error) string {
	switch {
	case api.IsValidationError(err), api.IsAuthError(err):
		return err.Error()
	default:
		return "Failed to create case: " + err.Error()
	}
}
