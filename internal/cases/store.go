package cases

import (
	"context"

	"github.com/Madan2468/resqLink-frontend/internal/model"
)

// Service is the remote contract the store depends on. *api.Client
// satisfies it; tests substitute a fake.
type Service interface {
	// Authenticated reports whether a bearer credential is attached.
	Authenticated() bool

	// FetchCases retrieves the full public case snapshot.
	FetchCases(ctx context.Context) ([]model.Case, error)

	// FetchUserCases retrieves the authenticated user's cases.
	FetchUserCases(ctx context.Context) ([]model.Case, error)

	// FetchCase retrieves a single case by id.
	FetchCase(ctx context.Context, id string) (*model.Case, error)

	// CreateCase submits a new report and returns the created case.
	CreateCase(ctx context.Context, draft model.CaseDraft, ref string) (*model.Case, error)

	// UpdateStatus transitions a case and returns the updated record.
	UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Case, error)
}

// Collection selects which of the store's two case collections an
// operation targets.
type Collection int

const (
	// CollectionAll is the public snapshot of every case.
	CollectionAll Collection = iota

	// CollectionMine is the authenticated user's own cases. It is fetched
	// from a separate endpoint with a different authorization scope, so it
	// is held as its own collection rather than derived from CollectionAll.
	CollectionMine
)

// Store is the single source of truth for case data. Every view reads
// from it; mutations go through the small fixed set of Apply* entry
// points. The store is only ever touched from the Bubble Tea update
// loop, so no locking is needed: the one consistency hazard is
// out-of-order resolution of overlapping fetches, which the per-
// collection sequence numbers suppress.
type Store struct {
	svc Service

	all  []model.Case
	mine []model.Case

	loading bool
	errMsg  string

	// issued is the most recently handed-out fetch sequence number per
	// collection; applied is the highest one whose result has landed.
	// A snapshot with a sequence below applied is stale and dropped.
	issued  [2]uint64
	applied [2]uint64
}

// NewStore creates a store backed by the given remote service.
func NewStore(svc Service) *Store {
	return &Store{svc: svc}
}

// Service exposes the remote service for call sites that bypass the
// collections, such as single-case detail loads.
func (s *Store) Service() Service { return s.svc }

// All returns the full case collection. Callers treat the returned
// slice as read-only.
func (s *Store) All() []model.Case { return s.all }

// Mine returns the authenticated user's cases. Read-only for callers.
func (s *Store) Mine() []model.Case { return s.mine }

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool { return s.loading }

// Err returns the message of the last absorbed fetch failure, or "".
func (s *Store) Err() string { return s.errMsg }

// Get returns the case with the given id from the full collection.
func (s *Store) Get(id string) (model.Case, bool) {
	for _, c := range s.all {
		if c.ID == id {
			return c, true
		}
	}
	return model.Case{}, false
}

// CanFetchMine reports whether fetching the user's cases would do
// anything. Without a credential the operation is a no-op.
func (s *Store) CanFetchMine() bool {
	return s.svc.Authenticated()
}

// Seed populates the full collection from the local snapshot cache.
// It only applies before any remote snapshot has landed; a fetch that
// resolved first always wins.
func (s *Store) Seed(snapshot []model.Case) {
	if s.applied[CollectionAll] > 0 || len(s.all) > 0 {
		return
	}
	s.all = snapshot
}

// BeginFetch marks the store loading, clears any previous error, and
// issues a sequence number that must accompany the eventual snapshot.
func (s *Store) BeginFetch(col Collection) uint64 {
	s.loading = true
	s.errMsg = ""
	s.issued[col]++
	return s.issued[col]
}

// ApplySnapshot lands a completed fetch. The collection is replaced
// wholesale; there is no incremental merge. A result carrying a
// sequence number lower than one already applied lost the race to a
// newer fetch and is dropped. Failures are absorbed into the store's
// error state rather than propagated. Returns false when the snapshot
// was discarded as stale.
func (s *Store) ApplySnapshot(col Collection, seq uint64, snapshot []model.Case, err error) bool {
	if seq < s.applied[col] {
		return false
	}
	s.applied[col] = seq

	if seq == s.issued[col] {
		s.loading = false
	}

	if err != nil {
		s.errMsg = fetchErrorMessage(col, err)
		return true
	}

	s.errMsg = ""
	switch col {
	case CollectionAll:
		s.all = snapshot
	case CollectionMine:
		s.mine = snapshot
	}
	return true
}

// ApplyCreated appends a newly created case to both collections. A case
// already present in a collection is not duplicated.
func (s *Store) ApplyCreated(c model.Case) {
	s.all = appendUnique(s.all, c)
	s.mine = appendUnique(s.mine, c)
}

// ApplyStatus replaces the matching record in both collections with a
// shallow copy carrying the new status. Updating one collection and not
// the other would leave a divergent, stale view, so the two replacements
// always happen together.
func (s *Store) ApplyStatus(id string, status model.Status) {
	replaceStatus(s.all, id, status)
	replaceStatus(s.mine, id, status)
}

// appendUnique appends c unless a case with the same id is already
// present.
func appendUnique(cs []model.Case, c model.Case) []model.Case {
	for _, existing := range cs {
		if existing.ID == c.ID {
			return cs
		}
	}
	return append(cs, c)
}

// replaceStatus swaps in a copy of the matching case with the new status.
func replaceStatus(cs []model.Case, id string, status model.Status) {
	for i, c := range cs {
		if c.ID == id {
			updated := c
			updated.Status = status
			cs[i] = updated
			return
		}
	}
}

// fetchErrorMessage produces the inline message shown for an absorbed
// fetch failure.
func fetchErrorMessage(col Collection, err error) string {
	switch col {
	case CollectionMine:
		return "Failed to fetch your cases: " + err.Error()
	default:
		return "Failed to fetch cases: " + err.Error()
	}
}
