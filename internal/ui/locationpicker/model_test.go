package locationpicker

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Madan2468/resqLink-frontend/internal/geo"
	"github.com/Madan2468/resqLink-frontend/internal/keys"
	"github.com/Madan2468/resqLink-frontend/internal/model"
)

// runCmd executes a command synchronously and returns its message.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestInitialLocationTakesPriority(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"display_name":"Bandra, Mumbai"}`)
	}))
	defer srv.Close()

	initial := &model.Location{Lat: 19.076, Lng: 72.8777}
	m, cmd := New(geo.NewResolver(srv.URL, ""), keys.DefaultKeyMap(), initial, 20.5937, 78.9629, 5, 80, 24)

	// The picker centers on the initial location, not the default.
	assert.InDelta(t, 19.076, m.Position().Lat, 0.0001)

	// The pin is dropped immediately and the address resolves.
	msg := runCmd(t, cmd)
	m, cmd = m.Update(msg)
	selected := runCmd(t, cmd)

	sel, ok := selected.(LocationSelectedMsg)
	require.True(t, ok)
	assert.InDelta(t, 19.076, sel.Location.Lat, 0.0001)
	assert.Equal(t, "Bandra, Mumbai", sel.Location.Address)
}

func TestDropPinSelectsEvenWhenAddressFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m, _ := New(geo.NewResolver(srv.URL, ""), keys.DefaultKeyMap(), &model.Location{Lat: 10, Lng: 20}, 0, 0, 5, 80, 24)

	msg := runCmd(t, m.dropPin())
	m, cmd := m.Update(msg)
	selected := runCmd(t, cmd)

	// Address resolution failure degrades to coordinates only; the
	// selection still goes through.
	sel, ok := selected.(LocationSelectedMsg)
	require.True(t, ok)
	assert.InDelta(t, 10, sel.Location.Lat, 0.0001)
	assert.Empty(t, sel.Location.Address)
}

func TestStaleAddressLookupIsDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"display_name":"Old Pin Road"}`)
	}))
	defer srv.Close()

	m, _ := New(geo.NewResolver(srv.URL, ""), keys.DefaultKeyMap(), &model.Location{Lat: 10, Lng: 20}, 0, 0, 5, 80, 24)

	// Drop a pin, then drop another before the first lookup lands.
	firstLookup := m.dropPin()
	_ = m.dropPin()

	staleMsg := runCmd(t, firstLookup)
	m, cmd := m.Update(staleMsg)

	// The stale lookup must produce no selection and no address.
	assert.Nil(t, cmd)
	assert.Empty(t, m.Position().Address)
}

func TestDevicePositionDenialKeepsManualMode(t *testing.T) {
	// No position service configured: the lookup is denied.
	m, cmd := New(geo.NewResolver("http://unused.invalid", ""), keys.DefaultKeyMap(), nil, 20.5937, 78.9629, 5, 80, 24)

	msg := runCmd(t, cmd)
	m, cmd = m.Update(msg)

	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "pick one manually")

	// The default center is untouched and the picker still works.
	assert.InDelta(t, 20.5937, m.Position().Lat, 0.0001)
}

func TestDevicePositionCentersAndSelects(t *testing.T) {
	position := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","lat":12.97,"lon":77.59}`)
	}))
	defer position.Close()

	reverse := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"display_name":"MG Road, Bengaluru"}`)
	}))
	defer reverse.Close()

	m, cmd := New(geo.NewResolver(reverse.URL, position.URL), keys.DefaultKeyMap(), nil, 20.5937, 78.9629, 5, 80, 24)

	msg := runCmd(t, cmd)
	m, cmd = m.Update(msg)
	selected := runCmd(t, cmd)

	sel, ok := selected.(LocationSelectedMsg)
	require.True(t, ok)
	assert.InDelta(t, 12.97, sel.Location.Lat, 0.0001)
	assert.Equal(t, "MG Road, Bengaluru", sel.Location.Address)
	assert.Contains(t, m.View(), "Using your current location")
}

func TestManualMovementClearsResolvedAddress(t *testing.T) {
	m, _ := New(geo.NewResolver("http://unused.invalid", ""), keys.DefaultKeyMap(),
		&model.Location{Lat: 10, Lng: 20, Address: "Somewhere"}, 0, 0, 5, 80, 24)
	require.Equal(t, "Somewhere", m.Position().Address)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Empty(t, m.Position().Address)
	assert.Greater(t, m.Position().Lng, 20.0)
}
