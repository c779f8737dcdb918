package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayTitleFallback(t *testing.T) {
	assert.Equal(t, FallbackTitle, Case{}.DisplayTitle())
	assert.Equal(t, "Injured dog", Case{Title: "Injured dog"}.DisplayTitle())
}

func TestHasLocation(t *testing.T) {
	assert.False(t, Case{}.HasLocation())

	// A zero coordinate is still a location: (0, 0) is a real place.
	assert.True(t, Case{Location: &Location{}}.HasLocation())
}

func TestUrgencyLabel(t *testing.T) {
	assert.Equal(t, "Urgent", UrgencyLabel(UrgencyHigh))
	assert.Equal(t, "Medium", UrgencyLabel(UrgencyMedium))
	assert.Equal(t, "Low", UrgencyLabel(UrgencyLow))

	// Unknown values pass through instead of erroring.
	assert.Equal(t, "critical", UrgencyLabel("critical"))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Pending", StatusLabel(StatusPending))
	assert.Equal(t, "In Progress", StatusLabel(StatusInProgress))
	assert.Equal(t, "Resolved", StatusLabel(StatusResolved))
	assert.Equal(t, "archived", StatusLabel("archived"))
}

func TestCaseDecodesServiceShape(t *testing.T) {
	raw := `{
		"_id": "6650f0a2",
		"user": "u1",
		"title": "Injured dog",
		"photo": "https://cdn.example.com/p.jpg",
		"location": {"lat": 19.076, "lng": 72.8777, "address": "Bandra"},
		"urgency": "high",
		"status": "in-progress",
		"createdAt": "2025-05-20T08:30:00Z"
	}`

	var c Case
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, "6650f0a2", c.ID)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, UrgencyHigh, c.Urgency)
	assert.Equal(t, StatusInProgress, c.Status)
	require.NotNil(t, c.Location)
	assert.Equal(t, "Bandra", c.Location.Address)
	assert.Equal(t, 2025, c.CreatedAt.Year())
}

func TestCaseDecodesWithMissingOptionalFields(t *testing.T) {
	raw := `{"_id": "x", "urgency": "low", "status": "pending", "createdAt": "2025-05-20T08:30:00Z"}`

	var c Case
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Empty(t, c.Title)
	assert.Nil(t, c.Location)
	assert.Equal(t, FallbackTitle, c.DisplayTitle())
}
