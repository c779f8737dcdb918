package model

import "time"

// Urgency is the triage category assigned when a case is reported.
// It is not editable after creation.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Status is the workflow state of a case. Only responders move a case
// through pending -> in-progress -> resolved.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

// FallbackTitle is shown wherever a case has no title of its own.
const FallbackTitle = "Animal Rescue Case"

// Location is a coordinate pair with an optional human-readable address.
// It is always embedded in a Case or held transiently by the location
// picker before submission.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Case is a single reported animal-in-need record. The remote service
// assigns ID and CreatedAt; everything except Status is immutable after
// creation. Title, Description, and Location may all be absent, so every
// display path supplies a fallback.
type Case struct {
	// ID is the opaque identifier assigned by the remote service.
	ID string `json:"_id"`

	// UserID references the reporting user.
	UserID string `json:"user"`

	// Title is the optional short summary of the report.
	Title string `json:"title,omitempty"`

	// Description is the optional free-text detail.
	Description string `json:"description,omitempty"`

	// Photo is the URI of the uploaded photo.
	Photo string `json:"photo"`

	// Location is where the animal was sighted, when known.
	Location *Location `json:"location,omitempty"`

	// Urgency is the triage category (use Urgency* constants).
	Urgency Urgency `json:"urgency"`

	// Status is the workflow state (use Status* constants).
	Status Status `json:"status"`

	// CreatedAt is when the remote service accepted the report.
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayTitle returns the case title or the fixed fallback when absent.
func (c Case) DisplayTitle() string {
	if c.Title == "" {
		return FallbackTitle
	}
	return c.Title
}

// HasLocation reports whether the case carries a coordinate and is
// therefore plottable on the map.
func (c Case) HasLocation() bool {
	return c.Location != nil
}

// CaseDraft is the payload for a new report. Photo is the local path of
// the image file; it is streamed as the multipart file part.
type CaseDraft struct {
	Title       string
	Description string
	PhotoPath   string
	Location    Location
	Urgency     Urgency
}

// UrgencyLabel returns the badge text for an urgency value. Unknown
// values get a neutral label rather than an error.
func UrgencyLabel(u Urgency) string {
	switch u {
	case UrgencyHigh:
		return "Urgent"
	case UrgencyMedium:
		return "Medium"
	case UrgencyLow:
		return "Low"
	default:
		return string(u)
	}
}

// StatusLabel returns the badge text for a status value, with a pass-through
// fallback for values this client does not know about.
func StatusLabel(s Status) string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusResolved:
		return "Resolved"
	default:
		return string(s)
	}
}
