package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Madan2468/resqLink-frontend/internal/model"
)

// PermissionDeniedError indicates the device position could not be
// obtained: the lookup service is disabled, unreachable, or refused the
// request. The picker stays usable in manual mode.
type PermissionDeniedError struct {
	Message string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("location unavailable: %s", e.Message)
}

// IsPermissionDenied reports whether err is a PermissionDeniedError.
func IsPermissionDenied(err error) bool {
	var pd *PermissionDeniedError
	return errors.As(err, &pd)
}

// AddressResolutionError indicates a reverse geocode failed. It is
// always non-fatal: callers degrade to coordinates-only.
type AddressResolutionError struct {
	Err error
}

func (e *AddressResolutionError) Error() string {
	return fmt.Sprintf("address resolution failed: %v", e.Err)
}

func (e *AddressResolutionError) Unwrap() error { return e.Err }

// IsAddressResolutionError reports whether err is an AddressResolutionError.
func IsAddressResolutionError(err error) bool {
	var ar *AddressResolutionError
	return errors.As(err, &ar)
}

// Resolver wraps device position lookup and reverse address lookup
// behind a single capability. Both backing services are best-effort.
type Resolver struct {
	reverseURL  string
	positionURL string
	httpClient  *http.Client
}

// NewResolver creates a resolver. reverseURL points at a Nominatim-style
// reverse geocoder; positionURL points at an ip-api-style position
// service, or "" to disable device position lookup.
func NewResolver(reverseURL, positionURL string) *Resolver {
	return &Resolver{
		reverseURL:  strings.TrimRight(reverseURL, "/"),
		positionURL: strings.TrimRight(positionURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// positionResponse is the ip-api.com JSON shape.
type positionResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// DevicePosition approximates the device's position. Returns a
// PermissionDeniedError when the service is disabled or the lookup
// fails; there is nothing actionable in the distinction for callers.
func (r *Resolver) DevicePosition(ctx context.Context) (model.Location, error) {
	if r.positionURL == "" {
		return model.Location{}, &PermissionDeniedError{
			Message: "position lookup disabled",
		}
	}

	var pos positionResponse
	if err := r.getJSON(ctx, r.positionURL+"/json", &pos); err != nil {
		return model.Location{}, &PermissionDeniedError{Message: err.Error()}
	}
	if pos.Status != "success" {
		msg := pos.Message
		if msg == "" {
			msg = "position service refused the request"
		}
		return model.Location{}, &PermissionDeniedError{Message: msg}
	}

	return model.Location{Lat: pos.Lat, Lng: pos.Lon}, nil
}

// reverseResponse is the Nominatim reverse geocode JSON shape.
type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// ReverseLookup resolves a human-readable address for a coordinate.
// Failures come back as AddressResolutionError and must never block
// the caller's primary action.
func (r *Resolver) ReverseLookup(ctx context.Context, lat, lng float64) (string, error) {
	url := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f", r.reverseURL, lat, lng)

	var rev reverseResponse
	if err := r.getJSON(ctx, url, &rev); err != nil {
		return "", &AddressResolutionError{Err: err}
	}
	if rev.DisplayName == "" {
		return "", &AddressResolutionError{Err: errors.New("no address for coordinate")}
	}
	return rev.DisplayName, nil
}

// Locate resolves the device position and enriches it with an address.
// Address resolution failure is swallowed: the location comes back with
// coordinates only.
func (r *Resolver) Locate(ctx context.Context) (model.Location, error) {
	loc, err := r.DevicePosition(ctx)
	if err != nil {
		return model.Location{}, err
	}

	if addr, err := r.ReverseLookup(ctx, loc.Lat, loc.Lng); err == nil {
		loc.Address = addr
	}
	return loc, nil
}

// getJSON performs a GET and decodes the JSON response.
func (r *Resolver) getJSON(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "resqlink-tui")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshaling response: %w", err)
	}
	return nil
}
