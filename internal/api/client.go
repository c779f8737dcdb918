package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Madan2468/resqLink-frontend/internal/model"
)

// Client is a thin HTTP client for the ResQLink case API. It handles
// Bearer token authentication, JSON and multipart marshaling, and
// automatic retry with exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a new case API client. The baseURL should be the
// root URL of the service. An empty token leaves the client in
// unauthenticated mode: public reads still work, authenticated calls
// return an AuthError.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
}

// Authenticated reports whether a bearer token is attached to requests.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// FetchCases retrieves the full public snapshot of cases.
func (c *Client) FetchCases(ctx context.Context) ([]model.Case, error) {
	var cases []model.Case
	if err := c.get(ctx, "/api/cases", false, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// FetchUserCases retrieves the authenticated user's own cases.
func (c *Client) FetchUserCases(ctx context.Context) ([]model.Case, error) {
	if !c.Authenticated() {
		return nil, &AuthError{Message: "no credential stored; sign in to view your reports"}
	}
	var cases []model.Case
	if err := c.get(ctx, "/api/cases/user", true, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// FetchCase retrieves a single case by id.
func (c *Client) FetchCase(ctx context.Context, id string) (*model.Case, error) {
	var cs model.Case
	if err := c.get(ctx, "/api/cases/"+id, false, &cs); err != nil {
		var nf *NotFoundError
		if isStatus(err, http.StatusNotFound) {
			nf = &NotFoundError{ID: id}
			return nil, nf
		}
		return nil, err
	}
	return &cs, nil
}

// CreateCase submits a new report as a multipart form: the photo file
// plus the text fields, with the location encoded as a JSON string.
// ref is a client-generated reference echoed back by the service so
// retried submissions can be deduplicated.
func (c *Client) CreateCase(ctx context.Context, draft model.CaseDraft, ref string) (*model.Case, error) {
	if !c.Authenticated() {
		return nil, &AuthError{Message: "sign in before reporting a case"}
	}

	photo, err := os.Open(draft.PhotoPath)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("cannot read photo %s: %v", draft.PhotoPath, err)}
	}
	defer photo.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       draft.Title,
		"description": draft.Description,
		"urgency":     string(draft.Urgency),
		"ref":         ref,
	}
	locJSON, err := json.Marshal(draft.Location)
	if err != nil {
		return nil, fmt.Errorf("marshaling location: %w", err)
	}
	fields["location"] = string(locJSON)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("writing field %s: %w", name, err)
		}
	}

	part, err := w.CreateFormFile("photo", filepath.Base(draft.PhotoPath))
	if err != nil {
		return nil, fmt.Errorf("creating photo part: %w", err)
	}
	if _, err := io.Copy(part, photo); err != nil {
		return nil, fmt.Errorf("copying photo data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/api/cases", &buf,
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "POST /api/cases", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "POST /api/cases", Err: err}
	}

	if err := c.checkStatus(resp.StatusCode, respBody, "POST /api/cases"); err != nil {
		return nil, err
	}

	var created model.Case
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, fmt.Errorf("unmarshaling created case: %w", err)
	}
	return &created, nil
}

// UpdateStatus transitions a case to a new workflow state.
func (c *Client) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Case, error) {
	if !c.Authenticated() {
		return nil, &AuthError{Message: "sign in before updating a case"}
	}

	body := map[string]string{"status": string(status)}
	var updated model.Case
	err := c.do(ctx, http.MethodPatch, "/api/cases/"+id, true, body, &updated)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, err
	}
	return &updated, nil
}

// get performs an authenticated or anonymous JSON GET.
func (c *Client) get(ctx context.Context, path string, auth bool, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, auth, nil, result)
}

// statusError carries a raw HTTP status through the retry loop so call
// sites can map specific codes onto the typed taxonomy.
type statusError struct {
	code int
	op   string
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d on %s: %s", e.code, e.op, e.body)
}

// isStatus reports whether err is a statusError with the given code.
func isStatus(err error, code int) bool {
	se, ok := err.(*statusError)
	return ok && se.code == code
}

// do is the core HTTP method that builds the request, handles auth,
// rate limiting with exponential backoff, and JSON (de)serialization.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	auth bool,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path
	op := method + " " + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Rebuild the body reader on retries since it was consumed.
		if attempt > 0 && body != nil {
			data, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		if auth {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &NetworkError{Op: op, Err: err}
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return &NetworkError{Op: op, Err: readErr}
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf("rate limited (429) on %s", op)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if err := c.checkStatus(resp.StatusCode, respBody, op); err != nil {
			return err
		}

		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshaling response from %s: %w", op, err)
		}

		return nil
	}

	return &NetworkError{
		Op:  op,
		Err: fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr),
	}
}

// errorResponse is the structured error body the service returns on
// rejected payloads.
type errorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// checkStatus maps a non-2xx response onto the typed error taxonomy.
func (c *Client) checkStatus(code int, body []byte, op string) error {
	if code >= 200 && code < 300 {
		return nil
	}

	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Message: "credential rejected; sign in again"}
	case http.StatusNotFound:
		return &statusError{code: code, op: op, body: string(body)}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var er errorResponse
		if json.Unmarshal(body, &er) == nil && (er.Message != "" || len(er.Errors) > 0) {
			msg := er.Message
			if msg == "" {
				msg = strings.Join(er.Errors, "; ")
			}
			return &ValidationError{Message: msg}
		}
		return &ValidationError{Message: string(body)}
	}

	return &NetworkError{
		Op:  op,
		Err: fmt.Errorf("unexpected status %d: %s", code, string(body)),
	}
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
