package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Madan2468/resqLink-frontend/internal/model"
)

func TestFetchCases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cases", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		fmt.Fprint(w, `[
			{"_id":"c1","title":"Injured dog","urgency":"high","status":"pending",
			 "location":{"lat":19.076,"lng":72.8777},"createdAt":"2025-05-20T08:30:00Z"},
			{"_id":"c2","urgency":"low","status":"resolved","createdAt":"2025-05-21T10:00:00Z"}
		]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	got, err := c.FetchCases(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, model.UrgencyHigh, got[0].Urgency)
	require.NotNil(t, got[0].Location)
	assert.InDelta(t, 72.8777, got[0].Location.Lng, 0.0001)

	// Absent optional fields decode to their zero values.
	assert.Empty(t, got[1].Title)
	assert.Nil(t, got[1].Location)
}

func TestFetchUserCasesSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cases/user", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token")
	got, err := c.FetchUserCases(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchUserCasesWithoutCredential(t *testing.T) {
	c := NewClient("http://unused.invalid", "")
	_, err := c.FetchUserCases(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestFetchCaseNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.FetchCase(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)
}

func TestCreateCaseMultipart(t *testing.T) {
	photoPath := filepath.Join(t.TempDir(), "dog.jpg")
	require.NoError(t, os.WriteFile(photoPath, []byte("jpeg-bytes"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Injured dog", r.FormValue("title"))
		assert.Equal(t, "high", r.FormValue("urgency"))
		assert.Equal(t, "ref-123", r.FormValue("ref"))
		assert.JSONEq(t, `{"lat":19.076,"lng":72.8777}`, r.FormValue("location"))

		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "dog.jpg", header.Filename)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"_id":"created-1","title":"Injured dog","status":"pending"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	created, err := c.CreateCase(context.Background(), model.CaseDraft{
		Title:     "Injured dog",
		PhotoPath: photoPath,
		Location:  model.Location{Lat: 19.076, Lng: 72.8777},
		Urgency:   model.UrgencyHigh,
	}, "ref-123")
	require.NoError(t, err)
	assert.Equal(t, "created-1", created.ID)
}

func TestCreateCaseUnreadablePhoto(t *testing.T) {
	c := NewClient("http://unused.invalid", "tok")
	_, err := c.CreateCase(context.Background(), model.CaseDraft{
		PhotoPath: filepath.Join(t.TempDir(), "does-not-exist.jpg"),
	}, "ref")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestCreateCaseRejectedPayload(t *testing.T) {
	photoPath := filepath.Join(t.TempDir(), "dog.jpg")
	require.NoError(t, os.WriteFile(photoPath, []byte("x"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message":"title is required"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, err := c.CreateCase(context.Background(), model.CaseDraft{PhotoPath: photoPath}, "ref")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "title is required")
}

func TestUpdateStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/cases/c1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		fmt.Fprint(w, `{"_id":"c1","status":"resolved"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	updated, err := c.UpdateStatus(context.Background(), "c1", model.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, updated.Status)
}

func TestCredentialRejectedMapsToAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "expired")
	_, err := c.FetchUserCases(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestRateLimitedRequestRetries(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.FetchCases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestServerErrorMapsToNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.FetchCases(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}
