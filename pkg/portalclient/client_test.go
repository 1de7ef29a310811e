package portalclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ictak-go-api/internal/auth"
	"github.com/noah-isme/ictak-go-api/internal/dto"
	"github.com/noah-isme/ictak-go-api/pkg/portalclient"
)

func writeEnvelope(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func issueToken(t *testing.T, issuedAt time.Time) string {
	t.Helper()
	issuer, err := auth.NewTokenIssuer("secret", time.Hour, auth.WithClock(func() time.Time { return issuedAt }))
	require.NoError(t, err)
	token, err := issuer.Issue(auth.Identity{Email: "anu@example.com", Name: "Anu", ID: "1"})
	require.NoError(t, err)
	return token
}

func TestLoginStoresTokenAndAttachesBearer(t *testing.T) {
	token := issueToken(t, time.Now())

	var seenAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var payload dto.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Equal(t, "anu@example.com", payload.Email)
			writeEnvelope(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"message": "Login successful",
				"token":   token,
				"data":    map[string]interface{}{"user": map[string]interface{}{"email": "anu@example.com", "name": "Anu"}},
			})
		case "/api/auth/verify-token":
			seenAuth.Store(r.Header.Get("Authorization"))
			writeEnvelope(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"message": "Token is valid",
				"data":    map[string]interface{}{"user": map[string]interface{}{"email": "anu@example.com"}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := portalclient.New(srv.URL + "/api/")
	require.False(t, client.IsAuthenticated())

	user, err := client.Login(context.Background(), "anu@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "Anu", user.User.Name)
	require.True(t, client.IsAuthenticated())

	identity, ok := client.CurrentIdentity()
	require.True(t, ok)
	require.Equal(t, "anu@example.com", identity.Email)

	_, err = client.VerifyToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer "+token, seenAuth.Load())

	require.NoError(t, client.Logout())
	require.False(t, client.IsAuthenticated())
}

func TestUnauthorizedClearsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Access token expired"})
	}))
	defer srv.Close()

	store := portalclient.NewMemoryTokenStore()
	require.NoError(t, store.SetToken(issueToken(t, time.Now())))
	client := portalclient.New(srv.URL, portalclient.WithTokenStore(store))

	_, err := client.StudentCourse(context.Background(), "anu@example.com")
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, portalclient.StatusOf(err))
	require.Equal(t, "Session expired. Please log in again.", portalclient.HandleError(err))

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestGetRetriesServerErrorsWithBackoff(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			writeEnvelope(w, http.StatusBadGateway, map[string]interface{}{"success": false, "message": "upstream"})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    []map[string]interface{}{{"projectId": "p1", "title": "Library"}},
		})
	}))
	defer srv.Close()

	client := portalclient.New(srv.URL, portalclient.WithRetry(3, time.Millisecond))
	projects, err := client.AvailableProjects(context.Background(), "FSD")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestGetGivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeEnvelope(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": "boom"})
	}))
	defer srv.Close()

	client := portalclient.New(srv.URL, portalclient.WithRetry(2, time.Millisecond))
	_, err := client.ProjectDetails(context.Background(), "p1")
	require.Error(t, err)
	require.Equal(t, "Server error. Please try again later.", portalclient.HandleError(err))
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestWritesAreNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeEnvelope(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": "boom"})
	}))
	defer srv.Close()

	client := portalclient.New(srv.URL, portalclient.WithRetry(3, time.Millisecond))
	_, err := client.AddQuestion(context.Background(), "anu@example.com", "why?")
	require.Error(t, err)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestSelectProjectReportsCreation(t *testing.T) {
	status := http.StatusCreated
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/students/select-project", r.URL.Path)
		writeEnvelope(w, status, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"studentId": "anu@example.com", "projectId": "p1"},
		})
	}))
	defer srv.Close()

	client := portalclient.New(srv.URL)
	payload := dto.SelectProjectRequest{StudentID: "anu@example.com", ProjectID: "p1"}

	assignment, created, err := client.SelectProject(context.Background(), payload)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "p1", assignment.ProjectID)

	status = http.StatusOK
	_, created, err = client.SelectProject(context.Background(), payload)
	require.NoError(t, err)
	require.False(t, created)
}

func TestUploadWeeklySendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/submissions/weekly/anu@example.com", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "2", r.FormValue("selectedWeek"))
		require.Equal(t, "https://github.com/anu/week2", r.FormValue("links"))

		file, header, err := r.FormFile("files")
		require.NoError(t, err)
		defer file.Close()
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, "report.pdf", header.Filename)
		require.Equal(t, "%PDF-1.4", string(content))

		writeEnvelope(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"week": 2, "links": "https://github.com/anu/week2"},
		})
	}))
	defer srv.Close()

	client := portalclient.New(srv.URL)
	submission, err := client.UploadWeekly(context.Background(), "anu@example.com", dto.WeeklySubmissionRequest{
		SelectedWeek: "2",
		Links:        "https://github.com/anu/week2",
	}, &portalclient.File{Name: "report.pdf", ContentType: "application/pdf", Content: strings.NewReader("%PDF-1.4")})
	require.NoError(t, err)
	require.Equal(t, 2, submission.Week)
}

func TestIsAuthenticatedClearsExpiredAndGarbageTokens(t *testing.T) {
	store := portalclient.NewMemoryTokenStore()
	client := portalclient.New("http://portal.invalid", portalclient.WithTokenStore(store))

	require.NoError(t, store.SetToken(issueToken(t, time.Now().Add(-2*time.Hour))))
	require.False(t, client.IsAuthenticated())
	token, _ := store.Token()
	require.Empty(t, token)

	require.NoError(t, store.SetToken("not-a-jwt"))
	require.False(t, client.IsAuthenticated())
	token, _ = store.Token()
	require.Empty(t, token)
}

func TestHandleErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&portalclient.APIError{Status: 400, Message: "Week selection is required"}, "Week selection is required"},
		{&portalclient.APIError{Status: 400}, "Bad request - Please check your input"},
		{&portalclient.APIError{Status: 401, Message: "x"}, "Session expired. Please log in again."},
		{&portalclient.APIError{Status: 403, Message: "x"}, "Access denied. Please log in again."},
		{&portalclient.APIError{Status: 404}, "Resource not found"},
		{&portalclient.APIError{Status: 404, Message: "Question not found"}, "Question not found"},
		{&portalclient.APIError{Status: 409}, "Conflict - Resource already exists"},
		{&portalclient.APIError{Status: 500, Message: "x"}, "Server error. Please try again later."},
		{&portalclient.APIError{Status: 429}, "Error 429: An error occurred"},
		{&portalclient.APIError{Status: 429, Message: "Too many requests"}, "Too many requests"},
		{fmt.Errorf("wrap: %w", context.DeadlineExceeded), "Request timeout. Please try again."},
		{errors.New("boom"), "An unexpected error occurred. Please try again."},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, portalclient.HandleError(tc.err), tc.err.Error())
	}
	require.Empty(t, portalclient.HandleError(nil))
}

func TestTimeoutAndNetworkErrors(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	client := portalclient.New(slow.URL, portalclient.WithTimeout(20*time.Millisecond), portalclient.WithRetry(0, 0))
	_, err := client.StudentProjects(context.Background(), "anu@example.com")
	require.Error(t, err)
	require.Equal(t, "Request timeout. Please try again.", portalclient.HandleError(err))

	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()

	client = portalclient.New(url, portalclient.WithRetry(0, 0))
	_, err = client.StudentProjects(context.Background(), "anu@example.com")
	require.Error(t, err)
	require.Equal(t, "Network error. Please check your internet connection.", portalclient.HandleError(err))
}

func TestFileTokenStorePersistsPrivately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal", "token")
	store := portalclient.NewFileTokenStore(path)

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)

	require.NoError(t, store.SetToken("abc"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened := portalclient.NewFileTokenStore(path)
	token, err = reopened.Token()
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	require.NoError(t, reopened.ClearToken())
	require.NoError(t, reopened.ClearToken())
	token, err = store.Token()
	require.NoError(t, err)
	require.Empty(t, token)
}
