package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/domain/profile"
)

func (f *routerFixture) post(path, body string, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func cookieByName(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func signupTeacher(t *testing.T, f *routerFixture) {
	t.Helper()
	_, err := f.auth.Signup(context.Background(), profile.SignupRequest{
		Role:       "teacher",
		Name:       "Ravi",
		Email:      "ravi@example.com",
		Identifier: "APAR-77",
		Password:   "hunter22!",
	})
	require.NoError(t, err)
}

func TestLoginEndpoint(t *testing.T) {
	f := newRouterFixture(t)
	signupTeacher(t, f)

	w := f.post("/api/auth/login",
		`{"role":"teacher","identifier":"APAR-77","password":"hunter22!"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status     string `json:"status"`
		RedirectTo string `json:"redirect_to"`
		User       struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, TeacherPath, resp.RedirectTo)
	assert.Equal(t, "teacher", resp.User.Role)

	sessionCookie := cookieByName(t, w, SessionCookieName)
	require.NotNil(t, sessionCookie)
	assert.NotEmpty(t, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)

	hintCookie := cookieByName(t, w, RoleHintCookieName)
	require.NotNil(t, hintCookie)
	assert.Equal(t, "teacher", hintCookie.Value)
	assert.False(t, hintCookie.HttpOnly, "the hint is meant for the frontend")
}

func TestLoginEndpointRejectsBadCredentials(t *testing.T) {
	f := newRouterFixture(t)
	signupTeacher(t, f)

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"role":"teacher","identifier":"APAR-77","password":"wrong!!"}`},
		{"unknown identifier", `{"role":"teacher","identifier":"APAR-00","password":"hunter22!"}`},
		{"wrong role", `{"role":"student","identifier":"APAR-77","password":"hunter22!"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.post("/api/auth/login", tt.body)
			require.Equal(t, http.StatusUnauthorized, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Invalid credentials. Please try again.", resp["message"])
			assert.Nil(t, cookieByName(t, w, SessionCookieName))
		})
	}
}

func TestSignupEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	w := f.post("/api/auth/signup",
		`{"role":"student","name":"Asha","email":"asha@example.com","identifier":"123412341234","password":"longenough1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "student", resp["role"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestLogoutEndpoint(t *testing.T) {
	f := newRouterFixture(t)
	sessionID := f.signIn(t, "u1", domainauth.RoleStudent)

	w := f.post("/auth/logout", "", withSession(sessionID), asBrowser)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), SignedOutPath)

	sessionCookie := cookieByName(t, w, SessionCookieName)
	require.NotNil(t, sessionCookie)
	assert.Negative(t, sessionCookie.MaxAge)

	hintCookie := cookieByName(t, w, RoleHintCookieName)
	require.NotNil(t, hintCookie)
	assert.Negative(t, hintCookie.MaxAge)

	// The server-side session is gone; the dashboard is locked again.
	wd := f.get(StudentPath, asBrowser, withSession(sessionID))
	assert.Equal(t, http.StatusFound, wd.Code)
}

func TestStatusEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	w := f.get("/auth/status")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	sessionID := f.signIn(t, "u1", domainauth.RoleTeacher)
	w = f.get("/auth/status", withSession(sessionID))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Authenticated)
	assert.Equal(t, "teacher", resp.User.Role)
}

func TestRedirectEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	// Anonymous visitors land on the login page.
	w := f.get("/redirect", asBrowser)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))

	// Signed-in users land on their role's dashboard.
	sessionID := f.signIn(t, "u1", domainauth.RoleInstitutionAdmin)
	w = f.get("/redirect", asBrowser, withSession(sessionID))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, AdminPath, w.Header().Get("Location"))
}

// A stale or forged hint cookie must not steer /redirect; only the resolved
// role decides.
func TestRedirectIgnoresHintCookie(t *testing.T) {
	f := newRouterFixture(t)
	sessionID := f.signIn(t, "u1", domainauth.RoleStudent)

	w := f.get("/redirect", asBrowser, withSession(sessionID), withRoleHint("ministry_admin"))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, StudentPath, w.Header().Get("Location"))

	// The hint cookie is corrected to the resolved role.
	hintCookie := cookieByName(t, w, RoleHintCookieName)
	require.NotNil(t, hintCookie)
	assert.Equal(t, "student", hintCookie.Value)
}

func TestSignedOutEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	w := f.get("/auth/signed-out?redirect_uri=%2Fstudent-dashboard")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "signed_out", resp["status"])
	assert.Equal(t, StudentPath, resp["redirect_to"])

	// Absolute URLs are rejected.
	w = f.get("/auth/signed-out?redirect_uri=https%3A%2F%2Fevil.example.com")
	var resp2 map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp2))
	assert.Equal(t, "/", resp2["redirect_to"])
}

func TestWatchStreamsAuthState(t *testing.T) {
	f := newRouterFixture(t)
	sessionID := f.signIn(t, "u1", domainauth.RoleStudent)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/auth/watch", nil).WithContext(ctx)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.handler.ServeHTTP(w, req)
	}()

	// Let the initial resolution land, then end the stream.
	time.Sleep(200 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch handler did not terminate on disconnect")
	}

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "event: auth_state")
	assert.Contains(t, body, `"status":"authenticated"`)
	assert.Contains(t, body, `"role":"student"`)
}
